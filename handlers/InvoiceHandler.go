package handlers

import (
	"backend/models"
	"backend/pricing"
	"backend/services"
	"backend/storage"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func generateInvoiceNumber(db *sql.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INV-%d-", year)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM invoices WHERE invoice_number LIKE $1", prefix+"%").Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// paymentStatusFor derives the invoice payment status from the recorded
// total. Small float residue below a paisa counts as fully paid.
func paymentStatusFor(totalPaid, finalPrice float64) string {
	switch {
	case totalPaid <= 0:
		return models.PaymentStatusUnpaid
	case totalPaid >= finalPrice-0.01:
		return models.PaymentStatusFullyPaid
	default:
		return models.PaymentStatusPartialPaid
	}
}

// ConvertQuotationToInvoice godoc
// @Summary      Convert a saved quotation into an invoice
// @Description  Snapshots the quotation totals; the quotation is frozen afterwards.
// @Tags         invoices
// @Param        id  path  int  true  "Quotation ID"
// @Success      201  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/convert-to-invoice [post]
func ConvertQuotationToInvoice(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		q, err := storage.LoadQuotation(c.Request.Context(), db, id)
		if err != nil {
			if errors.Is(err, storage.ErrQuotationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if q.Status != models.QuotationStatusSaved {
			c.JSON(http.StatusConflict, gin.H{"error": "Only saved quotations can be converted to invoices", "status": q.Status})
			return
		}

		totals := pricing.Calculate(q.PricingInput())

		number, err := generateInvoiceNumber(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice number", "details": err.Error()})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer tx.Rollback()

		var invoiceID int
		err = tx.QueryRow(`
			INSERT INTO invoices (invoice_number, quotation_id, customer_id, total_discounted_price,
			                      gst_amount, final_price, total_paid, payment_status,
			                      created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, NOW(), NOW())
			RETURNING id`,
			number, q.ID, q.CustomerID, totals.AfterGlobalDiscount,
			totals.GSTAmount, totals.FinalPrice, models.PaymentStatusUnpaid, session.UserID).Scan(&invoiceID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice", "details": err.Error()})
			return
		}

		if _, err := tx.Exec("UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2",
			models.QuotationStatusInvoiced, q.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        "Invoice created",
			"id":             invoiceID,
			"invoice_number": number,
			"final_price":    totals.FinalPrice,
		})

		log := models.ActivityLog{
			EventContext: "Invoice",
			EventName:    "Create",
			Description:  "Converted quotation " + q.QuotationNumber + " to invoice " + number,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetInvoices godoc
// @Summary      List invoices
// @Tags         invoices
// @Param        page            query  int     false  "Page"
// @Param        limit           query  int     false  "Limit"
// @Param        payment_status  query  string  false  "Filter by payment status"
// @Success      200  {object}  object
// @Router       /api/invoices [get]
func GetInvoices(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 20
		}
		offset := (page - 1) * limit

		where := "WHERE 1=1"
		args := []interface{}{}
		argIndex := 1
		if status := c.Query("payment_status"); status != "" {
			where += " AND i.payment_status = $" + strconv.Itoa(argIndex)
			args = append(args, status)
			argIndex++
		}

		var totalRecords int
		if err := db.QueryRow("SELECT COUNT(*) FROM invoices i "+where, args...).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting invoices"})
			return
		}
		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))

		query := `
			SELECT i.id, i.invoice_number, i.quotation_id, i.customer_id, c.name,
			       i.total_discounted_price, i.gst_amount, i.final_price, i.total_paid,
			       i.payment_status, i.created_by, i.created_at, i.updated_at
			FROM invoices i
			JOIN customers c ON i.customer_id = c.id ` + where +
			" ORDER BY i.created_at DESC LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
		args = append(args, limit, offset)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying invoices"})
			return
		}
		defer rows.Close()

		var invoices []models.Invoice
		for rows.Next() {
			var inv models.Invoice
			if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.QuotationID, &inv.CustomerID, &inv.CustomerName,
				&inv.TotalDiscountedPrice, &inv.GSTAmount, &inv.FinalPrice, &inv.TotalPaid,
				&inv.PaymentStatus, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning invoices"})
				return
			}
			invoices = append(invoices, inv)
		}

		c.JSON(http.StatusOK, gin.H{
			"invoices": invoices,
			"pagination": gin.H{
				"current_page":  page,
				"page_size":     limit,
				"total_records": totalRecords,
				"total_pages":   totalPages,
				"has_next":      page < totalPages,
				"has_prev":      page > 1,
			},
		})
	}
}

// GetInvoice godoc
// @Summary      Get an invoice with its payments
// @Tags         invoices
// @Param        id  path  int  true  "Invoice ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/invoices/{id} [get]
func GetInvoice(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
			return
		}

		var inv models.Invoice
		err = db.QueryRow(`
			SELECT i.id, i.invoice_number, i.quotation_id, i.customer_id, c.name,
			       i.total_discounted_price, i.gst_amount, i.final_price, i.total_paid,
			       i.payment_status, i.created_by, i.created_at, i.updated_at
			FROM invoices i
			JOIN customers c ON i.customer_id = c.id
			WHERE i.id = $1`, id).Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.QuotationID, &inv.CustomerID, &inv.CustomerName,
			&inv.TotalDiscountedPrice, &inv.GSTAmount, &inv.FinalPrice, &inv.TotalPaid,
			&inv.PaymentStatus, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rows, err := db.Query(`
			SELECT id, invoice_id, COALESCE(utr_number, ''), amount_paid, payment_date,
			       payment_mode, COALESCE(remarks, ''), recorded_by, created_at
			FROM invoice_payments WHERE invoice_id = $1 ORDER BY payment_date, id`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		for rows.Next() {
			var p models.InvoicePayment
			if err := rows.Scan(&p.ID, &p.InvoiceID, &p.UTRNumber, &p.AmountPaid, &p.PaymentDate,
				&p.PaymentMode, &p.Remarks, &p.RecordedBy, &p.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			inv.Payments = append(inv.Payments, p)
		}

		c.JSON(http.StatusOK, gin.H{
			"invoice":         inv,
			"balance_due":     pricing.RoundPaise(inv.FinalPrice - inv.TotalPaid),
			"amount_in_words": pricing.AmountInWords(inv.FinalPrice),
		})
	}
}

// RecordPayment godoc
// @Summary      Record a payment against an invoice
// @Tags         invoices
// @Accept       json
// @Param        id    path  int                    true  "Invoice ID"
// @Param        body  body  models.InvoicePayment  true  "Payment"
// @Success      201  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func RecordPayment(db *sql.DB, fcm *services.FCMService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
			return
		}

		var payment models.InvoicePayment
		if err := c.ShouldBindJSON(&payment); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if payment.AmountPaid <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount_paid must be positive"})
			return
		}
		switch payment.PaymentMode {
		case "upi", "bank_transfer", "cheque", "cash":
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_mode must be one of upi, bank_transfer, cheque, cash"})
			return
		}
		if payment.PaymentDate.IsZero() {
			payment.PaymentDate = time.Now()
		}

		var invoiceNumber string
		var finalPrice, totalPaid float64
		var createdBy int
		err = db.QueryRow(`
			SELECT invoice_number, final_price, total_paid, created_by FROM invoices WHERE id = $1`, id).
			Scan(&invoiceNumber, &finalPrice, &totalPaid, &createdBy)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		balance := pricing.RoundPaise(finalPrice - totalPaid)
		if payment.AmountPaid > balance+0.01 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Payment exceeds balance due",
				"balance_due": balance,
			})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer tx.Rollback()

		err = tx.QueryRow(`
			INSERT INTO invoice_payments (invoice_id, utr_number, amount_paid, payment_date, payment_mode, remarks, recorded_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id`,
			id, payment.UTRNumber, payment.AmountPaid, payment.PaymentDate,
			payment.PaymentMode, payment.Remarks, session.UserID).Scan(&payment.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment", "details": err.Error()})
			return
		}

		newTotalPaid := pricing.RoundPaise(totalPaid + payment.AmountPaid)
		newStatus := paymentStatusFor(newTotalPaid, finalPrice)

		if _, err := tx.Exec(`
			UPDATE invoices SET total_paid = $1, payment_status = $2, updated_at = NOW() WHERE id = $3`,
			newTotalPaid, newStatus, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":        "Payment recorded",
			"payment_id":     payment.ID,
			"total_paid":     newTotalPaid,
			"balance_due":    pricing.RoundPaise(finalPrice - newTotalPaid),
			"payment_status": newStatus,
		})

		if fcm != nil {
			_ = fcm.SendNotificationToUser(c.Request.Context(), createdBy,
				"Payment received",
				fmt.Sprintf("%s received against invoice %s", pricing.FormatINR(payment.AmountPaid), invoiceNumber),
				map[string]string{"invoice_id": strconv.Itoa(id), "action": "/invoices/" + strconv.Itoa(id)})
		}

		log := models.ActivityLog{
			EventContext: "Invoice",
			EventName:    "Payment",
			Description:  "Recorded payment of " + pricing.FormatINR(payment.AmountPaid) + " on invoice " + invoiceNumber,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetLedger godoc
// @Summary      Payment ledger across invoices
// @Tags         invoices
// @Param        customer_id  query  int  false  "Filter by customer"
// @Success      200  {array}  models.LedgerEntry
// @Router       /api/ledger [get]
func GetLedger(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		where := ""
		args := []interface{}{}
		if customerID := c.Query("customer_id"); customerID != "" {
			id, err := strconv.Atoi(customerID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer_id"})
				return
			}
			where = " WHERE i.customer_id = $1"
			args = append(args, id)
		}

		rows, err := db.Query(`
			SELECT i.id, i.invoice_number, c.name, COALESCE(p.utr_number, ''),
			       p.amount_paid, p.payment_date, p.payment_mode, i.final_price
			FROM invoice_payments p
			JOIN invoices i ON p.invoice_id = i.id
			JOIN customers c ON i.customer_id = c.id`+where+`
			ORDER BY p.payment_date, p.id`, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		// Running balance per invoice
		paidSoFar := map[int]float64{}
		var entries []models.LedgerEntry
		for rows.Next() {
			var e models.LedgerEntry
			var finalPrice float64
			if err := rows.Scan(&e.InvoiceID, &e.InvoiceNumber, &e.CustomerName, &e.UTRNumber,
				&e.AmountPaid, &e.PaymentDate, &e.PaymentMode, &finalPrice); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			paidSoFar[e.InvoiceID] += e.AmountPaid
			e.Balance = pricing.RoundPaise(finalPrice - paidSoFar[e.InvoiceID])
			entries = append(entries, e)
		}

		c.JSON(http.StatusOK, entries)
	}
}
