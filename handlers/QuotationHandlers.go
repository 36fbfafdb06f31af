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

// generateQuotationNumber produces the next number in the QT-YYYY-NNNN
// sequence. The sequence restarts every year.
func generateQuotationNumber(db *sql.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("QT-%d-", year)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM quotations WHERE quotation_number LIKE $1", prefix+"%").Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// recomputeQuotationTotals reloads the quotation tree, runs the pricing
// calculator and writes the denormalized totals back. Every mutation of
// the room tree or the pricing knobs goes through here.
func recomputeQuotationTotals(c *gin.Context, db *sql.DB, quotationID int) (*pricing.Totals, error) {
	q, err := storage.LoadQuotation(c.Request.Context(), db, quotationID)
	if err != nil {
		return nil, err
	}

	totals := pricing.Calculate(q.PricingInput())

	// Same meaning as the room cache: selling price is pre-discount.
	var totalSelling float64
	for _, rt := range totals.Rooms {
		totalSelling += rt.SellingPrice
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE quotations
		SET total_selling_price = $1, total_discounted_price = $2,
		    gst_amount = $3, final_price = $4, updated_at = NOW()
		WHERE id = $5`,
		pricing.RoundPaise(totalSelling), totals.AfterGlobalDiscount, totals.GSTAmount, totals.FinalPrice, quotationID)
	if err != nil {
		return nil, err
	}

	for _, rt := range totals.Rooms {
		_, err = tx.Exec(`
			UPDATE rooms SET selling_price = $1, discounted_price = $2 WHERE id = $3`,
			rt.SellingPrice, rt.DiscountedPrice, rt.RoomID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &totals, nil
}

// quotationIsEditable rejects mutations on invoiced or expired quotations.
func quotationIsEditable(db *sql.DB, quotationID int) (bool, string, error) {
	var status string
	err := db.QueryRow("SELECT status FROM quotations WHERE id = $1", quotationID).Scan(&status)
	if err != nil {
		return false, "", err
	}
	editable := status == models.QuotationStatusDraft || status == models.QuotationStatusSaved
	return editable, status, nil
}

// CreateQuotation godoc
// @Summary      Create quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "customer_id, optional pricing knobs"
// @Success      201   {object}  models.Quotation
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/quotations [post]
func CreateQuotation(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var input struct {
			CustomerID                 int      `json:"customer_id" binding:"required"`
			GlobalDiscountPercent      *float64 `json:"global_discount_percent"`
			GSTPercent                 *float64 `json:"gst_percent"`
			InstallationHandlingAmount float64  `json:"installation_handling_amount"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var customerExists bool
		if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1 AND deleted_at IS NULL)", input.CustomerID).Scan(&customerExists); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !customerExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Customer not found"})
			return
		}

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}

		gstPercent := settings.DefaultGSTPercent
		if input.GSTPercent != nil {
			gstPercent = *input.GSTPercent
		}
		discountPercent := settings.DefaultDiscountPercent
		if input.GlobalDiscountPercent != nil {
			discountPercent = *input.GlobalDiscountPercent
		}

		number, err := generateQuotationNumber(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quotation number", "details": err.Error()})
			return
		}

		validUntil := time.Now().AddDate(0, 0, settings.QuoteValidityDays)

		var q models.Quotation
		err = db.QueryRow(`
			INSERT INTO quotations (quotation_number, customer_id, status, global_discount_percent,
			                        gst_percent, installation_handling_amount, valid_until,
			                        created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			number, input.CustomerID, models.QuotationStatusDraft, discountPercent,
			gstPercent, input.InstallationHandlingAmount, validUntil, session.UserID).
			Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quotation", "details": err.Error()})
			return
		}

		q.QuotationNumber = number
		q.CustomerID = input.CustomerID
		q.Status = models.QuotationStatusDraft
		q.GlobalDiscountPercent = discountPercent
		q.GSTPercent = gstPercent
		q.InstallationHandlingAmount = input.InstallationHandlingAmount
		q.ValidUntil = &validUntil
		q.CreatedBy = session.UserID

		c.JSON(http.StatusCreated, q)

		log := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Create",
			Description:  "Created quotation " + number,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetQuotations godoc
// @Summary      List quotations
// @Tags         quotations
// @Param        page         query  int     false  "Page"
// @Param        limit        query  int     false  "Limit"
// @Param        status       query  string  false  "Filter by status"
// @Param        customer_id  query  int     false  "Filter by customer"
// @Success      200  {object}  object
// @Router       /api/quotations [get]
func GetQuotations(db *sql.DB) gin.HandlerFunc {
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
		if status := c.Query("status"); status != "" {
			where += " AND q.status = $" + strconv.Itoa(argIndex)
			args = append(args, status)
			argIndex++
		}
		if customerID := c.Query("customer_id"); customerID != "" {
			id, err := strconv.Atoi(customerID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer_id"})
				return
			}
			where += " AND q.customer_id = $" + strconv.Itoa(argIndex)
			args = append(args, id)
			argIndex++
		}

		var totalRecords int
		if err := db.QueryRow("SELECT COUNT(*) FROM quotations q "+where, args...).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting quotations"})
			return
		}
		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))

		query := `
			SELECT q.id, q.quotation_number, q.customer_id, c.name, q.status,
			       q.global_discount_percent, q.gst_percent, q.installation_handling_amount,
			       q.total_selling_price, q.total_discounted_price, q.gst_amount, q.final_price,
			       q.valid_until, q.created_by, q.created_at, q.updated_at
			FROM quotations q
			JOIN customers c ON q.customer_id = c.id ` + where +
			" ORDER BY q.created_at DESC LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
		args = append(args, limit, offset)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying quotations"})
			return
		}
		defer rows.Close()

		var quotations []models.Quotation
		for rows.Next() {
			var q models.Quotation
			var validUntil sql.NullTime
			if err := rows.Scan(&q.ID, &q.QuotationNumber, &q.CustomerID, &q.CustomerName, &q.Status,
				&q.GlobalDiscountPercent, &q.GSTPercent, &q.InstallationHandlingAmount,
				&q.TotalSellingPrice, &q.TotalDiscountedPrice, &q.GSTAmount, &q.FinalPrice,
				&validUntil, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotations"})
				return
			}
			if validUntil.Valid {
				q.ValidUntil = &validUntil.Time
			}
			quotations = append(quotations, q)
		}

		c.JSON(http.StatusOK, gin.H{
			"quotations": quotations,
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

// GetQuotation godoc
// @Summary      Get quotation with full room tree and totals
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotations/{id} [get]
func GetQuotation(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		totals := pricing.Calculate(q.PricingInput())

		c.JSON(http.StatusOK, gin.H{
			"quotation": q,
			"totals":    totals,
			"amount_in_words": pricing.AmountInWords(totals.FinalPrice),
		})
	}
}

// UpdateQuotation godoc
// @Summary      Update quotation pricing knobs
// @Tags         quotations
// @Accept       json
// @Param        id    path  int     true  "Quotation ID"
// @Param        body  body  object  true  "Fields to update"
// @Success      200  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/quotations/{id} [put]
func UpdateQuotation(db *sql.DB) gin.HandlerFunc {
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

		editable, status, err := quotationIsEditable(db, id)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !editable {
			c.JSON(http.StatusConflict, gin.H{"error": "Quotation is " + status + " and cannot be edited"})
			return
		}

		var input struct {
			GlobalDiscountPercent      *float64   `json:"global_discount_percent"`
			GSTPercent                 *float64   `json:"gst_percent"`
			InstallationHandlingAmount *float64   `json:"installation_handling_amount"`
			ValidUntil                 *time.Time `json:"valid_until"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.GlobalDiscountPercent != nil && (*input.GlobalDiscountPercent < 0 || *input.GlobalDiscountPercent > 100) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "global_discount_percent must be between 0 and 100"})
			return
		}
		if input.GSTPercent != nil && *input.GSTPercent < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gst_percent must not be negative"})
			return
		}

		_, err = db.Exec(`
			UPDATE quotations
			SET global_discount_percent = COALESCE($1, global_discount_percent),
			    gst_percent = COALESCE($2, gst_percent),
			    installation_handling_amount = COALESCE($3, installation_handling_amount),
			    valid_until = COALESCE($4, valid_until),
			    updated_at = NOW()
			WHERE id = $5`,
			input.GlobalDiscountPercent, input.GSTPercent, input.InstallationHandlingAmount,
			input.ValidUntil, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		totals, err := recomputeQuotationTotals(c, db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quotation updated", "totals": totals})

		log := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Update",
			Description:  "Updated quotation " + strconv.Itoa(id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeleteQuotation godoc
// @Summary      Delete a draft quotation
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      200  {object}  object
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/quotations/{id} [delete]
func DeleteQuotation(db *sql.DB) gin.HandlerFunc {
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

		var status string
		if err := db.QueryRow("SELECT status FROM quotations WHERE id = $1", id).Scan(&status); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if status == models.QuotationStatusInvoiced {
			c.JSON(http.StatusConflict, gin.H{"error": "Invoiced quotations cannot be deleted"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer tx.Rollback()

		// Remove the room tree bottom-up
		for _, q := range []string{
			`DELETE FROM room_products WHERE room_id IN (SELECT id FROM rooms WHERE quotation_id = $1)`,
			`DELETE FROM room_accessories WHERE room_id IN (SELECT id FROM rooms WHERE quotation_id = $1)`,
			`DELETE FROM installation_charges WHERE room_id IN (SELECT id FROM rooms WHERE quotation_id = $1)`,
			`DELETE FROM rooms WHERE quotation_id = $1`,
			`DELETE FROM quotations WHERE id = $1`,
		} {
			if _, err := tx.Exec(q, id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})

		log := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Delete",
			Description:  "Deleted quotation " + strconv.Itoa(id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ValidateQuotation godoc
// @Summary      Run the completeness checklist on a quotation
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      200  {object}  pricing.ValidationResult
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/validate [post]
func ValidateQuotation(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}

		result := pricing.Validate(q.PricingInput(), settings.RequiredAccessories)
		c.JSON(http.StatusOK, result)
	}
}

// FinalizeQuotation godoc
// @Summary      Finalize a draft quotation (draft -> saved)
// @Description  Runs the validation checklist; failing checks block the transition.
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      200  {object}  object
// @Failure      409  {object}  models.ErrorResponse
// @Failure      422  {object}  pricing.ValidationResult
// @Router       /api/quotations/{id}/finalize [post]
func FinalizeQuotation(db *sql.DB, fcm *services.FCMService) gin.HandlerFunc {
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

		if q.Status == models.QuotationStatusInvoiced {
			c.JSON(http.StatusConflict, gin.H{"error": "Quotation is already invoiced"})
			return
		}

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}

		result := pricing.Validate(q.PricingInput(), settings.RequiredAccessories)
		if !result.IsValid {
			c.JSON(http.StatusUnprocessableEntity, result)
			return
		}

		totals, err := recomputeQuotationTotals(c, db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		if _, err := db.Exec("UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2",
			models.QuotationStatusSaved, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Quotation finalized",
			"status":   models.QuotationStatusSaved,
			"totals":   totals,
			"warnings": result.Warnings,
		})

		if fcm != nil {
			_ = fcm.SendNotificationToUser(c.Request.Context(), q.CreatedBy,
				"Quotation finalized",
				fmt.Sprintf("Quotation %s for %s is ready (%s)", q.QuotationNumber, q.CustomerName,
					pricing.FormatINR(totals.FinalPrice)),
				map[string]string{"quotation_id": strconv.Itoa(id), "action": "/quotations/" + strconv.Itoa(id)})
		}

		log := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Finalize",
			Description:  "Finalized quotation " + q.QuotationNumber,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// DuplicateQuotation godoc
// @Summary      Duplicate a quotation into a new draft
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      201  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/duplicate [post]
func DuplicateQuotation(db *sql.DB) gin.HandlerFunc {
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

		src, err := storage.LoadQuotation(c.Request.Context(), db, id)
		if err != nil {
			if errors.Is(err, storage.ErrQuotationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}

		number, err := generateQuotationNumber(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quotation number", "details": err.Error()})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer tx.Rollback()

		validUntil := time.Now().AddDate(0, 0, settings.QuoteValidityDays)
		var newID int
		err = tx.QueryRow(`
			INSERT INTO quotations (quotation_number, customer_id, status, global_discount_percent,
			                        gst_percent, installation_handling_amount, valid_until,
			                        created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING id`,
			number, src.CustomerID, models.QuotationStatusDraft, src.GlobalDiscountPercent,
			src.GSTPercent, src.InstallationHandlingAmount, validUntil, session.UserID).Scan(&newID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		for _, room := range src.Rooms {
			var newRoomID int
			err = tx.QueryRow(`
				INSERT INTO rooms (quotation_id, name, position) VALUES ($1, $2, $3) RETURNING id`,
				newID, room.Name, room.Position).Scan(&newRoomID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			for _, p := range room.Products {
				if _, err := tx.Exec(`
					INSERT INTO room_products (room_id, name, description, selling_price, discount_percent, quantity, position)
					VALUES ($1, $2, $3, $4, $5, $6, $7)`,
					newRoomID, p.Name, p.Description, p.SellingPrice, p.DiscountPercent, p.Quantity, p.Position); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			for _, a := range room.Accessories {
				if _, err := tx.Exec(`
					INSERT INTO room_accessories (room_id, name, category, selling_price, discount_percent, quantity)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					newRoomID, a.Name, a.Category, a.SellingPrice, a.DiscountPercent, a.Quantity); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			for _, ic := range room.InstallationCharges {
				if _, err := tx.Exec(`
					INSERT INTO installation_charges (room_id, cabinet_type, width_mm, height_mm, area_sqft, price_per_sqft, amount)
					VALUES ($1, $2, $3, $4, $5, $6, $7)`,
					newRoomID, ic.CabinetType, ic.WidthMM, ic.HeightMM, ic.AreaSqft, ic.PricePerSqft, ic.Amount); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if _, err := recomputeQuotationTotals(c, db, newID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute totals", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":          "Quotation duplicated",
			"id":               newID,
			"quotation_number": number,
		})

		log := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Duplicate",
			Description:  "Duplicated quotation " + src.QuotationNumber + " as " + number,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// SendQuotationEmail godoc
// @Summary      Email a quotation summary to the customer
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      200  {object}  utils.Response
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/send-email [post]
func SendQuotationEmail(db *sql.DB, emailService *services.EmailService) gin.HandlerFunc {
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

		var customerEmail string
		if err := db.QueryRow("SELECT COALESCE(email, '') FROM customers WHERE id = $1", q.CustomerID).Scan(&customerEmail); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if customerEmail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Customer has no email address"})
			return
		}

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}

		totals := pricing.Calculate(q.PricingInput())

		validUntil := ""
		if q.ValidUntil != nil {
			validUntil = q.ValidUntil.Format("02-Jan-2006")
		}

		emailData := models.EmailData{
			CustomerName:    q.CustomerName,
			QuotationNumber: q.QuotationNumber,
			FinalPrice:      pricing.FormatINR(totals.FinalPrice),
			AmountInWords:   pricing.AmountInWords(totals.FinalPrice),
			ValidUntil:      validUntil,
			CompanyName:     settings.CompanyName,
		}

		if err := emailService.SendQuotationEmail(customerEmail, settings.EmailTemplate, emailData); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quotation email sent", "to": customerEmail})

		log := models.ActivityLog{
			EventContext: "Quotation",
			EventName:    "Email",
			Description:  "Emailed quotation " + q.QuotationNumber + " to " + customerEmail,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}
