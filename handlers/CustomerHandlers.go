package handlers

import (
	"backend/models"
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateCustomer godoc
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      models.Customer  true  "Customer"
// @Success      201   {object}  models.Customer
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/customers [post]
func CreateCustomer(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var customer models.Customer
		if err := c.ShouldBindJSON(&customer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if customer.Stage == "" {
			customer.Stage = "lead"
		}

		err = db.QueryRow(`
			INSERT INTO customers (name, email, phone, address, city, gst_number, stage, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			customer.Name, customer.Email, customer.Phone, customer.Address, customer.City,
			customer.GSTNumber, customer.Stage, session.UserID).
			Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer", "details": err.Error()})
			return
		}
		customer.CreatedBy = session.UserID

		c.JSON(http.StatusCreated, customer)

		log := models.ActivityLog{
			EventContext: "Customer",
			EventName:    "Create",
			Description:  "Created customer " + customer.Name,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Param        page   query  int     false  "Page"
// @Param        limit  query  int     false  "Limit"
// @Param        stage  query  string  false  "Filter by stage"
// @Param        q      query  string  false  "Search by name/phone/email"
// @Success      200    {object}  object
// @Router       /api/customers [get]
func GetCustomers(db *sql.DB) gin.HandlerFunc {
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

		stage := c.Query("stage")
		search := c.Query("q")

		where := "WHERE deleted_at IS NULL"
		args := []interface{}{}
		argIndex := 1
		if stage != "" {
			where += " AND stage = $" + strconv.Itoa(argIndex)
			args = append(args, stage)
			argIndex++
		}
		if search != "" {
			where += " AND (name ILIKE $" + strconv.Itoa(argIndex) +
				" OR phone ILIKE $" + strconv.Itoa(argIndex) +
				" OR email ILIKE $" + strconv.Itoa(argIndex) + ")"
			args = append(args, "%"+search+"%")
			argIndex++
		}

		var totalRecords int
		if err := db.QueryRow("SELECT COUNT(*) FROM customers "+where, args...).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting customers"})
			return
		}

		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))

		query := `
			SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''),
			       COALESCE(city, ''), COALESCE(gst_number, ''), stage, created_by, created_at, updated_at
			FROM customers ` + where +
			" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
		args = append(args, limit, offset)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying customers"})
			return
		}
		defer rows.Close()

		var customers []models.Customer
		for rows.Next() {
			var cu models.Customer
			if err := rows.Scan(&cu.ID, &cu.Name, &cu.Email, &cu.Phone, &cu.Address,
				&cu.City, &cu.GSTNumber, &cu.Stage, &cu.CreatedBy, &cu.CreatedAt, &cu.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning customers"})
				return
			}
			customers = append(customers, cu)
		}

		c.JSON(http.StatusOK, gin.H{
			"customers": customers,
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

// GetCustomer godoc
// @Summary      Get customer with quotation summary
// @Tags         customers
// @Param        id  path  int  true  "Customer ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/customers/{id} [get]
func GetCustomer(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}

		var cu models.Customer
		err = db.QueryRow(`
			SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''),
			       COALESCE(city, ''), COALESCE(gst_number, ''), stage, created_by, created_at, updated_at
			FROM customers WHERE id = $1 AND deleted_at IS NULL`, id).Scan(
			&cu.ID, &cu.Name, &cu.Email, &cu.Phone, &cu.Address,
			&cu.City, &cu.GSTNumber, &cu.Stage, &cu.CreatedBy, &cu.CreatedAt, &cu.UpdatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rows, err := db.Query(`
			SELECT id, quotation_number, status, final_price, created_at
			FROM quotations WHERE customer_id = $1
			ORDER BY created_at DESC`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		type quotationSummary struct {
			ID              int       `json:"id"`
			QuotationNumber string    `json:"quotation_number"`
			Status          string    `json:"status"`
			FinalPrice      float64   `json:"final_price"`
			CreatedAt       time.Time `json:"created_at"`
		}
		var quotations []quotationSummary
		for rows.Next() {
			var q quotationSummary
			if err := rows.Scan(&q.ID, &q.QuotationNumber, &q.Status, &q.FinalPrice, &q.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			quotations = append(quotations, q)
		}

		c.JSON(http.StatusOK, gin.H{
			"customer":   cu,
			"quotations": quotations,
		})
	}
}

// UpdateCustomer godoc
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Param        id    path  int              true  "Customer ID"
// @Param        body  body  models.Customer  true  "Customer"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/customers/{id} [put]
func UpdateCustomer(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}

		var customer models.Customer
		if err := c.ShouldBindJSON(&customer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := db.Exec(`
			UPDATE customers
			SET name = $1, email = $2, phone = $3, address = $4, city = $5,
			    gst_number = $6, stage = COALESCE(NULLIF($7, ''), stage), updated_at = NOW()
			WHERE id = $8 AND deleted_at IS NULL`,
			customer.Name, customer.Email, customer.Phone, customer.Address, customer.City,
			customer.GSTNumber, customer.Stage, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Customer updated"})

		log := models.ActivityLog{
			EventContext: "Customer",
			EventName:    "Update",
			Description:  "Updated customer " + customer.Name,
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeleteCustomer godoc
// @Summary      Delete customer (soft delete)
// @Tags         customers
// @Param        id  path  int  true  "Customer ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/customers/{id} [delete]
func DeleteCustomer(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}

		// A customer with invoices stays on the books
		var invoiceCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM invoices WHERE customer_id = $1", id).Scan(&invoiceCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if invoiceCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Customer has invoices and cannot be deleted"})
			return
		}

		result, err := db.Exec("UPDATE customers SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})

		log := models.ActivityLog{
			EventContext: "Customer",
			EventName:    "Delete",
			Description:  "Deleted customer " + strconv.Itoa(id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}
