package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"backend/pricing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportQuotationsExcel godoc
// @Summary      Export quotations register as Excel
// @Tags         export
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {file}  file  "Excel file"
// @Router       /api/export/quotations [get]
func ExportQuotationsExcel(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")

		query := `
			SELECT q.quotation_number, c.name, q.status, q.total_selling_price,
			       q.total_discounted_price, q.gst_amount, q.final_price,
			       q.valid_until, q.created_at
			FROM quotations q
			JOIN customers c ON q.customer_id = c.id
		`
		var args []interface{}
		if status != "" {
			query += ` WHERE q.status = $1`
			args = append(args, status)
		}
		query += ` ORDER BY q.created_at DESC`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching quotations"})
			return
		}
		defer rows.Close()

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error closing Excel file"})
			}
		}()

		sheetName := "Quotations"
		index, err := f.NewSheet(sheetName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headers := []string{
			"Quotation No", "Customer", "Status", "Selling Price",
			"After Discount", "GST Amount", "Final Price", "Valid Until", "Created At",
		}
		for i, col := range headers {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating cell name"})
				return
			}
			f.SetCellValue(sheetName, cell, col)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:   true,
				Size:   12,
				Family: "Arial",
				Color:  "#FFFFFF",
			},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{"#4472C4"},
				Pattern: 1,
			},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
			Border: []excelize.Border{
				{Type: "left", Color: "#000000", Style: 1},
				{Type: "top", Color: "#000000", Style: 1},
				{Type: "right", Color: "#000000", Style: 1},
				{Type: "bottom", Color: "#000000", Style: 1},
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating header style"})
			return
		}
		f.SetCellStyle(sheetName, "A1", "I1", headerStyle)
		f.SetRowHeight(sheetName, 1, 25)

		row := 2
		var totalFinal float64
		for rows.Next() {
			var quotationNumber, customerName, qStatus string
			var sellingPrice, discountedPrice, gstAmount, finalPrice float64
			var validUntil sql.NullTime
			var createdAt time.Time

			if err := rows.Scan(&quotationNumber, &customerName, &qStatus, &sellingPrice,
				&discountedPrice, &gstAmount, &finalPrice, &validUntil, &createdAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation data"})
				return
			}

			validUntilStr := ""
			if validUntil.Valid {
				validUntilStr = validUntil.Time.Format("2006-01-02")
			}

			values := []interface{}{
				quotationNumber, customerName, qStatus, sellingPrice,
				discountedPrice, gstAmount, finalPrice, validUntilStr,
				createdAt.Format("2006-01-02"),
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating cell name"})
					return
				}
				f.SetCellValue(sheetName, cell, v)
			}
			totalFinal += finalPrice
			row++
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating quotation data"})
			return
		}

		// Totals row
		totalStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 12, Family: "Arial"},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{"#D9E1F2"},
				Pattern: 1,
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating total style"})
			return
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total")
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), pricing.RoundPaise(totalFinal))
		startCell, _ := excelize.CoordinatesToCellName(1, row)
		endCell, _ := excelize.CoordinatesToCellName(len(headers), row)
		f.SetCellStyle(sheetName, startCell, endCell, totalStyle)

		for i := 1; i <= len(headers); i++ {
			col, err := excelize.ColumnNumberToName(i)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating column name"})
				return
			}
			f.SetColWidth(sheetName, col, col, 18)
		}

		filename := fmt.Sprintf("quotations_export_%s.xlsx", time.Now().Format("2006-01-02"))
		escaped := url.PathEscape(filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", filename, escaped))

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
			return
		}
	}
}

// ExportLedgerExcel godoc
// @Summary      Export payment ledger as Excel
// @Tags         export
// @Param        customer_id  query  int  false  "Filter by customer"
// @Success      200  {file}  file  "Excel file"
// @Router       /api/export/ledger [get]
func ExportLedgerExcel(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")

		query := `
			SELECT i.invoice_number, cu.name, i.final_price, i.total_paid,
			       i.payment_status, p.amount, p.payment_mode, p.reference_number, p.payment_date
			FROM invoices i
			JOIN customers cu ON i.customer_id = cu.id
			LEFT JOIN invoice_payments p ON p.invoice_id = i.id
		`
		var args []interface{}
		if customerID != "" {
			id, err := strconv.Atoi(customerID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
				return
			}
			query += ` WHERE i.customer_id = $1`
			args = append(args, id)
		}
		query += ` ORDER BY i.created_at, p.payment_date NULLS FIRST`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching ledger data"})
			return
		}
		defer rows.Close()

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error closing Excel file"})
			}
		}()

		sheetName := "Ledger"
		index, err := f.NewSheet(sheetName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headers := []string{
			"Invoice No", "Customer", "Invoice Amount", "Total Paid", "Payment Status",
			"Payment Amount", "Payment Mode", "Reference", "Payment Date",
		}
		for i, col := range headers {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating cell name"})
				return
			}
			f.SetCellValue(sheetName, cell, col)
		}

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:   true,
				Size:   12,
				Family: "Arial",
				Color:  "#FFFFFF",
			},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{"#70AD47"},
				Pattern: 1,
			},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
			Border: []excelize.Border{
				{Type: "left", Color: "#000000", Style: 1},
				{Type: "top", Color: "#000000", Style: 1},
				{Type: "right", Color: "#000000", Style: 1},
				{Type: "bottom", Color: "#000000", Style: 1},
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating header style"})
			return
		}
		f.SetCellStyle(sheetName, "A1", "I1", headerStyle)
		f.SetRowHeight(sheetName, 1, 25)

		row := 2
		for rows.Next() {
			var invoiceNumber, customerName, paymentStatus string
			var finalPrice, totalPaid float64
			var paymentAmount sql.NullFloat64
			var paymentMode, referenceNumber sql.NullString
			var paymentDate sql.NullTime

			if err := rows.Scan(&invoiceNumber, &customerName, &finalPrice, &totalPaid,
				&paymentStatus, &paymentAmount, &paymentMode, &referenceNumber, &paymentDate); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning ledger data"})
				return
			}

			paymentAmountVal := interface{}("")
			if paymentAmount.Valid {
				paymentAmountVal = paymentAmount.Float64
			}
			paymentDateStr := ""
			if paymentDate.Valid {
				paymentDateStr = paymentDate.Time.Format("2006-01-02")
			}

			values := []interface{}{
				invoiceNumber, customerName, finalPrice, totalPaid, paymentStatus,
				paymentAmountVal, getStringOrEmpty(paymentMode), getStringOrEmpty(referenceNumber), paymentDateStr,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating cell name"})
					return
				}
				f.SetCellValue(sheetName, cell, v)
			}
			row++
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating ledger data"})
			return
		}

		for i := 1; i <= len(headers); i++ {
			col, err := excelize.ColumnNumberToName(i)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating column name"})
				return
			}
			f.SetColWidth(sheetName, col, col, 18)
		}

		filename := fmt.Sprintf("ledger_export_%s.xlsx", time.Now().Format("2006-01-02"))
		escaped := url.PathEscape(filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", filename, escaped))

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
			return
		}
	}
}

// ExportCustomersCSV godoc
// @Summary      Export customers as CSV
// @Tags         export
// @Produce      text/csv
// @Param        stage  query  string  false  "Filter by stage"
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/customers [get]
func ExportCustomersCSV(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stage := c.Query("stage")

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment;filename=customers_export.csv")

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		header := []string{"Name", "Email", "Phone", "Address", "City", "GSTNumber", "Stage", "CreatedAt"}
		if err := writer.Write(header); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
			return
		}

		query := `
			SELECT name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''),
			       COALESCE(city, ''), COALESCE(gst_number, ''), stage, created_at
			FROM customers
			WHERE deleted_at IS NULL
		`
		var args []interface{}
		if stage != "" {
			query += ` AND stage = $1`
			args = append(args, stage)
		}
		query += ` ORDER BY name`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching customer data"})
			return
		}
		defer rows.Close()

		for rows.Next() {
			var name, email, phone, address, city, gstNumber, custStage string
			var createdAt time.Time
			if err := rows.Scan(&name, &email, &phone, &address, &city, &gstNumber, &custStage, &createdAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning customer data"})
				return
			}

			record := []string{name, email, phone, address, city, gstNumber, custStage, createdAt.Format("2006-01-02")}
			if err := writer.Write(record); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
				return
			}
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating customer data"})
			return
		}
	}
}
