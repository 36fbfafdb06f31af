package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"backend/models"
	"backend/pricing"
	"backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateQuotationPDF godoc
// @Summary      Generate quotation PDF
// @Tags         quotations
// @Param        id  path  int  true  "Quotation ID"
// @Success      200  "PDF file"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/pdf [get]
func GenerateQuotationPDF(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		titleCaser := cases.Title(language.Und)

		q, err := storage.LoadQuotation(c.Request.Context(), db, id)
		if err != nil {
			if errors.Is(err, storage.ErrQuotationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var customer models.Customer
		err = db.QueryRow(`
			SELECT name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''),
			       COALESCE(city, ''), COALESCE(gst_number, '')
			FROM customers WHERE id = $1`, q.CustomerID).Scan(
			&customer.Name, &customer.Email, &customer.Phone, &customer.Address,
			&customer.City, &customer.GSTNumber)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}

		totals := pricing.Calculate(q.PricingInput())
		roomTotals := map[int]pricing.RoomTotals{}
		for _, rt := range totals.Rooms {
			roomTotals[rt.RoomID] = rt
		}

		// --- Generate PDF ---
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetMargins(10, 10, 10)

		// --- Header ---
		pdf.SetFont("Arial", "B", 18)
		pdf.Cell(130, 10, "QUOTATION")
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(60, 10, settings.CompanyName, "", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		if settings.CompanyAddress != "" {
			pdf.CellFormat(190, 5, settings.CompanyAddress, "", 1, "R", false, 0, "")
		}
		if settings.CompanyGSTNumber != "" {
			pdf.CellFormat(190, 5, "GSTIN: "+settings.CompanyGSTNumber, "", 1, "R", false, 0, "")
		}
		if settings.CompanyPhone != "" {
			pdf.CellFormat(190, 5, "Phone: "+settings.CompanyPhone, "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)

		// --- Customer block ---
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(95, 6, "To:")
		pdf.Cell(95, 6, fmt.Sprintf("Quotation No: %s", q.QuotationNumber))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(95, 6, customer.Name)
		pdf.Cell(95, 6, fmt.Sprintf("Date: %s", q.CreatedAt.Format("02-Jan-2006")))
		pdf.Ln(6)
		addressLine := customer.Address
		if customer.City != "" {
			if addressLine != "" {
				addressLine += ", "
			}
			addressLine += customer.City
		}
		pdf.Cell(95, 6, addressLine)
		if q.ValidUntil != nil {
			pdf.Cell(95, 6, fmt.Sprintf("Valid Until: %s", q.ValidUntil.Format("02-Jan-2006")))
		}
		pdf.Ln(6)
		if customer.GSTNumber != "" {
			pdf.Cell(95, 6, "GSTIN: "+customer.GSTNumber)
		}
		pdf.Cell(95, 6, fmt.Sprintf("Status: %s", titleCaser.String(q.Status)))
		pdf.Ln(10)

		// --- Per-room tables ---
		for _, room := range q.Rooms {
			rt := roomTotals[room.ID]

			pdf.SetFont("Arial", "B", 12)
			pdf.SetFillColor(230, 230, 230)
			pdf.CellFormat(190, 8, titleCaser.String(room.Name), "1", 1, "L", true, 0, "")

			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(245, 245, 245)
			pdf.CellFormat(70, 7, "Item", "1", 0, "L", true, 0, "")
			pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 7, "Price", "1", 0, "C", true, 0, "")
			pdf.CellFormat(25, 7, "Disc (%)", "1", 0, "C", true, 0, "")
			pdf.CellFormat(40, 7, "Amount", "1", 1, "C", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			for _, p := range room.Products {
				line := pricing.LineItem{SellingPrice: p.SellingPrice, DiscountPercent: p.DiscountPercent, Quantity: p.Quantity}
				pdf.CellFormat(70, 6, p.Name, "1", 0, "L", false, 0, "")
				pdf.CellFormat(20, 6, fmt.Sprintf("%.0f", p.Quantity), "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 6, pricing.FormatINR(p.SellingPrice), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%.1f", p.DiscountPercent), "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, pricing.FormatINR(pricing.RoundPaise(pricing.LineTotal(line))), "1", 1, "R", false, 0, "")
			}
			for _, a := range room.Accessories {
				line := pricing.LineItem{SellingPrice: a.SellingPrice, DiscountPercent: a.DiscountPercent, Quantity: a.Quantity}
				pdf.CellFormat(70, 6, a.Name+" (accessory)", "1", 0, "L", false, 0, "")
				pdf.CellFormat(20, 6, fmt.Sprintf("%.0f", a.Quantity), "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 6, pricing.FormatINR(a.SellingPrice), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, fmt.Sprintf("%.1f", a.DiscountPercent), "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, pricing.FormatINR(pricing.RoundPaise(pricing.LineTotal(line))), "1", 1, "R", false, 0, "")
			}
			for _, ic := range room.InstallationCharges {
				pic := pricing.InstallationCharge{WidthMM: ic.WidthMM, HeightMM: ic.HeightMM,
					AreaSqft: ic.AreaSqft, PricePerSqft: ic.PricePerSqft, Amount: ic.Amount}
				area := pricing.InstallationArea(pic)
				pdf.CellFormat(70, 6, "Installation: "+ic.CabinetType, "1", 0, "L", false, 0, "")
				pdf.CellFormat(20, 6, "-", "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 6, fmt.Sprintf("%.2f sqft", area), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 6, "-", "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 6, pricing.FormatINR(pricing.InstallationAmount(pic)), "1", 1, "R", false, 0, "")
			}

			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(150, 7, "Room Total", "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, pricing.FormatINR(rt.DiscountedPrice+rt.InstallationTotal), "1", 1, "R", false, 0, "")
			pdf.Ln(4)
		}

		// --- Totals block ---
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(150, 8, "Subtotal")
		pdf.CellFormat(40, 8, pricing.FormatINR(totals.Subtotal), "1", 1, "R", false, 0, "")
		if q.GlobalDiscountPercent > 0 {
			pdf.Cell(150, 8, fmt.Sprintf("Discount (%.1f%%)", q.GlobalDiscountPercent))
			pdf.CellFormat(40, 8, "- "+pricing.FormatINR(totals.GlobalDiscountAmount), "1", 1, "R", false, 0, "")
		}
		if totals.TotalInstallationCharges > 0 {
			// Handling is already folded into TotalInstallationCharges.
			pdf.Cell(150, 8, "Installation & Handling")
			pdf.CellFormat(40, 8, pricing.FormatINR(totals.TotalInstallationCharges), "1", 1, "R", false, 0, "")
		}
		pdf.Cell(150, 8, fmt.Sprintf("GST (%.1f%%)", q.GSTPercent))
		pdf.CellFormat(40, 8, pricing.FormatINR(totals.GSTAmount), "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(150, 9, "Grand Total")
		pdf.CellFormat(40, 9, pricing.FormatINR(totals.FinalPrice), "1", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, "Amount in words: "+pricing.AmountInWords(totals.FinalPrice), "", "L", false)
		pdf.Ln(4)

		// --- UPI QR ---
		if settings.UPIID != "" {
			upiURI := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&tn=%s",
				url.QueryEscape(settings.UPIID), url.QueryEscape(settings.CompanyName),
				totals.FinalPrice, url.QueryEscape(q.QuotationNumber))
			png, err := qrcode.Encode(upiURI, qrcode.Medium, 256)
			if err == nil {
				opts := gofpdf.ImageOptions{ImageType: "PNG"}
				pdf.RegisterImageOptionsReader("upi-qr", opts, bytes.NewReader(png))
				pdf.ImageOptions("upi-qr", 10, pdf.GetY(), 35, 35, false, opts, 0, "")
				pdf.SetXY(50, pdf.GetY()+12)
				pdf.SetFont("Arial", "", 9)
				pdf.Cell(140, 5, "Scan to pay via UPI: "+settings.UPIID)
				pdf.SetY(pdf.GetY() + 25)
			}
		}

		// --- Footer ---
		pdf.SetY(-20)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(190, 6, "This is a computer-generated quotation. No signature required.")
		pdf.Ln(5)
		pdf.Cell(190, 6, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"))

		// --- Output PDF ---
		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quotation_%s.pdf", q.QuotationNumber))
		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
	}
}
