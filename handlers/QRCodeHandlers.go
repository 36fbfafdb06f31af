package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"net/url"
	"strconv"

	"backend/pricing"
	"backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel adds text to an image at the specified position with larger font
func addLabel(img *image.RGBA, x, y int, label string, fontSize float64) {
	col := color.RGBA{0, 0, 0, 255}

	// Use inconsolata font which is larger and more readable
	face := inconsolata.Regular8x16
	if fontSize > 16 {
		// Scale the font for larger sizes
		face = inconsolata.Bold8x16
	}

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// addLabelBold adds bold text with larger font for labels
func addLabelBold(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{30, 30, 30, 255} // Darker color for labels
	face := inconsolata.Bold8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// truncateLabel shortens long values so they fit the fixed-width label area.
func truncateLabel(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// GeneratePaymentQRCode godoc
// @Summary      Generate UPI payment QR code as JPEG
// @Description  Encodes a upi://pay URI for the quotation's final price using the configured UPI ID, with quotation details printed below the code.
// @Tags         qr
// @Param        id   path      int  true  "Quotation ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotations/{id}/payment-qr [get]
func GeneratePaymentQRCode(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
			return
		}

		var quotationNumber, status string
		var finalPrice float64
		var customerID int
		err = db.QueryRow(`
			SELECT quotation_number, status, final_price, customer_id
			FROM quotations WHERE id = $1`, id).Scan(
			&quotationNumber, &status, &finalPrice, &customerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var customerName sql.NullString
		err = db.QueryRow(`SELECT name FROM customers WHERE id = $1`, customerID).Scan(&customerName)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}
		if settings.UPIID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "UPI ID is not configured in settings"})
			return
		}

		upiURI := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR&tn=%s",
			url.QueryEscape(settings.UPIID), url.QueryEscape(settings.CompanyName),
			finalPrice, url.QueryEscape(quotationNumber))

		qr, err := qrcode.New(upiURI, qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}

		qrImg := qr.Image(512)

		// Calculate dimensions for the combined image
		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 4*lineHeight + padding // Space for 4 lines of text
		totalHeight := qrSize + padding + textAreaHeight

		// Create a new RGBA image with white background
		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

		// Draw QR code at the top
		qrRect := image.Rect(0, 0, qrSize, qrSize)
		draw.Draw(combinedImg, qrRect, qrImg, image.Point{}, draw.Src)

		// Draw a subtle separator line between QR code and text
		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		customerDisplay := "N/A"
		if customerName.Valid {
			customerDisplay = truncateLabel(customerName.String, 30)
		}

		addLabelBold(combinedImg, xPos, startY, "Quotation:")
		addLabel(combinedImg, xPos+120, startY, quotationNumber, 16)

		addLabelBold(combinedImg, xPos, startY+lineHeight, "Customer:")
		addLabel(combinedImg, xPos+120, startY+lineHeight, customerDisplay, 16)

		addLabelBold(combinedImg, xPos, startY+2*lineHeight, "Amount:")
		addLabel(combinedImg, xPos+120, startY+2*lineHeight, "Rs. "+pricing.FormatINR(finalPrice), 16)

		addLabelBold(combinedImg, xPos, startY+3*lineHeight, "Pay To:")
		addLabel(combinedImg, xPos+120, startY+3*lineHeight, truncateLabel(settings.UPIID, 35), 16)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
