package handlers

import (
	"backend/models"
	"backend/storage"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetSettings godoc
// @Summary      Get application settings
// @Tags         settings
// @Success      200  {object}  models.AppSettings
// @Router       /api/settings [get]
func GetSettings(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := storage.LoadAppSettings(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// UpdateSettings godoc
// @Summary      Update application settings
// @Description  Upserts the single settings row. Changed pricing defaults only affect new quotations.
// @Tags         settings
// @Accept       json
// @Param        body  body  models.AppSettings  true  "Settings"
// @Success      200  {object}  models.AppSettings
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/settings [put]
func UpdateSettings(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var settings models.AppSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if settings.DefaultGSTPercent < 0 || settings.DefaultGSTPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "default_gst_percent must be between 0 and 100"})
			return
		}
		if settings.DefaultDiscountPercent < 0 || settings.DefaultDiscountPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "default_discount_percent must be between 0 and 100"})
			return
		}
		if settings.QuoteValidityDays <= 0 {
			settings.QuoteValidityDays = 30
		}
		if settings.QuoteTemplate == "" {
			settings.QuoteTemplate = "standard"
		}
		settings.ID = 1

		_, err = db.Exec(`
			INSERT INTO app_settings (id, default_gst_percent, default_discount_percent, required_accessories,
			                          company_name, company_address, company_gst_number, company_phone,
			                          upi_id, quote_template, email_template, quote_validity_days, updated_at)
			VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
			ON CONFLICT (id) DO UPDATE SET
				default_gst_percent = $1, default_discount_percent = $2, required_accessories = $3,
				company_name = $4, company_address = $5, company_gst_number = $6, company_phone = $7,
				upi_id = $8, quote_template = $9, email_template = $10, quote_validity_days = $11,
				updated_at = NOW()`,
			settings.DefaultGSTPercent, settings.DefaultDiscountPercent, settings.RequiredAccessories,
			settings.CompanyName, settings.CompanyAddress, settings.CompanyGSTNumber, settings.CompanyPhone,
			settings.UPIID, settings.QuoteTemplate, settings.EmailTemplate, settings.QuoteValidityDays)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, settings)

		log := models.ActivityLog{
			EventContext: "Settings",
			EventName:    "Update",
			Description:  "Updated application settings",
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}
