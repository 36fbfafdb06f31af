package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"backend/pricing"

	"github.com/gin-gonic/gin"
)

// GetDashboard godoc
// @Summary      Get dashboard summary
// @Description  Aggregated counts and totals for the home screen: customers by stage, quotations by status, invoice collections and outstanding balance, monthly collection trend and recent activity.
// @Tags         dashboard
// @Success      200  {object}  object
// @Router       /api/dashboard [get]
func GetDashboard(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Customers grouped by pipeline stage
		customersByStage := gin.H{"lead": 0, "prospect": 0, "client": 0}
		rows, err := db.Query(`
			SELECT stage, COUNT(*) FROM customers
			WHERE deleted_at IS NULL
			GROUP BY stage`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching customer counts"})
			return
		}
		for rows.Next() {
			var stage string
			var count int
			if err := rows.Scan(&stage, &count); err != nil {
				rows.Close()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning customer counts"})
				return
			}
			customersByStage[stage] = count
		}
		rows.Close()

		// Quotations grouped by status
		quotationsByStatus := gin.H{"draft": 0, "saved": 0, "invoiced": 0, "expired": 0}
		var pipelineValue float64
		rows, err = db.Query(`
			SELECT status, COUNT(*), COALESCE(SUM(final_price), 0)
			FROM quotations
			GROUP BY status`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching quotation counts"})
			return
		}
		for rows.Next() {
			var status string
			var count int
			var sum float64
			if err := rows.Scan(&status, &count, &sum); err != nil {
				rows.Close()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quotation counts"})
				return
			}
			quotationsByStatus[status] = count
			if status == "draft" || status == "saved" {
				pipelineValue += sum
			}
		}
		rows.Close()

		// Invoice aggregates
		var invoiceCount int
		var totalInvoiced, totalCollected float64
		err = db.QueryRow(`
			SELECT COUNT(*), COALESCE(SUM(final_price), 0), COALESCE(SUM(total_paid), 0)
			FROM invoices`).Scan(&invoiceCount, &totalInvoiced, &totalCollected)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching invoice totals"})
			return
		}

		// Quotations expiring within the next 7 days
		var expiringSoon int
		err = db.QueryRow(`
			SELECT COUNT(*) FROM quotations
			WHERE status IN ('draft', 'saved')
			  AND valid_until IS NOT NULL
			  AND valid_until BETWEEN NOW() AND NOW() + INTERVAL '7 days'`).Scan(&expiringSoon)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching expiring quotations"})
			return
		}

		// Collections per month for the last 6 months
		type monthlyCollection struct {
			Month  string  `json:"month"`
			Amount float64 `json:"amount"`
		}
		monthly := []monthlyCollection{}
		rows, err = db.Query(`
			SELECT TO_CHAR(DATE_TRUNC('month', payment_date), 'YYYY-MM') AS month,
			       COALESCE(SUM(amount), 0)
			FROM invoice_payments
			WHERE payment_date >= DATE_TRUNC('month', NOW()) - INTERVAL '5 months'
			GROUP BY month
			ORDER BY month`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching monthly collections"})
			return
		}
		for rows.Next() {
			var m monthlyCollection
			if err := rows.Scan(&m.Month, &m.Amount); err != nil {
				rows.Close()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning monthly collections"})
				return
			}
			monthly = append(monthly, m)
		}
		rows.Close()

		// Last 10 activity log entries
		type recentActivity struct {
			EventContext string    `json:"event_context"`
			EventName    string    `json:"event_name"`
			Description  string    `json:"description"`
			UserName     string    `json:"user_name"`
			CreatedAt    time.Time `json:"created_at"`
		}
		recent := []recentActivity{}
		rows, err = db.Query(`
			SELECT event_context, event_name, COALESCE(description, ''), COALESCE(user_name, ''), created_at
			FROM activity_log
			ORDER BY created_at DESC
			LIMIT 10`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching recent activity"})
			return
		}
		for rows.Next() {
			var a recentActivity
			if err := rows.Scan(&a.EventContext, &a.EventName, &a.Description, &a.UserName, &a.CreatedAt); err != nil {
				rows.Close()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning recent activity"})
				return
			}
			recent = append(recent, a)
		}
		rows.Close()

		c.JSON(http.StatusOK, gin.H{
			"customers_by_stage":   customersByStage,
			"quotations_by_status": quotationsByStatus,
			"pipeline_value":       pricing.RoundPaise(pipelineValue),
			"invoices": gin.H{
				"count":           invoiceCount,
				"total_invoiced":  pricing.RoundPaise(totalInvoiced),
				"total_collected": pricing.RoundPaise(totalCollected),
				"outstanding":     pricing.RoundPaise(totalInvoiced - totalCollected),
			},
			"expiring_soon":       expiringSoon,
			"monthly_collections": monthly,
			"recent_activity":     recent,
		})
	}
}
