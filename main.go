// @title           Urbanera Quote API
// @version         1.0
// @description     Interior design quotation backend - customers, quotations, invoices, payments and settings.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/services"
	"backend/storage"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://quote.urbanera.in",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

// expireStaleQuotations marks open quotations whose validity window has
// passed. Invoiced quotations are never touched.
func expireStaleQuotations(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for expiry job: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("Recovered from panic in expireStaleQuotations: %v", r)
		}
	}()

	res, err := tx.Exec(`
		UPDATE quotations
		SET status = 'expired', updated_at = NOW()
		WHERE status IN ('draft', 'saved')
		  AND valid_until IS NOT NULL
		  AND valid_until < NOW()
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to expire quotations: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	log.Printf("Expired %d quotations past their validity date.", rowsAffected)

	return tx.Commit()
}

var cronRunning int32

func safeGo(
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	fn func(context.Context) error,
	cronLogger *log.Logger,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				if cronLogger != nil {
					cronLogger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				}
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("%s failed: %v", name, err)
			if cronLogger != nil {
				cronLogger.Printf("%s failed: %v", name, err)
			}
		} else {
			log.Printf("%s completed successfully", name)
			if cronLogger != nil {
				cronLogger.Printf("%s completed successfully", name)
			}
		}
	}()
}

func main() {
	db := storage.InitDB()
	// Initialize GORM database (runs migrations)
	_ = storage.InitGormDB()

	// Initialize Firebase Cloud Messaging service using HTTP v1 API
	credentialsPath := os.Getenv("FCM_CREDENTIALS_PATH")
	if credentialsPath == "" {
		credentialsPath = "firebase-credentials.json"
	}
	fcmService, err := services.NewFCMService(credentialsPath, db)
	if err != nil {
		log.Printf("Warning: Failed to initialize FCM service: %v. Push notifications will be disabled.", err)
		fcmService = nil
	} else {
		log.Println("FCM service initialized successfully")
	}

	emailService := services.NewEmailService(db)

	// Setup cron job to run maintenance daily at 1:00 AM
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)

	cronLogFile, err := os.OpenFile("cron_errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open cron error log file: %v", err)
	}
	cronLogger := log.New(cronLogFile, "CRON_ERROR: ", log.LstdFlags)

	_, err = c.AddFunc("0 1 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			if cronLogger != nil {
				cronLogger.Println("Previous cron still running. Skipping this run.")
			}
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily maintenance cron job (1:00 AM IST)")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		var wg sync.WaitGroup

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(db)
		}, cronLogger)

		safeGo(ctx, &wg, "ExpireStaleQuotations", func(ctx context.Context) error {
			return expireStaleQuotations(db)
		}, cronLogger)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
			if cronLogger != nil {
				cronLogger.Println("Cron timeout reached, jobs cancelled")
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}

	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & SESSIONS ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.GET("/api/active-devices", handlers.GetActiveDevicesHandler(db))
	r.POST("/api/logout-device", handlers.LogoutDeviceHandler(db))
	r.POST("/api/change_password", handlers.ChangePasswordHandler(db))
	r.POST("/api/auth/forgot-password", handlers.ForgetPasswordHandler(db, "https://quote.urbanera.in/reset-password/"))
	r.POST("/api/auth/reset-password/:token", handlers.ResetPasswordHandler(db))

	// ==================== 2. USERS & ROLES ====================
	r.POST("/api/roles", handlers.CreateRole(db))
	r.GET("/api/roles", handlers.GetRoles(db))
	r.POST("/api/users", handlers.CreateUser(db))
	r.GET("/api/users", handlers.GetUsers(db))
	r.GET("/api/users/:id", handlers.GetUser(db))
	r.PUT("/api/users/:id", handlers.UpdateUser(db))
	r.DELETE("/api/users/:id", handlers.DeleteUser(db))

	// ==================== 3. NOTIFICATIONS ====================
	r.POST("/api/fcm/register-token", handlers.RegisterDeviceTokenHandler(db))

	// ==================== 4. CUSTOMERS ====================
	r.POST("/api/customers", handlers.CreateCustomer(db))
	r.GET("/api/customers", handlers.GetCustomers(db))
	r.GET("/api/customers/:id", handlers.GetCustomer(db))
	r.PUT("/api/customers/:id", handlers.UpdateCustomer(db))
	r.DELETE("/api/customers/:id", handlers.DeleteCustomer(db))

	// ==================== 5. QUOTATIONS ====================
	r.POST("/api/quotations", handlers.CreateQuotation(db))
	r.GET("/api/quotations", handlers.GetQuotations(db))
	r.GET("/api/quotations/:id", handlers.GetQuotation(db))
	r.PUT("/api/quotations/:id", handlers.UpdateQuotation(db))
	r.DELETE("/api/quotations/:id", handlers.DeleteQuotation(db))
	r.POST("/api/quotations/:id/validate", handlers.ValidateQuotation(db))
	r.POST("/api/quotations/:id/finalize", handlers.FinalizeQuotation(db, fcmService))
	r.POST("/api/quotations/:id/duplicate", handlers.DuplicateQuotation(db))
	r.POST("/api/quotations/:id/convert-to-invoice", handlers.ConvertQuotationToInvoice(db))
	r.POST("/api/quotations/:id/send-email", handlers.SendQuotationEmail(db, emailService))
	r.GET("/api/quotations/:id/pdf", handlers.GenerateQuotationPDF(db))
	r.GET("/api/quotations/:id/payment-qr", handlers.GeneratePaymentQRCode(db))

	// ==================== 6. ROOMS & LINE ITEMS ====================
	r.POST("/api/quotations/:id/rooms", handlers.AddRoom(db))
	r.PUT("/api/rooms/:id", handlers.UpdateRoom(db))
	r.DELETE("/api/rooms/:id", handlers.DeleteRoom(db))
	r.POST("/api/rooms/:id/products", handlers.AddRoomProduct(db))
	r.PUT("/api/room-products/:id", handlers.UpdateRoomProduct(db))
	r.DELETE("/api/room-products/:id", handlers.DeleteRoomProduct(db))
	r.POST("/api/rooms/:id/accessories", handlers.AddRoomAccessory(db))
	r.PUT("/api/room-accessories/:id", handlers.UpdateRoomAccessory(db))
	r.DELETE("/api/room-accessories/:id", handlers.DeleteRoomAccessory(db))
	r.POST("/api/rooms/:id/installation-charges", handlers.AddInstallationCharge(db))
	r.PUT("/api/installation-charges/:id", handlers.UpdateInstallationCharge(db))
	r.DELETE("/api/installation-charges/:id", handlers.DeleteInstallationCharge(db))

	// ==================== 7. INVOICES & PAYMENTS ====================
	r.GET("/api/invoices", handlers.GetInvoices(db))
	r.GET("/api/invoices/:id", handlers.GetInvoice(db))
	r.POST("/api/invoices/:id/payments", handlers.RecordPayment(db, fcmService))
	r.GET("/api/ledger", handlers.GetLedger(db))

	// ==================== 8. SETTINGS ====================
	r.GET("/api/settings", handlers.GetSettings(db))
	r.PUT("/api/settings", handlers.UpdateSettings(db))

	// ==================== 9. EXPORT ====================
	r.GET("/api/export/quotations", handlers.ExportQuotationsExcel(db))
	r.GET("/api/export/ledger", handlers.ExportLedgerExcel(db))
	r.GET("/api/export/customers", handlers.ExportCustomersCSV(db))

	// ==================== 10. DASHBOARD ====================
	r.GET("/api/dashboard", handlers.GetDashboard(db))

	// ==================== 11. ACTIVITY LOGS ====================
	r.GET("/api/logs", handlers.GetActivityLogsHandler(db))

	// ==================== 12. SWAGGER ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
