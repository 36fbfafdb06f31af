package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"backend/models"
	"backend/utils"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

// ErrQuotationNotFound is returned by LoadQuotation for unknown IDs.
var ErrQuotationNotFound = errors.New("quotation not found")

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// SaveSession saves a new session for a user. If allowMultipleSessions is
// false, all existing sessions for the user are removed first.
func SaveSession(db *sql.DB, session *models.Session, allowMultipleSessions bool) error {
	if !allowMultipleSessions {
		if _, err := db.Exec(`DELETE FROM session WHERE user_id = $1`, session.UserID); err != nil {
			return fmt.Errorf("failed to delete existing sessions: %v", err)
		}
	}

	insertQuery := `INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at, refresh_token, refresh_token_expires_at)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(insertQuery, session.UserID, session.SessionID, session.HostName, session.IPAddress,
		session.Timestamp, session.ExpiresAt, session.RefreshToken, session.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %v", err)
	}
	return nil
}

// GetRefreshTokenBySession retrieves the refresh token for a session,
// provided it has not expired.
func GetRefreshTokenBySession(db *sql.DB, sessionID string) (string, error) {
	var refreshToken string
	err := db.QueryRow(`
		SELECT refresh_token FROM session
		WHERE session_id = $1 AND refresh_token_expires_at > NOW()`, sessionID).Scan(&refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token not found: %v", err)
	}
	return refreshToken, nil
}

// DeleteSessionByID deletes a specific session (logout of one device).
func DeleteSessionByID(db *sql.DB, sessionID string, userID int) error {
	result, err := db.Exec(`DELETE FROM session WHERE session_id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found or already deleted")
	}
	return nil
}

// GetUserSessionCount returns the number of active sessions for a user.
func GetUserSessionCount(db *sql.DB, userID int) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM session WHERE user_id = $1 AND expires_at > NOW()`, userID).Scan(&count)
	return count, err
}

// GetActiveDevices lists the active sessions (devices) for a user.
func GetActiveDevices(db *sql.DB, userID int) ([]models.Session, error) {
	rows, err := db.Query(`
		SELECT id, user_id, session_id, host_name, ip_address, timestp, expires_at
		FROM session WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY timestp DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionID, &s.HostName,
			&s.IPAddress, &s.Timestamp, &s.ExpiresAt); err != nil {
			return nil, err
		}
		devices = append(devices, s)
	}
	return devices, rows.Err()
}

// CleanupExpiredSessions removes sessions that expired more than a day
// ago; run from the daily cron.
func CleanupExpiredSessions(db *sql.DB) error {
	threshold := time.Now().Add(-24 * time.Hour)
	_, err := db.Exec("DELETE FROM session WHERE expires_at < $1", threshold)
	return err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, first_name, last_name, role_id, suspended
	          FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`

	err := db.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.RoleID, &user.Suspended)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}
	return &user, nil
}

// GetUserBySessionID retrieves the user behind an active session token.
func GetUserBySessionID(db *sql.DB, sessionID string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.phone_no,
		       u.role_id, r.role_name, u.suspended
		FROM session s
		JOIN users u ON s.user_id = u.id
		JOIN roles r ON u.role_id = r.role_id
		WHERE s.session_id = $1 AND s.expires_at > NOW()
	`

	var user models.User
	err := db.QueryRow(query, sessionID).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.PhoneNo, &user.RoleID, &user.RoleName, &user.Suspended,
	)
	if err != nil || user.Suspended {
		if err == sql.ErrNoRows || user.Suspended {
			return nil, errors.New("session not found or account suspended")
		}
		return nil, err
	}
	return &user, nil
}

// LoadAppSettings reads the settings singleton, falling back to defaults
// when the row has not been written yet.
func LoadAppSettings(db *sql.DB) (models.AppSettings, error) {
	s := models.DefaultAppSettings()
	err := db.QueryRow(`
		SELECT default_gst_percent, default_discount_percent, required_accessories,
		       company_name, company_address, company_gst_number, company_phone,
		       upi_id, quote_template, email_template, quote_validity_days
		FROM app_settings WHERE id = 1`).Scan(
		&s.DefaultGSTPercent, &s.DefaultDiscountPercent, &s.RequiredAccessories,
		&s.CompanyName, &s.CompanyAddress, &s.CompanyGSTNumber, &s.CompanyPhone,
		&s.UPIID, &s.QuoteTemplate, &s.EmailTemplate, &s.QuoteValidityDays,
	)
	if err == sql.ErrNoRows {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to load settings: %v", err)
	}
	return s, nil
}

// LoadQuotation loads one quotation with its full room tree. Quantities
// are normalized with COALESCE so the pricing calculator never sees an
// absent quantity.
func LoadQuotation(parentCtx context.Context, db *sql.DB, quotationID int) (*models.Quotation, error) {
	ctx, cancel := utils.GetSlowQueryContext(parentCtx)
	defer cancel()

	var q models.Quotation
	var validUntil sql.NullTime
	err := db.QueryRowContext(ctx, `
		SELECT q.id, q.quotation_number, q.customer_id, c.name, q.status,
		       q.global_discount_percent, q.gst_percent, q.installation_handling_amount,
		       q.total_selling_price, q.total_discounted_price, q.gst_amount, q.final_price,
		       q.valid_until, q.created_by, q.created_at, q.updated_at
		FROM quotations q
		JOIN customers c ON q.customer_id = c.id
		WHERE q.id = $1`, quotationID).Scan(
		&q.ID, &q.QuotationNumber, &q.CustomerID, &q.CustomerName, &q.Status,
		&q.GlobalDiscountPercent, &q.GSTPercent, &q.InstallationHandlingAmount,
		&q.TotalSellingPrice, &q.TotalDiscountedPrice, &q.GSTAmount, &q.FinalPrice,
		&validUntil, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrQuotationNotFound
		}
		return nil, err
	}
	if validUntil.Valid {
		q.ValidUntil = &validUntil.Time
	}

	rooms, err := loadRooms(ctx, db, quotationID)
	if err != nil {
		return nil, err
	}
	q.Rooms = rooms
	return &q, nil
}

func loadRooms(ctx context.Context, db *sql.DB, quotationID int) ([]models.Room, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, quotation_id, name, position, selling_price, discounted_price
		FROM rooms WHERE quotation_id = $1 ORDER BY position, id`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.QuotationID, &room.Name, &room.Position,
			&room.SellingPrice, &room.DiscountedPrice); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rooms {
		if rooms[i].Products, err = loadRoomProducts(ctx, db, rooms[i].ID); err != nil {
			return nil, err
		}
		if rooms[i].Accessories, err = loadRoomAccessories(ctx, db, rooms[i].ID); err != nil {
			return nil, err
		}
		if rooms[i].InstallationCharges, err = loadInstallationCharges(ctx, db, rooms[i].ID); err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

func loadRoomProducts(ctx context.Context, db *sql.DB, roomID int) ([]models.RoomProduct, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, room_id, name, COALESCE(description, ''), selling_price,
		       COALESCE(discount_percent, 0), COALESCE(quantity, 1), position
		FROM room_products WHERE room_id = $1 ORDER BY position, id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.RoomProduct
	for rows.Next() {
		var p models.RoomProduct
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &p.Description,
			&p.SellingPrice, &p.DiscountPercent, &p.Quantity, &p.Position); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func loadRoomAccessories(ctx context.Context, db *sql.DB, roomID int) ([]models.RoomAccessory, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, room_id, name, COALESCE(category, ''), selling_price,
		       COALESCE(discount_percent, 0), COALESCE(quantity, 1)
		FROM room_accessories WHERE room_id = $1 ORDER BY id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accessories []models.RoomAccessory
	for rows.Next() {
		var a models.RoomAccessory
		if err := rows.Scan(&a.ID, &a.RoomID, &a.Name, &a.Category,
			&a.SellingPrice, &a.DiscountPercent, &a.Quantity); err != nil {
			return nil, err
		}
		accessories = append(accessories, a)
	}
	return accessories, rows.Err()
}

func loadInstallationCharges(ctx context.Context, db *sql.DB, roomID int) ([]models.InstallationCharge, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, room_id, cabinet_type, COALESCE(width_mm, 0), COALESCE(height_mm, 0),
		       COALESCE(area_sqft, 0), COALESCE(price_per_sqft, 0), COALESCE(amount, 0)
		FROM installation_charges WHERE room_id = $1 ORDER BY id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []models.InstallationCharge
	for rows.Next() {
		var ic models.InstallationCharge
		if err := rows.Scan(&ic.ID, &ic.RoomID, &ic.CabinetType, &ic.WidthMM,
			&ic.HeightMM, &ic.AreaSqft, &ic.PricePerSqft, &ic.Amount); err != nil {
			return nil, err
		}
		charges = append(charges, ic)
	}
	return charges, rows.Err()
}
