package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents a team role (admin, designer, sales...).
type Role struct {
	RoleID   int    `gorm:"primaryKey;column:role_id" json:"role_id"`
	RoleName string `gorm:"column:role_name;uniqueIndex;not null" json:"role_name"`
}

// TableName specifies the table name for Role
func (Role) TableName() string {
	return "roles"
}

// User represents a team member account.
type User struct {
	ID         int            `gorm:"primaryKey;column:id" json:"id"`
	Email      string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password   string         `gorm:"column:password;not null" json:"-"`
	FirstName  string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName   string         `gorm:"column:last_name" json:"last_name"`
	PhoneNo    string         `gorm:"column:phone_no" json:"phone_no"`
	RoleID     int            `gorm:"column:role_id;not null" json:"role_id"`
	RoleName   string         `gorm:"-" json:"role_name"` // Virtual field, not stored in DB
	Suspended  bool           `gorm:"column:suspended;default:false" json:"suspended"`
	ResetToken       *string    `gorm:"column:reset_token" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry" json:"-"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	LastAccess *time.Time     `gorm:"column:last_access" json:"last_access,omitempty"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Session represents an authenticated device session. SessionID holds the
// access token; the refresh token is stored alongside, one per device.
type Session struct {
	ID                    uint      `gorm:"primaryKey;column:id" json:"id"`
	UserID                int       `gorm:"column:user_id;not null" json:"user_id"`
	SessionID             string    `gorm:"column:session_id;uniqueIndex;not null" json:"session_id"`
	HostName              string    `gorm:"column:host_name;not null" json:"host_name"`
	IPAddress             string    `gorm:"column:ip_address" json:"ip_address"`
	Timestamp             time.Time `gorm:"column:timestp;not null" json:"timestp"`
	ExpiresAt             time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	RefreshToken          string    `gorm:"column:refresh_token" json:"-"`
	RefreshTokenExpiresAt time.Time `gorm:"column:refresh_token_expires_at" json:"-"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "session"
}

// ActivityLog represents one audit row written after a mutating action.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UserName     string    `gorm:"column:user_name;not null" json:"user_name"`
	HostName     string    `gorm:"column:host_name" json:"host_name"`
	IPAddress    string    `gorm:"column:ip_address" json:"ip_address"`
	EventContext string    `gorm:"column:event_context;not null" json:"event_context"`
	EventName    string    `gorm:"column:event_name;not null" json:"event_name"`
	Description  string    `gorm:"column:description;not null" json:"description"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_log"
}

// DeviceToken is an FCM registration for push notifications.
type DeviceToken struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	UserID    int       `gorm:"column:user_id;not null;index" json:"user_id"`
	Token     string    `gorm:"column:token;uniqueIndex;not null" json:"token"`
	Platform  string    `gorm:"column:platform" json:"platform"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for DeviceToken
func (DeviceToken) TableName() string {
	return "device_tokens"
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"ip"`
}

// LoginResponse documents the login reply shape for swagger.
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	ExpiresIn    int    `json:"expires_in"`
}

// ErrorResponse documents the error reply shape for swagger.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EmailData carries the template variables for outbound quotation mail.
type EmailData struct {
	CustomerName    string
	QuotationNumber string
	FinalPrice      string
	AmountInWords   string
	ValidUntil      string
	CompanyName     string
}
