package models

import "time"

// Invoice payment statuses, driven by the recorded payment total.
const (
	PaymentStatusUnpaid      = "unpaid"
	PaymentStatusPartialPaid = "partial_paid"
	PaymentStatusFullyPaid   = "fully_paid"
)

// Invoice represents a billed quotation. The monetary columns are a
// snapshot of the quotation's computed totals at conversion time and are
// never recomputed afterwards.
type Invoice struct {
	ID                   int       `gorm:"primaryKey;column:id" json:"id"`
	InvoiceNumber        string    `gorm:"column:invoice_number;uniqueIndex;not null" json:"invoice_number"`
	QuotationID          int       `gorm:"column:quotation_id;not null;index" json:"quotation_id"`
	CustomerID           int       `gorm:"column:customer_id;not null;index" json:"customer_id"`
	CustomerName         string    `gorm:"-" json:"customer_name"` // Virtual field from join
	TotalDiscountedPrice float64   `gorm:"column:total_discounted_price;type:numeric(14,2);not null" json:"total_discounted_price"`
	GSTAmount            float64   `gorm:"column:gst_amount;type:numeric(14,2);not null" json:"gst_amount"`
	FinalPrice           float64   `gorm:"column:final_price;type:numeric(14,2);not null" json:"final_price"`
	TotalPaid            float64   `gorm:"column:total_paid;type:numeric(14,2);default:0" json:"total_paid"`
	PaymentStatus        string    `gorm:"column:payment_status;not null;default:'unpaid'" json:"payment_status"`
	CreatedBy            int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt            time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	Payments []InvoicePayment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// InvoicePayment is one ledger entry against an invoice.
type InvoicePayment struct {
	ID          int       `gorm:"primaryKey;column:id" json:"id"`
	InvoiceID   int       `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	UTRNumber   string    `gorm:"column:utr_number" json:"utr_number"`
	AmountPaid  float64   `gorm:"column:amount_paid;type:numeric(14,2);not null" json:"amount_paid" binding:"required"`
	PaymentDate time.Time `gorm:"column:payment_date;not null" json:"payment_date"`
	PaymentMode string    `gorm:"column:payment_mode;not null" json:"payment_mode"` // upi, bank_transfer, cheque, cash
	Remarks     string    `gorm:"column:remarks" json:"remarks"`
	RecordedBy  int       `gorm:"column:recorded_by" json:"recorded_by"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for InvoicePayment
func (InvoicePayment) TableName() string {
	return "invoice_payments"
}

// LedgerEntry is one row of the payment ledger view, with a running
// balance against the invoice's final price.
type LedgerEntry struct {
	InvoiceID     int       `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerName  string    `json:"customer_name"`
	UTRNumber     string    `json:"utr_number"`
	AmountPaid    float64   `json:"amount_paid"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMode   string    `json:"payment_mode"`
	Balance       float64   `json:"balance"`
}
