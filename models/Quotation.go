package models

import (
	"time"

	"backend/pricing"
)

// Quotation statuses. Draft quotations are editable; the validation
// checklist gates the transition to saved; converting to an invoice
// freezes the quotation.
const (
	QuotationStatusDraft    = "draft"
	QuotationStatusSaved    = "saved"
	QuotationStatusInvoiced = "invoiced"
	QuotationStatusExpired  = "expired"
)

// Quotation represents a quotation document. The total_* columns are
// denormalized caches of the pricing calculator output and are rewritten
// on every mutation of the room tree or the pricing settings.
type Quotation struct {
	ID                         int        `gorm:"primaryKey;column:id" json:"id"`
	QuotationNumber            string     `gorm:"column:quotation_number;uniqueIndex;not null" json:"quotation_number"`
	CustomerID                 int        `gorm:"column:customer_id;not null;index" json:"customer_id"`
	CustomerName               string     `gorm:"-" json:"customer_name"` // Virtual field from join
	Status                     string     `gorm:"column:status;not null;default:'draft'" json:"status"`
	GlobalDiscountPercent      float64    `gorm:"column:global_discount_percent;type:numeric(5,2);default:0" json:"global_discount_percent"`
	GSTPercent                 float64    `gorm:"column:gst_percent;type:numeric(5,2);default:18" json:"gst_percent"`
	InstallationHandlingAmount float64    `gorm:"column:installation_handling_amount;type:numeric(12,2);default:0" json:"installation_handling_amount"`
	// TotalSellingPrice is the pre-discount sum of the rooms' selling
	// prices; TotalDiscountedPrice is the post-discount base before
	// installation and GST.
	TotalSellingPrice          float64    `gorm:"column:total_selling_price;type:numeric(14,2);default:0" json:"total_selling_price"`
	TotalDiscountedPrice       float64    `gorm:"column:total_discounted_price;type:numeric(14,2);default:0" json:"total_discounted_price"`
	GSTAmount                  float64    `gorm:"column:gst_amount;type:numeric(14,2);default:0" json:"gst_amount"`
	FinalPrice                 float64    `gorm:"column:final_price;type:numeric(14,2);default:0" json:"final_price"`
	ValidUntil                 *time.Time `gorm:"column:valid_until" json:"valid_until,omitempty"`
	CreatedBy                  int        `gorm:"column:created_by" json:"created_by"`
	CreatedAt                  time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt                  time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`

	Rooms []Room `gorm:"foreignKey:QuotationID" json:"rooms,omitempty"`
}

// TableName specifies the table name for Quotation
func (Quotation) TableName() string {
	return "quotations"
}

// Room represents a billable grouping inside a quotation. The cached
// selling/discounted prices mirror the calculator's per-room figures.
type Room struct {
	ID              int     `gorm:"primaryKey;column:id" json:"id"`
	QuotationID     int     `gorm:"column:quotation_id;not null;index" json:"quotation_id"`
	Name            string  `gorm:"column:name;not null" json:"name" binding:"required"`
	Position        int     `gorm:"column:position;default:0" json:"position"`
	SellingPrice    float64 `gorm:"column:selling_price;type:numeric(14,2);default:0" json:"selling_price"`
	DiscountedPrice float64 `gorm:"column:discounted_price;type:numeric(14,2);default:0" json:"discounted_price"`

	Products            []RoomProduct        `gorm:"foreignKey:RoomID" json:"products,omitempty"`
	Accessories         []RoomAccessory      `gorm:"foreignKey:RoomID" json:"accessories,omitempty"`
	InstallationCharges []InstallationCharge `gorm:"foreignKey:RoomID" json:"installation_charges,omitempty"`
}

// TableName specifies the table name for Room
func (Room) TableName() string {
	return "rooms"
}

// RoomProduct is a product line item inside a room.
type RoomProduct struct {
	ID              int     `gorm:"primaryKey;column:id" json:"id"`
	RoomID          int     `gorm:"column:room_id;not null;index" json:"room_id"`
	Name            string  `gorm:"column:name;not null" json:"name" binding:"required"`
	Description     string  `gorm:"column:description" json:"description"`
	SellingPrice    float64 `gorm:"column:selling_price;type:numeric(12,2);not null" json:"selling_price"`
	DiscountPercent float64 `gorm:"column:discount_percent;type:numeric(5,2);default:0" json:"discount_percent"`
	Quantity        float64 `gorm:"column:quantity;type:numeric(10,2);default:1" json:"quantity"`
	Position        int     `gorm:"column:position;default:0" json:"position"`
}

// TableName specifies the table name for RoomProduct
func (RoomProduct) TableName() string {
	return "room_products"
}

// RoomAccessory is an accessory line item inside a room.
type RoomAccessory struct {
	ID              int     `gorm:"primaryKey;column:id" json:"id"`
	RoomID          int     `gorm:"column:room_id;not null;index" json:"room_id"`
	Name            string  `gorm:"column:name;not null" json:"name" binding:"required"`
	Category        string  `gorm:"column:category" json:"category"`
	SellingPrice    float64 `gorm:"column:selling_price;type:numeric(12,2);not null" json:"selling_price"`
	DiscountPercent float64 `gorm:"column:discount_percent;type:numeric(5,2);default:0" json:"discount_percent"`
	Quantity        float64 `gorm:"column:quantity;type:numeric(10,2);default:1" json:"quantity"`
}

// TableName specifies the table name for RoomAccessory
func (RoomAccessory) TableName() string {
	return "room_accessories"
}

// InstallationCharge is a per-cabinet installation row. Area is derived
// from millimetre dimensions when not supplied; amount = area × rate.
type InstallationCharge struct {
	ID           int     `gorm:"primaryKey;column:id" json:"id"`
	RoomID       int     `gorm:"column:room_id;not null;index" json:"room_id"`
	CabinetType  string  `gorm:"column:cabinet_type;not null" json:"cabinet_type" binding:"required"`
	WidthMM      float64 `gorm:"column:width_mm;type:numeric(10,2)" json:"width_mm"`
	HeightMM     float64 `gorm:"column:height_mm;type:numeric(10,2)" json:"height_mm"`
	AreaSqft     float64 `gorm:"column:area_sqft;type:numeric(10,2)" json:"area_sqft"`
	PricePerSqft float64 `gorm:"column:price_per_sqft;type:numeric(10,2)" json:"price_per_sqft"`
	Amount       float64 `gorm:"column:amount;type:numeric(12,2)" json:"amount"`
}

// TableName specifies the table name for InstallationCharge
func (InstallationCharge) TableName() string {
	return "installation_charges"
}

// PricingInput maps the loaded quotation tree onto the calculator's
// input shape. Quantities are already normalized to 1 at the load
// boundary, so the conversion is a plain copy.
func (q *Quotation) PricingInput() pricing.Quotation {
	pq := pricing.Quotation{
		GlobalDiscountPercent:      q.GlobalDiscountPercent,
		GSTPercent:                 q.GSTPercent,
		InstallationHandlingAmount: q.InstallationHandlingAmount,
		Rooms:                      make([]pricing.Room, 0, len(q.Rooms)),
	}
	for _, room := range q.Rooms {
		pr := pricing.Room{ID: room.ID, Name: room.Name}
		for _, p := range room.Products {
			pr.Products = append(pr.Products, pricing.LineItem{
				ID:              p.ID,
				Name:            p.Name,
				SellingPrice:    p.SellingPrice,
				DiscountPercent: p.DiscountPercent,
				Quantity:        p.Quantity,
			})
		}
		for _, a := range room.Accessories {
			pr.Accessories = append(pr.Accessories, pricing.LineItem{
				ID:              a.ID,
				Name:            a.Name,
				SellingPrice:    a.SellingPrice,
				DiscountPercent: a.DiscountPercent,
				Quantity:        a.Quantity,
			})
		}
		for _, ic := range room.InstallationCharges {
			pr.InstallationCharges = append(pr.InstallationCharges, pricing.InstallationCharge{
				ID:           ic.ID,
				CabinetType:  ic.CabinetType,
				WidthMM:      ic.WidthMM,
				HeightMM:     ic.HeightMM,
				AreaSqft:     ic.AreaSqft,
				PricePerSqft: ic.PricePerSqft,
				Amount:       ic.Amount,
			})
		}
		pq.Rooms = append(pq.Rooms, pr)
	}
	return pq
}
