// Package pricing holds the quotation pricing calculator, the pre-save
// validation checklist, and the document text formatters. Everything in
// this package is a pure function over fully-loaded quotation data: the
// caller (handlers, PDF generation, exports) is responsible for fetching
// the quotation tree and the active settings and passing them in.
package pricing

import "math"

// SquareMMPerSqft converts millimetre dimensions to square feet.
const SquareMMPerSqft = 92903.04

// LineItem is a product or accessory row inside a room.
type LineItem struct {
	ID              int
	Name            string
	SellingPrice    float64
	DiscountPercent float64
	Quantity        float64
}

// InstallationCharge is a per-cabinet installation row. Amount is derived
// from the area and rate; the area itself may be supplied directly or
// derived from millimetre dimensions.
type InstallationCharge struct {
	ID           int
	CabinetType  string
	WidthMM      float64
	HeightMM     float64
	AreaSqft     float64
	PricePerSqft float64
	Amount       float64
}

// Room groups products, accessories and installation charges under one
// billable heading (kitchen, wardrobe, ...).
type Room struct {
	ID                  int
	Name                string
	Products            []LineItem
	Accessories         []LineItem
	InstallationCharges []InstallationCharge
}

// Quotation is the calculator input: the room tree plus the three
// quotation-level pricing settings.
type Quotation struct {
	Rooms                      []Room
	GlobalDiscountPercent      float64
	GSTPercent                 float64
	InstallationHandlingAmount float64
}

// RoomTotals carries the two-column document figures for one room.
type RoomTotals struct {
	RoomID            int     `json:"room_id"`
	RoomName          string  `json:"room_name"`
	SellingPrice      float64 `json:"selling_price"`
	DiscountedPrice   float64 `json:"discounted_price"`
	InstallationTotal float64 `json:"installation_total"`
}

// Totals is the calculator output. Field order mirrors the aggregation
// order: subtotal, global discount, installation, GST, final price.
type Totals struct {
	Subtotal                 float64      `json:"subtotal"`
	GlobalDiscountAmount     float64      `json:"global_discount_amount"`
	AfterGlobalDiscount      float64      `json:"after_global_discount"`
	TotalInstallationCharges float64      `json:"total_installation_charges"`
	GSTAmount                float64      `json:"gst_amount"`
	FinalPrice               float64      `json:"final_price"`
	Rooms                    []RoomTotals `json:"rooms"`
}

// RoundPaise rounds to the nearest paise, half away from zero. Applied at
// output boundaries only; intermediate sums stay as raw float64.
func RoundPaise(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineSellingTotal is the pre-discount contribution of one line item.
func LineSellingTotal(item LineItem) float64 {
	return item.SellingPrice * item.Quantity
}

// LineTotal is the post-discount contribution of one line item.
func LineTotal(item LineItem) float64 {
	return item.SellingPrice * item.Quantity * (1 - item.DiscountPercent/100)
}

// RoomSellingPrice sums product selling totals with no discount applied.
func RoomSellingPrice(room Room) float64 {
	var sum float64
	for _, p := range room.Products {
		sum += LineSellingTotal(p)
	}
	return sum
}

// RoomDiscountedPrice sums product totals with per-line discounts applied.
func RoomDiscountedPrice(room Room) float64 {
	var sum float64
	for _, p := range room.Products {
		sum += LineTotal(p)
	}
	return sum
}

// InstallationArea returns the charge's area in square feet, deriving it
// from millimetre dimensions when not supplied directly.
func InstallationArea(ic InstallationCharge) float64 {
	if ic.AreaSqft > 0 {
		return ic.AreaSqft
	}
	return ic.WidthMM * ic.HeightMM / SquareMMPerSqft
}

// InstallationAmount returns the charge's amount, preferring a stored
// amount and otherwise deriving area × rate, rounded to the paise.
func InstallationAmount(ic InstallationCharge) float64 {
	if ic.Amount > 0 {
		return ic.Amount
	}
	return RoundPaise(InstallationArea(ic) * ic.PricePerSqft)
}

// RoomInstallationTotal sums a room's installation charge amounts.
func RoomInstallationTotal(room Room) float64 {
	var sum float64
	for _, ic := range room.InstallationCharges {
		sum += InstallationAmount(ic)
	}
	return sum
}

// Calculate reduces the quotation tree to its derived monetary figures.
//
// Aggregation order is fixed:
//  1. subtotal = sum of room discounted totals
//  2. global discount applied to the subtotal
//  3. installation = itemised charges + manual handling amount
//  4. GST base = after-discount subtotal + installation
//  5. GST amount = base × gstPercent/100
//  6. final price = base + GST
//
// GST is charged on the post-discount, installation-inclusive base. Empty
// or missing collections contribute zero; the function is total over any
// well-formed input and has no side effects.
func Calculate(q Quotation) Totals {
	t := Totals{Rooms: make([]RoomTotals, 0, len(q.Rooms))}

	var subtotal, installation float64
	for _, room := range q.Rooms {
		rt := RoomTotals{
			RoomID:            room.ID,
			RoomName:          room.Name,
			SellingPrice:      RoundPaise(RoomSellingPrice(room)),
			DiscountedPrice:   RoundPaise(RoomDiscountedPrice(room)),
			InstallationTotal: RoundPaise(RoomInstallationTotal(room)),
		}
		subtotal += RoomDiscountedPrice(room)
		installation += RoomInstallationTotal(room)
		t.Rooms = append(t.Rooms, rt)
	}

	discountAmount := subtotal * q.GlobalDiscountPercent / 100
	afterDiscount := subtotal - discountAmount
	totalInstallation := installation + q.InstallationHandlingAmount

	gstBase := afterDiscount + totalInstallation
	gstAmount := gstBase * q.GSTPercent / 100

	t.Subtotal = RoundPaise(subtotal)
	t.GlobalDiscountAmount = RoundPaise(discountAmount)
	t.AfterGlobalDiscount = RoundPaise(afterDiscount)
	t.TotalInstallationCharges = RoundPaise(totalInstallation)
	t.GSTAmount = RoundPaise(gstAmount)
	t.FinalPrice = RoundPaise(gstBase + gstAmount)
	return t
}
