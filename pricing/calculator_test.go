package pricing

import (
	"math"
	"reflect"
	"testing"
)

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		qty      float64
		discount float64
		want     float64
	}{
		{"no_discount", 1000, 2, 0, 2000},
		{"half_discount", 1000, 2, 50, 1000},
		{"full_discount", 1000, 1, 100, 0},
		{"fractional", 999.99, 1, 10, 899.991},
		{"zero_price", 0, 5, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(LineItem{SellingPrice: tt.price, Quantity: tt.qty, DiscountPercent: tt.discount})
			if !floatClose(got, tt.want) {
				t.Errorf("LineTotal = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestLineTotalMonotonicInDiscount(t *testing.T) {
	prev := math.Inf(1)
	for d := 0.0; d <= 100; d += 5 {
		got := LineTotal(LineItem{SellingPrice: 750, Quantity: 3, DiscountPercent: d})
		if got > prev {
			t.Fatalf("LineTotal increased when discount rose to %.0f%%: %f > %f", d, got, prev)
		}
		prev = got
	}
}

func TestInstallationAmount(t *testing.T) {
	tests := []struct {
		name string
		ic   InstallationCharge
		want float64
	}{
		{"stored_amount_wins", InstallationCharge{Amount: 1200, AreaSqft: 10, PricePerSqft: 50}, 1200},
		{"area_times_rate", InstallationCharge{AreaSqft: 10, PricePerSqft: 55.5}, 555},
		// 2000mm x 2400mm = 51.666 sqft
		{"derived_from_mm", InstallationCharge{WidthMM: 2000, HeightMM: 2400, PricePerSqft: 100}, 5166.68},
		{"empty", InstallationCharge{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InstallationAmount(tt.ic)
			if !floatClose(got, tt.want) {
				t.Errorf("InstallationAmount = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCalculateEmptyQuotation(t *testing.T) {
	got := Calculate(Quotation{GSTPercent: 18, InstallationHandlingAmount: 500})

	if got.Subtotal != 0 {
		t.Errorf("Subtotal = %f, want 0", got.Subtotal)
	}
	if !floatClose(got.TotalInstallationCharges, 500) {
		t.Errorf("TotalInstallationCharges = %f, want 500", got.TotalInstallationCharges)
	}
	if !floatClose(got.GSTAmount, 90) {
		t.Errorf("GSTAmount = %f, want 90", got.GSTAmount)
	}
	if !floatClose(got.FinalPrice, 590) {
		t.Errorf("FinalPrice = %f, want 590", got.FinalPrice)
	}
}

func TestCalculateEndToEnd(t *testing.T) {
	// Two rooms of 10,000 each after discount, 1,000 itemised installation,
	// 500 handling, 18% GST.
	room := func(name string) Room {
		return Room{
			Name:                name,
			Products:            []LineItem{{Name: "Base unit", SellingPrice: 12500, Quantity: 1, DiscountPercent: 20}},
			InstallationCharges: []InstallationCharge{{CabinetType: "Wall", Amount: 500}},
		}
	}
	q := Quotation{
		Rooms:                      []Room{room("Kitchen"), room("Wardrobe")},
		GlobalDiscountPercent:      0,
		GSTPercent:                 18,
		InstallationHandlingAmount: 500,
	}

	got := Calculate(q)

	if !floatClose(got.Subtotal, 20000) {
		t.Errorf("Subtotal = %f, want 20000", got.Subtotal)
	}
	if !floatClose(got.TotalInstallationCharges, 1500) {
		t.Errorf("TotalInstallationCharges = %f, want 1500", got.TotalInstallationCharges)
	}
	if !floatClose(got.GSTAmount, 3870) {
		t.Errorf("GSTAmount = %f, want 3870 (18%% of 21500)", got.GSTAmount)
	}
	if !floatClose(got.FinalPrice, 25370) {
		t.Errorf("FinalPrice = %f, want 25370", got.FinalPrice)
	}
	if len(got.Rooms) != 2 {
		t.Fatalf("Rooms = %d, want 2", len(got.Rooms))
	}
	if !floatClose(got.Rooms[0].SellingPrice, 12500) || !floatClose(got.Rooms[0].DiscountedPrice, 10000) {
		t.Errorf("Room totals = %f/%f, want 12500/10000", got.Rooms[0].SellingPrice, got.Rooms[0].DiscountedPrice)
	}
}

func TestCalculateHandlingFoldedIntoInstallation(t *testing.T) {
	// The handling amount is part of TotalInstallationCharges; document
	// renderers print that field as-is, so the displayed rows must sum to
	// the final price without adding handling a second time.
	q := Quotation{
		Rooms: []Room{{
			Name:                "Kitchen",
			Products:            []LineItem{{SellingPrice: 20000, Quantity: 1}},
			InstallationCharges: []InstallationCharge{{CabinetType: "Wall", Amount: 1000}},
		}},
		GSTPercent:                 18,
		InstallationHandlingAmount: 500,
	}
	got := Calculate(q)

	if !floatClose(got.TotalInstallationCharges, 1500) {
		t.Errorf("TotalInstallationCharges = %f, want 1500 (1000 itemised + 500 handling)", got.TotalInstallationCharges)
	}
	rowSum := got.AfterGlobalDiscount + got.TotalInstallationCharges + got.GSTAmount
	if !floatClose(rowSum, got.FinalPrice) {
		t.Errorf("displayed rows sum to %f, want FinalPrice %f", rowSum, got.FinalPrice)
	}
	if floatClose(got.AfterGlobalDiscount+got.TotalInstallationCharges+q.InstallationHandlingAmount+got.GSTAmount, got.FinalPrice) {
		t.Error("adding handling on top of TotalInstallationCharges should overstate the total")
	}
}

func TestCalculateSellingTotalPreDiscount(t *testing.T) {
	// The quotation-level selling total is the sum of the rooms' cached
	// selling prices (pre-discount), not the post-discount subtotal.
	q := Quotation{
		Rooms: []Room{
			{Name: "Kitchen", Products: []LineItem{{SellingPrice: 12500, Quantity: 1, DiscountPercent: 20}}},
			{Name: "Wardrobe", Products: []LineItem{{SellingPrice: 10000, Quantity: 1, DiscountPercent: 10}}},
		},
	}
	got := Calculate(q)

	var selling float64
	for _, rt := range got.Rooms {
		selling += rt.SellingPrice
	}
	if !floatClose(selling, 22500) {
		t.Errorf("sum of room selling prices = %f, want 22500", selling)
	}
	if !floatClose(got.Subtotal, 19000) {
		t.Errorf("Subtotal = %f, want 19000", got.Subtotal)
	}
	if floatClose(selling, got.Subtotal) {
		t.Error("selling total and discounted subtotal should differ when line discounts apply")
	}
}

func TestCalculateGlobalDiscount(t *testing.T) {
	q := Quotation{
		Rooms: []Room{{
			Name:     "Kitchen",
			Products: []LineItem{{SellingPrice: 10000, Quantity: 1}},
		}},
		GlobalDiscountPercent: 10,
		GSTPercent:            18,
	}
	got := Calculate(q)

	if !floatClose(got.GlobalDiscountAmount, 1000) {
		t.Errorf("GlobalDiscountAmount = %f, want 1000", got.GlobalDiscountAmount)
	}
	if !floatClose(got.AfterGlobalDiscount, 9000) {
		t.Errorf("AfterGlobalDiscount = %f, want 9000", got.AfterGlobalDiscount)
	}
	// GST on the discounted base, not the raw subtotal.
	if !floatClose(got.GSTAmount, 1620) {
		t.Errorf("GSTAmount = %f, want 1620", got.GSTAmount)
	}
	if !floatClose(got.FinalPrice, 10620) {
		t.Errorf("FinalPrice = %f, want 10620", got.FinalPrice)
	}
}

func TestCalculateMonotonicity(t *testing.T) {
	base := Quotation{
		Rooms: []Room{{
			Products:            []LineItem{{SellingPrice: 5000, Quantity: 2, DiscountPercent: 5}},
			InstallationCharges: []InstallationCharge{{Amount: 800}},
		}},
		InstallationHandlingAmount: 200,
	}

	prev := -1.0
	for gst := 0.0; gst <= 28; gst += 2 {
		q := base
		q.GSTPercent = gst
		fp := Calculate(q).FinalPrice
		if fp < prev {
			t.Fatalf("FinalPrice decreased as GST rose to %.0f%%: %f < %f", gst, fp, prev)
		}
		prev = fp
	}

	prev = math.Inf(1)
	for d := 0.0; d <= 100; d += 10 {
		q := base
		q.GSTPercent = 18
		q.GlobalDiscountPercent = d
		fp := Calculate(q).FinalPrice
		if fp > prev {
			t.Fatalf("FinalPrice increased as discount rose to %.0f%%: %f > %f", d, fp, prev)
		}
		prev = fp
	}
}

func TestCalculateIdempotent(t *testing.T) {
	q := Quotation{
		Rooms: []Room{{
			ID:   7,
			Name: "Living Room",
			Products: []LineItem{
				{Name: "TV unit", SellingPrice: 43250.75, Quantity: 1, DiscountPercent: 12.5},
				{Name: "Bookshelf", SellingPrice: 18999, Quantity: 2, DiscountPercent: 5},
			},
			Accessories:         []LineItem{{Name: "Handles", SellingPrice: 350, Quantity: 8}},
			InstallationCharges: []InstallationCharge{{WidthMM: 1800, HeightMM: 2100, PricePerSqft: 95}},
		}},
		GlobalDiscountPercent:      7.5,
		GSTPercent:                 18,
		InstallationHandlingAmount: 1500,
	}

	first := Calculate(q)
	second := Calculate(q)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Calculate not idempotent: %+v vs %+v", first, second)
	}
}

func TestCalculateNilCollections(t *testing.T) {
	// Rooms with nil slices contribute zero instead of failing.
	q := Quotation{Rooms: []Room{{Name: "Empty"}}, GSTPercent: 18}
	got := Calculate(q)
	if got.Subtotal != 0 || got.FinalPrice != 0 {
		t.Errorf("empty room should contribute zero, got %+v", got)
	}
}
