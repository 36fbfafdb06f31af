package pricing

import "testing"

func completeRoom(name string) Room {
	return Room{
		Name:                name,
		Products:            []LineItem{{Name: "Base unit", SellingPrice: 25000, Quantity: 1}},
		Accessories:         []LineItem{{Name: "Skirting", SellingPrice: 500, Quantity: 4}},
		InstallationCharges: []InstallationCharge{{CabinetType: "Base", Amount: 1200}},
	}
}

func TestValidateNoRooms(t *testing.T) {
	res := Validate(Quotation{InstallationHandlingAmount: 500}, "")

	if res.IsValid {
		t.Error("quotation with no rooms must be invalid")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %d, want exactly 1 (per-room checks skipped)", len(res.Errors))
	}
	if res.Errors[0].Type != ErrNoRooms {
		t.Errorf("Errors[0].Type = %q, want %q", res.Errors[0].Type, ErrNoRooms)
	}
}

func TestValidateIncompleteRoom(t *testing.T) {
	// One room with a product only, no handling charge: missing accessory,
	// missing installation, missing handling charge.
	q := Quotation{
		Rooms: []Room{{
			ID:       3,
			Name:     "Kitchen",
			Products: []LineItem{{Name: "Base unit", SellingPrice: 25000, Quantity: 1}},
		}},
	}
	res := Validate(q, "")

	if res.IsValid {
		t.Error("incomplete quotation must be invalid")
	}
	if len(res.Errors) != 3 {
		t.Fatalf("Errors = %d, want 3: %+v", len(res.Errors), res.Errors)
	}
	wantTypes := []string{ErrRoomNoAccessories, ErrRoomNoInstallation, ErrNoHandlingCharge}
	for i, want := range wantTypes {
		if res.Errors[i].Type != want {
			t.Errorf("Errors[%d].Type = %q, want %q", i, res.Errors[i].Type, want)
		}
	}
	for _, e := range res.Errors[:2] {
		if e.RoomID != 3 || e.RoomName != "Kitchen" {
			t.Errorf("per-room error missing room identity: %+v", e)
		}
	}
}

func TestValidateZeroTotalRoom(t *testing.T) {
	room := completeRoom("Wardrobe")
	room.Products = []LineItem{{Name: "Freebie", SellingPrice: 1000, Quantity: 1, DiscountPercent: 100}}
	q := Quotation{Rooms: []Room{room}, InstallationHandlingAmount: 500}

	res := Validate(q, "")
	if res.IsValid {
		t.Error("zero-total room must be invalid")
	}
	if len(res.Errors) != 1 || res.Errors[0].Type != ErrRoomTotalZero {
		t.Errorf("Errors = %+v, want single %s", res.Errors, ErrRoomTotalZero)
	}
}

func TestValidatePasses(t *testing.T) {
	q := Quotation{
		Rooms:                      []Room{completeRoom("Kitchen"), completeRoom("Wardrobe")},
		InstallationHandlingAmount: 1500,
	}
	res := Validate(q, "skirting")

	if !res.IsValid {
		t.Errorf("expected valid, got errors %+v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %+v, want none", res.Warnings)
	}
}

func TestValidateMissingAccessoryWarning(t *testing.T) {
	room := completeRoom("Kitchen")
	room.Accessories = []LineItem{{Name: "Soft-close Hinges", SellingPrice: 900, Quantity: 2}}
	q := Quotation{Rooms: []Room{room}, InstallationHandlingAmount: 500}

	res := Validate(q, "skirting,handles")

	if !res.IsValid {
		t.Errorf("warnings must not block: errors %+v", res.Errors)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %d, want 1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Type != WarnMissingAccessories {
		t.Errorf("warning type = %q, want %q", w.Type, WarnMissingAccessories)
	}
	want := []string{"skirting", "handles"}
	if len(w.Accessories) != len(want) {
		t.Fatalf("Accessories = %v, want %v", w.Accessories, want)
	}
	for i := range want {
		if w.Accessories[i] != want[i] {
			t.Errorf("Accessories[%d] = %q, want %q", i, w.Accessories[i], want[i])
		}
	}
}

func TestValidateAccessorySubstringMatch(t *testing.T) {
	room := completeRoom("Kitchen")
	room.Accessories = []LineItem{
		{Name: "SS Handles (Brushed)", SellingPrice: 450, Quantity: 6},
		{Name: "PVC Skirting 100mm", SellingPrice: 120, Quantity: 10},
	}
	q := Quotation{Rooms: []Room{room}, InstallationHandlingAmount: 500}

	res := Validate(q, "skirting, handles")
	if len(res.Warnings) != 0 {
		t.Errorf("substring matches should satisfy keywords, got %+v", res.Warnings)
	}
}

func TestValidateDefaultKeywordList(t *testing.T) {
	q := Quotation{Rooms: []Room{completeRoom("Kitchen")}, InstallationHandlingAmount: 500}

	// completeRoom only carries skirting; the default list has three more.
	res := Validate(q, "")
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %d, want 1", len(res.Warnings))
	}
	if got := len(res.Warnings[0].Accessories); got != 3 {
		t.Errorf("missing keywords = %d (%v), want 3", got, res.Warnings[0].Accessories)
	}
}
