package pricing

import (
	"fmt"
	"strings"
)

// DefaultRequiredAccessories is the fallback keyword list used when the
// settings row does not override it.
const DefaultRequiredAccessories = "skirting, handles, sliding mechanism, t profile"

// Validation error/warning type tags, stable for API consumers.
const (
	ErrNoRooms           = "no_rooms"
	ErrRoomTotalZero     = "room_total_zero"
	ErrRoomNoProducts    = "room_no_products"
	ErrRoomNoAccessories = "room_no_accessories"
	ErrRoomNoInstallation = "room_no_installation"
	ErrNoHandlingCharge  = "no_handling_charge"
	WarnMissingAccessories = "missing_accessories"
)

// ValidationError is a blocking structural problem. RoomID/RoomName are
// set only for per-room errors.
type ValidationError struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	RoomID   int    `json:"room_id,omitempty"`
	RoomName string `json:"room_name,omitempty"`
}

// ValidationWarning is advisory only and never blocks a save.
type ValidationWarning struct {
	Type        string   `json:"type"`
	Message     string   `json:"message"`
	Accessories []string `json:"accessories,omitempty"`
}

// ValidationResult is the validator output; IsValid is true when the
// error list is empty, regardless of warnings.
type ValidationResult struct {
	IsValid  bool                `json:"is_valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// Validate runs the pre-save checklist over a fully-loaded quotation.
// All errors are collected rather than short-circuited, except that a
// quotation with no rooms at all reports a single error and stops, since
// per-room checks are meaningless. requiredAccessories is the
// comma-separated keyword list from settings; pass an empty string to use
// the default.
func Validate(q Quotation, requiredAccessories string) ValidationResult {
	res := ValidationResult{Errors: []ValidationError{}, Warnings: []ValidationWarning{}}

	if len(q.Rooms) == 0 {
		res.Errors = append(res.Errors, ValidationError{
			Type:    ErrNoRooms,
			Message: "Quotation has no rooms",
		})
		return res
	}

	for _, room := range q.Rooms {
		if RoomDiscountedPrice(room) == 0 {
			res.Errors = append(res.Errors, ValidationError{
				Type:     ErrRoomTotalZero,
				Message:  fmt.Sprintf("Room %q has a zero total", room.Name),
				RoomID:   room.ID,
				RoomName: room.Name,
			})
		}
		if len(room.Products) == 0 {
			res.Errors = append(res.Errors, ValidationError{
				Type:     ErrRoomNoProducts,
				Message:  fmt.Sprintf("Room %q has no products", room.Name),
				RoomID:   room.ID,
				RoomName: room.Name,
			})
		}
		if len(room.Accessories) == 0 {
			res.Errors = append(res.Errors, ValidationError{
				Type:     ErrRoomNoAccessories,
				Message:  fmt.Sprintf("Room %q has no accessories", room.Name),
				RoomID:   room.ID,
				RoomName: room.Name,
			})
		}
		if len(room.InstallationCharges) == 0 {
			res.Errors = append(res.Errors, ValidationError{
				Type:     ErrRoomNoInstallation,
				Message:  fmt.Sprintf("Room %q has no installation charges", room.Name),
				RoomID:   room.ID,
				RoomName: room.Name,
			})
		}
	}

	if q.InstallationHandlingAmount <= 0 {
		res.Errors = append(res.Errors, ValidationError{
			Type:    ErrNoHandlingCharge,
			Message: "Installation and handling charge has not been entered",
		})
	}

	if missing := missingAccessoryKeywords(q, requiredAccessories); len(missing) > 0 {
		res.Warnings = append(res.Warnings, ValidationWarning{
			Type:        WarnMissingAccessories,
			Message:     "Expected accessories not found in any room: " + strings.Join(missing, ", "),
			Accessories: missing,
		})
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// missingAccessoryKeywords compares the configured keyword list against
// the lower-cased names of all accessories across all rooms, substring
// containment per keyword.
func missingAccessoryKeywords(q Quotation, requiredAccessories string) []string {
	if strings.TrimSpace(requiredAccessories) == "" {
		requiredAccessories = DefaultRequiredAccessories
	}

	var names []string
	for _, room := range q.Rooms {
		for _, acc := range room.Accessories {
			names = append(names, strings.ToLower(acc.Name))
		}
	}

	var missing []string
	for _, raw := range strings.Split(requiredAccessories, ",") {
		keyword := strings.ToLower(strings.TrimSpace(raw))
		if keyword == "" {
			continue
		}
		found := false
		for _, name := range names {
			if strings.Contains(name, keyword) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, keyword)
		}
	}
	return missing
}
