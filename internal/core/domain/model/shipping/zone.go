package shipping

import "marketplace/internal/core/domain/model/kernel"

// Zone restricts a method to a place. Empty fields match any value.
type Zone struct {
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
}

// Matches reports whether every non-empty field of z equals the destination,
// ignoring case and diacritics.
func (z Zone) Matches(dest kernel.Destination) bool {
	if z.Province != "" && kernel.Fold(z.Province) != dest.Province {
		return false
	}
	if z.City != "" && kernel.Fold(z.City) != dest.City {
		return false
	}
	if z.District != "" && kernel.Fold(z.District) != dest.District {
		return false
	}
	return true
}
