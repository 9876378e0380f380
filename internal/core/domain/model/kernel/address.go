package kernel

import (
	"errors"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Address is a postal address. Buyers keep a book of them and drafts and orders
// carry a snapshot, so later edits to the book never change a placed order.
//
// Fields are exported because the snapshot is persisted as JSON.
type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	Ward       string `json:"ward,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode,omitempty"`
}

// DefaultCountry is used when an inline address omits the country.
const DefaultCountry = "VN"

// NewAddress trims every field, defaults the country and validates the result.
func NewAddress(a Address) (Address, error) {
	normalized := Address{
		FullName:   strings.TrimSpace(a.FullName),
		Phone:      strings.TrimSpace(a.Phone),
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		Ward:       strings.TrimSpace(a.Ward),
		District:   strings.TrimSpace(a.District),
		City:       strings.TrimSpace(a.City),
		Province:   strings.TrimSpace(a.Province),
		Country:    strings.TrimSpace(a.Country),
		PostalCode: strings.TrimSpace(a.PostalCode),
	}
	if normalized.Country == "" {
		normalized.Country = DefaultCountry
	}

	if err := normalized.Validate(); err != nil {
		return Address{}, err
	}
	return normalized, nil
}

// Validate reports every missing required field at once.
func (a Address) Validate() error {
	var err error
	for _, f := range []struct {
		name  string
		value string
	}{
		{"address.fullName", a.FullName},
		{"address.phone", a.Phone},
		{"address.line1", a.Line1},
		{"address.city", a.City},
		{"address.province", a.Province},
	} {
		if strings.TrimSpace(f.value) == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError(f.name))
		}
	}
	return err
}

// IsZero reports whether no field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Destination is the folded form of the fields shipping zones are matched on.
type Destination struct {
	Province string
	City     string
	District string
}

// Destination folds the province, city and district for zone matching.
func (a Address) Destination() Destination {
	return Destination{
		Province: Fold(a.Province),
		City:     Fold(a.City),
		District: Fold(a.District),
	}
}
