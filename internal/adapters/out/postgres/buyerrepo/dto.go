// Package buyerrepo stores what a buyer brings to checkout: saved addresses and the cart.
package buyerrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AddressDTO represents the database structure of a saved address.
type AddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName   string    `gorm:"type:varchar(255);not null"`
	Phone      string    `gorm:"type:varchar(32);not null"`
	Line1      string    `gorm:"type:varchar(255);not null"`
	Line2      string    `gorm:"type:varchar(255)"`
	Ward       string    `gorm:"type:varchar(128)"`
	District   string    `gorm:"type:varchar(128)"`
	City       string    `gorm:"type:varchar(128);not null"`
	Province   string    `gorm:"type:varchar(128);not null"`
	Country    string    `gorm:"type:varchar(2);not null"`
	PostalCode string    `gorm:"type:varchar(16)"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

// CartLineDTO is one SKU in a buyer's cart.
type CartLineDTO struct {
	BuyerID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKUID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity int       `gorm:"not null"`
	AddedAt  time.Time `gorm:"not null"`
}

func (CartLineDTO) TableName() string {
	return "cart_lines"
}

// FromAddress converts a saved address of ownerID to its row.
func FromAddress(id, ownerID kernel.UUID, a kernel.Address) AddressDTO {
	return AddressDTO{
		ID:         id.Bytes(),
		OwnerID:    ownerID.Bytes(),
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		Ward:       a.Ward,
		District:   a.District,
		City:       a.City,
		Province:   a.Province,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

func (dto AddressDTO) toDomain() kernel.Address {
	return kernel.Address{
		FullName:   dto.FullName,
		Phone:      dto.Phone,
		Line1:      dto.Line1,
		Line2:      dto.Line2,
		Ward:       dto.Ward,
		District:   dto.District,
		City:       dto.City,
		Province:   dto.Province,
		Country:    dto.Country,
		PostalCode: dto.PostalCode,
	}
}
