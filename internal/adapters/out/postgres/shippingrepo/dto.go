// Package shippingrepo stores the shipping methods each shop configures.
package shippingrepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"

	"github.com/google/uuid"
)

// ShippingMethodDTO represents the database structure of a shipping method.
// Zones are kept as a JSON document; an empty list serves every destination.
type ShippingMethodDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shipping_methods_shop_code"`
	Code             string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_shipping_methods_shop_code"`
	Name             string    `gorm:"type:varchar(255);not null"`
	BaseFee          int64     `gorm:"not null"`
	FreeShippingOver *int64
	MinDays          int `gorm:"not null"`
	MaxDays          int `gorm:"not null"`
	MaxWeightGrams   *int
	Zones            []shipping.Zone `gorm:"type:jsonb;serializer:json"`
	Active           bool            `gorm:"not null;default:true"`
}

func (ShippingMethodDTO) TableName() string {
	return "shipping_methods"
}

func fromDomain(m shipping.Method) ShippingMethodDTO {
	return ShippingMethodDTO{
		ID:               m.ID.Bytes(),
		ShopID:           m.ShopID.Bytes(),
		Code:             m.Code,
		Name:             m.Name,
		BaseFee:          m.BaseFee,
		FreeShippingOver: m.FreeShippingOver,
		MinDays:          m.MinDays,
		MaxDays:          m.MaxDays,
		MaxWeightGrams:   m.MaxWeightGrams,
		Zones:            m.Zones,
		Active:           m.Active,
	}
}

func toDomain(dto ShippingMethodDTO) (shipping.Method, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return shipping.Method{}, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return shipping.Method{}, err
	}

	return shipping.Method{
		ID:               id,
		ShopID:           shopID,
		Code:             dto.Code,
		Name:             dto.Name,
		BaseFee:          dto.BaseFee,
		FreeShippingOver: dto.FreeShippingOver,
		MinDays:          dto.MinDays,
		MaxDays:          dto.MaxDays,
		MaxWeightGrams:   dto.MaxWeightGrams,
		Zones:            dto.Zones,
		Active:           dto.Active,
	}, nil
}
