// Package voucherrepo stores platform and shop vouchers with their usage counters.
package voucherrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/voucher"

	"github.com/google/uuid"
)

// VoucherDTO represents the database structure of a voucher. Codes are stored normalized.
type VoucherDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code               string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Scope              string     `gorm:"type:varchar(16);not null"`
	ShopID             *uuid.UUID `gorm:"type:uuid;index"`
	Type               string     `gorm:"type:varchar(16);not null"`
	Value              int64      `gorm:"not null"`
	MinSubtotal        int64      `gorm:"not null;default:0"`
	MaxDiscount        *int64
	UsageLimit         *int
	UsedCount          int `gorm:"not null;default:0"`
	StartsAt           *time.Time
	EndsAt             *time.Time
	Active             bool `gorm:"not null;default:true"`
	MinBuyerSpendMonth *int64
	MinBuyerSpendYear  *int64
}

func (VoucherDTO) TableName() string {
	return "vouchers"
}

// FromDomain converts a voucher to its row.
func FromDomain(v voucher.Voucher) VoucherDTO {
	return VoucherDTO{
		ID:                 v.ID.Bytes(),
		Code:               v.Code,
		Scope:              string(v.Scope),
		ShopID:             kernel.RawPtr(v.ShopID),
		Type:               string(v.Type),
		Value:              v.Value,
		MinSubtotal:        v.MinSubtotal,
		MaxDiscount:        v.MaxDiscount,
		UsageLimit:         v.UsageLimit,
		UsedCount:          v.UsedCount,
		StartsAt:           v.StartsAt,
		EndsAt:             v.EndsAt,
		Active:             v.Active,
		MinBuyerSpendMonth: v.MinBuyerSpendMonth,
		MinBuyerSpendYear:  v.MinBuyerSpendYear,
	}
}

func toDomain(dto VoucherDTO) (voucher.Voucher, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return voucher.Voucher{}, err
	}
	shopID, err := kernel.UUIDPtrFrom(dto.ShopID)
	if err != nil {
		return voucher.Voucher{}, err
	}

	return voucher.Voucher{
		ID:                 id,
		Code:               dto.Code,
		Scope:              voucher.Scope(dto.Scope),
		ShopID:             shopID,
		Type:               voucher.Type(dto.Type),
		Value:              dto.Value,
		MinSubtotal:        dto.MinSubtotal,
		MaxDiscount:        dto.MaxDiscount,
		UsageLimit:         dto.UsageLimit,
		UsedCount:          dto.UsedCount,
		StartsAt:           dto.StartsAt,
		EndsAt:             dto.EndsAt,
		Active:             dto.Active,
		MinBuyerSpendMonth: dto.MinBuyerSpendMonth,
		MinBuyerSpendYear:  dto.MinBuyerSpendYear,
	}, nil
}
