// Package draftrepo persists checkout drafts: one header row plus one row per shop group.
// Nested values that are only ever read back whole (items, shipping options, voucher
// selections, the address) are stored as JSON documents.
package draftrepo

import (
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"

	"github.com/google/uuid"
)

// DraftDTO represents the database structure of a draft header.
type DraftDTO struct {
	ID            uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	Code          string                    `gorm:"type:varchar(32);not null;uniqueIndex"`
	BuyerID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Status        string                    `gorm:"type:varchar(16);not null"`
	Currency      string                    `gorm:"type:varchar(3);not null"`
	Address       kernel.Address            `gorm:"type:jsonb;serializer:json;not null"`
	Lines         []checkout.Line           `gorm:"type:jsonb;serializer:json;not null"`
	Platform      checkout.VoucherSelection `gorm:"type:jsonb;serializer:json;not null"`
	Note          string                    `gorm:"type:text"`
	Subtotal      int64                     `gorm:"not null"`
	ShippingTotal int64                     `gorm:"not null"`
	DiscountTotal int64                     `gorm:"not null"`
	Total         int64                     `gorm:"not null"`
	ExpiresAt     time.Time                 `gorm:"not null"`
	CreatedAt     time.Time                 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time                 `gorm:"not null;autoUpdateTime:false"`
	CommittedAt   *time.Time
	Version       int             `gorm:"not null"`
	Groups        []DraftGroupDTO `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
}

func (DraftDTO) TableName() string {
	return "checkout_drafts"
}

// DraftGroupDTO is the part of a draft belonging to one shop.
type DraftGroupDTO struct {
	DraftID       uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	Position      int                       `gorm:"primaryKey"`
	ShopID        uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ShopName      string                    `gorm:"type:varchar(255);not null"`
	SellerID      uuid.UUID                 `gorm:"type:uuid;not null"`
	Items         []checkout.Item           `gorm:"type:jsonb;serializer:json;not null"`
	Subtotal      int64                     `gorm:"not null"`
	WeightGrams   int                       `gorm:"not null"`
	Options       []shipping.Option         `gorm:"type:jsonb;serializer:json"`
	Shipping      *shipping.Option          `gorm:"type:jsonb;serializer:json"`
	ShippingError string                    `gorm:"type:varchar(64)"`
	ShopVoucher   checkout.VoucherSelection `gorm:"type:jsonb;serializer:json;not null"`
	PlatformShare int64                     `gorm:"not null"`
	Total         int64                     `gorm:"not null"`
}

func (DraftGroupDTO) TableName() string {
	return "checkout_draft_groups"
}

func fromDomain(draft *checkout.Draft) DraftDTO {
	s := draft.Snapshot()
	dto := DraftDTO{
		ID:            s.ID.Bytes(),
		Code:          s.Code,
		BuyerID:       s.BuyerID.Bytes(),
		Status:        s.Status.String(),
		Currency:      s.Currency,
		Address:       s.Address,
		Lines:         s.Lines,
		Platform:      s.Platform,
		Note:          s.Note,
		Subtotal:      s.Totals.Subtotal,
		ShippingTotal: s.Totals.ShippingTotal,
		DiscountTotal: s.Totals.DiscountTotal,
		Total:         s.Totals.Total,
		ExpiresAt:     s.ExpiresAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		CommittedAt:   s.CommittedAt,
		Version:       s.Version,
	}
	dto.Groups = groupsFromDomain(dto.ID, s.Groups)
	return dto
}

func groupsFromDomain(draftID uuid.UUID, groups []checkout.Group) []DraftGroupDTO {
	dtos := make([]DraftGroupDTO, 0, len(groups))
	for i, g := range groups {
		dtos = append(dtos, DraftGroupDTO{
			DraftID:       draftID,
			Position:      i,
			ShopID:        g.ShopID.Bytes(),
			ShopName:      g.ShopName,
			SellerID:      g.SellerID.Bytes(),
			Items:         g.Items,
			Subtotal:      g.Subtotal,
			WeightGrams:   g.WeightGrams,
			Options:       g.Options,
			Shipping:      g.Shipping,
			ShippingError: g.ShippingError,
			ShopVoucher:   g.ShopVoucher,
			PlatformShare: g.PlatformShare,
			Total:         g.Total,
		})
	}
	return dtos
}

func toDomain(dto DraftDTO) (*checkout.Draft, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	status, err := checkout.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	groups := make([]checkout.Group, 0, len(dto.Groups))
	for _, g := range dto.Groups {
		shopID, err := kernel.UUIDFromBytes(g.ShopID[:])
		if err != nil {
			return nil, err
		}
		sellerID, err := kernel.UUIDFromBytes(g.SellerID[:])
		if err != nil {
			return nil, err
		}
		groups = append(groups, checkout.Group{
			ShopID:        shopID,
			ShopName:      g.ShopName,
			SellerID:      sellerID,
			Items:         g.Items,
			Subtotal:      g.Subtotal,
			WeightGrams:   g.WeightGrams,
			Options:       g.Options,
			Shipping:      g.Shipping,
			ShippingError: g.ShippingError,
			ShopVoucher:   g.ShopVoucher,
			PlatformShare: g.PlatformShare,
			Total:         g.Total,
		})
	}

	return checkout.RestoreDraft(checkout.Snapshot{
		ID:       id,
		Code:     dto.Code,
		BuyerID:  buyerID,
		Status:   status,
		Currency: dto.Currency,
		Address:  dto.Address,
		Lines:    dto.Lines,
		Groups:   groups,
		Platform: dto.Platform,
		Note:     dto.Note,
		Totals: checkout.Totals{
			Subtotal:      dto.Subtotal,
			ShippingTotal: dto.ShippingTotal,
			DiscountTotal: dto.DiscountTotal,
			Total:         dto.Total,
		},
		ExpiresAt:   dto.ExpiresAt,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
		CommittedAt: dto.CommittedAt,
		Version:     dto.Version,
	})
}
