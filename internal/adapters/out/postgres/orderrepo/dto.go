// Package orderrepo persists orders. Summary columns used for filtering and listing are
// plain columns; items live in their own table; satellite records (payment, refunds,
// requests, dispute, shipment) are JSON documents read back with the order.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure of an order.
type OrderDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Code      string         `gorm:"type:varchar(32);not null;uniqueIndex"`
	GroupCode string         `gorm:"type:varchar(32);not null;index"`
	DraftCode string         `gorm:"type:varchar(32);not null"`
	BuyerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_orders_buyer_placed"`
	ShopID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ShopName  string         `gorm:"type:varchar(255);not null"`
	SellerID  uuid.UUID      `gorm:"type:uuid;not null"`
	Status    string         `gorm:"type:varchar(32);not null;index"`
	Currency  string         `gorm:"type:varchar(3);not null"`
	Address   kernel.Address `gorm:"type:jsonb;serializer:json;not null"`
	Note      string         `gorm:"type:text"`

	Subtotal         int64 `gorm:"not null"`
	ShippingFee      int64 `gorm:"not null"`
	ShopDiscount     int64 `gorm:"not null"`
	PlatformDiscount int64 `gorm:"not null"`
	Total            int64 `gorm:"not null"`

	ShopVoucher     *order.VoucherRef      `gorm:"type:jsonb;serializer:json"`
	PlatformVoucher *order.VoucherRef      `gorm:"type:jsonb;serializer:json"`
	Shipping        order.ShippingSnapshot `gorm:"type:jsonb;serializer:json;not null"`
	Payment         order.Payment          `gorm:"type:jsonb;serializer:json;not null"`
	Refunds         []order.Refund         `gorm:"type:jsonb;serializer:json"`
	CancelRequest   *order.CancelRequest   `gorm:"type:jsonb;serializer:json"`
	ReturnRequest   *order.ReturnRequest   `gorm:"type:jsonb;serializer:json"`
	RefundRequest   *order.RefundRequest   `gorm:"type:jsonb;serializer:json"`
	Dispute         *order.Dispute         `gorm:"type:jsonb;serializer:json"`
	Shipment        *order.Shipment        `gorm:"type:jsonb;serializer:json"`

	PlacedAt    time.Time `gorm:"not null;index:idx_orders_buyer_placed"`
	PaidAt      *time.Time
	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	Version     int       `gorm:"not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one purchased line of an order.
type OrderItemDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"`
	SKUID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SKUName     string    `gorm:"type:varchar(255);not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string    `gorm:"type:varchar(255);not null"`
	UnitPrice   int64     `gorm:"not null"`
	CostPrice   int64     `gorm:"not null"`
	Quantity    int       `gorm:"not null"`
	WeightGrams int       `gorm:"not null"`
	LineTotal   int64     `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	s := aggregate.Snapshot()
	dto := OrderDTO{
		ID:               s.ID.Bytes(),
		Code:             s.Code,
		GroupCode:        s.GroupCode,
		DraftCode:        s.DraftCode,
		BuyerID:          s.BuyerID.Bytes(),
		ShopID:           s.ShopID.Bytes(),
		ShopName:         s.ShopName,
		SellerID:         s.SellerID.Bytes(),
		Status:           s.Status.String(),
		Currency:         s.Currency,
		Address:          s.Address,
		Note:             s.Note,
		Subtotal:         s.Subtotal,
		ShippingFee:      s.ShippingFee,
		ShopDiscount:     s.ShopDiscount,
		PlatformDiscount: s.PlatformDiscount,
		Total:            s.Total,
		ShopVoucher:      s.ShopVoucher,
		PlatformVoucher:  s.PlatformVoucher,
		Shipping:         s.Shipping,
		Payment:          s.Payment,
		Refunds:          s.Refunds,
		CancelRequest:    s.CancelRequest,
		ReturnRequest:    s.ReturnRequest,
		RefundRequest:    s.RefundRequest,
		Dispute:          s.Dispute,
		Shipment:         s.Shipment,
		PlacedAt:         s.PlacedAt,
		PaidAt:           s.PaidAt,
		ConfirmedAt:      s.ConfirmedAt,
		ShippedAt:        s.ShippedAt,
		DeliveredAt:      s.DeliveredAt,
		CompletedAt:      s.CompletedAt,
		CancelledAt:      s.CancelledAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}

	dto.Items = make([]OrderItemDTO, 0, len(s.Items))
	for i, item := range s.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID.Bytes(),
			OrderID:     dto.ID,
			Position:    i,
			SKUID:       item.SKUID.Bytes(),
			SKUName:     item.SKUName,
			ProductID:   item.ProductID.Bytes(),
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			CostPrice:   item.CostPrice,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
			LineTotal:   item.LineTotal,
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids := make([]kernel.UUID, 4)
	for i, raw := range []uuid.UUID{dto.ID, dto.BuyerID, dto.ShopID, dto.SellerID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		id, err := kernel.UUIDFromBytes(item.ID[:])
		if err != nil {
			return nil, err
		}
		skuID, err := kernel.UUIDFromBytes(item.SKUID[:])
		if err != nil {
			return nil, err
		}
		productID, err := kernel.UUIDFromBytes(item.ProductID[:])
		if err != nil {
			return nil, err
		}
		items = append(items, order.Item{
			ID:          id,
			SKUID:       skuID,
			SKUName:     item.SKUName,
			ProductID:   productID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			CostPrice:   item.CostPrice,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
			LineTotal:   item.LineTotal,
		})
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               ids[0],
		Code:             dto.Code,
		GroupCode:        dto.GroupCode,
		DraftCode:        dto.DraftCode,
		BuyerID:          ids[1],
		ShopID:           ids[2],
		ShopName:         dto.ShopName,
		SellerID:         ids[3],
		Status:           status,
		Currency:         dto.Currency,
		Address:          dto.Address,
		Note:             dto.Note,
		Items:            items,
		Subtotal:         dto.Subtotal,
		ShippingFee:      dto.ShippingFee,
		ShopDiscount:     dto.ShopDiscount,
		PlatformDiscount: dto.PlatformDiscount,
		Total:            dto.Total,
		ShopVoucher:      dto.ShopVoucher,
		PlatformVoucher:  dto.PlatformVoucher,
		Shipping:         dto.Shipping,
		Payment:          dto.Payment,
		Refunds:          dto.Refunds,
		CancelRequest:    dto.CancelRequest,
		ReturnRequest:    dto.ReturnRequest,
		RefundRequest:    dto.RefundRequest,
		Dispute:          dto.Dispute,
		Shipment:         dto.Shipment,
		PlacedAt:         dto.PlacedAt.UTC(),
		PaidAt:           dto.PaidAt,
		ConfirmedAt:      dto.ConfirmedAt,
		ShippedAt:        dto.ShippedAt,
		DeliveredAt:      dto.DeliveredAt,
		CompletedAt:      dto.CompletedAt,
		CancelledAt:      dto.CancelledAt,
		UpdatedAt:        dto.UpdatedAt.UTC(),
		Version:          dto.Version,
	})
}
