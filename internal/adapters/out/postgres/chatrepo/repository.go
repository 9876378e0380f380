// Package chatrepo opens the buyer-seller conversation of an order.
package chatrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.ChatRepository = &GormChatRepository{}

// ChatThreadDTO is the conversation between a buyer and a shop about one order.
type ChatThreadDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ShopID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

func (ChatThreadDTO) TableName() string {
	return "chat_threads"
}

// GormChatRepository implements ChatRepository using GORM.
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM chat repository.
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// OpenThread creates the thread of orderID once; opening it again is a no-op.
func (r *GormChatRepository) OpenThread(ctx context.Context, orderID, buyerID, shopID kernel.UUID) error {
	dto := ChatThreadDTO{
		OrderID: orderID.Bytes(),
		BuyerID: buyerID.Bytes(),
		ShopID:  shopID.Bytes(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
}
