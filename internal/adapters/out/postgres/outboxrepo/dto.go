// Package outboxrepo stores notifications written in the same transaction as the
// change that caused them, until a dispatcher delivers them.
package outboxrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// OutboxDTO represents the database structure of a pending or delivered notification.
type OutboxDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RecipientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         string          `gorm:"type:varchar(64);not null"`
	Payload      json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
	DispatchedAt *time.Time      `gorm:"index"`
	Attempts     int             `gorm:"not null;default:0"`
	LastError    string          `gorm:"type:text"`
}

func (OutboxDTO) TableName() string {
	return "outbox"
}

func fromDomain(e notification.Event) OutboxDTO {
	return OutboxDTO{
		ID:           e.ID.Bytes(),
		RecipientID:  e.RecipientID.Bytes(),
		Type:         e.Type,
		Payload:      e.Payload,
		CreatedAt:    e.CreatedAt,
		DispatchedAt: e.DispatchedAt,
		Attempts:     e.Attempts,
		LastError:    e.LastError,
	}
}

func toDomain(dto OutboxDTO) (notification.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Event{}, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return notification.Event{}, err
	}

	return notification.Event{
		ID:           id,
		RecipientID:  recipientID,
		Type:         dto.Type,
		Payload:      dto.Payload,
		CreatedAt:    dto.CreatedAt,
		DispatchedAt: dto.DispatchedAt,
		Attempts:     dto.Attempts,
		LastError:    dto.LastError,
	}, nil
}
