// Package idempotencyrepo stores idempotency records. The store works on its own
// connection, outside of the transaction of the request it guards, so a reservation
// is visible to a concurrent duplicate at once.
package idempotencyrepo

import (
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO represents the database structure of an idempotency record.
type RecordDTO struct {
	Key            string    `gorm:"type:varchar(128);primaryKey"`
	Scope          string    `gorm:"type:varchar(64);primaryKey"`
	CallerID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Hash           string    `gorm:"type:varchar(128);not null"`
	Status         string    `gorm:"type:varchar(16);not null"`
	ResponseStatus int
	ResponseBody   []byte    `gorm:"type:bytea"`
	ErrorKind      string    `gorm:"type:varchar(32)"`
	ErrorMessage   string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime:false"`
	ExpiresAt      time.Time `gorm:"not null;index"`
}

func (RecordDTO) TableName() string {
	return "idempotency_records"
}

func fromDomain(rec idempotency.Record) RecordDTO {
	return RecordDTO{
		Key:            rec.Key,
		Scope:          rec.Scope,
		CallerID:       rec.CallerID.Bytes(),
		Hash:           rec.Hash,
		Status:         string(rec.Status),
		ResponseStatus: rec.Response.StatusCode,
		ResponseBody:   rec.Response.Body,
		ErrorKind:      rec.ErrorKind,
		ErrorMessage:   rec.ErrorMessage,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		ExpiresAt:      rec.ExpiresAt,
	}
}

func toDomain(dto RecordDTO) (idempotency.Record, error) {
	callerID, err := kernel.UUIDFromBytes(dto.CallerID[:])
	if err != nil {
		return idempotency.Record{}, err
	}

	return idempotency.Record{
		Key:      dto.Key,
		Scope:    dto.Scope,
		CallerID: callerID,
		Hash:     dto.Hash,
		Status:   idempotency.Status(dto.Status),
		Response: idempotency.Response{
			StatusCode: dto.ResponseStatus,
			Body:       dto.ResponseBody,
		},
		ErrorKind:    dto.ErrorKind,
		ErrorMessage: dto.ErrorMessage,
		CreatedAt:    dto.CreatedAt.UTC(),
		UpdatedAt:    dto.UpdatedAt.UTC(),
		ExpiresAt:    dto.ExpiresAt.UTC(),
	}, nil
}
