package checkout

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Snapshot is the persisted state of a draft.
type Snapshot struct {
	ID          kernel.UUID
	Code        string
	BuyerID     kernel.UUID
	Status      Status
	Currency    string
	Address     kernel.Address
	Lines       []Line
	Groups      []Group
	Platform    VoucherSelection
	Note        string
	Totals      Totals
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CommittedAt *time.Time
	Version     int
}

// Snapshot captures the draft for persistence.
func (d *Draft) Snapshot() Snapshot {
	return Snapshot{
		ID:          d.id,
		Code:        d.code,
		BuyerID:     d.buyerID,
		Status:      d.status,
		Currency:    d.currency,
		Address:     d.address,
		Lines:       d.Lines(),
		Groups:      d.Groups(),
		Platform:    d.platform,
		Note:        d.note,
		Totals:      d.totals,
		ExpiresAt:   d.expiresAt,
		CreatedAt:   d.createdAt,
		UpdatedAt:   d.updatedAt,
		CommittedAt: d.committedAt,
		Version:     d.version,
	}
}

// RestoreDraft rebuilds a draft from storage, re-checking its invariants.
// Totals are recomputed from the groups rather than trusted.
func RestoreDraft(s Snapshot) (*Draft, error) {
	d := &Draft{
		lines:         append([]Line(nil), s.Lines...),
		expiresAt:     s.ExpiresAt,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		committedAt:   s.CommittedAt,
		version:       s.Version,
		isConstructed: true,
	}

	if err := errors.Join(
		s.Status.Validate(),
		d.setID(s.ID),
		d.setCode(s.Code),
		d.setBuyerID(s.BuyerID),
		d.setCurrency(s.Currency),
		d.setAddress(s.Address),
		d.setNote(s.Note),
		d.setPricing(s.Groups, s.Platform),
	); err != nil {
		return nil, err
	}
	d.status = s.Status

	return d, nil
}
