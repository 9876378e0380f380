package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetDraftQueryIsNotConstructed = errors.New(
	"GetDraftQuery must be created via NewGetDraftQuery constructor",
)

// GetDraftQuery reads one draft of a buyer.
type GetDraftQuery struct {
	buyerID   kernel.UUID
	draftCode string

	guard guard.ConstructorGuard
}

func NewGetDraftQuery(buyerID kernel.UUID, draftCode string) (GetDraftQuery, error) {
	var err error
	if buyerID.Validate() != nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("buyerId"))
	}
	draftCode = strings.TrimSpace(draftCode)
	if draftCode == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("draftCode"))
	}
	if err != nil {
		return GetDraftQuery{}, err
	}
	return GetDraftQuery{buyerID: buyerID, draftCode: draftCode, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDraftQuery) Validate() error {
	return q.guard.Validate(ErrGetDraftQueryIsNotConstructed)
}

func (q GetDraftQuery) BuyerID() kernel.UUID { return q.buyerID }
func (q GetDraftQuery) DraftCode() string    { return q.draftCode }
