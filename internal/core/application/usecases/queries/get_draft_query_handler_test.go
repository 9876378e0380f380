package queries_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDraftQueryHandler_RequotesShippingWithoutSaving(t *testing.T) {
	m := newMarket(t)
	draft := m.createDraft(t)
	m.store.AddShippingMethods(shipping.Method{
		ID:      kernel.NewUUID(),
		ShopID:  m.a.ID,
		Code:    "ECONOMY",
		Name:    "Economy",
		BaseFee: 15000,
		MinDays: 5,
		MaxDays: 9,
		Active:  true,
	})

	query, err := queries.NewGetDraftQuery(m.buyer, draft.Code())
	require.NoError(t, err)
	later := func() time.Time { return now.Add(10 * time.Minute) }

	resp, err := queries.NewGetDraftQueryHandler(m.store, later).Handle(t.Context(), query)
	require.NoError(t, err)

	live := resp.Shipping[m.a.ID]
	require.Len(t, live.Options, 3)
	assert.Equal(t, "ECONOMY", live.Options[0].Code)
	assert.Equal(t, now.Add(10*time.Minute).AddDate(0, 0, 5), live.Options[0].EstimatedFrom)

	a, ok := resp.Draft.Group(m.a.ID)
	require.True(t, ok)
	assert.Len(t, a.Options, 3)
	require.NotNil(t, a.Shipping)
	assert.Equal(t, shipping.CodeStandard, a.Shipping.Code, "the selection stays until the buyer changes it")
	assert.Equal(t, draft.Totals(), resp.Draft.Totals())

	stored, err := m.store.Create().DraftRepository().GetByCode(t.Context(), draft.Code())
	require.NoError(t, err)
	storedA, _ := stored.Group(m.a.ID)
	assert.Len(t, storedA.Options, 2)
}

func TestGetDraftQueryHandler_Errors(t *testing.T) {
	m := newMarket(t)
	draft := m.createDraft(t)

	t.Run("another buyer", func(t *testing.T) {
		query, err := queries.NewGetDraftQuery(kernel.NewUUID(), draft.Code())
		require.NoError(t, err)
		_, err = queries.NewGetDraftQueryHandler(m.store, clock).Handle(t.Context(), query)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("unknown code", func(t *testing.T) {
		query, err := queries.NewGetDraftQuery(m.buyer, "CK-MISSING")
		require.NoError(t, err)
		_, err = queries.NewGetDraftQueryHandler(m.store, clock).Handle(t.Context(), query)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		query, err := queries.NewGetDraftQuery(m.buyer, draft.Code())
		require.NoError(t, err)
		expired := func() time.Time { return now.Add(checkout.DefaultTTL + time.Second) }
		_, err = queries.NewGetDraftQueryHandler(m.store, expired).Handle(t.Context(), query)
		assert.ErrorIs(t, err, errs.ErrExpired)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := queries.NewGetDraftQuery(m.buyer, "  ")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGetDraftQueryHandler_CommittedDraftIsReadAsStored(t *testing.T) {
	m := newMarket(t)
	result := m.checkout(t)
	require.NotEmpty(t, result.Orders)

	query, err := queries.NewGetDraftQuery(m.buyer, result.Orders[0].DraftCode())
	require.NoError(t, err)
	expired := func() time.Time { return now.Add(24 * time.Hour) }

	resp, err := queries.NewGetDraftQueryHandler(m.store, expired).Handle(t.Context(), query)
	require.NoError(t, err)
	assert.Equal(t, checkout.Committed, resp.Draft.Status())
	assert.Empty(t, resp.Shipping)
}
