package idempotency_test

import (
	"strings"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	caller := kernel.NewUUID()

	t.Run("reserved in progress with the default ttl", func(t *testing.T) {
		r, err := idempotency.NewRecord("k1", "checkout.commit", caller, "h", now, 0)

		require.NoError(t, err)
		assert.Equal(t, idempotency.InProgress, r.Status)
		assert.Equal(t, now.Add(idempotency.DefaultTTL), r.ExpiresAt)
		assert.False(t, r.IsExpired(now))
		assert.True(t, r.IsExpired(r.ExpiresAt))
	})

	t.Run("key is required", func(t *testing.T) {
		_, err := idempotency.NewRecord("", "checkout.commit", caller, "h", now, 0)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("key is bounded", func(t *testing.T) {
		_, err := idempotency.NewRecord(strings.Repeat("k", idempotency.MaxKeyLength+1), "s", caller, "h", now, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRecord_Replay(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	r, err := idempotency.NewRecord("k1", "checkout.commit", kernel.NewUUID(), "h1", now, time.Hour)
	require.NoError(t, err)

	t.Run("in progress", func(t *testing.T) {
		_, err := r.Replay("h1")
		require.ErrorIs(t, err, errs.ErrResourceConflict)
	})

	t.Run("different payload", func(t *testing.T) {
		_, err := r.Replay("h2")
		require.ErrorIs(t, err, errs.ErrResourceConflict)
		assert.Contains(t, err.Error(), "different request")
	})

	t.Run("success is replayed verbatim", func(t *testing.T) {
		done := r
		body := []byte(`{"groupCode":"GR1"}`)
		done.Succeed(idempotency.Response{StatusCode: 201, Body: body}, now)
		body[0] = 'X'

		resp, err := done.Replay("h1")

		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
		assert.JSONEq(t, `{"groupCode":"GR1"}`, string(resp.Body))
	})

	t.Run("failure is replayed with its kind", func(t *testing.T) {
		failed := r
		failed.Fail(errs.KindExpired, "draft CK1 expired", now)

		_, err := failed.Replay("h1")

		require.ErrorIs(t, err, errs.ErrExpired)
		assert.Equal(t, "draft CK1 expired", err.Error())
	})
}

func TestFingerprint(t *testing.T) {
	caller := kernel.NewUUID()

	a, err := idempotency.Fingerprint("POST", "/checkout/commit", caller, []byte(`{"draftCode":"CK1","paymentMethod":"COD"}`))
	require.NoError(t, err)
	b, err := idempotency.Fingerprint("POST", "/checkout/commit", caller, []byte("{ \"paymentMethod\": \"COD\",\n \"draftCode\": \"CK1\" }"))
	require.NoError(t, err)
	assert.Equal(t, a, b, "key order and whitespace do not matter")

	c, err := idempotency.Fingerprint("POST", "/checkout/commit", caller, []byte(`{"draftCode":"CK2","paymentMethod":"COD"}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := idempotency.Fingerprint("POST", "/checkout/commit", kernel.NewUUID(), []byte(`{"draftCode":"CK1","paymentMethod":"COD"}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, d, "callers do not share keys")

	_, err = idempotency.Fingerprint("POST", "/checkout/commit", caller, []byte(`{`))
	require.Error(t, err)
}
