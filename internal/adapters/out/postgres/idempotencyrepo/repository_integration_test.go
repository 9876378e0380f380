package idempotencyrepo_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/idempotencyrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type IdempotencyStoreIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	store    *idempotencyrepo.GormIdempotencyStore
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.store = idempotencyrepo.NewGormIdempotencyStore(suite.database.DB)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Stop(context.Background()))
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestReserve_SecondReservationGetsTheHolder() {
	ctx := context.Background()
	caller := kernel.NewUUID()
	rec := suite.record("key-1", caller, "hash-a", t0)

	holder, err := suite.store.Reserve(ctx, rec)
	suite.Require().NoError(err)
	suite.Nil(holder)

	holder, err = suite.store.Reserve(ctx, suite.record("key-1", caller, "hash-b", t0.Add(time.Second)))
	suite.Require().NoError(err)
	suite.Require().NotNil(holder)
	suite.Equal("hash-a", holder.Hash)
	suite.Equal(idempotency.InProgress, holder.Status)

	other, err := suite.store.Reserve(ctx, suite.record("key-1", kernel.NewUUID(), "hash-a", t0))
	suite.Require().NoError(err)
	suite.Nil(other, "keys are scoped to their caller")
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestComplete_StoresTheResponse() {
	ctx := context.Background()
	caller := kernel.NewUUID()
	rec := suite.record("key-1", caller, "hash-a", t0)
	_, err := suite.store.Reserve(ctx, rec)
	suite.Require().NoError(err)

	rec.Succeed(idempotency.Response{StatusCode: http.StatusCreated, Body: []byte(`{"groupCode":"GR-1"}`)}, t0.Add(time.Second))
	suite.Require().NoError(suite.store.Complete(ctx, rec))

	holder, err := suite.store.Reserve(ctx, suite.record("key-1", caller, "hash-a", t0))
	suite.Require().NoError(err)
	suite.Require().NotNil(holder)
	suite.Equal(idempotency.Succeeded, holder.Status)
	suite.Equal(http.StatusCreated, holder.Response.StatusCode)
	suite.JSONEq(`{"groupCode":"GR-1"}`, string(holder.Response.Body))
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestDeleteAndPurgeExpired() {
	ctx := context.Background()
	caller := kernel.NewUUID()
	old := suite.record("old", caller, "h", t0.Add(-48*time.Hour))
	fresh := suite.record("fresh", caller, "h", t0)
	released := suite.record("released", caller, "h", t0)
	for _, rec := range []idempotency.Record{old, fresh, released} {
		_, err := suite.store.Reserve(ctx, rec)
		suite.Require().NoError(err)
	}

	suite.Require().NoError(suite.store.Delete(ctx, "released", released.Scope, caller))

	purged, err := suite.store.PurgeExpired(ctx, t0)
	suite.Require().NoError(err)
	suite.Equal(int64(1), purged)

	var remaining int64
	suite.Require().NoError(suite.database.DB.Model(&idempotencyrepo.RecordDTO{}).Count(&remaining).Error)
	suite.Equal(int64(1), remaining)
}

func TestIdempotencyStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(IdempotencyStoreIntegrationTestSuite))
}

func (suite *IdempotencyStoreIntegrationTestSuite) record(key string, caller kernel.UUID, hash string, at time.Time) idempotency.Record {
	rec, err := idempotency.NewRecord(key, "checkout.commit", caller, hash, at, idempotency.DefaultTTL)
	suite.Require().NoError(err)
	return rec
}
