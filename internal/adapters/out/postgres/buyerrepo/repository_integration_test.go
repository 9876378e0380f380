package buyerrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/adapters/out/postgres/buyerrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type BuyerRepositoryIntegrationTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	addresses *buyerrepo.GormAddressRepository
	carts     *buyerrepo.GormCartRepository
}

func (suite *BuyerRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *BuyerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.addresses = buyerrepo.NewGormAddressRepository(suite.database.DB)
	suite.carts = buyerrepo.NewGormCartRepository(suite.database.DB)
}

func (suite *BuyerRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Stop(context.Background()))
}

func (suite *BuyerRepositoryIntegrationTestSuite) TestAddressGet_OnlyForItsOwner() {
	ctx := context.Background()
	id, owner := kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(suite.addresses.Add(ctx, id, owner, memory.Address()))

	got, err := suite.addresses.Get(ctx, id, owner)
	suite.Require().NoError(err)
	suite.Equal(memory.Address(), got)

	_, err = suite.addresses.Get(ctx, id, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BuyerRepositoryIntegrationTestSuite) TestCart_ListsInInsertionOrderAndRemovesPurchased() {
	ctx := context.Background()
	buyer := kernel.NewUUID()
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	mug, pot, cup := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	suite.Require().NoError(suite.carts.Put(ctx, buyer, checkout.Line{SKUID: mug, Quantity: 1}, at))
	suite.Require().NoError(suite.carts.Put(ctx, buyer, checkout.Line{SKUID: pot, Quantity: 2}, at.Add(time.Minute)))
	suite.Require().NoError(suite.carts.Put(ctx, buyer, checkout.Line{SKUID: cup, Quantity: 1}, at.Add(2*time.Minute)))
	suite.Require().NoError(suite.carts.Put(ctx, buyer, checkout.Line{SKUID: mug, Quantity: 3}, at.Add(3*time.Minute)))
	suite.Require().NoError(suite.carts.Put(ctx, kernel.NewUUID(), checkout.Line{SKUID: mug, Quantity: 1}, at))

	lines, err := suite.carts.ListLines(ctx, buyer)
	suite.Require().NoError(err)
	suite.Equal([]checkout.Line{
		{SKUID: mug, Quantity: 3},
		{SKUID: pot, Quantity: 2},
		{SKUID: cup, Quantity: 1},
	}, lines)

	suite.Require().NoError(suite.carts.RemoveSKUs(ctx, buyer, []kernel.UUID{mug, cup}))

	lines, err = suite.carts.ListLines(ctx, buyer)
	suite.Require().NoError(err)
	suite.Equal([]checkout.Line{{SKUID: pot, Quantity: 2}}, lines)
}

func TestBuyerRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(BuyerRepositoryIntegrationTestSuite))
}
