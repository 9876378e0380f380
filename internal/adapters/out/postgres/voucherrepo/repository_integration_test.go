package voucherrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/adapters/out/postgres/voucherrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/voucher"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type VoucherRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *voucherrepo.GormVoucherRepository
}

func (suite *VoucherRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *VoucherRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.repository = voucherrepo.NewGormVoucherRepository(suite.database.DB)
}

func (suite *VoucherRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Stop(context.Background()))
}

func (suite *VoucherRepositoryIntegrationTestSuite) TestGetByCode_RoundTripsShopVoucher() {
	ctx := context.Background()
	v := memory.NewShop("Shop A").Voucher("SHOP10", 10000)
	maxDiscount := int64(5000)
	spend := int64(1000000)
	endsAt := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	v.Type = voucher.Percent
	v.Value = 10
	v.MaxDiscount = &maxDiscount
	v.MinBuyerSpendMonth = &spend
	v.EndsAt = &endsAt
	suite.Require().NoError(suite.repository.Add(ctx, v))

	got, err := suite.repository.GetByCode(ctx, "SHOP10")
	suite.Require().NoError(err)
	suite.Equal(v.ID, got.ID)
	suite.Equal(voucher.ScopeShop, got.Scope)
	suite.Require().NotNil(got.ShopID)
	suite.Equal(*v.ShopID, *got.ShopID)
	suite.Equal(maxDiscount, *got.MaxDiscount)
	suite.Equal(spend, *got.MinBuyerSpendMonth)
	suite.Nil(got.MinBuyerSpendYear)
	suite.True(endsAt.Equal(*got.EndsAt))

	_, err = suite.repository.GetByCode(ctx, "NOPE")
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *VoucherRepositoryIntegrationTestSuite) TestIncrementUsage_StopsAtTheLimit() {
	ctx := context.Background()
	v := memory.PlatformVoucher("ONCE", 10000)
	limit := 1
	v.UsageLimit = &limit
	suite.Require().NoError(suite.repository.Add(ctx, v))

	applied, err := suite.repository.IncrementUsage(ctx, v.ID)
	suite.Require().NoError(err)
	suite.True(applied)

	applied, err = suite.repository.IncrementUsage(ctx, v.ID)
	suite.Require().NoError(err)
	suite.False(applied)

	got, err := suite.repository.GetByCode(ctx, "ONCE")
	suite.Require().NoError(err)
	suite.Equal(1, got.UsedCount)

	_, err = suite.repository.IncrementUsage(ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestVoucherRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(VoucherRepositoryIntegrationTestSuite))
}
