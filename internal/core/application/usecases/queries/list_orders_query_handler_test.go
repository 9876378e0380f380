package queries_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"

	"github.com/stretchr/testify/suite"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type ListOrdersQueryHandlerTestSuite struct {
	suite.Suite
	database *pgtest.Database
	handler  queries.ListOrdersQueryHandler
	repo     *orderrepo.GormOrderRepository

	buyer  kernel.UUID
	shopA  kernel.UUID
	shopB  kernel.UUID
	seller kernel.UUID
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.handler = queries.NewListOrdersQueryHandler(database.DB)
	suite.repo = orderrepo.NewGormOrderRepository(database.DB, noopTracker{})
}

func (suite *ListOrdersQueryHandlerTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Stop(context.Background()))
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.buyer = kernel.NewUUID()
	suite.shopA = kernel.NewUUID()
	suite.shopB = kernel.NewUUID()
	suite.seller = kernel.NewUUID()

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	suite.add("OD-1", suite.buyer, suite.shopA, base)
	suite.add("OD-2", suite.buyer, suite.shopB, base.Add(time.Hour))
	suite.add("OD-3", kernel.NewUUID(), suite.shopA, base.Add(2*time.Hour))

	confirmed, err := suite.repo.GetByCode(context.Background(), "OD-1")
	suite.Require().NoError(err)
	shopID := suite.shopA
	seller := order.Actor{UserID: suite.seller, Role: order.RoleSeller, ShopID: &shopID}
	suite.Require().NoError(confirmed.Confirm(seller, base.Add(3*time.Hour)))
	suite.Require().NoError(suite.repo.Update(context.Background(), confirmed))
}

func (suite *ListOrdersQueryHandlerTestSuite) add(code string, buyer, shopID kernel.UUID, at time.Time) {
	g := checkout.Group{
		ShopID:   shopID,
		ShopName: "Shop",
		SellerID: suite.seller,
		Items: []checkout.Item{
			{SKUID: kernel.NewUUID(), SKUName: "Mug", ProductID: kernel.NewUUID(), ProductName: "Mug", UnitPrice: 100000, Quantity: 1, LineTotal: 100000},
		},
		Subtotal: 100000,
		Shipping: &shipping.Option{MethodID: kernel.NewUUID(), Code: shipping.CodeStandard, Name: "Standard", Fee: 20000},
		Total:    120000,
	}
	o, err := order.NewOrder(order.Placement{
		ID:            kernel.NewUUID(),
		Code:          code,
		GroupCode:     "GR-" + code,
		DraftCode:     "CK-" + code,
		BuyerID:       buyer,
		Currency:      "VND",
		Address:       kernel.Address{FullName: "B", Phone: "1", Line1: "L", City: "C", Province: "P", Country: "VN"},
		Group:         g,
		PaymentMethod: order.PaymentCOD,
	}, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), o))
}

func (suite *ListOrdersQueryHandlerTestSuite) list(actor order.Actor, status *order.Status, limit, offset int) []string {
	query, err := queries.NewListOrdersQuery(actor, status, limit, offset)
	suite.Require().NoError(err)
	page, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	codes := make([]string, 0, len(page))
	for _, o := range page {
		codes = append(codes, o.Code)
	}
	return codes
}

func (suite *ListOrdersQueryHandlerTestSuite) TestBuyerSeesOwnOrdersNewestFirst() {
	codes := suite.list(order.Actor{UserID: suite.buyer, Role: order.RoleBuyer}, nil, 0, 0)

	suite.Equal([]string{"OD-2", "OD-1"}, codes)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestSellerSeesOrdersOfTheirShop() {
	shopID := suite.shopA
	codes := suite.list(order.Actor{UserID: suite.seller, Role: order.RoleSeller, ShopID: &shopID}, nil, 0, 0)

	suite.Equal([]string{"OD-3", "OD-1"}, codes)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestSellerWithoutShopSeesNothing() {
	codes := suite.list(order.Actor{UserID: suite.seller, Role: order.RoleSeller}, nil, 0, 0)

	suite.Empty(codes)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestAdminFiltersByStatusAndPages() {
	admin := order.Actor{UserID: kernel.NewUUID(), Role: order.RoleAdmin}
	placed := order.Placed

	suite.Equal([]string{"OD-3", "OD-2"}, suite.list(admin, &placed, 0, 0))
	suite.Equal([]string{"OD-2"}, suite.list(admin, &placed, 1, 1))

	confirmed := order.Confirmed
	query, err := queries.NewListOrdersQuery(admin, &confirmed, 0, 0)
	suite.Require().NoError(err)
	page, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal("OD-1", page[0].Code)
	suite.Equal(suite.shopA, page[0].ShopID)
	suite.Equal(order.Confirmed, page[0].Status)
	suite.EqualValues(120000, page[0].Total)
	suite.Equal(time.UTC, page[0].PlacedAt.Location())
}

func TestNewListOrdersQuery_Invalid(t *testing.T) {
	actor := order.Actor{UserID: kernel.NewUUID(), Role: order.RoleBuyer}
	for _, tc := range []struct {
		name          string
		limit, offset int
	}{
		{"limit above max", queries.MaxListOrdersLimit + 1, 0},
		{"negative limit", -1, 0},
		{"negative offset", 10, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := queries.NewListOrdersQuery(actor, nil, tc.limit, tc.offset)
			if err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestListOrdersQueryHandlerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ListOrdersQueryHandlerTestSuite))
}
