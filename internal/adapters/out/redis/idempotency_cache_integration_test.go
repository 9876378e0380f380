package redis_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	redisadapter "marketplace/internal/adapters/out/redis"
	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var t0 = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type IdempotencyCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *goredis.Client
	cache     *redisadapter.IdempotencyCache
}

func (suite *IdempotencyCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.client = redisadapter.NewClient(endpoint)
}

func (suite *IdempotencyCacheIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
	suite.cache = redisadapter.NewIdempotencyCache(suite.client, func() time.Time { return t0 })
}

func (suite *IdempotencyCacheIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	_ = suite.client.Close()
	suite.Require().NoError(suite.container.Terminate(ctx))
}

func (suite *IdempotencyCacheIntegrationTestSuite) TestPutThenGet_ReturnsTheResponse() {
	ctx := context.Background()
	caller := kernel.NewUUID()
	rec := suite.settled("key-1", caller)

	suite.Require().NoError(suite.cache.Put(ctx, rec))

	cached, err := suite.cache.Get(ctx, "key-1", "checkout.commit", caller)
	suite.Require().NoError(err)
	suite.Require().NotNil(cached)
	suite.Equal(idempotency.Succeeded, cached.Status)
	suite.Equal("hash-a", cached.Hash)
	suite.Equal(http.StatusCreated, cached.Response.StatusCode)
	suite.JSONEq(`{"groupCode":"GR-1"}`, string(cached.Response.Body))
	suite.True(rec.ExpiresAt.Equal(cached.ExpiresAt))

	ttl, err := suite.client.TTL(ctx, "idem:checkout.commit:"+caller.String()+":key-1").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
}

func (suite *IdempotencyCacheIntegrationTestSuite) TestGet_MissIsNil() {
	cached, err := suite.cache.Get(context.Background(), "key-1", "checkout.commit", kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Nil(cached)
}

func (suite *IdempotencyCacheIntegrationTestSuite) TestPut_IgnoresUnsettledAndExpiredRecords() {
	ctx := context.Background()
	caller := kernel.NewUUID()

	inFlight, err := idempotency.NewRecord("key-1", "checkout.commit", caller, "hash-a", t0, time.Hour)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.cache.Put(ctx, inFlight))

	expired := suite.settled("key-2", caller)
	expired.ExpiresAt = t0.Add(-time.Minute)
	suite.Require().NoError(suite.cache.Put(ctx, expired))

	keys, err := suite.client.Keys(ctx, "idem:*").Result()
	suite.Require().NoError(err)
	suite.Empty(keys)
}

func (suite *IdempotencyCacheIntegrationTestSuite) TestGet_KeysAreScopedToTheirCaller() {
	ctx := context.Background()
	suite.Require().NoError(suite.cache.Put(ctx, suite.settled("key-1", kernel.NewUUID())))

	cached, err := suite.cache.Get(ctx, "key-1", "checkout.commit", kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Nil(cached)
}

func (suite *IdempotencyCacheIntegrationTestSuite) settled(key string, caller kernel.UUID) idempotency.Record {
	rec, err := idempotency.NewRecord(key, "checkout.commit", caller, "hash-a", t0, 24*time.Hour)
	suite.Require().NoError(err)
	rec.Succeed(idempotency.Response{StatusCode: http.StatusCreated, Body: []byte(`{"groupCode":"GR-1"}`)}, t0)
	return rec
}

func TestIdempotencyCacheIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(IdempotencyCacheIntegrationTestSuite))
}
