package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/logsink"
	"marketplace/internal/adapters/out/payment"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/redis"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	gateway    ports.PaymentGateway
	sink       ports.NotificationSink
	cache      ports.IdempotencyCache
	redis      *goredis.Client
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        commands.Clock
	closers    []func() error
}

// NewCompositionRoot wires the adapters selected by config. Notifications go to Kafka
// when brokers are configured and to the log otherwise; idempotent responses are
// cached in Redis when an address is configured.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:    payment.NewMockGateway(0),
		metrics:    metrics.New(),
		logger:     logger,
		now:        time.Now,
	}

	if brokers := kafka.ParseBrokers(config.KafkaBrokers); len(brokers) > 0 {
		sink := kafka.NewNotificationSink(kafka.NewWriter(brokers, config.KafkaNotificationTopic))
		c.sink = sink
		c.closers = append(c.closers, sink.Close)
	} else {
		c.sink = logsink.NewNotificationSink(logger)
	}

	if config.RedisAddr != "" {
		c.redis = redis.NewClient(config.RedisAddr)
		c.cache = redis.NewIdempotencyCache(c.redis, c.now)
		c.closers = append(c.closers, c.redis.Close)
	}

	return c
}

// PingCache checks the Redis connection, when one is configured. The guard works
// without the cache, so callers only log a failure.
func (c *CompositionRoot) PingCache(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

// Close releases the Kafka writer and the Redis client.
func (c *CompositionRoot) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) draftUoWFactory() commands.DraftUoWFactory {
	return FuncDraftUoWFactory(func() commands.DraftUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDraftCommandHandler() commands.CreateDraftCommandHandler {
	return commands.NewCreateDraftCommandHandler(c.draftUoWFactory(), c.config.Currency, c.config.DraftTTL, c.now)
}

func (c *CompositionRoot) CreateChangeDraftShippingCommandHandler() commands.ChangeDraftShippingCommandHandler {
	return commands.NewChangeDraftShippingCommandHandler(c.draftUoWFactory(), c.now)
}

func (c *CompositionRoot) CreateChangeDraftVoucherCommandHandler() commands.ChangeDraftVoucherCommandHandler {
	return commands.NewChangeDraftVoucherCommandHandler(c.draftUoWFactory(), c.now)
}

func (c *CompositionRoot) CreateChangeDraftNoteCommandHandler() commands.ChangeDraftNoteCommandHandler {
	return commands.NewChangeDraftNoteCommandHandler(c.draftUoWFactory(), c.now)
}

func (c *CompositionRoot) CreateCommitCheckoutCommandHandler() commands.CommitCheckoutCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCommitCheckoutCommandHandler(f, c.gateway, c.now, c.logger)
}

func (c *CompositionRoot) CreateOrderActionCommandHandler() commands.OrderActionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewOrderActionCommandHandler(f, c.gateway, c.config.DisputeWindow, c.now, c.logger)
}

func (c *CompositionRoot) CreateDispatchOutboxCommandHandler() commands.DispatchOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOutboxCommandHandler(f, c.sink, c.now)
}

func (c *CompositionRoot) CreatePurgeIdempotencyRecordsCommandHandler() commands.PurgeIdempotencyRecordsCommandHandler {
	return commands.NewPurgeIdempotencyRecordsCommandHandler(postgres.NewIdempotencyStore(c.gormDB), c.now)
}

func (c *CompositionRoot) CreateIdempotencyGuard() *commands.IdempotencyGuard {
	return commands.NewIdempotencyGuard(postgres.NewIdempotencyStore(c.gormDB), c.cache, c.config.IdempotencyTTL, c.now, c.logger)
}

func (c *CompositionRoot) CreateQuoteCheckoutQueryHandler() queries.QuoteCheckoutQueryHandler {
	return queries.NewQuoteCheckoutQueryHandler(c.uowFactory, queries.Clock(c.now))
}

func (c *CompositionRoot) CreateGetDraftQueryHandler() queries.GetDraftQueryHandler {
	return queries.NewGetDraftQueryHandler(c.uowFactory, queries.Clock(c.now))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetOrderGroupQueryHandler() queries.GetOrderGroupQueryHandler {
	return queries.NewGetOrderGroupQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// CreateServer builds the HTTP server over every use case.
func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	listOrders := c.CreateListOrdersQueryHandler()
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateDraft:      c.CreateCreateDraftCommandHandler(),
		ChangeShipping:   c.CreateChangeDraftShippingCommandHandler(),
		ChangeVoucher:    c.CreateChangeDraftVoucherCommandHandler(),
		ChangeNote:       c.CreateChangeDraftNoteCommandHandler(),
		CommitCheckout:   c.CreateCommitCheckoutCommandHandler(),
		OrderAction:      c.CreateOrderActionCommandHandler(),
		IdempotencyGuard: c.CreateIdempotencyGuard(),
		QuoteCheckout:    c.CreateQuoteCheckoutQueryHandler(),
		GetDraft:         c.CreateGetDraftQueryHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		GetOrderGroup:    c.CreateGetOrderGroupQueryHandler(),
		ListOrders:       &listOrders,
	}, c.metrics, c.logger)
}

// CreateJobManager builds the scheduled outbox dispatch and idempotency purge.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOutboxCommandHandler(),
		c.CreatePurgeIdempotencyRecordsCommandHandler(),
		c.config.OutboxBatchSize,
		jobs.Schedules{
			OutboxDispatch:   c.config.OutboxDispatchSchedule,
			IdempotencyPurge: c.config.IdempotencyPurgeSchedule,
		},
		c.metrics,
		c.logger,
	)
}

type FuncDraftUoWFactory func() commands.DraftUoW

func (f FuncDraftUoWFactory) Create() commands.DraftUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
