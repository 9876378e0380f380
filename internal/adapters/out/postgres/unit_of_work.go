// Package postgres provides the GORM-based Unit of Work over every checkout and order
// repository. A unit of work binds the repositories it hands out to one transaction, so
// stock, voucher usage, orders, cart cleanup and outbox events of a checkout commit or
// roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	applied, err := uow.CatalogRepository().DecrementStock(ctx, skuID, 2)
//	if err != nil {
//	    return err
//	}
//	if !applied {
//	    return errs.NewOutOfStockError(skuID.String(), 2, 0)
//	}
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides an isolated transaction
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Stock, voucher usage, drafts and orders are guarded by conditional updates,
//     not by row locks held across reads
package postgres

import (
	"context"

	"marketplace/internal/adapters/out/postgres/buyerrepo"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/chatrepo"
	"marketplace/internal/adapters/out/postgres/draftrepo"
	"marketplace/internal/adapters/out/postgres/idempotencyrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/outboxrepo"
	"marketplace/internal/adapters/out/postgres/shippingrepo"
	"marketplace/internal/adapters/out/postgres/voucherrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate added or updated during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work with its own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the drafts and orders
// written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction. Calling it again on an active unit of
// work does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes a
// deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.conn())
}

func (uow *GormUnitOfWork) ShippingMethodRepository() ports.ShippingMethodRepository {
	return shippingrepo.NewGormShippingMethodRepository(uow.conn())
}

func (uow *GormUnitOfWork) VoucherRepository() ports.VoucherRepository {
	return voucherrepo.NewGormVoucherRepository(uow.conn())
}

func (uow *GormUnitOfWork) AddressRepository() ports.AddressRepository {
	return buyerrepo.NewGormAddressRepository(uow.conn())
}

func (uow *GormUnitOfWork) CartRepository() ports.CartRepository {
	return buyerrepo.NewGormCartRepository(uow.conn())
}

// DraftRepository returns the draft repository bound to the current transaction.
// Drafts it adds or updates are tracked.
func (uow *GormUnitOfWork) DraftRepository() ports.DraftRepository {
	return draftrepo.NewGormDraftRepository(uow.conn(), uow)
}

// OrderRepository returns the order repository bound to the current transaction.
// Orders it adds or updates are tracked.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ChatRepository() ports.ChatRepository {
	return chatrepo.NewGormChatRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate as written within this unit of work.
// Called by repository implementations.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount returns how many aggregate writes the unit of work has seen.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

// Models lists every table the service owns, in creation order.
func Models() []any {
	return []any{
		&catalogrepo.ShopDTO{},
		&catalogrepo.ProductDTO{},
		&catalogrepo.SKUDTO{},
		&shippingrepo.ShippingMethodDTO{},
		&voucherrepo.VoucherDTO{},
		&buyerrepo.AddressDTO{},
		&buyerrepo.CartLineDTO{},
		&draftrepo.DraftDTO{},
		&draftrepo.DraftGroupDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&chatrepo.ChatThreadDTO{},
		&outboxrepo.OutboxDTO{},
		&idempotencyrepo.RecordDTO{},
	}
}

// Migrate creates or updates the schema of every table in Models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// NewIdempotencyStore returns the idempotency store on db. It never joins a unit of
// work's transaction.
func NewIdempotencyStore(db *gorm.DB) *idempotencyrepo.GormIdempotencyStore {
	return idempotencyrepo.NewGormIdempotencyStore(db)
}
