package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle. Repositories obtained
// before Begin, or without it, run outside of any transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	CatalogRepository() CatalogRepository
	ShippingMethodRepository() ShippingMethodRepository
	VoucherRepository() VoucherRepository
	AddressRepository() AddressRepository
	CartRepository() CartRepository
	DraftRepository() DraftRepository
	OrderRepository() OrderRepository
	ChatRepository() ChatRepository
	OutboxRepository() OutboxRepository
}
