// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks for the narrowest set of repositories it uses.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DraftRepoFactory provides access to the draft repository within a transaction.
	DraftRepoFactory interface {
		DraftRepository() ports.DraftRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CatalogRepoFactory provides access to stock updates within a transaction.
	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	// OutboxRepoFactory provides access to the notification outbox within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// DraftUoW prices and persists checkout drafts.
	DraftUoW interface {
		TxManager
		pricing.Repositories
		DraftRepoFactory
	}

	// DraftUoWFactory creates new draft unit of work instances.
	DraftUoWFactory interface {
		Create() DraftUoW
	}

	// CheckoutUoW turns a draft into orders: it touches drafts, stock, vouchers,
	// orders, carts, chat threads and the outbox in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   draft, err := uow.DraftRepository().GetByCode(ctx, code)
	//   ok, err := uow.CatalogRepository().DecrementStock(ctx, skuID, qty)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	CheckoutUoW interface {
		DraftUoW
		ChatRepository() ports.ChatRepository
		OutboxRepoFactory
	}

	// CheckoutUoWFactory creates new checkout unit of work instances.
	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// OrderUoW manages transactions for lifecycle transitions of one order,
	// including the restock they may cause.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		CatalogRepoFactory
		OutboxRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW manages transactions for outbox dispatching.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)

// Clock returns the current time. Handlers take one so tests can pin it.
type Clock func() time.Time
