package memory

import (
	"context"
	"errors"

	"marketplace/internal/core/ports"
)

var _ ports.UnitOfWork = &UnitOfWork{}

// ErrNoTransaction is returned by Commit and Rollback outside of a transaction.
var ErrNoTransaction = errors.New("memory: no transaction in progress")

// UnitOfWork runs at most one transaction against its store.
type UnitOfWork struct {
	store  *Store
	backup *state
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.backup != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.txMu.Lock()
	u.store.mu.Lock()
	backup := u.store.state.clone()
	u.store.mu.Unlock()
	u.backup = &backup
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.backup == nil {
		return ErrNoTransaction
	}
	u.backup = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.backup == nil {
		return ErrNoTransaction
	}
	u.store.mu.Lock()
	u.store.state = *u.backup
	u.store.mu.Unlock()
	u.backup = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogRepository{u.store}
}

func (u *UnitOfWork) ShippingMethodRepository() ports.ShippingMethodRepository {
	return shippingMethodRepository{u.store}
}

func (u *UnitOfWork) VoucherRepository() ports.VoucherRepository {
	return voucherRepository{u.store}
}

func (u *UnitOfWork) AddressRepository() ports.AddressRepository {
	return addressRepository{u.store}
}

func (u *UnitOfWork) CartRepository() ports.CartRepository {
	return cartRepository{u.store}
}

func (u *UnitOfWork) DraftRepository() ports.DraftRepository {
	return draftRepository{u.store}
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return orderRepository{u.store}
}

func (u *UnitOfWork) ChatRepository() ports.ChatRepository {
	return chatRepository{u.store}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxRepository{u.store}
}
