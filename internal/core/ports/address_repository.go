package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// AddressRepository reads the saved addresses of users.
type AddressRepository interface {
	// Get returns the address id owned by ownerID. Addresses of other users are not found.
	Get(ctx context.Context, id, ownerID kernel.UUID) (kernel.Address, error)
}
