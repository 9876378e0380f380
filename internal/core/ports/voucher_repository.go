package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/voucher"
)

// VoucherRepository reads vouchers and consumes their usage.
type VoucherRepository interface {
	// GetByCode returns the voucher with the normalized code, or an ObjectNotFoundError.
	GetByCode(ctx context.Context, code string) (voucher.Voucher, error)

	// IncrementUsage adds one use, only while the usage limit is not reached.
	// It reports false when it did not apply.
	IncrementUsage(ctx context.Context, id kernel.UUID) (bool, error)
}
