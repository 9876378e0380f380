package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CommitResult is the outcome of a commit: the orders of every shop group and the code they share.
type CommitResult struct {
	GroupCode string
	Orders    []*order.Order
}

// CommitCheckoutCommandHandler converts an Open draft into one order per shop group.
//
// Everything happens in one unit of work: voucher usage, stock, orders, chat threads,
// cart cleanup, the draft's status and the notifications to send. Stock and voucher
// usage are taken with conditional updates, so a commit that loses a race for the
// last unit aborts whole. Payments captured before such an abort are refunded.
//
// Example:
//
//	handler := NewCommitCheckoutCommandHandler(uowFactory, gateway, time.Now, logger)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrResourceConflict) {
//	    // a concurrent checkout took the stock or the voucher
//	}
type CommitCheckoutCommandHandler struct {
	uowFactory CheckoutUoWFactory
	gateway    ports.PaymentGateway
	pipeline   pricing.Pipeline
	now        Clock
	logger     *slog.Logger
}

// NewCommitCheckoutCommandHandler creates a handler for checkout commits.
func NewCommitCheckoutCommandHandler(
	uowFactory CheckoutUoWFactory, gateway ports.PaymentGateway, now Clock, logger *slog.Logger,
) CommitCheckoutCommandHandler {
	return CommitCheckoutCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		pipeline:   pricing.NewPipeline(),
		now:        now,
		logger:     logger.With("component", "checkout-committer"),
	}
}

// Handle commits the draft.
//
// Parameters:
//   - ctx: request context
//   - cmd: a command built by NewCommitCheckoutCommand
//
// Returns:
//   - the shared group code and the created orders, in the draft's group order
//   - NotFound for an unknown draft or one of another buyer; Expired or StateConflict for
//     a draft that can no longer be committed; Validation for a group without shipping
//     or for a SKU, product or shop that stopped being sellable;
//     ResourceConflict when stock, a voucher or the draft itself changed since it was priced
func (h *CommitCheckoutCommandHandler) Handle(ctx context.Context, cmd CommitCheckoutCommand) (CommitResult, error) {
	if err := cmd.Validate(); err != nil {
		return CommitResult{}, err
	}
	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CommitResult{}, err
	}

	var captured []*order.Order
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback(ctx)
			h.refundCaptures(ctx, captured)
		}
	}()

	draft, err := uow.DraftRepository().GetByCode(ctx, cmd.DraftCode())
	if err != nil {
		return CommitResult{}, err
	}
	if err = draft.EnsureOwnedBy(cmd.BuyerID()); err != nil {
		return CommitResult{}, err
	}
	if err = draft.EnsureCommittable(now); err != nil {
		return CommitResult{}, err
	}
	if err = h.checkSellable(ctx, uow, draft); err != nil {
		return CommitResult{}, err
	}
	if err = h.revalidatePricing(ctx, uow, draft, now); err != nil {
		return CommitResult{}, err
	}
	if err = h.consumeVouchers(ctx, uow, draft); err != nil {
		return CommitResult{}, err
	}

	result := CommitResult{GroupCode: kernel.NewCode(kernel.GroupCodePrefix, now)}
	var events []notification.Event
	for _, g := range draft.Groups() {
		if err = h.takeStock(ctx, uow, g); err != nil {
			return CommitResult{}, err
		}

		o, err := order.NewOrder(order.Placement{
			ID:              kernel.NewUUID(),
			Code:            kernel.NewCode(kernel.OrderCodePrefix, now),
			GroupCode:       result.GroupCode,
			DraftCode:       draft.Code(),
			BuyerID:         draft.BuyerID(),
			Currency:        draft.Currency(),
			Address:         draft.Address(),
			Note:            draft.Note(),
			Group:           g,
			PlatformVoucher: draft.PlatformVoucher(),
			PaymentMethod:   cmd.PaymentMethod(),
		}, now)
		if err != nil {
			return CommitResult{}, err
		}

		if cmd.PaymentMethod().Prepaid() {
			paid, err := h.gateway.Capture(ctx, ports.PaymentRequest{
				OrderCode: o.Code(),
				Method:    o.Payment().Method,
				Amount:    o.Total(),
				Currency:  o.Currency(),
			})
			if err != nil {
				return CommitResult{}, err
			}
			if err = o.CapturePayment(paid.OK, paid.Reference, now); err != nil {
				return CommitResult{}, err
			}
			if paid.OK {
				captured = append(captured, o)
			}
		}

		if err = uow.OrderRepository().Add(ctx, o); err != nil {
			return CommitResult{}, err
		}
		if err = uow.ChatRepository().OpenThread(ctx, o.ID(), o.BuyerID(), o.ShopID()); err != nil {
			return CommitResult{}, err
		}

		received, err := notification.NewEvent(o.SellerID(), notification.TypeOrderReceived, notification.OrderReceived{
			OrderCode: o.Code(),
			GroupCode: o.GroupCode(),
			ShopID:    o.ShopID().String(),
			Total:     o.Total(),
		}, now)
		if err != nil {
			return CommitResult{}, err
		}
		events = append(events, received)
		result.Orders = append(result.Orders, o)
	}

	if err = uow.CartRepository().RemoveSKUs(ctx, draft.BuyerID(), draft.PurchasedSKUs()); err != nil {
		return CommitResult{}, err
	}

	if err = draft.MarkCommitted(now); err != nil {
		return CommitResult{}, err
	}
	if err = uow.DraftRepository().Update(ctx, draft); err != nil {
		return CommitResult{}, err
	}

	completed, err := notification.NewEvent(draft.BuyerID(), notification.TypeCheckoutCompleted, notification.CheckoutCompleted{
		GroupCode:  result.GroupCode,
		OrderCodes: orderCodes(result.Orders),
		Total:      draft.Totals().Total,
	}, now)
	if err != nil {
		return CommitResult{}, err
	}
	if err = uow.OutboxRepository().Add(ctx, append([]notification.Event{completed}, events...)...); err != nil {
		return CommitResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CommitResult{}, err
	}
	committed = true

	return result, nil
}

// checkSellable rereads every purchased SKU with its product and shop. A draft may
// outlive a ban or a suspension, so its own reads are not trusted.
func (h *CommitCheckoutCommandHandler) checkSellable(ctx context.Context, uow CheckoutUoW, draft *checkout.Draft) error {
	skuIDs := draft.PurchasedSKUs()
	listings, err := uow.CatalogRepository().GetListings(ctx, skuIDs)
	if err != nil {
		return err
	}
	for _, id := range skuIDs {
		l, ok := listings[id]
		if !ok {
			return errs.NewNotSellableError(id.String(), "sku is no longer listed")
		}
		if err = l.CheckSellable(); err != nil {
			return err
		}
	}
	return nil
}

// revalidatePricing reprices the draft with its stored selections and fails when any
// discount moved since the draft was priced.
func (h *CommitCheckoutCommandHandler) revalidatePricing(
	ctx context.Context, uow CheckoutUoW, draft *checkout.Draft, now time.Time,
) error {
	groups, platform, err := h.pipeline.Reprice(ctx, uow, draft.BuyerID(), draft.Groups(), selectedVouchers(draft), now)
	if err != nil {
		return err
	}

	stored := draft.PlatformVoucher()
	changed := platform.Discount != stored.Discount || platform.Applied() != stored.Applied()
	for i, g := range draft.Groups() {
		changed = changed ||
			groups[i].ShopDiscount() != g.ShopDiscount() ||
			groups[i].ShopVoucher.Applied() != g.ShopVoucher.Applied() ||
			groups[i].PlatformShare != g.PlatformShare
	}
	if changed {
		return errs.NewResourceConflictError("draft "+draft.Code(), "voucher eligibility changed, refresh the draft")
	}
	return nil
}

// consumeVouchers takes one use of every applied voucher of draft.
func (h *CommitCheckoutCommandHandler) consumeVouchers(ctx context.Context, uow CheckoutUoW, draft *checkout.Draft) error {
	selections := []checkout.VoucherSelection{draft.PlatformVoucher()}
	for _, g := range draft.Groups() {
		selections = append(selections, g.ShopVoucher)
	}

	for _, s := range selections {
		if !s.Applied() {
			continue
		}
		ok, err := uow.VoucherRepository().IncrementUsage(ctx, *s.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NewResourceConflictError("voucher "+s.Code, "usage limit reached")
		}
	}
	return nil
}

// takeStock decrements the stock of every item of g, failing on the first shortfall.
func (h *CommitCheckoutCommandHandler) takeStock(ctx context.Context, uow CheckoutUoW, g checkout.Group) error {
	catalog := uow.CatalogRepository()
	for _, it := range g.Items {
		ok, err := catalog.DecrementStock(ctx, it.SKUID, it.Quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		available := 0
		if listings, err := catalog.GetListings(ctx, []kernel.UUID{it.SKUID}); err == nil {
			available = listings[it.SKUID].Stock
		}
		return errs.NewOutOfStockError(it.SKUID.String(), it.Quantity, available)
	}
	return nil
}

// refundCaptures gives back the payments of a commit that did not go through.
func (h *CommitCheckoutCommandHandler) refundCaptures(ctx context.Context, captured []*order.Order) {
	for _, o := range captured {
		p := o.Payment()
		res, err := h.gateway.Refund(context.WithoutCancel(ctx), ports.PaymentRequest{
			OrderCode: o.Code(),
			Method:    p.Method,
			Amount:    p.Amount,
			Currency:  o.Currency(),
			Reference: p.Reference,
		})
		if err != nil || !res.OK {
			h.logger.ErrorContext(ctx, "refund of an aborted commit failed",
				"order", o.Code(), "reference", p.Reference, "amount", p.Amount, "error", err)
		}
	}
}

func orderCodes(orders []*order.Order) []string {
	codes := make([]string, 0, len(orders))
	for _, o := range orders {
		codes = append(codes, o.Code())
	}
	return codes
}
