package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// strictRefunds are the actions whose whole purpose is the refund. An unreachable gateway
// or a declined refund fails them and the order keeps its status. Other actions record a
// failed refund and go ahead.
var strictRefunds = map[order.Action]bool{
	order.ActionExecuteRefund:  true,
	order.ActionResolveDispute: true,
}

// OrderActionCommandHandler performs lifecycle transitions of orders and carries out their
// effects: restocking the items and refunding through the payment gateway.
//
// Example:
//
//	handler := NewOrderActionCommandHandler(uowFactory, gateway, 15*24*time.Hour, time.Now, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrStateConflict) {
//	    // the order moved on; offer the return, refund or dispute flow instead
//	}
type OrderActionCommandHandler struct {
	uowFactory    OrderUoWFactory
	gateway       ports.PaymentGateway
	disputeWindow time.Duration
	now           Clock
	logger        *slog.Logger
}

func NewOrderActionCommandHandler(
	uowFactory OrderUoWFactory, gateway ports.PaymentGateway, disputeWindow time.Duration, now Clock, logger *slog.Logger,
) OrderActionCommandHandler {
	return OrderActionCommandHandler{
		uowFactory:    uowFactory,
		gateway:       gateway,
		disputeWindow: disputeWindow,
		now:           now,
		logger:        logger.With("component", "order_action"),
	}
}

// Handle applies the action.
//
// Parameters:
//   - ctx: request context
//   - cmd: a command built by NewOrderActionCommand
//
// Returns:
//   - the order after the transition
//   - NotFound when the order does not exist or is not the actor's; Forbidden when the
//     actor's role may not perform the action; StateConflict when the order's status does
//     not allow it; ResourceConflict when the order changed concurrently
func (h *OrderActionCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return nil, err
	}
	from := o.Status()

	effects, err := h.apply(ctx, o, cmd, now)
	if err != nil {
		return nil, err
	}

	events, err := h.carryOut(ctx, uow, o, cmd.Action(), effects, now)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if o.Status() != from {
		changed, err := statusChanged(o, cmd, from, now)
		if err != nil {
			return nil, err
		}
		events = append(events, changed...)
	}
	if len(events) > 0 {
		if err = uow.OutboxRepository().Add(ctx, events...); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		h.logLostGatewayCall(ctx, o, cmd.Action(), effects, err)
		return nil, err
	}

	return o, nil
}

// logLostGatewayCall reports money the gateway moved for a transition that was then
// rolled back, so that it can be reconciled by hand.
func (h *OrderActionCommandHandler) logLostGatewayCall(
	ctx context.Context, o *order.Order, action order.Action, effects order.Effects, cause error,
) {
	switch {
	case action == order.ActionPay:
		h.logger.ErrorContext(ctx, "captured payment of an uncommitted transition",
			"order", o.Code(),
			"reference", o.Payment().Reference,
			"amount", o.Total(),
			"error", cause,
		)
	case effects.Refund > 0:
		refunds := o.Refunds()
		if len(refunds) == 0 {
			return
		}
		last := refunds[len(refunds)-1]
		if last.Status != order.RefundSucceeded {
			return
		}
		h.logger.ErrorContext(ctx, "refund of an uncommitted transition",
			"order", o.Code(),
			"action", string(action),
			"reference", last.Reference,
			"amount", last.Amount,
			"error", cause,
		)
	}
}

func (h *OrderActionCommandHandler) apply(
	ctx context.Context, o *order.Order, cmd OrderActionCommand, now time.Time,
) (order.Effects, error) {
	actor, p := cmd.Actor(), cmd.Params()
	none := order.Effects{}

	switch cmd.Action() {
	case order.ActionPay:
		return none, h.pay(ctx, o, actor, now)
	case order.ActionConfirm:
		return none, o.Confirm(actor, now)
	case order.ActionPack:
		return none, o.Pack(actor, now)
	case order.ActionCreateShipment:
		return none, o.CreateShipment(actor, p.Carrier, p.TrackingNumber, now)
	case order.ActionUpdateShipment:
		return none, o.UpdateShipment(actor, order.ShipmentEvent{
			Status:      p.ShipmentStatus,
			Description: p.ShipmentDescription,
			Location:    p.ShipmentLocation,
			OccurredAt:  p.ShipmentOccurredAt,
		}, now)
	case order.ActionConfirmDelivery:
		return none, o.ConfirmDelivery(actor, now)
	case order.ActionComplete:
		return none, o.Complete(actor, now)
	case order.ActionCancel:
		return o.Cancel(actor, p.Reason, now)
	case order.ActionApproveCancel:
		return o.ApproveCancel(actor, p.Note, now)
	case order.ActionRejectCancel:
		return none, o.RejectCancel(actor, p.Note, now)
	case order.ActionSellerCancel:
		return o.SellerCancel(actor, p.Reason, now)
	case order.ActionRequestReturn:
		return none, o.RequestReturn(actor, p.Reason, p.Evidence, now)
	case order.ActionApproveReturn:
		return none, o.ApproveReturn(actor, p.RestockingFee, p.Amount, p.Note, now)
	case order.ActionRejectReturn:
		return none, o.RejectReturn(actor, p.Reason, now)
	case order.ActionShipReturn:
		return none, o.ShipReturn(actor, p.Carrier, p.TrackingNumber, now)
	case order.ActionReceiveReturn:
		return o.ReceiveReturn(actor, now)
	case order.ActionRequestRefund:
		return none, o.RequestRefund(actor, p.Reason, p.Amount, now)
	case order.ActionApproveRefund:
		return none, o.ApproveRefund(actor, p.Amount, p.Note, now)
	case order.ActionExecuteRefund:
		return o.ExecuteRefund(actor, now)
	case order.ActionSettleRefund:
		return none, o.SettleRefund(actor, p.Reference, now)
	case order.ActionRejectRefund:
		return none, o.RejectRefund(actor, p.Reason, now)
	case order.ActionOpenDispute:
		return none, o.OpenDispute(actor, p.Reason, p.Evidence, h.disputeWindow, now)
	case order.ActionRespondDispute:
		return none, o.RespondDispute(actor, p.Message, now)
	case order.ActionResolveDispute:
		var refund int64
		if p.Amount != nil {
			refund = *p.Amount
		}
		return o.ResolveDispute(actor, p.Outcome, p.Resolution, refund, now)
	case order.ActionRequestDisputeRevision:
		return none, o.RequestDisputeRevision(actor, p.Reason, now)
	default:
		return none, o.Authorize(actor, cmd.Action())
	}
}

// pay retries the capture of a PENDING_PAYMENT order. The actor is authorized before
// the gateway is called.
func (h *OrderActionCommandHandler) pay(ctx context.Context, o *order.Order, actor order.Actor, now time.Time) error {
	if err := o.Authorize(actor, order.ActionPay); err != nil {
		return err
	}
	res, err := h.gateway.Capture(ctx, ports.PaymentRequest{
		OrderCode: o.Code(),
		Method:    o.Payment().Method,
		Amount:    o.Total(),
		Currency:  o.Currency(),
	})
	if err != nil {
		return err
	}
	return o.Pay(actor, res.OK, res.Reference, now)
}

// carryOut restocks and refunds as effects ask and returns the refund notifications.
func (h *OrderActionCommandHandler) carryOut(
	ctx context.Context, uow OrderUoW, o *order.Order, action order.Action, effects order.Effects, now time.Time,
) ([]notification.Event, error) {
	if effects.Restock {
		for _, it := range o.Items() {
			if err := uow.CatalogRepository().Restock(ctx, it.SKUID, it.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if effects.Refund <= 0 {
		return nil, nil
	}

	res, err := h.gateway.Refund(ctx, ports.PaymentRequest{
		OrderCode: o.Code(),
		Method:    o.Payment().Method,
		Amount:    effects.Refund,
		Currency:  o.Currency(),
		Reference: o.Payment().Reference,
	})
	if err != nil {
		if strictRefunds[action] {
			return nil, err
		}
		res = ports.PaymentResult{}
	}
	if !res.OK && strictRefunds[action] {
		return nil, errs.NewResourceConflictError("payment "+o.Code(), "refund declined")
	}
	o.RecordRefund(effects.Refund, res.OK, res.Reference, effects.RefundReason, now)

	eventType := notification.TypeRefundIssued
	if !res.OK {
		eventType = notification.TypeRefundFailed
	}
	event, err := notification.NewEvent(o.BuyerID(), eventType, notification.RefundOutcome{
		OrderCode: o.Code(),
		Amount:    effects.Refund,
		Reference: res.Reference,
		Reason:    effects.RefundReason,
	}, now)
	if err != nil {
		return nil, err
	}
	return []notification.Event{event}, nil
}

// statusChanged notifies the buyer and the seller of a status move, except whichever of
// them performed it. Admin moves notify both.
func statusChanged(o *order.Order, cmd OrderActionCommand, from order.Status, now time.Time) ([]notification.Event, error) {
	payload := notification.OrderStatusChanged{
		OrderCode: o.Code(),
		Action:    string(cmd.Action()),
		From:      from.String(),
		To:        o.Status().String(),
	}

	recipients := make([]kernel.UUID, 0, 2)
	if cmd.Actor().Role != order.RoleBuyer {
		recipients = append(recipients, o.BuyerID())
	}
	if cmd.Actor().Role != order.RoleSeller {
		recipients = append(recipients, o.SellerID())
	}

	events := make([]notification.Event, 0, len(recipients))
	for _, recipient := range recipients {
		e, err := notification.NewEvent(recipient, notification.TypeOrderStatusChanged, payload, now)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
