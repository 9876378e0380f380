package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// CapturePayment records the gateway's answer for a prepaid order awaiting payment.
// A declined capture leaves the order PENDING_PAYMENT.
func (o *Order) CapturePayment(ok bool, reference string, now time.Time) error {
	if o.status != PendingPayment {
		return errs.NewStateConflictError("capturing payment", o.status.String())
	}
	o.payment.Reference = reference
	if !ok {
		o.touch(now)
		return nil
	}
	o.payment.Status = PaymentCaptured
	o.payment.CapturedAt = &now
	o.paidAt = &now
	o.status = Placed
	o.touch(now)
	return nil
}

// Pay completes a pending prepaid order after a retried capture.
func (o *Order) Pay(actor Actor, ok bool, reference string, now time.Time) error {
	if err := o.Authorize(actor, ActionPay); err != nil {
		return err
	}
	if !ok {
		return errs.NewResourceConflictError("payment "+o.code, "capture declined")
	}
	return o.CapturePayment(true, reference, now)
}

// Confirm accepts the order on the seller's side.
func (o *Order) Confirm(actor Actor, now time.Time) error {
	if err := o.Authorize(actor, ActionConfirm); err != nil {
		return err
	}
	o.status = Confirmed
	o.confirmedAt = &now
	o.touch(now)
	return nil
}

// Pack marks the parcel as being prepared.
func (o *Order) Pack(actor Actor, now time.Time) error {
	if err := o.Authorize(actor, ActionPack); err != nil {
		return err
	}
	o.status = Packing
	o.touch(now)
	return nil
}

// CreateShipment hands the parcel to a carrier. SHIPPED requires a shipment record.
func (o *Order) CreateShipment(actor Actor, carrier, trackingNumber string, now time.Time) error {
	if err := o.Authorize(actor, ActionCreateShipment); err != nil {
		return err
	}
	if err := errors.Join(required("carrier", carrier), required("trackingNumber", trackingNumber)); err != nil {
		return err
	}
	o.shipment = &Shipment{
		Carrier:        strings.TrimSpace(carrier),
		TrackingNumber: strings.TrimSpace(trackingNumber),
		Status:         "SHIPPED",
		Events:         []ShipmentEvent{{Status: "SHIPPED", OccurredAt: now}},
		CreatedAt:      now,
	}
	o.status = Shipped
	o.shippedAt = &now
	o.touch(now)
	return nil
}

// UpdateShipment appends a carrier event. A DELIVERED event moves a shipped order to DELIVERED.
func (o *Order) UpdateShipment(actor Actor, event ShipmentEvent, now time.Time) error {
	if err := o.Authorize(actor, ActionUpdateShipment); err != nil {
		return err
	}
	event.Status = strings.ToUpper(strings.TrimSpace(event.Status))
	if err := required("status", event.Status); err != nil {
		return err
	}
	if o.shipment == nil {
		return errs.NewStateConflictError(string(ActionUpdateShipment), "an order without a shipment")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now
	}
	o.shipment.Events = append(o.shipment.Events, event)
	o.shipment.Status = event.Status
	if event.Status == CarrierDelivered && o.status == Shipped {
		o.deliver(now)
	}
	o.touch(now)
	return nil
}

// ConfirmDelivery is the buyer confirming receipt.
func (o *Order) ConfirmDelivery(actor Actor, now time.Time) error {
	if err := o.Authorize(actor, ActionConfirmDelivery); err != nil {
		return err
	}
	o.deliver(now)
	o.touch(now)
	return nil
}

func (o *Order) deliver(now time.Time) {
	o.status = Delivered
	o.deliveredAt = &now
	if o.payment.Method == PaymentCOD && o.payment.Status == PaymentUnpaid {
		o.payment.Status = PaymentCaptured
		o.payment.CapturedAt = &now
		o.paidAt = &now
	}
}

// Complete closes a delivered order. A disputed order completes only once its dispute is finalized.
func (o *Order) Complete(actor Actor, now time.Time) error {
	if err := o.Authorize(actor, ActionComplete); err != nil {
		return err
	}
	if o.status == Disputed && (!o.dispute.Status.Finalized() || o.dispute.RevisionRequested) {
		return errs.NewStateConflictError("complete", "DISPUTED with an open dispute")
	}
	o.status = Completed
	o.completedAt = &now
	o.touch(now)
	return nil
}

// Cancel is the buyer's (or an admin's) cancellation. Before confirmation, or when done by an
// admin, it cancels at once and asks for a restock and a refund of what was captured. After
// confirmation it only files a request that the seller must decide.
func (o *Order) Cancel(actor Actor, reason string, now time.Time) (Effects, error) {
	if err := o.Authorize(actor, ActionCancel); err != nil {
		return Effects{}, err
	}
	if actor.Role == RoleAdmin || o.status == PendingPayment || o.status == Placed {
		return o.cancelNow("cancelled: "+reason, now), nil
	}
	if err := required("reason", reason); err != nil {
		return Effects{}, err
	}
	o.cancelRequest = &CancelRequest{
		Reason:      strings.TrimSpace(reason),
		Status:      RequestPending,
		PrevStatus:  o.status,
		RequestedAt: now,
	}
	o.status = CancelRequested
	o.touch(now)
	return Effects{}, nil
}

// ApproveCancel grants a pending cancel request.
func (o *Order) ApproveCancel(actor Actor, note string, now time.Time) (Effects, error) {
	if err := o.Authorize(actor, ActionApproveCancel); err != nil {
		return Effects{}, err
	}
	o.cancelRequest.Status = RequestApproved
	o.cancelRequest.Decision = note
	o.cancelRequest.DecidedAt = &now
	return o.cancelNow("cancel request approved", now), nil
}

// RejectCancel refuses a pending cancel request; the order returns to where it was.
func (o *Order) RejectCancel(actor Actor, note string, now time.Time) error {
	if err := o.Authorize(actor, ActionRejectCancel); err != nil {
		return err
	}
	o.cancelRequest.Status = RequestRejected
	o.cancelRequest.Decision = note
	o.cancelRequest.DecidedAt = &now
	o.status = o.cancelRequest.PrevStatus
	o.touch(now)
	return nil
}

// SellerCancel is the seller rejecting the order before it ships.
func (o *Order) SellerCancel(actor Actor, reason string, now time.Time) (Effects, error) {
	if err := o.Authorize(actor, ActionSellerCancel); err != nil {
		return Effects{}, err
	}
	if err := required("reason", reason); err != nil {
		return Effects{}, err
	}
	return o.cancelNow("rejected by seller: "+reason, now), nil
}

func (o *Order) cancelNow(reason string, now time.Time) Effects {
	o.status = Cancelled
	o.cancelledAt = &now
	o.touch(now)
	return Effects{Restock: true, Refund: o.payment.Refundable(), RefundReason: reason}
}

// RequestReturn asks to send the goods back.
func (o *Order) RequestReturn(actor Actor, reason string, evidence []string, now time.Time) error {
	if err := o.Authorize(actor, ActionRequestReturn); err != nil {
		return err
	}
	if err := required("reason", reason); err != nil {
		return err
	}
	o.returnRequest = &ReturnRequest{
		Reason:      strings.TrimSpace(reason),
		Evidence:    append([]string(nil), evidence...),
		Status:      RequestPending,
		RequestedAt: now,
	}
	o.status = ReturnRequested
	o.touch(now)
	return nil
}

// ApproveReturn accepts a return, optionally with a restocking fee or an explicit refund amount.
func (o *Order) ApproveReturn(actor Actor, restockingFee int64, refundAmount *int64, note string, now time.Time) error {
	if err := o.Authorize(actor, ActionApproveReturn); err != nil {
		return err
	}
	if restockingFee < 0 || restockingFee > o.total {
		return errs.NewValueIsOutOfRangeError("restockingFee", restockingFee, 0, o.total)
	}
	if refundAmount != nil && (*refundAmount < 0 || *refundAmount > o.total) {
		return errs.NewValueIsOutOfRangeError("refundAmount", *refundAmount, 0, o.total)
	}
	o.returnRequest.Status = RequestApproved
	o.returnRequest.RestockingFee = restockingFee
	o.returnRequest.RefundAmount = refundAmount
	o.returnRequest.Decision = note
	o.returnRequest.DecidedAt = &now
	o.status = ReturnApproved
	o.touch(now)
	return nil
}

// RejectReturn refuses a return.
func (o *Order) RejectReturn(actor Actor, reason string, now time.Time) error {
	if err := o.Authorize(actor, ActionRejectReturn); err != nil {
		return err
	}
	if err := required("reason", reason); err != nil {
		return err
	}
	o.returnRequest.Status = RequestRejected
	o.returnRequest.Decision = strings.TrimSpace(reason)
	o.returnRequest.DecidedAt = &now
	o.status = ReturnRejected
	o.touch(now)
	return nil
}

// ShipReturn records the parcel the buyer sent back.
func (o *Order) ShipReturn(actor Actor, carrier, trackingNumber string, now time.Time) error {
	if err := o.Authorize(actor, ActionShipReturn); err != nil {
		return err
	}
	if err := errors.Join(required("carrier", carrier), required("trackingNumber", trackingNumber)); err != nil {
		return err
	}
	o.returnRequest.Carrier = strings.TrimSpace(carrier)
	o.returnRequest.TrackingNumber = strings.TrimSpace(trackingNumber)
	o.returnRequest.ShippedBackAt = &now
	o.touch(now)
	return nil
}

// ReceiveReturn closes an approved return: the goods are restocked and the buyer is refunded
// min(total, refundAmount or total − restockingFee).
func (o *Order) ReceiveReturn(actor Actor, now time.Time) (Effects, error) {
	if err := o.Authorize(actor, ActionReceiveReturn); err != nil {
		return Effects{}, err
	}
	rr := o.returnRequest
	amount := o.total - rr.RestockingFee
	if rr.RefundAmount != nil {
		amount = *rr.RefundAmount
	}
	amount = max(0, min(o.total, amount))

	rr.Status = RequestDone
	rr.ReceivedAt = &now
	o.status = ReturnReceived
	o.touch(now)
	return Effects{Restock: true, Refund: min(amount, o.payment.Refundable()), RefundReason: "return received"}, nil
}

// RequestRefund asks for money back without returning goods. amount defaults to the total.
func (o *Order) RequestRefund(actor Actor, reason string, amount *int64, now time.Time) error {
	if err := o.Authorize(actor, ActionRequestRefund); err != nil {
		return err
	}
	if err := required("reason", reason); err != nil {
		return err
	}
	requested := o.total
	if amount != nil {
		requested = *amount
	}
	if requested <= 0 || requested > o.total {
		return errs.NewValueIsOutOfRangeError("amount", requested, 1, o.total)
	}
	o.refundRequest = &RefundRequest{
		Reason:      strings.TrimSpace(reason),
		Amount:      requested,
		Status:      RequestPending,
		PrevStatus:  o.status,
		RequestedAt: now,
	}
	o.status = RefundRequested
	o.touch(now)
	return nil
}

// ApproveRefund approves a refund request, optionally lowering the amount. The money moves on execute.
func (o *Order) ApproveRefund(actor Actor, amount *int64, note string, now time.Time) error {
	if err := o.Authorize(actor, ActionApproveRefund); err != nil {
		return err
	}
	if o.refundRequest.Status != RequestPending {
		return errs.NewStateConflictError(string(ActionApproveRefund), "refund request "+string(o.refundRequest.Status))
	}
	if amount != nil {
		if *amount <= 0 || *amount > o.total {
			return errs.NewValueIsOutOfRangeError("amount", *amount, 1, o.total)
		}
		o.refundRequest.Amount = *amount
	}
	o.refundRequest.Status = RequestApproved
	o.refundRequest.Decision = note
	o.refundRequest.DecidedAt = &now
	o.touch(now)
	return nil
}

// ExecuteRefund pays out an approved refund request through the gateway.
func (o *Order) ExecuteRefund(actor Actor, now time.Time) (Effects, error) {
	if err := o.Authorize(actor, ActionExecuteRefund); err != nil {
		return Effects{}, err
	}
	if o.refundRequest.Status != RequestApproved {
		return Effects{}, errs.NewStateConflictError(string(ActionExecuteRefund), "refund request "+string(o.refundRequest.Status))
	}
	o.refundRequest.Status = RequestDone
	o.status = Refunded
	o.touch(now)
	return Effects{Refund: min(o.refundRequest.Amount, o.payment.Refundable()), RefundReason: "refund request"}, nil
}

// SettleRefund closes a refund request paid outside the gateway, identified by reference.
func (o *Order) SettleRefund(actor Actor, reference string, now time.Time) error {
	if err := o.Authorize(actor, ActionSettleRefund); err != nil {
		return err
	}
	if err := required("reference", reference); err != nil {
		return err
	}
	if o.refundRequest.Status == RequestPending {
		o.refundRequest.DecidedAt = &now
	}
	o.refundRequest.Status = RequestDone
	o.status = Refunded
	o.appendRefund(o.refundRequest.Amount, true, strings.TrimSpace(reference), "refund settled manually", true, now)
	o.touch(now)
	return nil
}

// RejectRefund refuses a refund request; the order returns to where it was.
func (o *Order) RejectRefund(actor Actor, reason string, now time.Time) error {
	if err := o.Authorize(actor, ActionRejectRefund); err != nil {
		return err
	}
	o.refundRequest.Status = RequestRejected
	o.refundRequest.Decision = reason
	o.refundRequest.DecidedAt = &now
	o.status = o.refundRequest.PrevStatus
	o.touch(now)
	return nil
}

// OpenDispute escalates the order to an admin. It is allowed once per order, within window of delivery.
func (o *Order) OpenDispute(actor Actor, reason string, evidence []string, window time.Duration, now time.Time) error {
	if err := o.Authorize(actor, ActionOpenDispute); err != nil {
		return err
	}
	if o.dispute != nil {
		return errs.NewStateConflictError(string(ActionOpenDispute), "an order with a dispute")
	}
	if err := required("reason", reason); err != nil {
		return err
	}
	if o.deliveredAt == nil {
		return errs.NewStateConflictError(string(ActionOpenDispute), "an undelivered order")
	}
	if deadline := o.deliveredAt.Add(window); now.After(deadline) {
		return errs.NewExpiredError("dispute window of "+o.code, deadline)
	}
	o.dispute = &Dispute{
		Reason:     strings.TrimSpace(reason),
		Evidence:   append([]string(nil), evidence...),
		Status:     DisputeOpen,
		PrevStatus: o.status,
		OpenedAt:   now,
	}
	o.status = Disputed
	o.touch(now)
	return nil
}

// RespondDispute records the seller's side of an open dispute.
func (o *Order) RespondDispute(actor Actor, message string, now time.Time) error {
	if err := o.Authorize(actor, ActionRespondDispute); err != nil {
		return err
	}
	if o.dispute.Status != DisputeOpen {
		return errs.NewStateConflictError(string(ActionRespondDispute), "dispute "+string(o.dispute.Status))
	}
	if err := required("message", message); err != nil {
		return err
	}
	o.dispute.Status = DisputeResponded
	o.dispute.SellerResponse = strings.TrimSpace(message)
	o.dispute.RespondedAt = &now
	o.touch(now)
	return nil
}

// ResolveDispute is the admin's ruling. A RESOLVED ruling with a refund moves the order to
// REFUNDED; otherwise the order stays DISPUTED with a finalized dispute. A finalized dispute
// is ruled on again only after a revision request, and at most MaxDisputeRevisions times.
func (o *Order) ResolveDispute(
	actor Actor, outcome DisputeStatus, resolution string, refund int64, now time.Time,
) (Effects, error) {
	if err := o.Authorize(actor, ActionResolveDispute); err != nil {
		return Effects{}, err
	}
	if !outcome.Finalized() {
		return Effects{}, errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%q is not RESOLVED or REJECTED", outcome))
	}
	if refund < 0 || refund > o.total || (outcome == DisputeRejected && refund != 0) {
		return Effects{}, errs.NewValueIsOutOfRangeError("refundAmount", refund, 0, o.total)
	}

	d := o.dispute
	if d.Status.Finalized() {
		if !d.RevisionRequested || d.RevisionCount >= MaxDisputeRevisions {
			return Effects{}, errs.NewStateConflictError(string(ActionResolveDispute), "dispute "+string(d.Status))
		}
		d.RevisionCount++
		d.RevisionRequested = false
	}
	d.Status = outcome
	d.Resolution = strings.TrimSpace(resolution)
	d.RefundAmount = refund
	d.ResolvedAt = &now
	o.touch(now)

	if outcome == DisputeResolved && refund > 0 {
		o.status = Refunded
		return Effects{Refund: min(refund, o.payment.Refundable()), RefundReason: "dispute resolved"}, nil
	}
	return Effects{}, nil
}

// RequestDisputeRevision asks for a finalized dispute to be ruled on again.
func (o *Order) RequestDisputeRevision(actor Actor, reason string, now time.Time) error {
	if err := o.Authorize(actor, ActionRequestDisputeRevision); err != nil {
		return err
	}
	d := o.dispute
	if !d.Status.Finalized() || d.RevisionRequested || d.RevisionCount >= MaxDisputeRevisions {
		return errs.NewStateConflictError(string(ActionRequestDisputeRevision), "dispute "+string(d.Status))
	}
	if err := required("reason", reason); err != nil {
		return err
	}
	d.RevisionRequested = true
	d.RevisionReason = strings.TrimSpace(reason)
	o.touch(now)
	return nil
}

// RecordRefund stores the gateway's answer to a refund asked for by Effects.
func (o *Order) RecordRefund(amount int64, ok bool, reference, reason string, now time.Time) {
	o.appendRefund(amount, ok, reference, reason, false, now)
	o.touch(now)
}

func (o *Order) appendRefund(amount int64, ok bool, reference, reason string, manual bool, now time.Time) {
	status := RefundFailed
	if ok {
		status = RefundSucceeded
	}
	o.refunds = append(o.refunds, Refund{
		ID:        kernel.NewUUID(),
		Amount:    amount,
		Status:    status,
		Reason:    reason,
		Reference: reference,
		Manual:    manual,
		CreatedAt: now,
	})
	if ok && o.payment.Status == PaymentCaptured {
		o.payment.Refunded += min(amount, o.payment.Refundable())
		if o.payment.Refunded >= o.payment.Amount {
			o.payment.Status = PaymentRefunded
		}
	}
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
