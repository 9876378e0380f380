package order

import (
	"fmt"
	"slices"

	"marketplace/internal/pkg/errs"
)

// Action names a transition of the state machine.
type Action string

const (
	ActionPay                    Action = "pay"
	ActionConfirm                Action = "confirm"
	ActionPack                   Action = "pack"
	ActionCreateShipment         Action = "create-shipment"
	ActionUpdateShipment         Action = "update-shipment"
	ActionConfirmDelivery        Action = "confirm-delivery"
	ActionComplete               Action = "complete"
	ActionCancel                 Action = "cancel"
	ActionApproveCancel          Action = "approve-cancel"
	ActionRejectCancel           Action = "reject-cancel"
	ActionSellerCancel           Action = "seller-cancel"
	ActionRequestReturn          Action = "request-return"
	ActionApproveReturn          Action = "approve-return"
	ActionRejectReturn           Action = "reject-return"
	ActionShipReturn             Action = "ship-return"
	ActionReceiveReturn          Action = "receive-return"
	ActionRequestRefund          Action = "request-refund"
	ActionApproveRefund          Action = "approve-refund"
	ActionExecuteRefund          Action = "execute-refund"
	ActionSettleRefund           Action = "settle-refund"
	ActionRejectRefund           Action = "reject-refund"
	ActionOpenDispute            Action = "open-dispute"
	ActionRespondDispute         Action = "respond-dispute"
	ActionResolveDispute         Action = "resolve-dispute"
	ActionRequestDisputeRevision Action = "request-dispute-revision"
)

type rule struct {
	from  []Status
	roles []Role
}

var (
	sellerSide = []Role{RoleSeller, RoleAdmin}
	buyerSide  = []Role{RoleBuyer, RoleAdmin}
	buyerOnly  = []Role{RoleBuyer}
	adminOnly  = []Role{RoleAdmin}
)

var rules = map[Action]rule{
	ActionPay:                    {from: []Status{PendingPayment}, roles: buyerOnly},
	ActionConfirm:                {from: []Status{PendingPayment, Placed}, roles: sellerSide},
	ActionPack:                   {from: []Status{Confirmed}, roles: sellerSide},
	ActionCreateShipment:         {from: []Status{Packing}, roles: sellerSide},
	ActionUpdateShipment:         {from: []Status{Shipped, Delivered}, roles: sellerSide},
	ActionConfirmDelivery:        {from: []Status{Shipped}, roles: buyerSide},
	ActionComplete:               {from: []Status{Delivered, ReturnRejected, Disputed}, roles: buyerSide},
	ActionCancel:                 {from: cancellable(), roles: buyerSide},
	ActionApproveCancel:          {from: []Status{CancelRequested}, roles: sellerSide},
	ActionRejectCancel:           {from: []Status{CancelRequested}, roles: sellerSide},
	ActionSellerCancel:           {from: cancellable(), roles: sellerSide},
	ActionRequestReturn:          {from: []Status{Delivered, Disputed}, roles: buyerOnly},
	ActionApproveReturn:          {from: []Status{ReturnRequested}, roles: sellerSide},
	ActionRejectReturn:           {from: []Status{ReturnRequested}, roles: sellerSide},
	ActionShipReturn:             {from: []Status{ReturnApproved}, roles: buyerOnly},
	ActionReceiveReturn:          {from: []Status{ReturnApproved}, roles: sellerSide},
	ActionRequestRefund:          {from: []Status{Delivered, Disputed}, roles: buyerOnly},
	ActionApproveRefund:          {from: []Status{RefundRequested}, roles: adminOnly},
	ActionExecuteRefund:          {from: []Status{RefundRequested}, roles: adminOnly},
	ActionSettleRefund:           {from: []Status{RefundRequested}, roles: adminOnly},
	ActionRejectRefund:           {from: []Status{RefundRequested}, roles: adminOnly},
	ActionOpenDispute:            {from: []Status{Delivered, Completed, ReturnRejected}, roles: buyerOnly},
	ActionRespondDispute:         {from: []Status{Disputed}, roles: []Role{RoleSeller}},
	ActionResolveDispute:         {from: []Status{Disputed}, roles: adminOnly},
	ActionRequestDisputeRevision: {from: []Status{Disputed}, roles: []Role{RoleBuyer, RoleSeller}},
}

// ParseAction accepts the names of the actions above.
func ParseAction(s string) (Action, error) {
	if _, ok := rules[Action(s)]; !ok {
		return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", s))
	}
	return Action(s), nil
}

// Allowed lists the actions actor may perform on o right now.
func (o *Order) Allowed(actor Actor) []Action {
	out := make([]Action, 0)
	for a := range rules {
		if o.Authorize(actor, a) == nil {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return out
}

// Authorize checks, in this order, that the actor may see the order, that the
// actor's role may perform the action, and that the current status allows it.
func (o *Order) Authorize(actor Actor, action Action) error {
	r, ok := rules[action]
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", action))
	}
	if !o.VisibleTo(actor) {
		return errs.NewObjectNotFoundError("order", o.code)
	}
	if !slices.Contains(r.roles, actor.Role) {
		return errs.NewForbiddenError(string(action), string(actor.Role))
	}
	if !slices.Contains(r.from, o.status) {
		return errs.NewStateConflictError(string(action), o.status.String())
	}
	return nil
}

// VisibleTo reports whether actor owns the order: its buyer, its shop's seller, or any admin.
func (o *Order) VisibleTo(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleBuyer:
		return o.buyerID.IsEqual(actor.UserID)
	case RoleSeller:
		return actor.ShopID != nil && o.shopID.IsEqual(*actor.ShopID)
	default:
		return false
	}
}
