package commands

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrOrderActionCommandIsNotConstructed = errors.New(
	"OrderActionCommand must be created via NewOrderActionCommand constructor",
)

// ActionParams carries the inputs of every lifecycle action. Each action reads only
// the fields it needs; the others are ignored.
type ActionParams struct {
	Reason         string
	Note           string
	Message        string
	Evidence       []string
	Carrier        string
	TrackingNumber string
	Reference      string
	Amount         *int64
	RestockingFee  int64
	Outcome        order.DisputeStatus
	Resolution     string

	ShipmentStatus      string
	ShipmentDescription string
	ShipmentLocation    string
	ShipmentOccurredAt  time.Time
}

// OrderActionCommand represents one actor performing one transition on one order.
//
// Example:
//
//	actor, _ := order.NewActor(sellerID, order.RoleSeller, &shopID)
//	cmd, err := NewOrderActionCommand(actor, "OD260117K3JXQ7AB", "create-shipment", ActionParams{
//	    Carrier:        "GHN",
//	    TrackingNumber: "GHN123456",
//	})
type OrderActionCommand struct { //nolint:recvcheck //using for validation
	actor     order.Actor
	orderCode string
	action    order.Action
	params    ActionParams

	guard guard.ConstructorGuard
}

func NewOrderActionCommand(actor order.Actor, orderCode, action string, params ActionParams) (OrderActionCommand, error) {
	cmd := OrderActionCommand{
		guard:  guard.NewConstructorGuard(),
		params: params,
	}

	var err error
	if _, actorErr := order.NewActor(actor.UserID, actor.Role, actor.ShopID); actorErr != nil {
		err = errors.Join(err, actorErr)
	}
	if strings.TrimSpace(orderCode) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("orderCode"))
	}
	parsed, actionErr := order.ParseAction(strings.TrimSpace(action))
	if actionErr != nil {
		err = errors.Join(err, actionErr)
	}
	if params.Amount != nil && *params.Amount < 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("amount", *params.Amount, 0, "unbounded"))
	}
	if err != nil {
		return OrderActionCommand{}, err
	}

	cmd.actor = actor
	cmd.orderCode = strings.TrimSpace(orderCode)
	cmd.action = parsed
	cmd.params.Evidence = append([]string(nil), params.Evidence...)
	return cmd, nil
}

func (c OrderActionCommand) Validate() error {
	return c.guard.Validate(ErrOrderActionCommandIsNotConstructed)
}

func (c OrderActionCommand) Actor() order.Actor   { return c.actor }
func (c OrderActionCommand) OrderCode() string    { return c.orderCode }
func (c OrderActionCommand) Action() order.Action { return c.action }
func (c OrderActionCommand) Params() ActionParams { return c.params }
