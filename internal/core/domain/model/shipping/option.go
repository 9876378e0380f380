package shipping

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// ErrorOutOfService marks a group whose shop has no method serving the destination.
const ErrorOutOfService = "OUT_OF_SERVICE"

// Option is a priced shipping method for one shop group.
type Option struct {
	MethodID      kernel.UUID `json:"methodId"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Fee           int64       `json:"fee"`
	MinDays       int         `json:"minDays"`
	MaxDays       int         `json:"maxDays"`
	EstimatedFrom time.Time   `json:"estimatedFrom"`
	EstimatedTo   time.Time   `json:"estimatedTo"`
}

// Quote is the result of quoting one group: options sorted by fee, or an error code.
type Quote struct {
	Options []Option
	Error   string
}

// Cheapest returns the default selection. ok is false for an out-of-service quote.
func (q Quote) Cheapest() (Option, bool) {
	if len(q.Options) == 0 {
		return Option{}, false
	}
	return q.Options[0], true
}

// Find returns the option with the given code.
func (q Quote) Find(code string) (Option, bool) {
	for _, o := range q.Options {
		if o.Code == code {
			return o, true
		}
	}
	return Option{}, false
}
