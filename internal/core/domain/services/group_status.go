package services

import "marketplace/internal/core/domain/model/order"

// groupStatusPriority ranks statuses for SummarizeGroupStatus, highest first.
// Statuses waiting on someone's action outrank settled ones.
var groupStatusPriority = []order.Status{
	order.Disputed,
	order.RefundRequested,
	order.ReturnRequested,
	order.ReturnApproved,
	order.CancelRequested,
	order.PendingPayment,
	order.Placed,
	order.Confirmed,
	order.Packing,
	order.Shipped,
	order.Delivered,
	order.ReturnReceived,
	order.ReturnRejected,
	order.Refunded,
	order.Completed,
	order.Cancelled,
}

// SummarizeGroupStatus derives the one status shown for the sibling orders of a checkout.
// It is a display convenience: the highest-ranked status present wins.
func SummarizeGroupStatus(statuses []order.Status) order.Status {
	present := make(map[order.Status]bool, len(statuses))
	for _, s := range statuses {
		present[s] = true
	}
	for _, s := range groupStatusPriority {
		if present[s] {
			return s
		}
	}
	return order.Unknown
}
