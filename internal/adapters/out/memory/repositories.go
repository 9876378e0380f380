package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/model/voucher"
	"marketplace/internal/pkg/errs"
)

type catalogRepository struct{ store *Store }

func (r catalogRepository) GetListings(_ context.Context, skuIDs []kernel.UUID) (map[kernel.UUID]catalog.Listing, error) {
	result := make(map[kernel.UUID]catalog.Listing, len(skuIDs))
	r.store.with(func(st *state) {
		for _, id := range skuIDs {
			if l, ok := st.listings[id]; ok {
				result[id] = l
			}
		}
	})
	return result, nil
}

func (r catalogRepository) DecrementStock(_ context.Context, skuID kernel.UUID, quantity int) (bool, error) {
	applied := false
	err := r.store.write(func(st *state) error {
		l, ok := st.listings[skuID]
		if !ok {
			return errs.NewObjectNotFoundError("sku", skuID)
		}
		if l.Stock < quantity {
			return nil
		}
		l.Stock -= quantity
		st.listings[skuID] = l
		st.sold[l.ProductID] += quantity
		applied = true
		return nil
	})
	return applied, err
}

func (r catalogRepository) Restock(_ context.Context, skuID kernel.UUID, quantity int) error {
	return r.store.write(func(st *state) error {
		l, ok := st.listings[skuID]
		if !ok {
			return errs.NewObjectNotFoundError("sku", skuID)
		}
		l.Stock += quantity
		st.listings[skuID] = l
		st.sold[l.ProductID] = max(0, st.sold[l.ProductID]-quantity)
		return nil
	})
}

type shippingMethodRepository struct{ store *Store }

func (r shippingMethodRepository) ListActiveByShop(_ context.Context, shopID kernel.UUID) ([]shipping.Method, error) {
	var active []shipping.Method
	r.store.with(func(st *state) {
		for _, m := range st.methods[shopID] {
			if m.Active {
				active = append(active, m)
			}
		}
	})
	return active, nil
}

// AddAll skips methods whose code the shop already has.
func (r shippingMethodRepository) AddAll(_ context.Context, methods []shipping.Method) error {
	return r.store.write(func(st *state) error {
		for _, m := range methods {
			existing := st.methods[m.ShopID]
			if slices.ContainsFunc(existing, func(e shipping.Method) bool { return e.Code == m.Code }) {
				continue
			}
			st.methods[m.ShopID] = append(slices.Clone(existing), m)
		}
		return nil
	})
}

type voucherRepository struct{ store *Store }

func (r voucherRepository) GetByCode(_ context.Context, code string) (voucher.Voucher, error) {
	var (
		v  voucher.Voucher
		ok bool
	)
	r.store.with(func(st *state) { v, ok = st.vouchers[code] })
	if !ok {
		return voucher.Voucher{}, errs.NewObjectNotFoundError("voucher", code)
	}
	return v, nil
}

func (r voucherRepository) IncrementUsage(_ context.Context, id kernel.UUID) (bool, error) {
	applied := false
	err := r.store.write(func(st *state) error {
		for code, v := range st.vouchers {
			if v.ID != id {
				continue
			}
			if v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit {
				return nil
			}
			v.UsedCount++
			st.vouchers[code] = v
			applied = true
			return nil
		}
		return errs.NewObjectNotFoundError("voucher", id)
	})
	return applied, err
}

type addressRepository struct{ store *Store }

func (r addressRepository) Get(_ context.Context, id, ownerID kernel.UUID) (kernel.Address, error) {
	var (
		a  ownedAddress
		ok bool
	)
	r.store.with(func(st *state) { a, ok = st.addresses[id] })
	if !ok || !a.ownerID.IsEqual(ownerID) {
		return kernel.Address{}, errs.NewObjectNotFoundError("address", id)
	}
	return a.address, nil
}

type cartRepository struct{ store *Store }

func (r cartRepository) ListLines(_ context.Context, buyerID kernel.UUID) (lines []checkout.Line, _ error) {
	r.store.with(func(st *state) { lines = slices.Clone(st.carts[buyerID]) })
	return lines, nil
}

func (r cartRepository) RemoveSKUs(_ context.Context, buyerID kernel.UUID, skuIDs []kernel.UUID) error {
	return r.store.write(func(st *state) error {
		st.carts[buyerID] = slices.DeleteFunc(slices.Clone(st.carts[buyerID]), func(l checkout.Line) bool {
			return slices.Contains(skuIDs, l.SKUID)
		})
		return nil
	})
}

type draftRepository struct{ store *Store }

func (r draftRepository) Add(_ context.Context, draft *checkout.Draft) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.drafts[draft.Code()]; ok {
			return errs.NewResourceConflictError("draft "+draft.Code(), "already exists")
		}
		raw, err := json.Marshal(draft.Snapshot())
		if err != nil {
			return err
		}
		st.drafts[draft.Code()] = raw
		return nil
	})
}

func (r draftRepository) Update(_ context.Context, draft *checkout.Draft) error {
	return r.store.write(func(st *state) error {
		stored, err := decodeDraft(st.drafts[draft.Code()])
		if err != nil {
			return err
		}
		if stored == nil {
			return errs.NewObjectNotFoundError("draft", draft.Code())
		}
		if stored.Version != draft.Version() || stored.Status != checkout.Open {
			return errs.NewResourceConflictError("draft "+draft.Code(), "modified concurrently")
		}
		snapshot := draft.Snapshot()
		snapshot.Version++
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		st.drafts[draft.Code()] = raw
		return nil
	})
}

func (r draftRepository) GetByCode(_ context.Context, code string) (*checkout.Draft, error) {
	var raw []byte
	r.store.with(func(st *state) { raw = st.drafts[code] })
	snapshot, err := decodeDraft(raw)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errs.NewObjectNotFoundError("draft", code)
	}
	return checkout.RestoreDraft(*snapshot)
}

func decodeDraft(raw []byte) (*checkout.Snapshot, error) {
	if raw == nil {
		return nil, nil
	}
	var s checkout.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &s, nil
}

type orderRepository struct{ store *Store }

func (r orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.orders[aggregate.Code()]; ok {
			return errs.NewResourceConflictError("order "+aggregate.Code(), "already exists")
		}
		raw, err := json.Marshal(aggregate.Snapshot())
		if err != nil {
			return err
		}
		st.orders[aggregate.Code()] = raw
		return nil
	})
}

func (r orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	return r.store.write(func(st *state) error {
		stored, err := decodeOrder(st.orders[aggregate.Code()])
		if err != nil {
			return err
		}
		if stored == nil {
			return errs.NewObjectNotFoundError("order", aggregate.Code())
		}
		if stored.Version != aggregate.Version() {
			return errs.NewResourceConflictError("order "+aggregate.Code(), "modified concurrently")
		}
		snapshot := aggregate.Snapshot()
		snapshot.Version++
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		st.orders[aggregate.Code()] = raw
		return nil
	})
}

func (r orderRepository) GetByCode(_ context.Context, code string) (*order.Order, error) {
	var raw []byte
	r.store.with(func(st *state) { raw = st.orders[code] })
	snapshot, err := decodeOrder(raw)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errs.NewObjectNotFoundError("order", code)
	}
	return order.RestoreOrder(*snapshot)
}

func (r orderRepository) ListByGroupCode(_ context.Context, groupCode string) ([]*order.Order, error) {
	snapshots, err := r.snapshots()
	if err != nil {
		return nil, err
	}
	var result []*order.Order
	for _, s := range snapshots {
		if s.GroupCode != groupCode {
			continue
		}
		o, err := order.RestoreOrder(s)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (r orderRepository) SumBuyerSpend(_ context.Context, buyerID kernel.UUID, shopID *kernel.UUID, since time.Time) (int64, error) {
	snapshots, err := r.snapshots()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, s := range snapshots {
		if !s.BuyerID.IsEqual(buyerID) || s.PlacedAt.Before(since) || !s.Status.CountsAsSpend() {
			continue
		}
		if shopID != nil && !s.ShopID.IsEqual(*shopID) {
			continue
		}
		total += s.Total
	}
	return total, nil
}

// snapshots decodes every order, ordered by code.
func (r orderRepository) snapshots() ([]order.Snapshot, error) {
	var raws map[string][]byte
	r.store.with(func(st *state) { raws = maps.Clone(st.orders) })

	result := make([]order.Snapshot, 0, len(raws))
	for _, code := range slices.Sorted(maps.Keys(raws)) {
		s, err := decodeOrder(raws[code])
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

func decodeOrder(raw []byte) (*order.Snapshot, error) {
	if raw == nil {
		return nil, nil
	}
	var s order.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &s, nil
}

type chatRepository struct{ store *Store }

func (r chatRepository) OpenThread(_ context.Context, orderID, buyerID, shopID kernel.UUID) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.threads[orderID]; !ok {
			st.threads[orderID] = Thread{OrderID: orderID, BuyerID: buyerID, ShopID: shopID}
		}
		return nil
	})
}

type outboxRepository struct{ store *Store }

func (r outboxRepository) Add(_ context.Context, events ...notification.Event) error {
	return r.store.write(func(st *state) error {
		st.outbox = append(slices.Clone(st.outbox), events...)
		return nil
	})
}

func (r outboxRepository) FetchPending(_ context.Context, limit int) (pending []notification.Event, _ error) {
	r.store.with(func(st *state) {
		for _, e := range st.outbox {
			if len(pending) == limit {
				break
			}
			if !e.IsDispatched() {
				pending = append(pending, e)
			}
		}
	})
	return pending, nil
}

func (r outboxRepository) MarkDispatched(_ context.Context, id kernel.UUID, at time.Time) error {
	return r.update(id, func(e *notification.Event) {
		e.DispatchedAt = &at
		e.Attempts++
	})
}

func (r outboxRepository) RecordFailure(_ context.Context, id kernel.UUID, reason string) error {
	return r.update(id, func(e *notification.Event) {
		e.Attempts++
		e.LastError = reason
	})
}

func (r outboxRepository) update(id kernel.UUID, fn func(e *notification.Event)) error {
	return r.store.write(func(st *state) error {
		i := slices.IndexFunc(st.outbox, func(e notification.Event) bool { return e.ID.IsEqual(id) })
		if i < 0 {
			return errs.NewObjectNotFoundError("notification", id)
		}
		st.outbox = slices.Clone(st.outbox)
		fn(&st.outbox[i])
		return nil
	})
}
