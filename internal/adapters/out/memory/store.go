package memory

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/domain/model/voucher"
	"marketplace/internal/core/ports"
)

var _ ports.UnitOfWorkFactory = &Store{}

// Thread is a chat thread opened for an order.
type Thread struct {
	OrderID kernel.UUID
	BuyerID kernel.UUID
	ShopID  kernel.UUID
}

type ownedAddress struct {
	ownerID kernel.UUID
	address kernel.Address
}

type state struct {
	listings  map[kernel.UUID]catalog.Listing
	sold      map[kernel.UUID]int
	methods   map[kernel.UUID][]shipping.Method
	vouchers  map[string]voucher.Voucher
	addresses map[kernel.UUID]ownedAddress
	carts     map[kernel.UUID][]checkout.Line
	drafts    map[string][]byte
	orders    map[string][]byte
	threads   map[kernel.UUID]Thread
	outbox    []notification.Event
}

func newState() state {
	return state{
		listings:  make(map[kernel.UUID]catalog.Listing),
		sold:      make(map[kernel.UUID]int),
		methods:   make(map[kernel.UUID][]shipping.Method),
		vouchers:  make(map[string]voucher.Voucher),
		addresses: make(map[kernel.UUID]ownedAddress),
		carts:     make(map[kernel.UUID][]checkout.Line),
		drafts:    make(map[string][]byte),
		orders:    make(map[string][]byte),
		threads:   make(map[kernel.UUID]Thread),
	}
}

// clone copies every map. Values are replaced on write, never mutated in place,
// so a shallow copy per map is a full snapshot.
func (s state) clone() state {
	return state{
		listings:  maps.Clone(s.listings),
		sold:      maps.Clone(s.sold),
		methods:   maps.Clone(s.methods),
		vouchers:  maps.Clone(s.vouchers),
		addresses: maps.Clone(s.addresses),
		carts:     maps.Clone(s.carts),
		drafts:    maps.Clone(s.drafts),
		orders:    maps.Clone(s.orders),
		threads:   maps.Clone(s.threads),
		outbox:    slices.Clone(s.outbox),
	}
}

// Store holds the whole marketplace state in memory.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	state state

	idem *IdempotencyStore
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		state: newState(),
		idem:  NewIdempotencyStore(),
	}
}

// Create returns a unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Idempotency returns the idempotency store that shares the lifetime of s.
func (s *Store) Idempotency() *IdempotencyStore {
	return s.idem
}

func (s *Store) with(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// AddListing seeds a sellable SKU.
func (s *Store) AddListing(listings ...catalog.Listing) {
	s.with(func(st *state) {
		for _, l := range listings {
			st.listings[l.SKUID] = l
		}
	})
}

// AddShippingMethods seeds shipping configuration.
func (s *Store) AddShippingMethods(methods ...shipping.Method) {
	s.with(func(st *state) {
		for _, m := range methods {
			st.methods[m.ShopID] = append(slices.Clone(st.methods[m.ShopID]), m)
		}
	})
}

// AddVoucher seeds a voucher under its normalized code.
func (s *Store) AddVoucher(v voucher.Voucher) {
	s.with(func(st *state) {
		st.vouchers[v.Code] = v
	})
}

// AddAddress seeds a saved address of ownerID.
func (s *Store) AddAddress(id, ownerID kernel.UUID, a kernel.Address) {
	s.with(func(st *state) {
		st.addresses[id] = ownedAddress{ownerID: ownerID, address: a}
	})
}

// SetCart replaces the cart of buyerID.
func (s *Store) SetCart(buyerID kernel.UUID, lines ...checkout.Line) {
	s.with(func(st *state) {
		st.carts[buyerID] = slices.Clone(lines)
	})
}

// AddOrder seeds an order, as if it had been committed earlier.
func (s *Store) AddOrder(o *order.Order) error {
	return s.write(func(st *state) error {
		raw, err := json.Marshal(o.Snapshot())
		if err != nil {
			return err
		}
		st.orders[o.Code()] = raw
		return nil
	})
}

// Stock returns the current stock of skuID.
func (s *Store) Stock(skuID kernel.UUID) (stock int) {
	s.with(func(st *state) { stock = st.listings[skuID].Stock })
	return stock
}

// Sold returns the sold counter of productID.
func (s *Store) Sold(productID kernel.UUID) (sold int) {
	s.with(func(st *state) { sold = st.sold[productID] })
	return sold
}

// Voucher returns the stored voucher with code.
func (s *Store) Voucher(code string) (v voucher.Voucher) {
	s.with(func(st *state) { v = st.vouchers[code] })
	return v
}

// Cart returns the cart lines of buyerID.
func (s *Store) Cart(buyerID kernel.UUID) (lines []checkout.Line) {
	s.with(func(st *state) { lines = slices.Clone(st.carts[buyerID]) })
	return lines
}

// OrderCount returns the number of stored orders.
func (s *Store) OrderCount() (n int) {
	s.with(func(st *state) { n = len(st.orders) })
	return n
}

// Threads returns the opened chat threads.
func (s *Store) Threads() (threads []Thread) {
	s.with(func(st *state) { threads = slices.Collect(maps.Values(st.threads)) })
	return threads
}

// Outbox returns every stored notification, dispatched or not.
func (s *Store) Outbox() (events []notification.Event) {
	s.with(func(st *state) { events = slices.Clone(st.outbox) })
	return events
}
