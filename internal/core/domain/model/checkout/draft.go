package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/pkg/errs"
)

// DefaultTTL is how long a draft stays mutable and committable.
const DefaultTTL = 30 * time.Minute

// MaxNoteLength bounds the buyer's note.
const MaxNoteLength = 500

// ErrDraftIsNotConstructed is returned for a Draft not built by NewDraft or RestoreDraft.
var ErrDraftIsNotConstructed = errors.New("Draft must be created via NewDraft or RestoreDraft")

// Draft is the aggregate root of a checkout attempt.
//
// A draft snapshots the destination, the requested lines and the per-shop
// groups with their selected shipping and vouchers. It stays Open until it
// expires or is committed. The repository advances the stored version on each
// update and rejects an update carrying a stale one.
type Draft struct {
	id          kernel.UUID
	code        string
	buyerID     kernel.UUID
	status      Status
	currency    string
	address     kernel.Address
	lines       []Line
	groups      []Group
	platform    VoucherSelection
	note        string
	totals      Totals
	expiresAt   time.Time
	createdAt   time.Time
	updatedAt   time.Time
	committedAt *time.Time
	version     int

	isConstructed bool
}

// NewDraft builds an Open draft from priced groups. The pricing must satisfy CheckPricing.
func NewDraft(
	id kernel.UUID,
	code string,
	buyerID kernel.UUID,
	currency string,
	address kernel.Address,
	lines []Line,
	groups []Group,
	platform VoucherSelection,
	note string,
	now time.Time,
	ttl time.Duration,
) (*Draft, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	d := &Draft{
		status:        Open,
		lines:         append([]Line(nil), lines...),
		expiresAt:     now.Add(ttl),
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setCode(code),
		d.setBuyerID(buyerID),
		d.setCurrency(currency),
		d.setAddress(address),
		d.setNote(note),
		d.setPricing(groups, platform),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the draft was properly constructed.
func (d *Draft) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDraftIsNotConstructed
	}
	return nil
}

func (d *Draft) ID() kernel.UUID                   { return d.id }
func (d *Draft) Code() string                      { return d.code }
func (d *Draft) BuyerID() kernel.UUID              { return d.buyerID }
func (d *Draft) Status() Status                    { return d.status }
func (d *Draft) Currency() string                  { return d.currency }
func (d *Draft) Address() kernel.Address           { return d.address }
func (d *Draft) Lines() []Line                     { return append([]Line(nil), d.lines...) }
func (d *Draft) Groups() []Group                   { return CloneGroups(d.groups) }
func (d *Draft) PlatformVoucher() VoucherSelection { return d.platform }
func (d *Draft) Note() string                      { return d.note }
func (d *Draft) Totals() Totals                    { return d.totals }
func (d *Draft) ExpiresAt() time.Time              { return d.expiresAt }
func (d *Draft) CreatedAt() time.Time              { return d.createdAt }
func (d *Draft) UpdatedAt() time.Time              { return d.updatedAt }
func (d *Draft) CommittedAt() *time.Time           { return d.committedAt }
func (d *Draft) Version() int                      { return d.version }

// Group returns the group of shopID.
func (d *Draft) Group(shopID kernel.UUID) (Group, bool) {
	for _, g := range d.groups {
		if g.ShopID.IsEqual(shopID) {
			return CloneGroups([]Group{g})[0], true
		}
	}
	return Group{}, false
}

// IsExpired reports whether now is at or past the expiry.
func (d *Draft) IsExpired(now time.Time) bool {
	return !now.Before(d.expiresAt)
}

// EnsureOwnedBy hides drafts of other buyers behind a not-found error.
func (d *Draft) EnsureOwnedBy(buyerID kernel.UUID) error {
	if !d.buyerID.IsEqual(buyerID) {
		return errs.NewObjectNotFoundError("draft", d.code)
	}
	return nil
}

// EnsureMutable fails with a StateConflictError unless Open, then with an ExpiredError once expired.
func (d *Draft) EnsureMutable(now time.Time) error {
	if d.status != Open {
		return errs.NewStateConflictError("changing the draft", d.status.String())
	}
	if d.IsExpired(now) {
		return errs.NewExpiredError("draft "+d.code, d.expiresAt)
	}
	return nil
}

// EnsureCommittable adds to EnsureMutable that every group is shippable.
func (d *Draft) EnsureCommittable(now time.Time) error {
	if err := d.EnsureMutable(now); err != nil {
		return err
	}
	for _, g := range d.groups {
		if !g.Shippable() {
			reason := g.ShippingError
			if reason == "" {
				reason = "no shipping method selected"
			}
			return errs.NewValueIsInvalidErrorWithCause("shipping", fmt.Errorf("shop %s: %s", g.ShopName, reason))
		}
	}
	return nil
}

// SelectShipping selects option for the group of shopID and reprices the totals.
func (d *Draft) SelectShipping(shopID kernel.UUID, option shipping.Option, now time.Time) error {
	if err := d.EnsureMutable(now); err != nil {
		return err
	}
	for i := range d.groups {
		if d.groups[i].ShopID.IsEqual(shopID) {
			d.groups[i].Shipping = &option
			d.groups[i].ShippingError = ""
			d.totals = Summarize(d.groups)
			d.updatedAt = now
			return nil
		}
	}
	return errs.NewObjectNotFoundError("shop group", shopID.String())
}

// RefreshOptions replaces the quoted options of a group without touching the selection.
func (d *Draft) RefreshOptions(shopID kernel.UUID, options []shipping.Option) {
	for i := range d.groups {
		if d.groups[i].ShopID.IsEqual(shopID) {
			d.groups[i].Options = append([]shipping.Option(nil), options...)
		}
	}
}

// ApplyPricing replaces discounts and shares after repricing. The groups must be the
// draft's own groups, in the same order, with unchanged subtotals.
func (d *Draft) ApplyPricing(groups []Group, platform VoucherSelection, now time.Time) error {
	if err := d.EnsureMutable(now); err != nil {
		return err
	}
	if len(groups) != len(d.groups) {
		return errs.NewValueIsInvalidErrorWithCause("groups", fmt.Errorf("expected %d groups, got %d", len(d.groups), len(groups)))
	}
	for i := range groups {
		if !groups[i].ShopID.IsEqual(d.groups[i].ShopID) || groups[i].Subtotal != d.groups[i].Subtotal {
			return errs.NewValueIsInvalidErrorWithCause("groups", fmt.Errorf("group %d does not match the draft", i))
		}
	}

	if err := d.setPricing(groups, platform); err != nil {
		return err
	}
	d.updatedAt = now
	return nil
}

// ChangeNote replaces the buyer's note.
func (d *Draft) ChangeNote(note string, now time.Time) error {
	if err := d.EnsureMutable(now); err != nil {
		return err
	}
	if err := d.setNote(note); err != nil {
		return err
	}
	d.updatedAt = now
	return nil
}

// MarkCommitted closes the draft. It does not re-check expiry: the committer checks
// it before the atomic phase and the draft must close even if the clock crossed it since.
func (d *Draft) MarkCommitted(now time.Time) error {
	next, err := d.status.Commit()
	if err != nil {
		return err
	}
	d.status = next
	d.committedAt = &now
	d.updatedAt = now
	return nil
}

// PurchasedSKUs lists every SKU of the draft.
func (d *Draft) PurchasedSKUs() []kernel.UUID {
	ids := make([]kernel.UUID, 0)
	for _, g := range d.groups {
		ids = append(ids, g.SKUIDs()...)
	}
	return ids
}

func (d *Draft) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Draft) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("draft.code")
	}
	d.code = code
	return nil
}

func (d *Draft) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("draft.buyerId", err)
	}
	d.buyerID = id
	return nil
}

func (d *Draft) setCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("draft.currency")
	}
	d.currency = currency
	return nil
}

func (d *Draft) setAddress(a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	d.address = a
	return nil
}

func (d *Draft) setNote(note string) error {
	note = strings.TrimSpace(note)
	if len([]rune(note)) > MaxNoteLength {
		return errs.NewValueIsOutOfRangeError("note length", len([]rune(note)), 0, MaxNoteLength)
	}
	d.note = note
	return nil
}

func (d *Draft) setPricing(groups []Group, platform VoucherSelection) error {
	if len(groups) == 0 {
		return errs.NewValueIsRequiredError("draft.groups")
	}
	groups = CloneGroups(groups)
	totals := Summarize(groups)
	if err := CheckPricing(groups, platform); err != nil {
		return err
	}
	d.groups = groups
	d.platform = platform
	d.totals = totals
	return nil
}
