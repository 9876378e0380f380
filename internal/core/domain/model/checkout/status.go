package checkout

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of a draft.
//
//	Open ──> Committed
//
// An Open draft past its expiry is not a separate state: expiry is checked
// lazily on every read, mutation and commit.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	// Open drafts may be repriced and committed.
	Open
	// Committed drafts are immutable.
	Committed
)

var statusStrings = map[Status]string{
	Open:      "DRAFT",
	Committed: "COMMITTED",
}

// String returns the persisted name of the status.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid draft status", s))
	}
	return nil
}

// ParseStatus is the inverse of String.
func ParseStatus(s string) (Status, error) {
	for st, str := range statusStrings {
		if str == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid draft status", s))
}

// Commit transitions Open to Committed.
func (s Status) Commit() (Status, error) {
	if s != Open {
		return Unknown, errs.NewStateConflictError("commit", s.String())
	}
	return Committed, nil
}
