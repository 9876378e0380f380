package errs

import "errors"

// Stable error kinds exposed to callers and stored with failed idempotent requests.
const (
	KindValidation       = "VALIDATION"
	KindNotFound         = "NOT_FOUND"
	KindStateConflict    = "STATE_CONFLICT"
	KindResourceConflict = "RESOURCE_CONFLICT"
	KindExpired          = "EXPIRED"
	KindForbidden        = "FORBIDDEN"
	KindInternal         = "INTERNAL"
)

// Kind classifies err into one of the stable kinds. Unclassified errors are KindInternal.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrNotSellable):
		return KindValidation
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrStateConflict):
		return KindStateConflict
	case errors.Is(err, ErrResourceConflict):
		return KindResourceConflict
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// ReplayedError rebuilds a previously classified failure from its kind and message.
// errors.Is matches the sentinel of the original kind.
type ReplayedError struct {
	kind    string
	message string
}

func NewReplayedError(kind, message string) *ReplayedError {
	return &ReplayedError{kind: kind, message: message}
}

func (e *ReplayedError) Error() string {
	return e.message
}

func (e *ReplayedError) Kind() string {
	return e.kind
}

func (e *ReplayedError) Unwrap() error {
	switch e.kind {
	case KindValidation:
		return ErrValueIsInvalid
	case KindNotFound:
		return ErrObjectNotFound
	case KindStateConflict:
		return ErrStateConflict
	case KindResourceConflict:
		return ErrResourceConflict
	case KindExpired:
		return ErrExpired
	case KindForbidden:
		return ErrForbidden
	default:
		return nil
	}
}
