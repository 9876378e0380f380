package idempotency

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// DefaultTTL bounds how long a key is remembered.
const DefaultTTL = 24 * time.Hour

// MaxKeyLength bounds a client-supplied key.
const MaxKeyLength = 128

// Status is the state of a reserved key.
type Status string

const (
	InProgress Status = "IN_PROGRESS"
	Succeeded  Status = "SUCCESS"
	Failed     Status = "FAILED"
)

// Response is the stored outcome of a successful request, replayed byte for byte.
type Response struct {
	StatusCode int
	Body       []byte
}

// Record is one reserved key of one caller within one scope.
type Record struct {
	Key          string
	Scope        string
	CallerID     kernel.UUID
	Hash         string
	Status       Status
	Response     Response
	ErrorKind    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ExpiresAt    time.Time
}

// NewRecord reserves key for a request with fingerprint hash.
func NewRecord(key, scope string, callerID kernel.UUID, hash string, now time.Time, ttl time.Duration) (Record, error) {
	if key == "" {
		return Record{}, errs.NewValueIsRequiredError("Idempotency-Key")
	}
	if len(key) > MaxKeyLength {
		return Record{}, errs.NewValueIsOutOfRangeError("Idempotency-Key length", len(key), 1, MaxKeyLength)
	}
	if scope == "" || hash == "" {
		return Record{}, errs.NewValueIsRequiredError("idempotency.scope")
	}
	if err := callerID.Validate(); err != nil {
		return Record{}, errs.NewValueIsRequiredErrorWithCause("idempotency.callerId", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Record{
		Key:       key,
		Scope:     scope,
		CallerID:  callerID,
		Hash:      hash,
		Status:    InProgress,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired reports whether the record no longer guards its key.
func (r Record) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Succeed settles the record with the response to replay.
func (r *Record) Succeed(resp Response, now time.Time) {
	r.Status = Succeeded
	r.Response = Response{StatusCode: resp.StatusCode, Body: append([]byte(nil), resp.Body...)}
	r.UpdatedAt = now
}

// Fail settles the record with a classified failure.
func (r *Record) Fail(kind, message string, now time.Time) {
	r.Status = Failed
	r.ErrorKind = kind
	r.ErrorMessage = message
	r.UpdatedAt = now
}

// Replay answers a repeated request with fingerprint hash from the stored record.
// A different fingerprint or a request still in flight is a ResourceConflictError;
// a stored failure is rebuilt as a ReplayedError of the same kind.
func (r Record) Replay(hash string) (Response, error) {
	if r.Hash != hash {
		return Response{}, errs.NewResourceConflictError("Idempotency-Key "+r.Key, "key reused for a different request")
	}
	switch r.Status {
	case Succeeded:
		return Response{StatusCode: r.Response.StatusCode, Body: append([]byte(nil), r.Response.Body...)}, nil
	case Failed:
		return Response{}, errs.NewReplayedError(r.ErrorKind, r.ErrorMessage)
	default:
		return Response{}, errs.NewResourceConflictError("Idempotency-Key "+r.Key, "request is still in progress")
	}
}
