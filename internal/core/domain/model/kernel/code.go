package kernel

import (
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Code prefixes.
const (
	DraftCodePrefix = "CK"
	OrderCodePrefix = "OD"
	GroupCodePrefix = "GR"
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewCode returns prefix + yyMMdd + 8 random base32 characters, e.g. "OD260117K3JXQ7AB".
// Uniqueness is enforced by the unique index of the owning table.
func NewCode(prefix string, now time.Time) string {
	random := uuid.New()
	suffix := codeEncoding.EncodeToString(random[:5])

	var b strings.Builder
	b.Grow(len(prefix) + 6 + len(suffix))
	b.WriteString(prefix)
	b.WriteString(now.UTC().Format("060102"))
	b.WriteString(suffix)
	return b.String()
}
