package idempotency

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"marketplace/internal/core/domain/model/kernel"
)

// Fingerprint hashes method, path, caller and payload. The payload is re-encoded
// through a generic value first so key order and whitespace do not change the hash.
func Fingerprint(method, path string, callerID kernel.UUID, payload []byte) (string, error) {
	canonical, err := canonicalJSON(payload)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, part := range [][]byte{[]byte(method), []byte(path), []byte(callerID.String()), canonical} {
		h.Write(part)
		h.Write([]byte{'|'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func canonicalJSON(payload []byte) ([]byte, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return []byte("null"), nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
