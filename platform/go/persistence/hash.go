package persistence

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrChecksumMismatch is returned when a stored document no longer matches the digest recorded
// at commit time.
var ErrChecksumMismatch = errors.New("snapshot document checksum mismatch")

// documentDigest returns the SHA-256 hex digest of the compacted document, so whitespace-only
// differences introduced by a backend do not count as corruption.
func documentDigest(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("document is empty")
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", fmt.Errorf("compact json: %w", err)
	}

	sum := sha256.Sum256(compact.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// verifyDigest checks body against want. An empty want means the writer recorded no digest.
func verifyDigest(key string, body []byte, want string) error {
	if want == "" {
		return nil
	}
	got, err := documentDigest(body)
	if err != nil {
		return fmt.Errorf("document %s: %w", key, err)
	}
	if got != want {
		return fmt.Errorf("document %s: %w", key, ErrChecksumMismatch)
	}
	return nil
}
