package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// WriteSnapshot stores a raw provider payload. Identical payloads from the
// same provider are kept once; inserted reports whether a row was added.
func (s *Store) WriteSnapshot(ctx context.Context, provider, location string, payload []byte, at time.Time) (inserted bool, err error) {
	sum := sha256.Sum256(payload)
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO provider_raw_snapshots (id, provider, location, payload, payload_sha256, fetched_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (provider, payload_sha256) DO NOTHING`,
		uuid.NewString(), provider, location, string(payload), hex.EncodeToString(sum[:]), at.UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
