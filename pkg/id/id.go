// Package id generates ULID strings for trade, day and week rows.
//
// ULIDs sort lexicographically by creation time, so primary-key order in
// SQLite matches insertion order, which keeps range scans over journal rows
// cheap.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh ULID string. IDs minted within the same millisecond
// remain strictly increasing.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
