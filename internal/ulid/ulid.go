// Package ulid wraps github.com/oklog/ulid/v2 with prefixed identifiers.
//
// IDs take the form "prefix-ULID", for example "run-01HZX3J8Q6K5W2V9T1ZB7N4C0E".
// The ULID part sorts lexicographically by creation time, so report files and
// log lines tagged with run IDs order naturally.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// PrefixRun tags analysis run IDs
	PrefixRun = "run"

	// PrefixSeparator is used to separate the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

func withPrefix(prefix string, t time.Time) string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	entropyLock.Unlock()
	return prefix + PrefixSeparator + id.String()
}

// RunID generates a new ULID with the run prefix
func RunID() string {
	return withPrefix(PrefixRun, time.Now())
}
