// Package ulid generates run identifiers.
// Every harness invocation gets one run ID; all deployment records written
// during that invocation carry it, so records sort by the run that produced them.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewRunID generates a new run ID for the current time.
func NewRunID() string {
	return NewRunIDAt(time.Now())
}

// NewRunIDAt generates a run ID with a specific timestamp.
func NewRunIDAt(t time.Time) string {
	entropyLock.Lock()
	defer entropyLock.Unlock()

	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	return id.String()
}

// IsValid checks if a string is a valid run ID.
func IsValid(s string) bool {
	_, err := ulid.Parse(s)
	return err == nil
}

// StartedAt extracts the timestamp from a run ID.
func StartedAt(runID string) (time.Time, error) {
	id, err := ulid.Parse(runID)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}
