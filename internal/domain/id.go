package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh identity of the form "<prefix>_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Now returns the current UTC time truncated to the second, the
// precision timestamps are stored at.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
