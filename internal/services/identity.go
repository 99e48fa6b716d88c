package services

import (
	"time"

	"github.com/google/uuid"
)

// stampIdentity produces the server-assigned identity for a new entity: a
// fresh random 128-bit identifier and the current UTC time. Caller-supplied
// values are always discarded in favor of this pair.
func stampIdentity() (uuid.UUID, time.Time) {
	return uuid.New(), time.Now().UTC()
}
