package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPartitionKey colocates every user in a single partition; the user
// collection is small and only ever scanned as a whole.
const UserPartitionKey = "dummy"

type User struct {
	ID       uuid.UUID `bson:"_id" json:"id"`
	Created  time.Time `bson:"created" json:"created"`
	Dummy    string    `bson:"dummy" json:"dummy"` // Partition key, always UserPartitionKey
	Username string    `bson:"username" json:"username"`
}

type SearchUser struct {
	Users []User `json:"users"`
}
