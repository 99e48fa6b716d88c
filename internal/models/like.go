package models

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	ID      uuid.UUID `bson:"_id" json:"id"`
	Created time.Time `bson:"created" json:"created"`
	Related uuid.UUID `bson:"related" json:"related"` // Partition key
	User    uuid.UUID `bson:"user" json:"user"`
}

type SearchLike struct {
	Likes []Like `json:"likes"`
}
