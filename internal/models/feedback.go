package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is the main user-submitted entity. Title and content are screened
// by the moderation gate before a feedback is accepted; id and created are
// always assigned server-side.
type Feedback struct {
	ID      uuid.UUID `bson:"_id" json:"id"`
	Created time.Time `bson:"created" json:"created"`
	Owner   uuid.UUID `bson:"owner" json:"owner"` // Partition key
	Title   string    `bson:"title" json:"title"`
	Content string    `bson:"content" json:"content"`
	Tags    []string  `bson:"tags" json:"tags"`
}

type SearchFeedback struct {
	Feedbacks []Feedback `json:"feedbacks"`
}
