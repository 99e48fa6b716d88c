package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

// CommentStore is the persistence surface for comments, partitioned by the
// related item.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment, partitionKey string) error
	QueryPartition(ctx context.Context, partitionKey string) ([]models.Comment, error)
}

type CommentService struct {
	store CommentStore
	log   *slog.Logger
}

func NewComment(store CommentStore, log *slog.Logger) *CommentService {
	if log == nil {
		log = slog.Default()
	}
	return &CommentService{store: store, log: log}
}

// Create stamps identity and creation time and writes under the related-item
// partition. Comment content is intentionally not run through the moderation
// gate; only feedbacks are screened.
func (s *CommentService) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID, comment.Created = stampIdentity()
	if err := s.store.Create(ctx, comment, store.HexID(comment.Related)); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByRelated returns every comment attached to one related item.
func (s *CommentService) ListByRelated(ctx context.Context, related uuid.UUID) ([]models.Comment, error) {
	return s.store.QueryPartition(ctx, store.HexID(related))
}
