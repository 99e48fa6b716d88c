package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

// LikeStore is the persistence surface for likes, partitioned by the
// related item.
type LikeStore interface {
	Create(ctx context.Context, l *models.Like, partitionKey string) error
	QueryPartition(ctx context.Context, partitionKey string) ([]models.Like, error)
}

type LikeService struct {
	store LikeStore
	log   *slog.Logger
}

func NewLike(store LikeStore, log *slog.Logger) *LikeService {
	if log == nil {
		log = slog.Default()
	}
	return &LikeService{store: store, log: log}
}

// Create stamps identity and creation time and writes under the related-item
// partition. Likes are never moderated. An identifier collision surfaces as
// store.ErrConflict for the handler to map.
func (s *LikeService) Create(ctx context.Context, like *models.Like) (*models.Like, error) {
	like.ID, like.Created = stampIdentity()
	if err := s.store.Create(ctx, like, store.HexID(like.Related)); err != nil {
		return nil, err
	}
	return like, nil
}

// ListByRelated returns every like attached to one related item.
func (s *LikeService) ListByRelated(ctx context.Context, related uuid.UUID) ([]models.Like, error) {
	return s.store.QueryPartition(ctx, store.HexID(related))
}
