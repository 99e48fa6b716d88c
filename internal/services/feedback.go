package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/notify"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

// Moderator is the gate surface the feedback service depends on.
type Moderator interface {
	IsModerated(ctx context.Context, text string) (bool, error)
}

// FeedbackStore is the persistence surface for feedbacks: partitioned
// create and read by owner, cross-partition point read, cross-partition
// listing.
type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback, partitionKey string) error
	Get(ctx context.Context, id uuid.UUID, partitionKey string) (*models.Feedback, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	QueryAll(ctx context.Context) ([]models.Feedback, error)
}

type FeedbackService struct {
	store    FeedbackStore
	gate     Moderator
	notifier notify.Notifier
	log      *slog.Logger
}

func NewFeedback(store FeedbackStore, gate Moderator, notifier notify.Notifier, log *slog.Logger) *FeedbackService {
	if log == nil {
		log = slog.Default()
	}
	return &FeedbackService{store: store, gate: gate, notifier: notifier, log: log}
}

// Create runs the moderation gate over title and content, stamps identity
// and creation time, writes under the owner partition, and re-reads the
// stored entity as the response payload.
//
// A (nil, nil) return means the submission was blocked: nothing was
// persisted and the caller must answer with empty success, never with a
// rejection explaining why.
func (s *FeedbackService) Create(ctx context.Context, feedback *models.Feedback) (*models.Feedback, error) {
	for _, field := range []string{feedback.Title, feedback.Content} {
		moderated, err := s.gate.IsModerated(ctx, field)
		if err != nil {
			return nil, fmt.Errorf("services: moderate feedback: %w", err)
		}
		if moderated {
			s.log.Debug("feedback blocked by moderation")
			return nil, nil
		}
	}

	feedback.ID, feedback.Created = stampIdentity()
	partitionKey := store.HexID(feedback.Owner)

	if err := s.store.Create(ctx, feedback, partitionKey); err != nil {
		return nil, err
	}

	// The owner is still in hand here, so the re-read stays partition-scoped.
	created, err := s.store.Get(ctx, feedback.ID, partitionKey)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.announce(*created)
	}
	return created, nil
}

func (s *FeedbackService) announce(feedback models.Feedback) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	subject := "New feedback: " + feedback.Title
	if err := s.notifier.Publish(ctx, subject, feedback.Content); err != nil {
		s.log.Warn("feedback notification failed", "error", err)
	}
}

// GetOne resolves a feedback by id alone. See the store's Find for why the
// owner partition is not part of the lookup.
func (s *FeedbackService) GetOne(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	return s.store.Find(ctx, id)
}

// List returns every feedback across all owner partitions.
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.store.QueryAll(ctx)
}
