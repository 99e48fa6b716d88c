package services

import (
	"context"
	"log/slog"

	"github.com/clemlesne/feedback-fountain/internal/models"
)

// UserStore is the persistence surface for users. All users share the
// constant partition.
type UserStore interface {
	Create(ctx context.Context, u *models.User, partitionKey string) error
	QueryPartition(ctx context.Context, partitionKey string) ([]models.User, error)
}

type UserService struct {
	store UserStore
	log   *slog.Logger
}

func NewUser(store UserStore, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{store: store, log: log}
}

// Create stamps identity and creation time and writes into the single user
// partition.
func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID, user.Created = stampIdentity()
	user.Dummy = models.UserPartitionKey
	if err := s.store.Create(ctx, user, models.UserPartitionKey); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.QueryPartition(ctx, models.UserPartitionKey)
}
