package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/store"
)

type moderatorFunc func(ctx context.Context, text string) (bool, error)

func (f moderatorFunc) IsModerated(ctx context.Context, text string) (bool, error) {
	return f(ctx, text)
}

var passGate = moderatorFunc(func(ctx context.Context, text string) (bool, error) {
	return false, nil
})

type fakeFeedbackStore struct {
	entities   map[uuid.UUID]models.Feedback
	partitions map[uuid.UUID]string
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{
		entities:   map[uuid.UUID]models.Feedback{},
		partitions: map[uuid.UUID]string{},
	}
}

func (s *fakeFeedbackStore) Create(ctx context.Context, f *models.Feedback, partitionKey string) error {
	if partitionKey == "" {
		return errors.New("empty partition key")
	}
	if _, exists := s.entities[f.ID]; exists {
		return store.ErrConflict
	}
	s.entities[f.ID] = *f
	s.partitions[f.ID] = partitionKey
	return nil
}

func (s *fakeFeedbackStore) Get(ctx context.Context, id uuid.UUID, partitionKey string) (*models.Feedback, error) {
	f, ok := s.entities[id]
	if !ok || s.partitions[id] != partitionKey {
		return nil, store.ErrNotFound
	}
	return &f, nil
}

func (s *fakeFeedbackStore) Find(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	f, ok := s.entities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &f, nil
}

func (s *fakeFeedbackStore) QueryAll(ctx context.Context) ([]models.Feedback, error) {
	out := make([]models.Feedback, 0, len(s.entities))
	for _, f := range s.entities {
		out = append(out, f)
	}
	return out, nil
}

func submission() *models.Feedback {
	return &models.Feedback{
		ID:      uuid.MustParse("99999999-9999-9999-9999-999999999999"),
		Created: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Owner:   uuid.New(),
		Title:   "A title",
		Content: "Some content",
		Tags:    []string{"a"},
	}
}

func TestFeedbackCreateBlockedPersistsNothing(t *testing.T) {
	st := newFakeFeedbackStore()
	gate := moderatorFunc(func(ctx context.Context, text string) (bool, error) {
		return text == "Some content", nil
	})
	svc := NewFeedback(st, gate, nil, nil)

	created, err := svc.Create(context.Background(), submission())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created != nil {
		t.Fatalf("blocked submission returned an entity: %+v", created)
	}
	if len(st.entities) != 0 {
		t.Fatalf("blocked submission was persisted: %d entities", len(st.entities))
	}
}

func TestFeedbackCreateScreensTitleToo(t *testing.T) {
	st := newFakeFeedbackStore()
	gate := moderatorFunc(func(ctx context.Context, text string) (bool, error) {
		return text == "A title", nil
	})
	svc := NewFeedback(st, gate, nil, nil)

	created, err := svc.Create(context.Background(), submission())
	if err != nil || created != nil {
		t.Fatalf("flagged title must block: entity=%v err=%v", created, err)
	}
	if len(st.entities) != 0 {
		t.Fatal("flagged title was persisted")
	}
}

func TestFeedbackCreateOverwritesIdentity(t *testing.T) {
	st := newFakeFeedbackStore()
	svc := NewFeedback(st, passGate, nil, nil)

	sub := submission()
	callerID, callerCreated := sub.ID, sub.Created

	created, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created == nil {
		t.Fatal("accepted submission returned no entity")
	}
	if created.ID == callerID {
		t.Fatal("caller-supplied id was trusted")
	}
	if created.Created.Equal(callerCreated) {
		t.Fatal("caller-supplied creation time was trusted")
	}

	// The response payload is the re-read stored entity, stable on read.
	got, err := svc.GetOne(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if got.ID != created.ID || !got.Created.Equal(created.Created) {
		t.Fatalf("re-read differs: %+v vs %+v", got, created)
	}
}

func TestFeedbackCreatePartitionsByOwner(t *testing.T) {
	st := newFakeFeedbackStore()
	svc := NewFeedback(st, passGate, nil, nil)

	sub := submission()
	created, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got, want := st.partitions[created.ID], store.HexID(sub.Owner); got != want {
		t.Fatalf("partition key = %q, want owner %q", got, want)
	}
}

func TestFeedbackCreateModerationErrorPropagates(t *testing.T) {
	st := newFakeFeedbackStore()
	gate := moderatorFunc(func(ctx context.Context, text string) (bool, error) {
		return false, errors.New("classifier down")
	})
	svc := NewFeedback(st, gate, nil, nil)

	if _, err := svc.Create(context.Background(), submission()); err == nil {
		t.Fatal("classifier failure must not silently pass")
	}
	if len(st.entities) != 0 {
		t.Fatal("entity persisted despite moderation failure")
	}
}

func TestFeedbackGetOneNotFound(t *testing.T) {
	svc := NewFeedback(newFakeFeedbackStore(), passGate, nil, nil)

	_, err := svc.GetOne(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}
