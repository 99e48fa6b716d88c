package credential

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) Token(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("token-%d", s.calls), nil
}

func TestTokenFetchesOnceThenCaches(t *testing.T) {
	src := &countingSource{}
	cache := NewCache(src, nil)

	for i := 0; i < 3; i++ {
		token, err := cache.Token(context.Background())
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if token != "token-1" {
			t.Fatalf("token = %q, want token-1", token)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source called %d times, want 1", src.calls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := &countingSource{}
	cache := NewCache(src, nil)

	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	cache.Invalidate()

	token, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token after invalidate failed: %v", err)
	}
	if token != "token-2" {
		t.Fatalf("token = %q, want token-2", token)
	}
}

func TestRefreshKeepsOldTokenOnFailure(t *testing.T) {
	src := &countingSource{}
	cache := NewCache(src, nil)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	src.err = errors.New("issuer down")
	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh must report source failure")
	}

	token, err := cache.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "token-1" {
		t.Fatalf("token = %q, want previous token-1 kept", token)
	}
}

func TestWarnShortLivedIgnoresOpaqueTokens(t *testing.T) {
	cache := NewCache(&countingSource{}, nil)
	// Must not panic or log-parse anything meaningful out of a random string.
	cache.warnShortLived("not-a-jwt")
}
