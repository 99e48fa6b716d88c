package credential

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshInterval leaves margin under the issuer's ~30 minute token
// lifetime so outbound calls never hold an expired credential.
const RefreshInterval = 25 * time.Minute

// Cache holds the current bearer token for every outbound classifier and
// model call. One instance is shared process-wide, injected where needed;
// a background Run loop keeps it fresh.
type Cache struct {
	source Source
	log    *slog.Logger

	mu    sync.RWMutex
	token string
}

func NewCache(source Source, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{source: source, log: log}
}

// Token returns the cached token, fetching one synchronously when the cache
// is empty or has been invalidated.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		return token, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, nil
}

// Refresh fetches a new token and swaps it in.
func (c *Cache) Refresh(ctx context.Context) error {
	token, err := c.source.Token(ctx)
	if err != nil {
		return err
	}
	c.warnShortLived(token)
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached token; the next Token call refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Run refreshes the token on a fixed interval until ctx is cancelled. A
// failed refresh is logged and retried on the next tick, never fatal.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()
	for {
		c.log.Info("refreshing outbound service token")
		if err := c.Refresh(ctx); err != nil {
			c.log.Error("token refresh failed, retrying next tick", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// warnShortLived inspects the exp claim of JWT-shaped tokens and warns when
// the token would expire before the next scheduled refresh. Opaque tokens
// are ignored.
func (c *Cache) warnShortLived(raw string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if remaining := time.Until(exp.Time); remaining < RefreshInterval {
		c.log.Warn("token expires before next refresh", "expires_in", remaining)
	}
}
