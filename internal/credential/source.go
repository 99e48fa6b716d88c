package credential

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"
)

// Source yields a bearer token for outbound service calls.
type Source interface {
	Token(ctx context.Context) (string, error)
}

type sourceFunc func(ctx context.Context) (string, error)

func (f sourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// ClientCredentials returns a Source backed by the OAuth2 client-credentials
// flow. Every call fetches a fresh token; the Cache is responsible for reuse.
func ClientCredentials(tokenURL, clientID, clientSecret string, scopes []string) Source {
	cfg := &clientcredentials.Config{
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
	}
	return sourceFunc(func(ctx context.Context) (string, error) {
		token, err := cfg.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("credential: fetch token: %w", err)
		}
		return token.AccessToken, nil
	})
}
