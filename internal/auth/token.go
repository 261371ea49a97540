package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

const (
	refreshLeeway  = time.Minute
	refreshTimeout = 15 * time.Second
)

// SessionStore persists the signed-in session
type SessionStore interface {
	Auth() *types.AuthSession
	SetAuth(*types.AuthSession) error
}

// TokenSource supplies the access token of the stored session, refreshing
// and persisting it shortly before it expires
type TokenSource struct {
	mu     sync.Mutex
	client *Client
	store  SessionStore
	now    func() time.Time
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

// NewTokenSource creates a token source over the stored session
func NewTokenSource(client *Client, store SessionStore) *TokenSource {
	return &TokenSource{client: client, store: store, now: time.Now}
}

// Token returns the current access token. Without a stored session the
// error matches both ErrNotSignedIn and postgrest.ErrNoToken.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	s := ts.store.Auth()
	if s == nil || s.AccessToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrNotSignedIn, postgrest.ErrNoToken)
	}

	if Expired(s, ts.now(), refreshLeeway) {
		if s.RefreshToken == "" {
			return nil, fmt.Errorf("session expired: %w", ErrNotSignedIn)
		}
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		refreshed, err := ts.client.Refresh(ctx, s.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		if err := ts.store.SetAuth(refreshed); err != nil {
			return nil, fmt.Errorf("failed to save refreshed session: %w", err)
		}
		ts.client.logger.Debug("session refreshed", zap.Int64("expires_at", refreshed.ExpiresAt))
		s = refreshed
	}

	tok := &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
	}
	if s.ExpiresAt > 0 {
		tok.Expiry = time.Unix(s.ExpiresAt, 0)
	}
	return tok, nil
}
