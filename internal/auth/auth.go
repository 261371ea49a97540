// Package auth signs users in against the Supabase auth (GoTrue) endpoints
// and supplies their access token to the REST client.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

const (
	pathToken   = "/auth/v1/token"
	pathSignUp  = "/auth/v1/signup"
	pathRecover = "/auth/v1/recover"
	pathLogout  = "/auth/v1/logout"
	pathUser    = "/auth/v1/user"

	// localSessionLifetime applies to confirmed users signed in without tokens
	localSessionLifetime = 24 * time.Hour
)

var (
	// ErrNotSignedIn is returned when an operation needs a signed-in user
	ErrNotSignedIn = errors.New("not signed in")
	// ErrEmailNotConfirmed is returned when the account exists but its email
	// was never confirmed
	ErrEmailNotConfirmed = errors.New("please check your email and confirm your account before signing in")
)

// Error is a non-2xx response of the auth endpoints
type Error struct {
	Status int
	Body   types.AuthError
}

func (e *Error) Error() string {
	if text := e.Body.Text(); text != "" {
		return fmt.Sprintf("auth failed: HTTP %d: %s", e.Status, text)
	}
	return fmt.Sprintf("auth failed: HTTP %d", e.Status)
}

// Result is the outcome of a sign-in or sign-up. Exactly one of Session and
// Local is set.
type Result struct {
	Session *types.AuthSession
	Local   *types.LocalSession
}

// User returns the account of the result
func (r Result) User() types.User {
	if r.Session != nil {
		return r.Session.User
	}
	if r.Local != nil {
		return r.Local.User
	}
	return types.User{}
}

// authResponse accepts both the token shape (session fields at the top
// level) and the {user, session} shape
type authResponse struct {
	types.AuthSession
	Session *types.AuthSession `json:"session"`
}

// Client calls the auth endpoints
type Client struct {
	rest   *postgrest.Client
	logger *zap.Logger
	now    func() time.Time
}

// New creates an auth client for the backend
func New(b config.Backend, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	// No token source here: refreshing must not depend on a valid token.
	rest, err := postgrest.New(b, postgrest.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Client{rest: rest, logger: logger, now: time.Now}, nil
}

func (c *Client) call(ctx context.Context, method, path, bearer string, payload, out any) error {
	req, err := c.rest.NewRequest(method, path, payload, false)
	if err != nil {
		return err
	}
	delete(req.Headers, "Prefer")
	if bearer != "" {
		req.Headers["Authorization"] = "Bearer " + bearer
	}

	result, err := c.rest.Execute(ctx, req)
	if err != nil {
		return err
	}
	if result.Status == 0 {
		return fmt.Errorf("%s %s failed: %s", method, path, result.Error)
	}
	if !postgrest.IsSuccessStatus(result.Status) {
		var body types.AuthError
		_ = json.Unmarshal([]byte(result.Body), &body)
		return &Error{Status: result.Status, Body: body}
	}
	if out == nil || result.Body == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(result.Body), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// result turns an auth response into a session, or a local session for a
// confirmed user the server returned without tokens
func (c *Client) result(resp authResponse) (*Result, error) {
	switch {
	case resp.AccessToken != "":
		s := resp.AuthSession
		c.fillExpiry(&s)
		return &Result{Session: &s}, nil
	case resp.Session != nil && resp.Session.AccessToken != "":
		s := *resp.Session
		c.fillExpiry(&s)
		return &Result{Session: &s}, nil
	case resp.User.ID != "":
		if resp.User.EmailConfirmedAt == nil {
			return nil, ErrEmailNotConfirmed
		}
		now := c.now()
		return &Result{Local: &types.LocalSession{
			User:      resp.User,
			CreatedAt: now.Unix(),
			ExpiresAt: now.Add(localSessionLifetime).Unix(),
		}}, nil
	}
	return nil, errors.New("invalid email or password")
}

func (c *Client) fillExpiry(s *types.AuthSession) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = c.now().Unix() + s.ExpiresIn
	}
}

// SignIn exchanges an email and password for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (*Result, error) {
	var resp authResponse
	err := c.call(ctx, http.MethodPost, pathToken+"?grant_type=password", "", types.SignInRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	res, err := c.result(resp)
	if err != nil {
		return nil, err
	}
	c.logger.Info("signed in", zap.String("email", email))
	return res, nil
}

// SignUp registers an account. The result has no session when the backend
// requires email confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password string, data *types.UserMetadata) (*Result, error) {
	var resp authResponse
	err := c.call(ctx, http.MethodPost, pathSignUp, "", types.SignUpRequest{Email: email, Password: password, Data: data}, &resp)
	if err != nil {
		return nil, err
	}
	res, err := c.result(resp)
	if errors.Is(err, ErrEmailNotConfirmed) {
		return &Result{}, nil
	}
	return res, err
}

// Recover sends a password reset email
func (c *Client) Recover(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, pathRecover, "", types.RecoverRequest{Email: email}, nil)
}

// Refresh exchanges a refresh token for a new session
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*types.AuthSession, error) {
	var resp authResponse
	err := c.call(ctx, http.MethodPost, pathToken+"?grant_type=refresh_token", "", types.RefreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, err
	}
	res, err := c.result(resp)
	if err != nil {
		return nil, err
	}
	if res.Session == nil {
		return nil, errors.New("refresh returned no session")
	}
	return res.Session, nil
}

// SignOut revokes the access token
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.call(ctx, http.MethodPost, pathLogout, accessToken, map[string]any{}, nil)
}

// User returns the account of the access token
func (c *Client) User(ctx context.Context, accessToken string) (*types.User, error) {
	var u types.User
	if err := c.call(ctx, http.MethodGet, pathUser, accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser changes the email, password or metadata of the account
func (c *Client) UpdateUser(ctx context.Context, accessToken string, req types.UpdateUserRequest) (*types.User, error) {
	var u types.User
	if err := c.call(ctx, http.MethodPut, pathUser, accessToken, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Expired reports whether the session expires within leeway of now
func Expired(s *types.AuthSession, now time.Time, leeway time.Duration) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt == 0 {
		return false
	}
	return !now.Add(leeway).Before(time.Unix(s.ExpiresAt, 0))
}
