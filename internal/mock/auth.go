package mock

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studiowebux/catalog/internal/types"
)

const tokenLifetime = time.Hour

// authService implements the password and refresh grants of GoTrue
type authService struct {
	mu       sync.Mutex
	users    map[string]User
	ids      map[string]string
	access   map[string]string // access token -> email
	refresh  map[string]string // refresh token -> email
	lifetime time.Duration
}

func newAuthService(users []User) *authService {
	a := &authService{
		users:    make(map[string]User),
		ids:      make(map[string]string),
		access:   make(map[string]string),
		refresh:  make(map[string]string),
		lifetime: tokenLifetime,
	}
	for _, u := range users {
		a.users[strings.ToLower(u.Email)] = u
		a.ids[strings.ToLower(u.Email)] = uuid.NewString()
	}
	return a
}

func (a *authService) user(email string) types.User {
	u := a.users[email]
	out := types.User{ID: a.ids[email], Email: u.Email}
	if u.Name != "" {
		name := u.Name
		out.UserMetadata = &types.UserMetadata{FullName: &name}
	}
	return out
}

// issue creates a session; callers hold a.mu
func (a *authService) issue(email string) types.AuthSession {
	accessToken := uuid.NewString()
	refreshToken := uuid.NewString()
	a.access[accessToken] = email
	a.refresh[refreshToken] = email
	return types.AuthSession{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(a.lifetime.Seconds()),
		ExpiresAt:    time.Now().Add(a.lifetime).Unix(),
		RefreshToken: refreshToken,
		User:         a.user(email),
	}
}

func authError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, types.AuthError{Error: code, ErrorDescription: description})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// handleAuth serves /auth/v1/token, signup, recover, logout and user
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	a := s.auth
	endpoint := strings.TrimPrefix(r.URL.Path, "/auth/v1/")

	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case endpoint == "token" && r.Method == http.MethodPost:
		switch r.URL.Query().Get("grant_type") {
		case "password":
			var req types.SignInRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				authError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
				return
			}
			email := strings.ToLower(req.Email)
			u, ok := a.users[email]
			if !ok || u.Password != req.Password {
				authError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
				return
			}
			writeJSON(w, http.StatusOK, a.issue(email))
		case "refresh_token":
			var req types.RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				authError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
				return
			}
			email, ok := a.refresh[req.RefreshToken]
			if !ok {
				authError(w, http.StatusBadRequest, "invalid_grant", "Invalid Refresh Token: Refresh Token Not Found")
				return
			}
			delete(a.refresh, req.RefreshToken)
			writeJSON(w, http.StatusOK, a.issue(email))
		default:
			authError(w, http.StatusBadRequest, "unsupported_grant_type", "Unsupported grant type")
		}

	case endpoint == "signup" && r.Method == http.MethodPost:
		var req types.SignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			authError(w, http.StatusBadRequest, "validation_failed", "Signup requires a valid email and password")
			return
		}
		email := strings.ToLower(req.Email)
		if _, exists := a.users[email]; exists {
			authError(w, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
			return
		}
		u := User{Email: req.Email, Password: req.Password}
		if req.Data != nil && req.Data.FullName != nil {
			u.Name = *req.Data.FullName
		}
		a.users[email] = u
		a.ids[email] = uuid.NewString()
		writeJSON(w, http.StatusOK, a.issue(email))

	case endpoint == "recover" && r.Method == http.MethodPost:
		writeJSON(w, http.StatusOK, map[string]any{})

	case endpoint == "logout" && r.Method == http.MethodPost:
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		delete(a.access, token)
		writeJSON(w, http.StatusNoContent, nil)

	case endpoint == "user" && r.Method == http.MethodGet:
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		email, ok := a.access[token]
		if !ok {
			authError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT")
			return
		}
		writeJSON(w, http.StatusOK, a.user(email))

	default:
		authError(w, http.StatusNotFound, "not_found", "Unknown auth endpoint")
	}
}
