package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"pocketledger/internal/auth"
	"pocketledger/internal/ledger"
	"pocketledger/internal/user"
)

type contextKey struct{}

// UserFrom returns the authenticated user stored by RequireUser.
func UserFrom(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*user.User)
	return u, ok
}

type Handler struct {
	directory *user.Directory
	engine    *ledger.Service
	tokens    *auth.Tokens

	// session serializes requests against the single-session engine, so a
	// load for one token can never interleave with another request's
	// operations on a different user's ledger.
	session sync.Mutex
}

func NewHandler(directory *user.Directory, engine *ledger.Service, tokens *auth.Tokens) *Handler {
	return &Handler{directory: directory, engine: engine, tokens: tokens}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/logout", h.logout)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.directory.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) || errors.Is(err, user.ErrMissingFields) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		http.Error(w, "please try again", http.StatusServiceUnavailable)

		return
	}

	h.startSession(w, r, u)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.directory.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, user.ErrMissingFields), errors.Is(err, user.ErrMissingName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "please try again", http.StatusServiceUnavailable)
		}

		return
	}

	h.startSession(w, r, u)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u *user.User) {
	h.session.Lock()
	defer h.session.Unlock()

	if err := h.engine.Load(r.Context(), u.Username); err != nil {
		http.Error(w, "please try again", http.StatusServiceUnavailable)
		return
	}

	token, err := h.tokens.Issue(*u)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(sessionResponse{Token: token, User: *u}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.session.Lock()
	defer h.session.Unlock()

	h.engine.Unload()

	if err := h.directory.SignOut(r.Context()); err != nil {
		http.Error(w, "please try again", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequireUser verifies the Bearer token and makes sure the engine holds the
// caller's ledger, reloading it after a restart or when another user's
// session is loaded. The session lock is held until the request finishes so
// the loaded session cannot change under the handler.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		u, err := h.tokens.Verify(raw)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		h.session.Lock()
		defer h.session.Unlock()

		if username, ok := h.engine.Loaded(); !ok || username != u.Username {
			if err := h.engine.Load(r.Context(), u.Username); err != nil {
				http.Error(w, "please try again", http.StatusServiceUnavailable)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, u)))
	})
}
