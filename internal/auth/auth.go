// Package auth handles user accounts, password login and cookie sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campuscms/internal/models"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown user or a
// wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

const sessionUserID = "user_id"

type ctxKey struct{}

// NewSessionStore creates the cookie store sessions are kept in.
func NewSessionStore(sessionKey string) (*sessions.CookieStore, error) {
	if len(sessionKey) < 32 {
		return nil, errors.New("session key must be at least 32 characters long")
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	store.Options.MaxAge = 86400 * 7
	store.Options.SameSite = http.SameSiteLaxMode // Protect against CSRF
	return store, nil
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleWriter
}

// Service provides authentication-related services.
type Service struct {
	Repo        *Repository
	Store       sessions.Store
	SessionName string
	Log         *zap.Logger
}

// NewService creates a new authentication service.
func NewService(repo *Repository, store sessions.Store, sessionName string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Repo: repo, Store: store, SessionName: sessionName, Log: log}
}

// RegisterUser creates a user with a local password identity.
func (s *Service) RegisterUser(ctx context.Context, username, displayName, password, role string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", models.ErrInvalid)
	}
	if role == "" {
		role = models.RoleWriter
	}
	if !ValidRole(role) {
		return models.User{}, fmt.Errorf("%w: unknown role %q", models.ErrInvalid, role)
	}
	if _, err := s.Repo.FindUserByUsername(ctx, username); err == nil {
		return models.User{}, fmt.Errorf("%w: user %q already exists", models.ErrInvalid, username)
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}
	passwordHash := string(hashedPassword)

	user := models.User{Username: username, DisplayName: displayName, Role: role}
	if user.DisplayName == "" {
		user.DisplayName = username
	}
	identity := models.Identity{
		Provider:       "local",
		ProviderUserID: username,
		PasswordHash:   &passwordHash,
	}
	if err := s.Repo.CreateUser(ctx, &user, &identity); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ChangePassword sets a new password for the user.
func (s *Service) ChangePassword(ctx context.Context, userID int, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", models.ErrInvalid)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.Repo.SetPassword(ctx, userID, string(hashed))
}

// Authenticate checks a username and password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.Repo.FindUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	identity, err := s.Repo.FindIdentityByProvider(ctx, "local", username)
	if errors.Is(err, models.ErrNotFound) || (err == nil && identity.PasswordHash == nil) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and creates a session.
func (s *Service) Login(w http.ResponseWriter, r *http.Request, username, password string) (models.User, error) {
	user, err := s.Authenticate(r.Context(), username, password)
	if err != nil {
		return user, err
	}

	session, _ := s.Store.Get(r, s.SessionName)
	session.Values[sessionUserID] = user.ID

	// Set Secure flag based on request scheme or X-Forwarded-Proto header
	// This is crucial for correct behavior behind reverse proxies.
	session.Options.Secure = isHTTPS(r)

	if err := session.Save(r, w); err != nil {
		return user, fmt.Errorf("error saving session: %w", err)
	}
	return user, nil
}

// Logout destroys a user's session.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.Store.Get(r, s.SessionName)
	delete(session.Values, sessionUserID)
	session.Options.Secure = isHTTPS(r)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.URL.Scheme == "https" || r.Header.Get("X-Forwarded-Proto") == "https"
}

// WithUser loads the session user, if any, into the request context. The
// user is read from storage so role changes apply immediately.
func (s *Service) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Store.Get(r, s.SessionName)
		if err != nil {
			s.Log.Debug("discarding unreadable session", zap.Error(err))
		}
		if id, ok := session.Values[sessionUserID].(int); ok {
			user, err := s.Repo.FindUser(r.Context(), id)
			switch {
			case err == nil:
				r = r.WithContext(WithCurrentUser(r.Context(), &user))
			case !errors.Is(err, models.ErrNotFound):
				s.Log.Error("error loading session user", zap.Int("user_id", id), zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// WithCurrentUser returns a context carrying user.
func WithCurrentUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// CurrentUser returns the logged-in user of the request, or nil.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKey{}).(*models.User)
	return user
}

// RequireLogin rejects requests without a logged-in user.
func RequireLogin(next http.Handler) http.Handler {
	return RequireRole()(next)
}

// RequireRole rejects requests whose user is not logged in, or does not hold
// one of roles. No roles means any logged-in user.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, user.Role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
