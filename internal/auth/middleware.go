package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"
)

type contextKey struct{}

var userContextKey contextKey

// DemoProfile is the fixed identity used when the server runs without a real
// identity provider.
var DemoProfile = Profile{
	GoogleId:    "demo-user-123",
	Email:       "demo@example.com",
	DisplayName: "Demo User",
}

type Authenticator struct {
	store    storage.Storage
	verifier Verifier
	demoMode bool
}

func NewAuthenticator(store storage.Storage, verifier Verifier, demoMode bool) *Authenticator {
	return &Authenticator{store: store, verifier: verifier, demoMode: demoMode}
}

// Middleware resolves the requesting user and stores it on the request
// context. In demo mode every request acts as the demo user; otherwise a
// bearer token is verified against the identity provider on each request.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := DemoProfile
		if !a.demoMode {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			var err error
			profile, err = a.verifier.Verify(r.Context(), token)
			if err != nil {
				slog.Error("error verifying identity token", "error", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		user, err := FindOrCreateUser(r.Context(), a.store, profile)
		if err != nil {
			slog.Error("error resolving user for request", "google_id", profile.GoogleId, "error", err)
			http.Error(w, "unable to resolve user", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// FindOrCreateUser looks the user up by the external identity key, creating
// a record on first sign-in. The username defaults to the email local part.
func FindOrCreateUser(ctx context.Context, store storage.Storage, profile Profile) (database.User, error) {
	user, err := store.GetUserByGoogleId(ctx, profile.GoogleId)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return database.User{}, err
	}

	username := profile.Email
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}
	if username == "" {
		username = fmt.Sprintf("user%d", time.Now().UnixMilli())
	}

	displayName := profile.DisplayName
	if displayName == "" {
		displayName = "User"
	}

	user = database.User{
		Username:    username,
		Email:       profile.Email,
		DisplayName: displayName,
		PictureUrl:  profile.PictureUrl,
		GoogleId:    profile.GoogleId,
	}
	if err := store.CreateUser(ctx, &user); err != nil {
		return database.User{}, err
	}
	return user, nil
}

func WithUser(ctx context.Context, user database.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user placed on the context by
// Middleware.
func UserFromContext(ctx context.Context) (database.User, bool) {
	user, ok := ctx.Value(userContextKey).(database.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
