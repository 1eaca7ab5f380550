package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	profiles map[string]Profile
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (Profile, error) {
	profile, ok := v.profiles[token]
	if !ok {
		return Profile{}, errors.New("invalid token")
	}
	return profile, nil
}

func TestFindOrCreateUserCreatesOnFirstSignIn(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	profile := Profile{
		GoogleId:    "g-123",
		Email:       "jane.doe@example.com",
		DisplayName: "Jane Doe",
		PictureUrl:  "https://example.com/jane.png",
	}

	user, err := FindOrCreateUser(ctx, store, profile)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", user.Username)
	assert.Equal(t, "jane.doe@example.com", user.Email)
	assert.Equal(t, "Jane Doe", user.DisplayName)
	assert.Equal(t, "g-123", user.GoogleId)

	// A second sign-in resolves the existing record instead of creating a new one.
	again, err := FindOrCreateUser(ctx, store, profile)
	require.NoError(t, err)
	assert.Equal(t, user.Id, again.Id)
}

func TestFindOrCreateUserDefaultsDisplayName(t *testing.T) {
	store := storage.NewMemoryStorage()

	user, err := FindOrCreateUser(context.Background(), store, Profile{
		GoogleId: "g-456",
		Email:    "anonymous@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "User", user.DisplayName)
}

func TestMiddlewareDemoMode(t *testing.T) {
	store := storage.NewMemoryStorage()
	authenticator := NewAuthenticator(store, &fakeVerifier{}, true)

	handler := authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, DemoProfile.GoogleId, user.GoogleId)
		assert.Equal(t, DemoProfile.Email, user.Email)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Demo requests reuse a single user record.
	users, err := store.SearchUsers(context.Background(), "demo")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestMiddlewareBearerToken(t *testing.T) {
	store := storage.NewMemoryStorage()
	verifier := &fakeVerifier{profiles: map[string]Profile{
		"good-token": {GoogleId: "g-789", Email: "real@example.com", DisplayName: "Real User"},
	}}
	authenticator := NewAuthenticator(store, verifier, false)

	handler := authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "g-789", user.GoogleId)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	store := storage.NewMemoryStorage()
	authenticator := NewAuthenticator(store, &fakeVerifier{}, false)

	handler := authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	store := storage.NewMemoryStorage()
	authenticator := NewAuthenticator(store, &fakeVerifier{}, false)

	handler := authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
