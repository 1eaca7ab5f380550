package api

import (
	"log/slog"
	"net/http"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/auth"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"
	"github.com/Adilmunawar/JARVIS-AIRep/pkg/api"

	"github.com/go-chi/chi/v5"
)

// AuthService serves the login endpoints. These sit outside the
// authentication middleware; everything else requires a resolved user.
type AuthService struct {
	store    storage.Storage
	verifier auth.Verifier
	demoMode bool
}

func NewAuthService(store storage.Storage, verifier auth.Verifier, demoMode bool) *AuthService {
	return &AuthService{store: store, verifier: verifier, demoMode: demoMode}
}

func (s *AuthService) AddRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/google", RestHandler(s.GoogleLogin))
		r.Get("/session", RestHandler(s.Session))
		r.Post("/logout", RestHandler(s.Logout))
	})
}

func (s *AuthService) GoogleLogin(r *http.Request) (any, error) {
	req, err := ParseRequest[api.GoogleLoginRequest](r)
	if err != nil {
		return nil, err
	}
	if req.IdToken == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "idToken is required")
	}

	profile, err := s.verifier.Verify(r.Context(), req.IdToken)
	if err != nil {
		slog.Error("error verifying google id token", "error", err)
		return nil, CodedErrorf(http.StatusUnauthorized, "unauthorized")
	}

	user, err := auth.FindOrCreateUser(r.Context(), s.store, profile)
	if err != nil {
		return nil, StorageError(err)
	}

	resp := convertUser(user)
	return api.AuthResponse{Authenticated: true, User: &resp}, nil
}

// Session reports whether the caller is signed in. In demo mode the demo
// user is created lazily on first call, matching the behavior the web client
// expects during development.
func (s *AuthService) Session(r *http.Request) (any, error) {
	profile := auth.DemoProfile
	if !s.demoMode {
		token := BearerToken(r)
		if token == "" {
			return api.AuthResponse{Authenticated: false}, nil
		}
		var err error
		profile, err = s.verifier.Verify(r.Context(), token)
		if err != nil {
			return api.AuthResponse{Authenticated: false}, nil
		}
	}

	user, err := auth.FindOrCreateUser(r.Context(), s.store, profile)
	if err != nil {
		return api.AuthResponse{Authenticated: false}, nil
	}

	resp := convertUser(user)
	return api.AuthResponse{Authenticated: true, User: &resp}, nil
}

func (s *AuthService) Logout(r *http.Request) (any, error) {
	// The backend holds no session state; the client drops its token.
	return api.LogoutResponse{Success: true}, nil
}

func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
