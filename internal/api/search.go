package api

import (
	"net/http"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"
	"github.com/Adilmunawar/JARVIS-AIRep/pkg/api"

	"github.com/go-chi/chi/v5"
)

// SearchService exposes substring search over the stored entities. Queries
// are decoded from the q parameter; an empty query matches everything.
type SearchService struct {
	store storage.Storage
}

func NewSearchService(store storage.Storage) *SearchService {
	return &SearchService{store: store}
}

func (s *SearchService) AddRoutes(r chi.Router) {
	r.Route("/search", func(r chi.Router) {
		r.Get("/messages", RestHandler(s.SearchMessages))
		r.Get("/conversations", RestHandler(s.SearchConversations))
		r.Get("/users", RestHandler(s.SearchUsers))
	})
}

func (s *SearchService) SearchMessages(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.SearchParams](r)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.SearchMessages(r.Context(), params.Query)
	if err != nil {
		return nil, StorageError(err)
	}

	return convertMessages(r.Context(), s.store, messages)
}

func (s *SearchService) SearchConversations(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.SearchParams](r)
	if err != nil {
		return nil, err
	}

	conversations, err := s.store.SearchConversations(r.Context(), params.Query)
	if err != nil {
		return nil, StorageError(err)
	}

	return convertConversations(conversations), nil
}

func (s *SearchService) SearchUsers(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.SearchParams](r)
	if err != nil {
		return nil, err
	}

	users, err := s.store.SearchUsers(r.Context(), params.Query)
	if err != nil {
		return nil, StorageError(err)
	}

	out := make([]api.User, len(users))
	for i, user := range users {
		out[i] = convertUser(user)
	}
	return out, nil
}
