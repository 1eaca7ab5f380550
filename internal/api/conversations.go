package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/auth"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"
	"github.com/Adilmunawar/JARVIS-AIRep/pkg/api"

	"github.com/go-chi/chi/v5"
)

// ConversationService serves conversation history and attachment downloads.
type ConversationService struct {
	store storage.Storage
	blobs storage.ObjectStore
}

func NewConversationService(store storage.Storage, blobs storage.ObjectStore) *ConversationService {
	return &ConversationService{store: store, blobs: blobs}
}

func (s *ConversationService) AddRoutes(r chi.Router) {
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListConversations))
		r.Delete("/{conversation_id}", RestHandler(s.DeleteConversation))
		r.Get("/{conversation_id}/messages", RestHandler(s.GetMessages))
	})
	r.Get("/files/{file_id}", s.DownloadFile)
}

func (s *ConversationService) ListConversations(r *http.Request) (any, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "unauthorized")
	}

	conversations, err := s.store.GetConversationsByUserId(r.Context(), user.Id)
	if err != nil {
		return nil, StorageError(err)
	}

	return convertConversations(conversations), nil
}

func (s *ConversationService) DeleteConversation(r *http.Request) (any, error) {
	conversation, err := s.ownedConversation(r)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteConversation(r.Context(), conversation.Id)
	if err != nil {
		return nil, StorageError(err)
	}

	return api.DeleteConversationResponse{Deleted: deleted}, nil
}

func (s *ConversationService) GetMessages(r *http.Request) (any, error) {
	conversation, err := s.ownedConversation(r)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.GetMessagesByConversationId(r.Context(), conversation.Id)
	if err != nil {
		return nil, StorageError(err)
	}

	return convertMessages(r.Context(), s.store, messages)
}

// DownloadFile streams a stored attachment. Access follows the chain file ->
// message -> conversation -> owning user.
func (s *ConversationService) DownloadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	fileId, err := URLParamInt(r, "file_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := s.store.GetFile(r.Context(), fileId)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	message, err := s.store.GetMessage(r.Context(), file.MessageId)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	conversation, err := s.store.GetConversation(r.Context(), message.ConversationId)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if conversation.UserId != user.Id {
		http.Error(w, "access denied to this file", http.StatusForbidden)
		return
	}

	blob, err := s.blobs.GetObject(r.Context(), file.FilePath)
	if err != nil {
		slog.Error("error reading stored blob", "file_id", file.Id, "path", file.FilePath, "error", err)
		http.Error(w, "failed to fetch file", http.StatusInternalServerError)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", file.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.FileName))
	if _, err := io.Copy(w, blob); err != nil {
		slog.Error("error streaming file to client", "file_id", file.Id, "error", err)
	}
}

func (s *ConversationService) ownedConversation(r *http.Request) (database.Conversation, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return database.Conversation{}, CodedErrorf(http.StatusUnauthorized, "unauthorized")
	}

	conversationId, err := URLParamInt(r, "conversation_id")
	if err != nil {
		return database.Conversation{}, err
	}

	conversation, err := s.store.GetConversation(r.Context(), conversationId)
	if err != nil {
		return database.Conversation{}, StorageError(err)
	}
	if conversation.UserId != user.Id {
		return database.Conversation{}, CodedErrorf(http.StatusForbidden, "access denied to this conversation")
	}
	return conversation, nil
}

func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	slog.Error("storage error serving file", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
