package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Adilmunawar/JARVIS-AIRep/internal/auth"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/chat"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"
	"github.com/Adilmunawar/JARVIS-AIRep/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxUploadFiles    = 5
	maxUploadBytes    = 10 << 20 // 10 MiB per file
	multipartMemLimit = 32 << 20
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

type ChatService struct {
	store storage.Storage
	chat  *chat.Service
	blobs storage.ObjectStore
}

func NewChatService(store storage.Storage, chatService *chat.Service, blobs storage.ObjectStore) *ChatService {
	return &ChatService{store: store, chat: chatService, blobs: blobs}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Post("/chat", RestHandler(s.Chat))
	r.Post("/chat/with-files", RestHandler(s.ChatWithFiles))
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "unauthorized")
	}

	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Content == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "content is required")
	}

	conversation, err := s.resolveConversation(r, user, req.ConversationId, chat.DeriveTitle(req.Content))
	if err != nil {
		return nil, err
	}

	messages, err := s.chat.Respond(r.Context(), conversation, req.Content, "")
	if err != nil {
		slog.Error("error processing chat message", "conversation_id", conversation.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to process chat message")
	}

	converted, err := convertMessages(r.Context(), s.store, messages)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.ChatResponse{ConversationId: conversation.Id, Messages: converted}, nil
}

func (s *ChatService) ChatWithFiles(r *http.Request) (any, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "unauthorized")
	}

	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "unable to parse multipart request")
	}

	content := r.FormValue("content")

	var conversationId *int64
	if raw := r.FormValue("conversationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, CodedErrorf(http.StatusBadRequest, "invalid conversationId %q", raw)
		}
		conversationId = &id
	}

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "at least one file is required")
	}
	if len(uploads) > maxUploadFiles {
		return nil, CodedErrorf(http.StatusBadRequest, "at most %d files may be uploaded at once", maxUploadFiles)
	}
	for _, header := range uploads {
		if header.Size > maxUploadBytes {
			return nil, CodedErrorf(http.StatusBadRequest, "file %s exceeds the %d byte limit", header.Filename, maxUploadBytes)
		}
		if !allowedUploadTypes[header.Header.Get("Content-Type")] {
			return nil, CodedErrorf(http.StatusBadRequest, "file type %s not supported", header.Header.Get("Content-Type"))
		}
	}

	conversation, err := s.resolveConversation(r, user, conversationId, chat.DeriveTitle(content))
	if err != nil {
		return nil, err
	}

	type upload struct {
		record   database.File
		contents []byte
	}

	stored := make([]upload, 0, len(uploads))
	analyses := make([]chat.FileAnalysis, 0, len(uploads))
	for _, header := range uploads {
		f, err := header.Open()
		if err != nil {
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to read upload %s", header.Filename)
		}
		contents, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to read upload %s", header.Filename)
		}

		mimeType := header.Header.Get("Content-Type")
		analysis, err := chat.ExtractText(header.Filename, mimeType, contents)
		if err != nil {
			slog.Error("error extracting text from upload", "file_name", header.Filename, "error", err)
			analysis = fmt.Sprintf("Received %s but its content could not be read.", header.Filename)
		}
		analyses = append(analyses, chat.FileAnalysis{FileName: header.Filename, Analysis: analysis})

		stored = append(stored, upload{
			record: database.File{
				FileName: header.Filename,
				FileType: mimeType,
				FileSize: header.Size,
				FilePath: uuid.New().String() + "-" + header.Filename,
			},
			contents: contents,
		})
	}

	messageContent := content
	if messageContent == "" {
		messageContent = "Uploaded file(s) for analysis"
	}

	prompt := chat.BuildFilePrompt(content, analyses)
	messages, err := s.chat.Respond(r.Context(), conversation, messageContent, prompt)
	if err != nil {
		slog.Error("error processing file upload chat", "conversation_id", conversation.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to process file upload")
	}

	userMessage, ok := chat.UserMessage(messages)
	if !ok {
		return nil, CodedErrorf(http.StatusInternalServerError, "conversation is missing the uploaded message")
	}

	for _, u := range stored {
		if err := s.blobs.PutObject(r.Context(), u.record.FilePath, bytes.NewReader(u.contents)); err != nil {
			slog.Error("error storing uploaded blob", "file_name", u.record.FileName, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to store uploaded file")
		}

		u.record.MessageId = userMessage.Id
		if err := s.store.CreateFile(r.Context(), &u.record); err != nil {
			return nil, StorageError(err)
		}
	}

	converted, err := convertMessages(r.Context(), s.store, messages)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.ChatResponse{ConversationId: conversation.Id, Messages: converted}, nil
}

// resolveConversation loads and ownership-checks an existing conversation, or
// starts a new one titled from the opening message.
func (s *ChatService) resolveConversation(r *http.Request, user database.User, conversationId *int64, title string) (database.Conversation, error) {
	if conversationId != nil {
		conversation, err := s.store.GetConversation(r.Context(), *conversationId)
		if err != nil {
			return database.Conversation{}, StorageError(err)
		}
		if conversation.UserId != user.Id {
			return database.Conversation{}, CodedErrorf(http.StatusForbidden, "access denied to this conversation")
		}
		return conversation, nil
	}

	conversation := database.Conversation{UserId: user.Id, Title: title}
	if err := s.store.CreateConversation(r.Context(), &conversation); err != nil {
		return database.Conversation{}, StorageError(err)
	}
	return conversation, nil
}
