package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Adilmunawar/JARVIS-AIRep/cmd"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/ai"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/api"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/auth"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/chat"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/database"
	"github.com/Adilmunawar/JARVIS-AIRep/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	APIPort     string `env:"API_PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	AIProvider  string `env:"AI_PROVIDER" envDefault:"openai"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL"`
	GeminiKey   string `env:"GEMINI_API_KEY"`
	GeminiModel string `env:"GEMINI_MODEL"`

	AuthMode string `env:"AUTH_MODE" envDefault:"demo"`

	UploadDir         string `env:"UPLOAD_DIR" envDefault:"uploads"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	UploadBucketName  string `env:"UPLOAD_BUCKET_NAME"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

func newStore(cfg APIConfig) (storage.Storage, error) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using in-memory storage")
		return storage.NewMemoryStorage(), nil
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.GetMigrator(db).Migrate(); err != nil {
		return nil, err
	}
	return storage.NewGormStorage(db), nil
}

func newBlobStore(cfg APIConfig) (storage.ObjectStore, error) {
	if cfg.UploadBucketName != "" {
		log.Printf("storing uploads in s3 bucket %s", cfg.UploadBucketName)
		return storage.NewS3ObjectStore(storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.UploadBucketName,
		})
	}
	log.Printf("storing uploads in local directory %s", cfg.UploadDir)
	return storage.NewLocalObjectStore(cfg.UploadDir)
}

func newCompleter(ctx context.Context, cfg APIConfig) (ai.Completer, error) {
	switch cfg.AIProvider {
	case "gemini":
		return ai.NewGeminiCompleter(ctx, cfg.GeminiKey, cfg.GeminiModel)
	default:
		return ai.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel)
	}
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	store = storage.WithLogging(store, slog.Default())

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	completer, err := newCompleter(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}

	demoMode := cfg.AuthMode != "google"
	verifier := auth.NewGoogleVerifier()
	authenticator := auth.NewAuthenticator(store, verifier, demoMode)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout

	authHandler := api.NewAuthService(store, verifier, demoMode)
	chatHandler := api.NewChatService(store, chat.NewService(store, completer), blobs)
	conversationHandler := api.NewConversationService(store, blobs)
	searchHandler := api.NewSearchService(store)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		authHandler.AddRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Middleware)
			chatHandler.AddRoutes(r)
			conversationHandler.AddRoutes(r)
			searchHandler.AddRoutes(r)
		})
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
