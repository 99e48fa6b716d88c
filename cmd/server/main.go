package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"

	"github.com/clemlesne/feedback-fountain/internal/config"
	"github.com/clemlesne/feedback-fountain/internal/credential"
	"github.com/clemlesne/feedback-fountain/internal/database"
	"github.com/clemlesne/feedback-fountain/internal/handlers"
	"github.com/clemlesne/feedback-fountain/internal/middleware"
	"github.com/clemlesne/feedback-fountain/internal/models"
	"github.com/clemlesne/feedback-fountain/internal/moderation"
	"github.com/clemlesne/feedback-fountain/internal/notify"
	"github.com/clemlesne/feedback-fountain/internal/services"
	"github.com/clemlesne/feedback-fountain/internal/store"
	"github.com/clemlesne/feedback-fountain/internal/vectorindex"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	cfg := config.Load()

	// System logging is the process default; the application gets its own,
	// independently tunable logger.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SysLogLevel})))
	appLog := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.AppLogLevel}))

	if cfg.MongoURI == "" {
		log.Fatal("❌ MS_MONGODB_URI is required")
	}
	if cfg.ACSEndpoint == "" {
		log.Fatal("❌ MS_ACS_API_BASE is required")
	}
	if cfg.ACSKey == "" && cfg.TokenURL == "" {
		log.Fatal("❌ either MS_ACS_API_TOKEN or MS_TOKEN_URL is required for classifier auth")
	}

	// Connect to MongoDB
	if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// One container per entity kind, each with its partition field.
	feedbackStore := store.NewContainer[models.Feedback](database.GetCollection("feedbacks"), "owner", appLog)
	commentStore := store.NewContainer[models.Comment](database.GetCollection("comments"), "related", appLog)
	likeStore := store.NewContainer[models.Like](database.GetCollection("likes"), "related", appLog)
	userStore := store.NewContainer[models.User](database.GetCollection("users"), "dummy", appLog)

	ctx := context.Background()
	for name, ensure := range map[string]func(context.Context) error{
		"feedbacks": feedbackStore.EnsureIndexes,
		"comments":  commentStore.EnsureIndexes,
		"likes":     likeStore.EnsureIndexes,
		"users":     userStore.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			appLog.Warn("⚠️  failed to create indexes", "collection", name, "error", err)
		}
	}

	// Process-wide credential cache, refreshed in the background with margin
	// under the issuer's token lifetime.
	var tokenCache *credential.Cache
	if cfg.TokenURL != "" {
		source := credential.ClientCredentials(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, []string{cfg.TokenScope})
		tokenCache = credential.NewCache(source, appLog)
		if err := tokenCache.Refresh(ctx); err != nil {
			appLog.Warn("⚠️  initial token refresh failed", "error", err)
		}
		go tokenCache.Run(ctx)
	}

	// Moderation gate over the content-safety classifier.
	var tokens moderation.TokenSource
	if tokenCache != nil {
		tokens = tokenCache
	}
	classifier := moderation.NewClient(cfg.ACSEndpoint, cfg.ACSKey, tokens, appLog)
	gate := moderation.NewGate(classifier, moderation.Severity(cfg.ACSSeverityThreshold), appLog)
	appLog.Info("using content-safety classifier", "endpoint", cfg.ACSEndpoint, "threshold", cfg.ACSSeverityThreshold)

	// Provision the embedding collection for the future semantic search.
	if cfg.QdrantHost != "" {
		qdrantClient, err := qdrant.NewClient(&qdrant.Config{Host: cfg.QdrantHost, Port: cfg.QdrantPort})
		if err != nil {
			log.Fatalf("❌ Failed to create Qdrant client: %v", err)
		}
		if err := vectorindex.Ensure(ctx, qdrantClient, appLog); err != nil {
			log.Fatalf("❌ Failed to provision embedding collection: %v", err)
		}
		appLog.Info("embedding backends configured", "ada_deployment", cfg.AdaDeployID, "gpt_deployment", cfg.GPTDeployID)
	} else {
		appLog.Warn("⚠️  MS_QD_HOST not set, skipping embedding collection provisioning")
	}

	// Admin notifications on accepted feedback.
	var notifier notify.Notifier
	if cfg.ResendAPIKey != "" && cfg.NotifyEmail != "" {
		notifier = notify.NewResend(cfg.ResendAPIKey, cfg.FromEmail, cfg.NotifyEmail)
		appLog.Info("email notifications enabled", "to", cfg.NotifyEmail)
	} else {
		notifier = notify.NewLog(appLog)
	}

	// Services and handlers.
	feedbackHandler := handlers.NewFeedbackHandler(services.NewFeedback(feedbackStore, gate, notifier, appLog), appLog)
	commentHandler := handlers.NewCommentHandler(services.NewComment(commentStore, appLog), appLog)
	likeHandler := handlers.NewLikeHandler(services.NewLike(likeStore, appLog), appLog)
	userHandler := handlers.NewUserHandler(services.NewUser(userStore, appLog), appLog)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Optional Redis-backed per-IP rate limiting.
	if cfg.RedisURI != "" {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			appLog.Warn("⚠️  Redis unavailable, rate limiting disabled", "error", err)
		} else {
			r.Use(middleware.RateLimit(database.RedisClient))
		}
	}

	mount := func(r chi.Router) {
		r.Get("/health/liveness", handlers.Liveness)
		r.Get("/version", handlers.Version(cfg.Version))

		r.Get("/feedback", feedbackHandler.List)
		r.Get("/feedback/{id}", feedbackHandler.GetOne)
		r.Post("/feedback", feedbackHandler.Create)

		r.Get("/like", likeHandler.ListByRelated)
		r.Post("/like", likeHandler.Create)

		r.Get("/comment", commentHandler.ListByRelated)
		r.Post("/comment", commentHandler.Create)

		r.Get("/user", userHandler.List)
		r.Post("/user", userHandler.Create)
	}
	if cfg.RootPath != "" {
		r.Route(cfg.RootPath, mount)
	} else {
		mount(r)
	}

	appLog.Info("🚀 feedback-fountain api listening", "port", cfg.Port, "version", cfg.Version, "root_path", cfg.RootPath)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
