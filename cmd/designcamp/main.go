// Package main is the entry point for the Design Camp API server.
// It loads configuration, connects to services, starts the background
// workers, sets up routing, and runs the HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"designcamp/internal/ai"
	"designcamp/internal/cache"
	"designcamp/internal/camp"
	"designcamp/internal/chat"
	"designcamp/internal/config"
	"designcamp/internal/database"
	"designcamp/internal/generator"
	"designcamp/internal/handlers"
	"designcamp/internal/mail"
	"designcamp/internal/middleware"
	"designcamp/internal/router"
	"designcamp/internal/session"
	"designcamp/internal/storage"
	"designcamp/internal/store"
	"designcamp/internal/token"
)

// leaderboardTTL bounds how stale a cached ranking can be.
const leaderboardTTL = 60 * time.Second

func main() {
	// A missing .env is fine; real deployments set the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Text logs in development, JSON everywhere else.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Outside development, session cookies are HTTPS-only.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)

	userStore := store.NewUserStore(db)
	challengeStore := store.NewChallengeStore(db)
	submissionStore := store.NewSubmissionStore(db)
	preferencesStore := store.NewPreferencesStore(db)
	templateStore := store.NewProjectTemplateStore(db)
	newsletterStore := store.NewNewsletterStore(db)
	leaderboardStore := store.NewLeaderboardStore(db)
	chatStore := store.NewChatStore(db)

	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gateway": {APIKey: cfg.GatewayKey, Model: cfg.GatewayModel, BaseURL: cfg.GatewayBaseURL},
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	challengeGen := generator.NewChallengeGenerator(aiRegistry)
	projectGen := generator.NewProjectGenerator(aiRegistry)

	// Image uploads are optional; without S3 submissions take links only.
	var objects camp.ObjectStore
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if client != nil {
			objects = client
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
		}
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	leaderboardCache := cache.NewJSONCache(valkeyClient, "leaderboard", leaderboardTTL)

	challenges := camp.NewChallengeService(challengeStore, challengeGen, submissionStore)
	submissions := camp.NewSubmissionService(submissionStore, challengeStore, objects, leaderboardCache)
	track := camp.NewTrackService(preferencesStore, challengeStore, templateStore)
	newsletter := camp.NewNewsletterService(newsletterStore)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Chat: the hub starts from the stored history and the listener picks
	// up from its newest message.
	timeline := chat.NewTimeline(chat.HistoryLimit)
	recent, err := chatStore.Recent(ctx, chat.HistoryLimit)
	if err != nil {
		slog.Error("failed to load chat history", "error", err)
		os.Exit(1)
	}
	timeline.Reset(recent)

	hub := chat.NewHub(timeline)
	go hub.Run(ctx)

	chatService := chat.NewService(chatStore, aiRegistry, hub)
	listener := chat.NewListener(cfg.DSN(), chatStore, chatService.Deliver)
	if last, ok := timeline.Last(); ok {
		listener.ResumeFrom(last.CreatedAt)
	}
	go listener.Run(ctx)

	var mailer mail.Mailer
	if cfg.SendGridKey != "" {
		mailer = mail.NewSendGrid(cfg.SendGridKey, cfg.MailFromName, cfg.MailFrom)
	} else {
		slog.Warn("sendgrid not configured, reminder mail is logged only")
		mailer = mail.NewLogMailer()
	}
	go camp.NewScheduler(challenges, newsletterStore, mailer, cfg.ReminderHourUTC, cfg.SiteURL).Run(ctx)

	generateLimiter := middleware.NewRateLimiter(cfg.RateLimitGenerate, time.Minute)
	defer generateLimiter.Stop()
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, time.Minute)
	defer authLimiter.Stop()
	chatLimiter := middleware.NewRateLimiter(cfg.RateLimitChat, time.Minute)
	defer chatLimiter.Stop()

	r := router.New(router.Handlers{
		Auth:        handlers.NewAuth(userStore, sessionStore, tokens),
		Challenges:  handlers.NewChallenges(challenges, submissions),
		Functions:   handlers.NewFunctions(challengeGen, projectGen),
		CampTrack:   handlers.NewCampTrack(track),
		Chat:        handlers.NewChat(chatService),
		ChatSocket:  chat.NewHandler(hub, cfg.CORSOrigins),
		Leaderboard: handlers.NewLeaderboard(leaderboardStore, leaderboardCache),
		Newsletter:  handlers.NewNewsletter(newsletter),
		Admin: handlers.NewAdmin(handlers.AdminDeps{
			Challenges:  challengeStore,
			Templates:   templateStore,
			Subscribers: newsletterStore,
			Providers:   aiRegistry,
			Leaderboard: leaderboardCache,
		}),
	}, router.Options{
		Sessions:        sessionStore,
		Tokens:          tokens,
		CORSOrigins:     cfg.CORSOrigins,
		GenerateLimiter: generateLimiter,
		AuthLimiter:     authLimiter,
		ChatLimiter:     chatLimiter,
	})

	// WriteTimeout must cover a cold daily challenge, which waits on the
	// LLM, and multipart submissions with several images.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Stop the workers first so no new chat or mail work starts.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
