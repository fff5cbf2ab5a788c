package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/lumen/internal/api"
	"github.com/RMahshie/lumen/internal/config"
	"github.com/RMahshie/lumen/internal/inquiry"
	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/internal/repository/postgres"
	"github.com/RMahshie/lumen/internal/repository/sqlite"
	"github.com/RMahshie/lumen/internal/storage"
	"github.com/RMahshie/lumen/internal/vision"
	"github.com/RMahshie/lumen/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Server.Env == "dev" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx := context.Background()

	repo, err := openRepository(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer repo.Close()

	s3Cfg := storage.S3Config{
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	}
	if cfg.AWS.S3Endpoint != "" {
		if err := storage.EnsureBucket(ctx, s3Cfg); err != nil {
			log.Fatal().Err(err).Str("bucket", s3Cfg.Bucket).Msg("Failed to prepare bucket")
		}
	}
	s3Service, err := storage.NewS3Service(ctx, s3Cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 service")
	}

	client, err := vision.NewGenAIClient(ctx, vision.GenAIConfig{
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		BaseURL: cfg.GenAI.BaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create vision client")
	}

	processingSvc := inquiry.NewProcessingService(s3Service, repo, client, inquiry.Config{
		Timeout:     cfg.GenAI.Timeout,
		Concurrency: cfg.Processing.Concurrency,
	})

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Lumen API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(router, humaAPI, api.Dependencies{
		Repository:     repo,
		Storage:        s3Service,
		Processing:     processingSvc,
		Model:          client.Model(),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	// Start server
	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", addr).Msg("Starting Lumen API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := processingSvc.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("In-flight inquiries did not finish before shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepository picks PostgreSQL for postgres:// URLs and SQLite otherwise
func openRepository(ctx context.Context, cfg config.DatabaseConfig) (repository.InquiryRepository, error) {
	if cfg.IsPostgres() {
		log.Info().Msg("Using PostgreSQL repository")
		repo, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	log.Info().Str("path", cfg.URL).Msg("Using SQLite repository")
	repo, err := sqlite.New(cfg.URL)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
