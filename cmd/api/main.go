package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/watchdoglabs/sentiment-watchdog/internal/application"
	appsentiment "github.com/watchdoglabs/sentiment-watchdog/internal/application/sentiment"
	"github.com/watchdoglabs/sentiment-watchdog/internal/config"
	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
	"github.com/watchdoglabs/sentiment-watchdog/internal/infra/ai/hfapi"
	hugotclassifier "github.com/watchdoglabs/sentiment-watchdog/internal/infra/ai/hugot"
	openaiclassifier "github.com/watchdoglabs/sentiment-watchdog/internal/infra/ai/openai"
	vaderclassifier "github.com/watchdoglabs/sentiment-watchdog/internal/infra/ai/vader"
	mysqldb "github.com/watchdoglabs/sentiment-watchdog/internal/infra/db/mysql"
	postgresdb "github.com/watchdoglabs/sentiment-watchdog/internal/infra/db/postgres"
	"github.com/watchdoglabs/sentiment-watchdog/internal/infra/httpserver"
	minioStore "github.com/watchdoglabs/sentiment-watchdog/internal/infra/storage"
	"github.com/watchdoglabs/sentiment-watchdog/internal/logging"
	"github.com/watchdoglabs/sentiment-watchdog/internal/middleware"
)

func main() {
	config.LoadEnv()
	logging.InitLogger()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// Missing store settings fail here, before the server starts.
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	db, repo, err := connectStore(ctx, cfg)
	if err != nil {
		log.Fatalf("database connect error: %v", err)
	}
	defer db.Close()

	classifier, closeClassifier, err := buildClassifier(cfg)
	if err != nil {
		log.Fatalf("classifier init error: %v", err)
	}
	defer closeClassifier()

	var artifacts domain.ArtifactStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
	}

	svc := &appsentiment.Service{
		Repo:           repo,
		Classifier:     classifier,
		Artifacts:      artifacts,
		Clock:          application.SystemClock{},
		Policy:         domain.NewNegativePolicy(cfg.Alerting.NegativeEmotions),
		AlertThreshold: cfg.Alerting.Threshold,
	}

	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate),
		Readiness: middleware.ReadinessHandler(map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		}),
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// connectStore opens the configured SQL backend and returns the repository
// bound to it.
func connectStore(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	switch cfg.Database.Driver {
	case "mysql":
		conn, err := mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return conn, mysqldb.NewSentimentRepository(conn), nil
	default:
		conn, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return conn, postgresdb.NewSentimentRepository(conn), nil
	}
}

// buildClassifier wires the configured classifier backend. The returned
// close func tears down backend resources at shutdown.
func buildClassifier(cfg *config.Config) (domain.Classifier, func(), error) {
	switch cfg.Classifier.Backend {
	case "hugot":
		c, err := hugotclassifier.New(cfg.Classifier.Model, cfg.Classifier.ModelDir)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	case "hfapi":
		return hfapi.New(cfg.Classifier.Model, cfg.Classifier.Endpoint, cfg.Classifier.Token), func() {}, nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, nil, fmt.Errorf("openai backend requires an API key")
		}
		return openaiclassifier.NewClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model), func() {}, nil
	case "vader":
		return vaderclassifier.NewClassifier(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported classifier backend: %q", cfg.Classifier.Backend)
	}
}
