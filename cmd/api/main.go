package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-compliance/internal/application"
	appanalysis "github.com/bryanwahyu/contract-compliance/internal/application/analysis"
	"github.com/bryanwahyu/contract-compliance/internal/config"
	"github.com/bryanwahyu/contract-compliance/internal/infra/ai"
	"github.com/bryanwahyu/contract-compliance/internal/infra/ai/groq"
	"github.com/bryanwahyu/contract-compliance/internal/infra/cache"
	"github.com/bryanwahyu/contract-compliance/internal/infra/httpserver"
	"github.com/bryanwahyu/contract-compliance/internal/infra/storage"
	"github.com/bryanwahyu/contract-compliance/internal/infra/textextract"
	"github.com/bryanwahyu/contract-compliance/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	// init llm generator
	client := groq.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
	generator := ai.NewRetryingGenerator(client, logger)

	// init clause cache
	clauseCache, err := cache.NewClauseLRU(cfg.Analysis.CacheSize)
	if err != nil {
		log.Fatalf("cache init error: %v", err)
	}

	// init upload store
	uploads, err := storage.NewTempStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("upload store init error: %v", err)
	}

	// init service
	svc := &appanalysis.Service{
		Parser:      textextract.New(),
		Extractor:   appanalysis.NewClauseExtractor(generator, clauseCache, logger),
		Evaluator:   appanalysis.NewComplianceEvaluator(generator, logger),
		Clock:       application.SystemClock{},
		Log:         logger,
		Concurrency: cfg.Analysis.Concurrency,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.RequestLogger(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"storage": &middleware.StorageHealthChecker{Dir: uploads.Dir()},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Mount("/", httpserver.NewRouter(svc, uploads, cfg.MaxUploadBytes(), logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
