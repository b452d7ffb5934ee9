package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/config"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/http/handlers"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/http/middleware"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/logging"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Logging, "api")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer func() {
		_ = cleanup()
	}()
	slog.SetDefault(logger)

	svc, err := portfolio.Build(cfg, logger)
	if err != nil {
		logger.Error("portfolio error", "error", err)
		os.Exit(1)
	}

	requestTimeout := 2*cfg.Fetch.Timeout + 5*time.Second
	h := handlers.New(svc, cfg.ExtractRateLimit, requestTimeout, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logging.Component(logger, "http"), "/healthz"))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout + 5*time.Second))
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", h.PortfolioSnapshot)
		r.Get("/profile", h.Profile)
		r.Get("/about", h.About)
		r.Get("/videos", h.Videos)
		r.Get("/articles", h.Articles)
		r.Get("/speaking", h.Speaking)
		r.Post("/extract", h.Extract)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
}
