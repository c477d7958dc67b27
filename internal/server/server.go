package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ButyrinIA/posts/internal/config"
	"github.com/ButyrinIA/posts/internal/storage"
)

type Server struct {
	cfg        *config.Config
	storage    storage.Storage
	subscriber message.Subscriber
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *metrics
	handler    http.Handler
}

// New собирает HTTP API. Если subscriber == nil, лента событий не подключается.
func New(cfg *config.Config, storage storage.Storage, subscriber message.Subscriber, logger *slog.Logger) *Server {
	registry := prometheus.NewRegistry()

	s := &Server{
		cfg:        cfg,
		storage:    storage,
		subscriber: subscriber,
		logger:     logger,
		registry:   registry,
		metrics:    newMetrics(registry, storage),
	}
	s.handler = s.routes()

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.metrics.middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/api/posts", s.listPosts)
	r.Post("/api/posts", s.createPost)
	r.Get("/api/posts/search", s.searchPosts)
	if s.subscriber != nil {
		r.Get("/api/posts/events", s.streamEvents)
	}
	r.Get("/api/posts/{id}", s.getPost)
	r.Put("/api/posts/{id}", s.updatePost)
	r.Delete("/api/posts/{id}", s.deletePost)

	if s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает адрес из конфигурации до отмены ctx, затем плавно останавливается
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("сервер слушает", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	s.logger.Info("остановка сервера", "timeout", s.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	return nil
}
