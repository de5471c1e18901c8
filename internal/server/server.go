// Package server exposes the tutoring flow over HTTP: topic in, clarifying
// questions out, answers in, learning plan and diagram out, with history
// endpoints over the persisted entries.
package server

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

//go:embed static
var staticFS embed.FS

// Server owns the router and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func New(addr string, handler *Handler, logger *zap.Logger) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handler.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/topics", handler.CreateTopic)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", handler.GetSession)
			r.Post("/answers", handler.SubmitAnswers)
		})
		r.Get("/history", handler.ListHistory)
		r.Get("/history/{entryID}", handler.GetHistoryEntry)
		r.Get("/history/{entryID}/svg", handler.GetHistorySVG)
		r.Post("/latex", handler.TranscribeLatex)
	})

	r.Get("/", serveIndex)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Router exposes the handler chain for tests.
func (s *Server) Router() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "front-end not bundled", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// requestLogger logs one line per request with method, path, status, and
// latency.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
