// Package httpapi exposes the journal and the producers over a local JSON
// HTTP API. Unlock trades the journal password for a bearer token; every
// journal route requires that token and answers 401 "journal is locked"
// otherwise, so locked is never confused with an empty history.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quillworks/localagent/internal/agent"
	"github.com/quillworks/localagent/internal/journal"
	"github.com/quillworks/localagent/internal/logging"
	"github.com/quillworks/localagent/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Producers is the slice of agent behavior the API needs.
type Producers interface {
	SummarizeEmails(ctx context.Context, count int) ([]agent.EmailSummary, error)
	TailorResume(ctx context.Context, jobText, resumeText string) (*agent.TailoredResume, error)
}

// Server holds the API dependencies and the route table.
type Server struct {
	addr    string
	store   *journal.Store
	session *session.Manager
	agent   Producers
	logger  logging.Logger
	metrics *Metrics
	reg     *prometheus.Registry
}

func NewServer(addr string, store *journal.Store, sess *session.Manager, producers Producers, logger logging.Logger) (*Server, error) {
	s := &Server{
		addr:    addr,
		store:   store,
		session: sess,
		agent:   producers,
		logger:  logger,
		metrics: NewMetrics(),
		reg:     prometheus.NewRegistry(),
	}
	if err := s.metrics.Register(s.reg); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/logs/unlock", s.handleUnlock)
	mux.HandleFunc("POST /api/logs/lock", s.handleLock)
	mux.Handle("GET /api/logs", withAuth(s.session, http.HandlerFunc(s.handleListLogs)))
	mux.Handle("POST /api/logs/record", withAuth(s.session, http.HandlerFunc(s.handleRecordLog)))
	mux.Handle("POST /api/logs/delete", withAuth(s.session, http.HandlerFunc(s.handleDeleteLog)))
	mux.HandleFunc("POST /api/email/summarize", s.handleSummarizeEmails)
	mux.HandleFunc("POST /api/resume/tailor", s.handleTailorResume)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", MetricsHandler(s.reg))

	return withObservability(s.logger, s.metrics, mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
