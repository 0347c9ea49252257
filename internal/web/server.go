package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/pipeline"
	"github.com/reviewflow/reviewflow/internal/ratelimit"
	"github.com/reviewflow/reviewflow/internal/repo"
)

// Source is the full repository access the server's handlers need. The
// production implementation is repo.Client.
type Source interface {
	GetTree(ctx context.Context, ref string) ([]repo.TreeEntry, error)
	GetFile(ctx context.Context, path, ref string) (string, error)
	ListCommits(ctx context.Context, ref string, n int) ([]repo.Commit, error)
	GetCommitDetail(ctx context.Context, sha string) (*repo.CommitDetail, error)
}

// SourceFactory builds a Source for one owner/name pair. Injectable so
// tests never reach the network.
type SourceFactory func(owner, name string) (Source, error)

func defaultSourceFactory(owner, name string) (Source, error) {
	return repo.NewClient(owner, name)
}

// Server exposes the review engine over HTTP.
type Server struct {
	engine     *pipeline.Engine
	dispatcher *agents.Dispatcher
	catalog    *models.Catalog
	limiter    *ratelimit.Limiter
	log        *zap.Logger
	newSource  SourceFactory
}

// NewServer wires the handlers. A nil source factory uses live GitHub
// clients; a nil limiter disables rate limiting.
func NewServer(engine *pipeline.Engine, dispatcher *agents.Dispatcher, catalog *models.Catalog, limiter *ratelimit.Limiter, log *zap.Logger, src SourceFactory) *Server {
	if src == nil {
		src = defaultSourceFactory
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine:     engine,
		dispatcher: dispatcher,
		catalog:    catalog,
		limiter:    limiter,
		log:        log,
		newSource:  src,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/review", s.limited(s.handleReview))
	mux.HandleFunc("POST /api/agents", s.limited(s.handleAgents))
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, host string, port int) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// limited wraps a handler with the sliding-window rate limiter, keyed by
// client address.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			ok, wait := s.limiter.Allow(clientKey(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next(w, r)
	}
}

// clientKey identifies the caller for rate limiting: the first hop of
// X-Forwarded-For when present, the remote address otherwise.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
