package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quillworks/localagent/internal/logging"
	"github.com/quillworks/localagent/internal/session"
)

type contextKey string

const passwordKey contextKey = "journal-password"

// passwordFrom returns the journal password the auth middleware resolved for
// this request.
func passwordFrom(ctx context.Context) (string, bool) {
	pw, ok := ctx.Value(passwordKey).(string)
	return pw, ok
}

// statusRecorder captures the status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withObservability logs each request and records Prometheus metrics.
func withObservability(logger logging.Logger, metrics *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		metrics.requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
		logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed.String(),
		)
	})
}

// withAuth validates the bearer token and injects the session password into
// the request context. Missing or invalid tokens get the same locked
// response; a locked journal must stay indistinguishable from a bad token.
func withAuth(sess *session.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "journal is locked")
			return
		}

		password, err := sess.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "journal is locked")
			return
		}

		ctx := context.WithValue(r.Context(), passwordKey, password)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
