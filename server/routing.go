package server

import (
	"net/http"

	"github.com/google/uuid"
)

// routes builds the mux with the middleware chain applied to every handler:
// recovery, request id, CORS, then rate limiting.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/query", s.wrap(s.handleQuery))
	mux.HandleFunc("/api/session/{id}", s.wrap(s.handleSession))
	mux.HandleFunc("/api/kb/stats", s.wrap(s.handleStats))
	mux.HandleFunc("/health", s.wrap(s.handleHealth))
	mux.HandleFunc("/ws", s.recoverMiddleware(s.handleWebSocket))

	return mux
}

func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return s.recoverMiddleware(s.requestIDMiddleware(s.corsMiddleware(s.rateLimitMiddleware(next))))
}

// recoverMiddleware catches panics from the pipeline and surfaces a generic
// failure with no internal detail.
func (s *Server) recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Errorw("Handler panicked", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next(w, r)
	}
}

// requestIDMiddleware tags each request with a uuid echoed in X-Request-ID.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next(w, r)
	}
}

// corsMiddleware adds CORS headers using the configured allowed origins and
// answers preflight requests.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// rateLimitMiddleware applies the shared token bucket; 429 when exhausted.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}
