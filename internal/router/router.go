package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/city"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/utilities"
)

// RequestIDHeader carries the request correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", w.Header().Get(RequestIDHeader),
			)
		})
	}
}

// RequestIDMiddleware echoes the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = utilities.NewRequestID()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}

// startedWriter records whether a response has begun.
type startedWriter struct {
	http.ResponseWriter
	started bool
}

func (sw *startedWriter) WriteHeader(code int) {
	sw.started = true
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *startedWriter) Write(b []byte) (int, error) {
	sw.started = true
	return sw.ResponseWriter.Write(b)
}

// RecoveryMiddleware turns a panicking handler into a 500 JSON response. A
// panic after the response has started is only logged; the partial response stands.
func RecoveryMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &startedWriter{ResponseWriter: w}
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Errorw("handler panic",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
						"response_started", sw.started,
						"request_id", w.Header().Get(RequestIDHeader),
					)
					if !sw.started {
						utilities.WriteError(w, http.StatusInternalServerError, "internal server error")
					}
				}
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts the city and employer handlers on an http.ServeMux
// backed by the shared connection pool.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB) http.Handler {
	mux := http.NewServeMux()
	metrics := NewMetrics()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utilities.WriteText(w, http.StatusOK, "ok")
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// city routes
	cityHandler := city.NewHandler(db, logger)
	mux.HandleFunc("GET /city", cityHandler.List)
	mux.HandleFunc("GET /city/{id}", cityHandler.Get)
	mux.HandleFunc("GET /city/{id}/{cost}", cityHandler.MatchCost)
	mux.HandleFunc("GET /city/{id}/hybrid/{proportion}", cityHandler.MatchHybrid)

	// employer routes
	employerHandler := employer.NewHandler(db, logger)
	mux.HandleFunc("GET /cities/{city}/student_population", employerHandler.StudentPopulation)
	mux.HandleFunc("GET /cities/{name}/wage_hybrid", employerHandler.WageHybrid)
	mux.HandleFunc("GET /zipcodes", employerHandler.ZipCodes)
	mux.HandleFunc("GET /users/{id}/job_postings", employerHandler.PostingsByUser)
	mux.HandleFunc("GET /users/email/{email}/job_postings", employerHandler.PostingsByEmail)
	mux.HandleFunc("POST /job_postings", employerHandler.CreatePosting)
	mux.HandleFunc("PUT /job_postings/{id}", employerHandler.UpdatePosting)
	mux.HandleFunc("DELETE /job_postings/{id}", employerHandler.DeletePosting)

	// outermost first: request id, logging, metrics, recovery, security headers
	var handler http.Handler = SecurityHeadersMiddleware()(mux)
	handler = RecoveryMiddleware(logger)(handler)
	handler = metrics.Middleware(mux)(handler)
	handler = LoggingMiddleware(logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}
