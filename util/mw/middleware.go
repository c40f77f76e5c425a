package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zkiln/radmin/util/httputil"
	"github.com/zkiln/radmin/util/log"
)

/*
mw contains http middlewares.
*/

////////////////////////////////////////////////////////////////////////////////

// WithRequestID is a middleware that tags the context of each request with a
// request ID and logs the request when it completes.
func WithRequestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := log.AddTags(r.Context(), "request", uuid.NewString())
		start := time.Now()
		h.ServeHTTP(w, r.WithContext(ctx))
		log.Debugw(ctx, "handled", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

// WithCORSAllowedOrigins is a middleware that allows requests from specified
// origins.
func WithCORSAllowedOrigins(origins []string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			for _, o := range origins {
				if o == origin {
					w.Header().Set("Access-Control-Allow-Origin", o)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					break
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

func parseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// WithSharedKeyAuth is a middleware that requires a shared key to be present
// in the Authorization header. An empty key disables the check.
func WithSharedKeyAuth(key string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				token := parseBearerToken(r.Header.Get("Authorization"))
				if token != key {
					httputil.Unauthorized(r.Context(), w, "invalid token")
					return
				}
			}
			h.ServeHTTP(w, r)
		})
	}
}
