package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/gymflow/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest writes one trace line per request, after it was served.
// Server errors are logged at warn level.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()
			resp := &responseWriter{w, http.StatusOK}

			next.ServeHTTP(resp, r)

			clientIP, err := pkg.ReadUserIP(r)
			if err != nil {
				clientIP = "?"
			}
			entry := log.WithFields(log.Fields{
				"method":   r.Method,
				"route":    routeTemplate(r),
				"status":   resp.statusCode,
				"duration": time.Since(begin).String(),
				"ip":       clientIP,
			})
			if resp.statusCode >= http.StatusInternalServerError {
				entry.Warnf(" ====> request failed: [%s]", r.URL.Path)
				return
			}
			entry.Tracef(" ====> request [%s] [UA: %s]", r.URL.Path, r.Header.Get("User-Agent"))
		})
	}
}
