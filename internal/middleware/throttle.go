package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/evyataryagoni/weather-widget/internal/limiter"
	"github.com/evyataryagoni/weather-widget/internal/logger"
	"github.com/evyataryagoni/weather-widget/internal/metrics"
	"github.com/evyataryagoni/weather-widget/internal/models"
)

// ThrottleMiddleware rejects clients over their request budget with 429.
// Clients are keyed by IP; chi's RealIP must run first so proxies are honoured.
// If the limiter itself fails the request is let through.
//
// m may be nil.
func ThrottleMiddleware(lim limiter.Limiter, m *metrics.Metrics, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := lim.Allow(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("client", key).Msg("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				if m != nil {
					m.RateLimitedTotal.Inc()
				}
				log.Warn().Str("client", key).Str("path", r.URL.Path).Msg("Rate limit exceeded")
				writeTooManyRequests(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeTooManyRequests answers browsers with plain text and API clients with JSON
func writeTooManyRequests(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Error(w, models.MsgRateLimited, http.StatusTooManyRequests)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: models.MsgRateLimited})
}
