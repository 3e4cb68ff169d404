package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const allowedHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, MCP-Protocol-Version, MCP-Session-Id"

var defaultAllowedOrigins = []string{
	"https://fitmix.app",
	"https://www.fitmix.app",
	"http://localhost:8081",
	"http://localhost:19006",
}

// Cors allows browser requests from the given origins, or the default ones
// when none are given. Native clients send no Origin and pass through.
func Cors(origins ...string) func(next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[strings.TrimSuffix(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case
				allowedOrigins[origin],
				// MCP clients often send no Origin
				strings.HasPrefix(r.URL.Path, "/mcp"),
				strings.HasPrefix(r.URL.Path, "/media/"):
				{
					allowOrigin := origin
					if allowOrigin == "" {
						allowOrigin = "*"
					}
					w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
					w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
					w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
				}
			case origin == "":
				// not a browser
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
