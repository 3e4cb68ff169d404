package auth

import (
	"net/http"
	"strings"
)

// TokenFromRequest reads the bearer token from the Authorization header.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}
