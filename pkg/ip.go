package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)

// IPIsLocal reports whether the address belongs to local development (loopback or docker bridge).
func IPIsLocal(ip string) bool {
	if ip == "::1" || strings.HasPrefix(ip, "127.") {
		return true
	}
	return localDockerIpRegex.MatchString(ip)
}

// ReadUserIP returns the client IP, preferring proxy headers over the remote address.
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// first entry is the original client
		ipAddr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		ipAddr = strings.TrimSpace(ipAddr)
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if net.ParseIP(ipAddr) == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	return ipAddr, nil
}
