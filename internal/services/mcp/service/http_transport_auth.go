package service

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// validateHost rejects requests whose Host or Origin header is neither
// loopback nor explicitly allowed. This blocks DNS rebinding against
// locally bound servers.
func (t *HTTPTransport) validateHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.isAllowedHostHeader(r.Host) {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" {
			parsed, err := url.Parse(origin)
			if err != nil || !t.isAllowedHostHeader(parsed.Host) {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// authorize enforces bearer authentication when a static token or an access
// grant verifier is configured. With neither configured the transport is open,
// which is only sensible for loopback deployments.
func (t *HTTPTransport) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.apiToken == "" && !t.grants.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		if t.apiToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(t.apiToken)) == 1 {
			next.ServeHTTP(w, r)
			return
		}
		if t.grants.Enabled() {
			if _, err := ValidateAccessGrant(token, t.grants); err == nil {
				next.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	normalized := normalizeHost(host)
	if normalized == "" {
		return false
	}
	if isLoopbackHost(normalized) {
		return true
	}
	_, ok := t.allowedHosts[normalized]
	return ok
}

func isLoopbackHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// normalizeHost strips an optional port and lowercases the host for
// comparison.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if stripped, _, err := net.SplitHostPort(host); err == nil {
		host = stripped
	}
	return strings.ToLower(strings.Trim(host, "[]"))
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		normalized := normalizeHost(host)
		if normalized == "" {
			continue
		}
		allowed[normalized] = struct{}{}
	}
	return allowed
}
