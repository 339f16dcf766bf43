package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIsAllowedHostHeader(t *testing.T) {
	t.Parallel()

	transport := &HTTPTransport{allowedHosts: parseAllowedHosts([]string{"shop.example.com", "API.Example.Com:8081"})}

	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"localhost:8081", true},
		{"127.0.0.1:9999", true},
		{"[::1]:8081", true},
		{"shop.example.com", true},
		{"shop.example.com:443", true},
		{"api.example.com", true},
		{"evil.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := transport.isAllowedHostHeader(tt.host); got != tt.want {
			t.Errorf("isAllowedHostHeader(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestValidateHostRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()

	transport := &HTTPTransport{allowedHosts: parseAllowedHosts(nil)}
	handler := transport.validateHost(okHandler())

	req := httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuthorizeWithStaticToken(t *testing.T) {
	t.Parallel()

	transport := &HTTPTransport{apiToken: "secret-token"}
	handler := transport.authorize(okHandler())

	req := httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuthorizeOpenWithoutCredentials(t *testing.T) {
	t.Parallel()

	transport := &HTTPTransport{}
	handler := transport.authorize(okHandler())

	req := httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://localhost/mcp", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerToken(req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	transport := &HTTPTransport{}

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8081/mcp/health", nil)
	rec := httptest.NewRecorder()
	transport.handleHealth(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q, want %q", got, "application/json")
	}

	req = httptest.NewRequest(http.MethodPost, "http://localhost:8081/mcp/health", nil)
	rec = httptest.NewRecorder()
	transport.handleHealth(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
