package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// defaultShutdownTimeout bounds graceful HTTP shutdown.
	defaultShutdownTimeout = 35 * time.Second
	// httpReadHeaderTimeout bounds header reads on incoming requests.
	httpReadHeaderTimeout = 10 * time.Second
)

// HTTPTransport serves the MCP server over streamable HTTP. All MCP traffic
// goes through /mcp; /mcp/health is unauthenticated for probes.
type HTTPTransport struct {
	addr         string
	handler      http.Handler
	allowedHosts map[string]struct{}
	apiToken     string
	grants       AccessGrantConfig
}

// NewHTTPTransport builds the HTTP transport for an MCP server. The access
// grant verifier is loaded from the environment; a static bearer token from
// cfg applies alongside it.
func NewHTTPTransport(addr string, server *mcp.Server, cfg Config) (*HTTPTransport, error) {
	if server == nil {
		return nil, fmt.Errorf("mcp server is required")
	}

	grants, err := LoadAccessGrantConfigFromEnv(nil)
	if err != nil {
		return nil, err
	}

	transport := &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(cfg.AllowedHosts),
		apiToken:     cfg.AuthToken,
		grants:       grants,
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/health", transport.handleHealth)
	mux.Handle("/mcp", transport.validateHost(transport.authorize(streamable)))
	transport.handler = mux
	return transport, nil
}

// Start serves HTTP until the context is canceled, then shuts down
// gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              t.addr,
		Handler:           t.handler,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("mcp http transport listening on %s", t.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("mcp http transport: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown mcp http transport: %w", err)
	}
	return nil
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("write health response: %v", err)
	}
}
