// Package service hosts the MCP server exposing the shopping engine over
// stdio and HTTP transports.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/louisbranch/ucp.shop/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "UCP Shopping Service"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// serverInstructions orients MCP clients on the shopping workflow.
const serverInstructions = `This MCP server provides access to UCP (Universal Commerce Protocol) shopping capabilities. You can:

1. Browse Products: Use search_shopping_catalog to explore the catalog
2. Create Checkout: add_to_checkout automatically creates a checkout if none exists
3. Add Items: Use add_to_checkout to add products to your cart
4. Update Address: Use update_customer_details to configure delivery
5. Pay and Complete: Use start_payment and complete_checkout to finish

Start by searching for products, then guide the user through checkout.`

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
	mcpRegistrationKindPrompts
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpShoppingToolsModuleName     = "shopping-tools"
	mcpShoppingResourcesModuleName = "shopping-resources"
	mcpShoppingPromptsModuleName   = "shopping-prompts"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

func (r mcpServerRegistrationAdapter) AddPrompt(prompt *mcp.Prompt, handler mcp.PromptHandler) {
	r.server.AddPrompt(prompt, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.SearchCatalogInput, domain.ProductResults](),
	newMCPToolRegistrar[domain.AddToCheckoutInput, domain.CheckoutPayload](),
	newMCPToolRegistrar[domain.RemoveFromCheckoutInput, domain.CheckoutPayload](),
	newMCPToolRegistrar[domain.UpdateCheckoutInput, domain.CheckoutPayload](),
	newMCPToolRegistrar[domain.GetCheckoutInput, domain.CheckoutPayload](),
	newMCPToolRegistrar[domain.UpdateCustomerDetailsInput, domain.CheckoutPayload](),
	newMCPToolRegistrar[domain.StartPaymentInput, domain.CheckoutPayload](),
	newMCPToolRegistrar[domain.CompleteCheckoutInput, domain.CheckoutPayload](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(engine *app.Engine) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpShoppingToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerShoppingTools(registrar, engine)
			},
		},
		{
			name: mcpShoppingResourcesModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerShoppingResources(registrar, engine)
				return nil
			},
		},
		{
			name: mcpShoppingPromptsModuleName,
			kind: mcpRegistrationKindPrompts,
			register: func(registrar mcpRegistrationTarget) error {
				registerShoppingPrompts(registrar)
				return nil
			},
		},
	}
}

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP listen address. Defaults to localhost:8081 for
	// the HTTP transport.
	HTTPAddr string
	// AllowedHosts lists non-loopback Host/Origin values accepted over
	// HTTP. Loopback hosts are always allowed.
	AllowedHosts []string
	// AuthToken is the static bearer token accepted over HTTP. When empty
	// and no access grant verifier is configured, requests are unauthenticated.
	AuthToken string
}

// Server hosts the MCP server bound to one commerce engine.
type Server struct {
	mcpServer *mcp.Server
	engine    *app.Engine
}

// New creates a configured MCP server and registers every shopping tool,
// resource, and prompt against the engine.
func New(engine *app.Engine) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("commerce engine is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})

	server := &Server{mcpServer: mcpServer, engine: engine}
	for _, module := range newMCPRegistrationModules(engine) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return server, nil
}

// Run serves the MCP server and blocks until context cancellation. It is
// transport-agnostic so startup can choose stdio for local tools and HTTP
// for remote integrations.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		httpAddr := strings.TrimSpace(cfg.HTTPAddr)
		if httpAddr == "" {
			httpAddr = "localhost:8081"
		}
		transport, err := NewHTTPTransport(httpAddr, s.mcpServer, cfg)
		if err != nil {
			return err
		}
		return transport.Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}
