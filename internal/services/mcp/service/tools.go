package service

import (
	"fmt"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/louisbranch/ucp.shop/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
	AddPrompt(*mcp.Prompt, mcp.PromptHandler)
}

func registerShoppingTools(registrar mcpRegistrationTarget, engine *app.Engine) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.SearchCatalogTool(), handler: domain.SearchCatalogHandler(engine)},
		{tool: domain.AddToCheckoutTool(), handler: domain.AddToCheckoutHandler(engine)},
		{tool: domain.RemoveFromCheckoutTool(), handler: domain.RemoveFromCheckoutHandler(engine)},
		{tool: domain.UpdateCheckoutTool(), handler: domain.UpdateCheckoutHandler(engine)},
		{tool: domain.GetCheckoutTool(), handler: domain.GetCheckoutHandler(engine)},
		{tool: domain.UpdateCustomerDetailsTool(), handler: domain.UpdateCustomerDetailsHandler(engine)},
		{tool: domain.StartPaymentTool(), handler: domain.StartPaymentHandler(engine)},
		{tool: domain.CompleteCheckoutTool(), handler: domain.CompleteCheckoutHandler(engine)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerShoppingResources(registrar mcpRegistrationTarget, engine *app.Engine) {
	registrar.AddResource(domain.CatalogResource(), domain.CatalogResourceHandler(engine))
	registrar.AddResource(domain.DiscoveryProfileResource(), domain.DiscoveryProfileResourceHandler(engine))
	registrar.AddResourceTemplate(domain.CheckoutResourceTemplate(), domain.CheckoutResourceHandler(engine))
	registrar.AddResourceTemplate(domain.OrderResourceTemplate(), domain.OrderResourceHandler(engine))
}

func registerShoppingPrompts(registrar mcpRegistrationTarget) {
	registrar.AddPrompt(domain.ShoppingAssistancePrompt(), domain.ShoppingAssistancePromptHandler())
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}
