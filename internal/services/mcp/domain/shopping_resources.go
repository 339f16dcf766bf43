package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CatalogResource defines the MCP resource for the full product catalog.
func CatalogResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "catalog_products",
		Title:       "Product Catalog",
		Description: "Readable listing of every catalog product",
		MIMEType:    "application/json",
		URI:         "ucp://catalog/products",
	}
}

// DiscoveryProfileResource defines the MCP resource for the merchant
// capability profile.
func DiscoveryProfileResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "discovery_profile",
		Title:       "Merchant Profile",
		Description: "The merchant's UCP capability profile",
		MIMEType:    "application/json",
		URI:         "ucp://discovery/profile",
	}
}

// CheckoutResourceTemplate defines the MCP resource template for checkouts.
func CheckoutResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "checkout",
		Title:       "Checkout",
		Description: "Current state of a checkout. URI format: ucp://checkout/{checkout_id}",
		MIMEType:    "application/json",
		URITemplate: "ucp://checkout/{checkout_id}",
	}
}

// OrderResourceTemplate defines the MCP resource template for orders.
func OrderResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "order",
		Title:       "Order",
		Description: "Order confirmation details. URI format: ucp://orders/{order_id}",
		MIMEType:    "application/json",
		URITemplate: "ucp://orders/{order_id}",
	}
}

// CatalogResourceHandler returns the full product catalog resource.
func CatalogResourceHandler(engine *app.Engine) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if engine == nil {
			return nil, fmt.Errorf("commerce engine is not configured")
		}

		uri := CatalogResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		products, err := engine.SearchCatalog(ctx, "", "")
		if err != nil {
			return nil, fmt.Errorf("catalog listing failed: %w", err)
		}
		return jsonResourceResult(uri, ProductResultsFrom(products))
	}
}

// DiscoveryProfileResourceHandler returns the merchant capability profile.
func DiscoveryProfileResourceHandler(engine *app.Engine) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if engine == nil {
			return nil, fmt.Errorf("commerce engine is not configured")
		}

		uri := DiscoveryProfileResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		profile := engine.DiscoveryProfile()
		payload := DiscoveryProfilePayload{
			UCP: UCPDescriptor{
				Version:         profile.Version,
				Capabilities:    profile.Capabilities,
				PaymentHandlers: profile.PaymentHandlers,
			},
			Seller: SellerInfo{Name: profile.Seller.Name, Domain: profile.Seller.Domain},
		}
		return jsonResourceResult(uri, payload)
	}
}

// CheckoutResourceHandler returns a readable checkout resource.
func CheckoutResourceHandler(engine *app.Engine) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if engine == nil {
			return nil, fmt.Errorf("commerce engine is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("checkout ID is required; use URI format ucp://checkout/{checkout_id}")
		}
		uri := req.Params.URI

		checkoutID, err := parseResourceID(uri, "ucp://checkout/")
		if err != nil {
			return nil, fmt.Errorf("parse checkout ID from URI: %w", err)
		}

		view, err := engine.GetCheckout(ctx, checkoutID)
		if err != nil {
			return nil, fmt.Errorf("checkout read failed: %w", err)
		}
		return jsonResourceResult(uri, CheckoutPayloadFrom(view))
	}
}

// OrderResourceHandler returns a readable order resource.
func OrderResourceHandler(engine *app.Engine) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if engine == nil {
			return nil, fmt.Errorf("commerce engine is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("order ID is required; use URI format ucp://orders/{order_id}")
		}
		uri := req.Params.URI

		orderID, err := parseResourceID(uri, "ucp://orders/")
		if err != nil {
			return nil, fmt.Errorf("parse order ID from URI: %w", err)
		}

		o, err := engine.GetOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("order read failed: %w", err)
		}
		return jsonResourceResult(uri, OrderPayloadFrom(o))
	}
}

// parseResourceID extracts the trailing identifier from a resource URI with
// the given prefix.
func parseResourceID(uri, prefix string) (string, error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("URI %q does not match prefix %q", uri, prefix)
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("URI %q does not contain a valid identifier", uri)
	}
	return id, nil
}

func jsonResourceResult(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
