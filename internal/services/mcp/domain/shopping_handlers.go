package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/app"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/checkout"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/money"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/order"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/product"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchCatalogTool defines the MCP tool schema for catalog searches.
func SearchCatalogTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_shopping_catalog",
		Description: "Searches for products in the catalog based on a query string",
	}
}

// AddToCheckoutTool defines the MCP tool schema for adding an item.
func AddToCheckoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_to_checkout",
		Description: "Adds a product to a checkout, creating the checkout when none is given",
	}
}

// RemoveFromCheckoutTool defines the MCP tool schema for removing a line.
func RemoveFromCheckoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "remove_from_checkout",
		Description: "Removes a product line from a checkout",
	}
}

// UpdateCheckoutTool defines the MCP tool schema for setting a line quantity.
func UpdateCheckoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_checkout",
		Description: "Sets the exact quantity of a product line; zero removes it",
	}
}

// GetCheckoutTool defines the MCP tool schema for reading a checkout.
func GetCheckoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_checkout",
		Description: "Returns the current state of a checkout",
	}
}

// UpdateCustomerDetailsTool defines the MCP tool schema for delivery setup.
func UpdateCustomerDetailsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_customer_details",
		Description: "Sets the shipping address and buyer contact for a checkout",
	}
}

// StartPaymentTool defines the MCP tool schema for starting payment.
func StartPaymentTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_payment",
		Description: "Locks a checkout for payment once items, buyer, and address are set",
	}
}

// CompleteCheckoutTool defines the MCP tool schema for completing a checkout.
func CompleteCheckoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "complete_checkout",
		Description: "Completes a paid checkout and records the resulting order",
	}
}

// SearchCatalogHandler executes a catalog search.
func SearchCatalogHandler(engine *app.Engine) mcp.ToolHandlerFor[SearchCatalogInput, ProductResults] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SearchCatalogInput) (*mcp.CallToolResult, ProductResults, error) {
		if engine == nil {
			return nil, ProductResults{}, fmt.Errorf("commerce engine is not configured")
		}
		products, err := engine.SearchCatalog(ctx, input.Query, input.Filter)
		if err != nil {
			return nil, ProductResults{}, fmt.Errorf("catalog search failed: %w", err)
		}
		return nil, ProductResultsFrom(products), nil
	}
}

// AddToCheckoutHandler adds a product to a checkout.
func AddToCheckoutHandler(engine *app.Engine) mcp.ToolHandlerFor[AddToCheckoutInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AddToCheckoutInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		quantity := input.Quantity
		if quantity == 0 {
			quantity = 1
		}
		view, err := engine.AddItem(ctx, input.CheckoutID, input.ProductID, quantity)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("add to checkout failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// RemoveFromCheckoutHandler removes a product line from a checkout.
func RemoveFromCheckoutHandler(engine *app.Engine) mcp.ToolHandlerFor[RemoveFromCheckoutInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RemoveFromCheckoutInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		view, err := engine.RemoveItem(ctx, input.CheckoutID, input.ProductID)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("remove from checkout failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// UpdateCheckoutHandler sets the exact quantity of a product line.
func UpdateCheckoutHandler(engine *app.Engine) mcp.ToolHandlerFor[UpdateCheckoutInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateCheckoutInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		view, err := engine.UpdateItem(ctx, input.CheckoutID, input.ProductID, input.Quantity)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("update checkout failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// GetCheckoutHandler returns a checkout snapshot.
func GetCheckoutHandler(engine *app.Engine) mcp.ToolHandlerFor[GetCheckoutInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCheckoutInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		view, err := engine.GetCheckout(ctx, input.CheckoutID)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("get checkout failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// UpdateCustomerDetailsHandler sets the shipping address and buyer contact.
func UpdateCustomerDetailsHandler(engine *app.Engine) mcp.ToolHandlerFor[UpdateCustomerDetailsInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateCustomerDetailsInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		addr := checkout.Address{
			Name:         input.Name,
			AddressLine1: input.AddressLine1,
			AddressLine2: input.AddressLine2,
			City:         input.City,
			Region:       input.Region,
			PostalCode:   input.PostalCode,
			Country:      input.Country,
		}
		view, err := engine.UpdateCustomerDetails(ctx, input.CheckoutID, input.Email, addr)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("update customer details failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// StartPaymentHandler locks a checkout for payment.
func StartPaymentHandler(engine *app.Engine) mcp.ToolHandlerFor[StartPaymentInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartPaymentInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		view, err := engine.StartPayment(ctx, input.CheckoutID)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("start payment failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// CompleteCheckoutHandler completes a paid checkout.
func CompleteCheckoutHandler(engine *app.Engine) mcp.ToolHandlerFor[CompleteCheckoutInput, CheckoutPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CompleteCheckoutInput) (*mcp.CallToolResult, CheckoutPayload, error) {
		if engine == nil {
			return nil, CheckoutPayload{}, fmt.Errorf("commerce engine is not configured")
		}
		view, err := engine.CompleteCheckout(ctx, input.CheckoutID)
		if err != nil {
			return nil, CheckoutPayload{}, fmt.Errorf("complete checkout failed: %w", err)
		}
		return nil, CheckoutPayloadFrom(view), nil
	}
}

// ProductResultsFrom converts catalog products to the wire shape.
func ProductResultsFrom(products []product.Product) ProductResults {
	results := ProductResults{Results: make([]ProductEntry, 0, len(products))}
	for _, p := range products {
		results.Results = append(results.Results, ProductEntry{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Brand:       p.Brand,
			Price:       p.Price,
			ImageURLs:   p.ImageURLs,
		})
	}
	return results
}

// CheckoutPayloadFrom converts an engine snapshot to the wire shape.
func CheckoutPayloadFrom(view *app.CheckoutView) CheckoutPayload {
	c := view.Checkout
	payload := CheckoutPayload{
		ID:        c.ID,
		Status:    string(c.Status),
		LineItems: lineItemsFrom(c.Items),
		Totals:    totalEntriesFrom(view.Totals),
	}
	if c.HasAddress() || strings.TrimSpace(c.Address.Name) != "" {
		payload.Fulfillment = fulfillmentFrom(c.Address)
	}
	if c.HasBuyer() {
		payload.Buyer = &BuyerInfo{
			Email:     c.Buyer.Email,
			FirstName: c.Buyer.FirstName,
			LastName:  c.Buyer.LastName,
		}
	}
	if view.Order != nil {
		snapshot := OrderSnapshotFrom(view.Order)
		payload.Order = &snapshot
	}
	return payload
}

// OrderPayloadFrom converts a ledger order to the wire shape.
func OrderPayloadFrom(o *order.Order) OrderPayload {
	return OrderPayload{
		ID:     o.ID,
		Status: o.Status,
		Order:  OrderSnapshotFrom(o),
	}
}

// OrderSnapshotFrom converts an order to its frozen wire body.
func OrderSnapshotFrom(o *order.Order) OrderSnapshot {
	fulfillment := fulfillmentFrom(o.Address)
	return OrderSnapshot{
		ID:         o.ID,
		CheckoutID: o.CheckoutID,
		Seller:     SellerInfo{Name: o.Seller.Name, Domain: o.Seller.Domain},
		Buyer: BuyerInfo{
			Email:     o.Buyer.Email,
			FirstName: o.Buyer.FirstName,
			LastName:  o.Buyer.LastName,
		},
		LineItems:   lineItemsFrom(o.Items),
		Fulfillment: *fulfillment,
		Totals:      totalEntriesFrom(o.Totals),
	}
}

func lineItemsFrom(items []checkout.LineItem) []CheckoutItem {
	lines := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, CheckoutItem{
			Item: ItemRef{
				ID:    item.Product.ID,
				Title: item.Product.Name,
				Price: item.Product.Price,
			},
			Quantity: item.Quantity,
			Price:    item.Product.Price * item.Quantity,
		})
	}
	return lines
}

func totalEntriesFrom(totals money.Totals) []TotalEntry {
	return []TotalEntry{
		{Type: "subtotal", Amount: totals.Subtotal},
		{Type: "tax", Amount: totals.Tax},
		{Type: "shipping", Amount: totals.Shipping},
		{Type: "total", Amount: totals.Total},
	}
}

func fulfillmentFrom(addr checkout.Address) *Fulfillment {
	return &Fulfillment{
		Name:         addr.Name,
		AddressLine1: addr.AddressLine1,
		AddressLine2: addr.AddressLine2,
		City:         addr.City,
		Region:       addr.Region,
		PostalCode:   addr.PostalCode,
		Country:      addr.Country,
	}
}
