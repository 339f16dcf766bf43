// Package domain defines MCP tool and resource bindings for the shopping
// service.
package domain

// ProductEntry represents one catalog product on the wire.
type ProductEntry struct {
	ProductID   string   `json:"product_id" jsonschema:"product identifier"`
	Name        string   `json:"name" jsonschema:"product name"`
	Description string   `json:"description" jsonschema:"product description"`
	Category    string   `json:"category" jsonschema:"product category"`
	Brand       string   `json:"brand" jsonschema:"product brand"`
	Price       int64    `json:"price" jsonschema:"unit price in minor currency units"`
	ImageURLs   []string `json:"image_urls,omitempty" jsonschema:"product image URLs"`
}

// ProductResults represents the MCP tool output for catalog searches.
type ProductResults struct {
	Results []ProductEntry `json:"results" jsonschema:"matching products in catalog order"`
}

// ItemRef identifies the product inside one checkout line.
type ItemRef struct {
	ID    string `json:"id" jsonschema:"product identifier"`
	Title string `json:"title" jsonschema:"product name"`
	Price int64  `json:"price" jsonschema:"unit price in minor currency units"`
}

// CheckoutItem represents one checkout line on the wire. Price is the line
// total (unit price times quantity).
type CheckoutItem struct {
	Item     ItemRef `json:"item" jsonschema:"referenced product"`
	Quantity int64   `json:"quantity" jsonschema:"quantity of the product"`
	Price    int64   `json:"price" jsonschema:"line total in minor currency units"`
}

// TotalEntry represents one totals row (subtotal, tax, shipping, total).
type TotalEntry struct {
	Type   string `json:"type" jsonschema:"totals row kind"`
	Amount int64  `json:"amount" jsonschema:"amount in minor currency units"`
}

// Fulfillment represents the shipping destination on the wire.
type Fulfillment struct {
	Name         string `json:"name" jsonschema:"recipient full name"`
	AddressLine1 string `json:"address_line1" jsonschema:"street address"`
	AddressLine2 string `json:"address_line2,omitempty" jsonschema:"additional address line"`
	City         string `json:"city" jsonschema:"city"`
	Region       string `json:"region" jsonschema:"state or region code"`
	PostalCode   string `json:"postal_code" jsonschema:"postal code"`
	Country      string `json:"country" jsonschema:"country code"`
}

// BuyerInfo represents the buyer contact on the wire.
type BuyerInfo struct {
	Email     string `json:"email" jsonschema:"buyer email"`
	FirstName string `json:"first_name,omitempty" jsonschema:"buyer first name"`
	LastName  string `json:"last_name,omitempty" jsonschema:"buyer last name"`
}

// SellerInfo represents the merchant identity on the wire.
type SellerInfo struct {
	Name   string `json:"name" jsonschema:"merchant name"`
	Domain string `json:"domain" jsonschema:"merchant domain"`
}

// OrderSnapshot is the frozen order body embedded in checkout and order
// payloads.
type OrderSnapshot struct {
	ID          string         `json:"id" jsonschema:"order identifier"`
	CheckoutID  string         `json:"checkout_id" jsonschema:"originating checkout identifier"`
	Seller      SellerInfo     `json:"seller" jsonschema:"merchant identity"`
	Buyer       BuyerInfo      `json:"buyer" jsonschema:"buyer contact at completion time"`
	LineItems   []CheckoutItem `json:"line_items" jsonschema:"frozen order lines"`
	Fulfillment Fulfillment    `json:"fulfillment" jsonschema:"shipping destination at completion time"`
	Totals      []TotalEntry   `json:"totals" jsonschema:"frozen totals breakdown"`
}

// CheckoutPayload represents a checkout snapshot on the wire.
type CheckoutPayload struct {
	ID          string         `json:"id" jsonschema:"checkout identifier"`
	Status      string         `json:"status" jsonschema:"checkout status"`
	LineItems   []CheckoutItem `json:"line_items" jsonschema:"current checkout lines"`
	Totals      []TotalEntry   `json:"totals" jsonschema:"derived totals breakdown"`
	Fulfillment *Fulfillment   `json:"fulfillment,omitempty" jsonschema:"shipping destination when set"`
	Buyer       *BuyerInfo     `json:"buyer,omitempty" jsonschema:"buyer contact when set"`
	Order       *OrderSnapshot `json:"order,omitempty" jsonschema:"embedded order after completion"`
}

// OrderPayload represents an order record on the wire.
type OrderPayload struct {
	ID     string        `json:"id" jsonschema:"order identifier"`
	Status string        `json:"status" jsonschema:"order status"`
	Order  OrderSnapshot `json:"order" jsonschema:"frozen order body"`
}

// UCPDescriptor is the protocol block of the discovery profile.
type UCPDescriptor struct {
	Version         string   `json:"version" jsonschema:"protocol revision"`
	Capabilities    []string `json:"capabilities" jsonschema:"supported capability names"`
	PaymentHandlers []string `json:"payment_handlers" jsonschema:"supported payment handler names"`
}

// DiscoveryProfilePayload represents the merchant capability profile.
type DiscoveryProfilePayload struct {
	UCP    UCPDescriptor `json:"ucp" jsonschema:"protocol capability descriptor"`
	Seller SellerInfo    `json:"seller" jsonschema:"merchant identity"`
}

// SearchCatalogInput represents the MCP tool input for catalog searches.
type SearchCatalogInput struct {
	Query  string `json:"query,omitempty" jsonschema:"search keywords or categories; empty returns all products"`
	Filter string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over name, description, category, brand, price"`
}

// AddToCheckoutInput represents the MCP tool input for adding an item.
type AddToCheckoutInput struct {
	ProductID  string `json:"product_id" jsonschema:"product to add"`
	Quantity   int64  `json:"quantity,omitempty" jsonschema:"quantity to add (defaults to 1)"`
	CheckoutID string `json:"checkout_id,omitempty" jsonschema:"checkout to add to; omitted creates a new checkout"`
}

// RemoveFromCheckoutInput represents the MCP tool input for removing a line.
type RemoveFromCheckoutInput struct {
	CheckoutID string `json:"checkout_id" jsonschema:"checkout identifier"`
	ProductID  string `json:"product_id" jsonschema:"product to remove"`
}

// UpdateCheckoutInput represents the MCP tool input for setting a line
// quantity. Quantity zero removes the line.
type UpdateCheckoutInput struct {
	CheckoutID string `json:"checkout_id" jsonschema:"checkout identifier"`
	ProductID  string `json:"product_id" jsonschema:"product to update"`
	Quantity   int64  `json:"quantity" jsonschema:"exact quantity; zero removes the line"`
}

// GetCheckoutInput represents the MCP tool input for reading a checkout.
type GetCheckoutInput struct {
	CheckoutID string `json:"checkout_id" jsonschema:"checkout identifier"`
}

// UpdateCustomerDetailsInput represents the MCP tool input for configuring
// delivery and buyer contact.
type UpdateCustomerDetailsInput struct {
	CheckoutID   string `json:"checkout_id" jsonschema:"checkout identifier"`
	Email        string `json:"email,omitempty" jsonschema:"buyer email; when set the buyer names are derived from name"`
	Name         string `json:"name" jsonschema:"recipient full name"`
	AddressLine1 string `json:"address_line1" jsonschema:"street address"`
	AddressLine2 string `json:"address_line2,omitempty" jsonschema:"additional address line"`
	City         string `json:"city" jsonschema:"city"`
	Region       string `json:"region" jsonschema:"state or region code"`
	PostalCode   string `json:"postal_code" jsonschema:"postal code"`
	Country      string `json:"country" jsonschema:"country code"`
}

// StartPaymentInput represents the MCP tool input for starting payment.
type StartPaymentInput struct {
	CheckoutID string `json:"checkout_id" jsonschema:"checkout identifier"`
}

// CompleteCheckoutInput represents the MCP tool input for completing a
// checkout.
type CompleteCheckoutInput struct {
	CheckoutID string `json:"checkout_id" jsonschema:"checkout identifier"`
}
