// Package storage defines persistence contracts for commerce state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// ProductRecord stores one catalog product. Position preserves catalog
// insertion order for stable unfiltered listings.
type ProductRecord struct {
	ID          string
	Name        string
	Description string
	Category    string
	Brand       string
	Price       int64
	ImageURLs   []string
	Position    int64
}

// LineItemRecord stores one checkout line. Position preserves the order
// lines were added in.
type LineItemRecord struct {
	ProductID string
	Quantity  int64
	Position  int64
}

// CheckoutRecord stores one checkout session with its lines.
type CheckoutRecord struct {
	ID             string
	Status         string
	BuyerEmail     string
	BuyerFirstName string
	BuyerLastName  string
	AddressName    string
	AddressLine1   string
	AddressLine2   string
	City           string
	Region         string
	PostalCode     string
	Country        string
	OrderID        string
	Items          []LineItemRecord
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItemRecord stores one frozen order line with the unit price at
// completion time.
type OrderItemRecord struct {
	ProductID   string
	ProductName string
	UnitPrice   int64
	Quantity    int64
	Position    int64
}

// OrderRecord stores one immutable completed order snapshot.
type OrderRecord struct {
	ID             string
	CheckoutID     string
	Status         string
	SellerName     string
	SellerDomain   string
	BuyerEmail     string
	BuyerFirstName string
	BuyerLastName  string
	AddressName    string
	AddressLine1   string
	AddressLine2   string
	City           string
	Region         string
	PostalCode     string
	Country        string
	Subtotal       int64
	Tax            int64
	Shipping       int64
	Total          int64
	Items          []OrderItemRecord
	CreatedAt      time.Time
}

// ProductStore persists catalog products.
type ProductStore interface {
	// PutProduct inserts or replaces one product.
	PutProduct(ctx context.Context, record ProductRecord) error
	// GetProduct returns one product or ErrNotFound.
	GetProduct(ctx context.Context, id string) (ProductRecord, error)
	// ListProducts returns every product in insertion order.
	ListProducts(ctx context.Context) ([]ProductRecord, error)
	// QueryProducts returns products matching a SQL condition in insertion
	// order. An empty clause returns every product.
	QueryProducts(ctx context.Context, whereClause string, params []any) ([]ProductRecord, error)
	// CountProducts returns the number of stored products.
	CountProducts(ctx context.Context) (int64, error)
}

// CheckoutStore persists checkout sessions.
type CheckoutStore interface {
	// PutCheckout inserts or replaces one checkout with its lines.
	PutCheckout(ctx context.Context, record CheckoutRecord) error
	// GetCheckout returns one checkout or ErrNotFound.
	GetCheckout(ctx context.Context, id string) (CheckoutRecord, error)
}

// OrderStore persists completed orders. Orders are append-only.
type OrderStore interface {
	// PutOrder inserts one order. A duplicate id returns ErrAlreadyExists.
	PutOrder(ctx context.Context, record OrderRecord) error
	// GetOrder returns one order or ErrNotFound.
	GetOrder(ctx context.Context, id string) (OrderRecord, error)
}

// Store is the combined persistence surface the engine depends on.
type Store interface {
	ProductStore
	CheckoutStore
	OrderStore

	// Close releases the underlying storage handle.
	Close() error
}
