// Package order defines immutable order records created at checkout
// completion.
package order

import (
	"time"

	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/checkout"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/money"
)

// Status of an order. Orders are created completed and never change.
const StatusCompleted = "completed"

// Seller is the static merchant identity stamped on every order.
type Seller struct {
	Name   string
	Domain string
}

// Order is a frozen snapshot of a checkout at completion time. It carries
// its own copies of line items, buyer, address, and totals so later reads
// never depend on checkout state.
type Order struct {
	ID         string
	CheckoutID string
	Status     string
	Seller     Seller
	Buyer      checkout.Buyer
	Address    checkout.Address
	Items      []checkout.LineItem
	Totals     money.Totals
	CreatedAt  time.Time
}

// FromCheckout builds the order record for a completing checkout. The
// caller supplies the freshly allocated id and the frozen totals.
func FromCheckout(id string, c *checkout.Checkout, seller Seller, totals money.Totals, now time.Time) *Order {
	items := make([]checkout.LineItem, len(c.Items))
	copy(items, c.Items)

	return &Order{
		ID:         id,
		CheckoutID: c.ID,
		Status:     StatusCompleted,
		Seller:     seller,
		Buyer:      c.Buyer,
		Address:    c.Address,
		Items:      items,
		Totals:     totals,
		CreatedAt:  now.UTC(),
	}
}
