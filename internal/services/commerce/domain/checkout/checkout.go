// Package checkout owns cart state and its status machine.
package checkout

import (
	"fmt"
	"strings"

	"github.com/louisbranch/ucp.shop/internal/platform/errors"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/money"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/product"
)

// Status is the lifecycle state of a checkout. Transitions are monotonic:
// open -> ready_for_complete -> completed, with failed reachable only from
// ready_for_complete.
type Status string

const (
	StatusOpen             Status = "open"
	StatusReadyForComplete Status = "ready_for_complete"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
)

// LineItem pairs a catalog product with a quantity. Quantity is always >= 1
// for a stored line; quantity zero means removal.
type LineItem struct {
	Product  product.Product
	Quantity int64
}

// Buyer is the contact attached to a checkout.
type Buyer struct {
	Email     string
	FirstName string
	LastName  string
}

// Address is a shipping destination. Validate enforces the required fields.
type Address struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	Region       string
	PostalCode   string
	Country      string
}

// Validate reports an invalid-argument error naming every missing required
// field. AddressLine2 is optional.
func (a Address) Validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"address_line1", a.AddressLine1},
		{"city", a.City},
		{"region", a.Region},
		{"postal_code", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return errors.WithMetadata(
			errors.CodeCheckoutAddressIncomplete,
			"shipping address is missing required fields",
			map[string]string{"missing_fields": strings.Join(missing, ",")},
		)
	}
	return nil
}

// Checkout is a mutable cart session. Line items, buyer, and address may
// change only while the status is open. Once completed it is retained as
// immutable history with a reference to its order.
type Checkout struct {
	ID      string
	Status  Status
	Items   []LineItem
	Buyer   Buyer
	Address Address
	OrderID string
}

// New returns an empty open checkout with the given id.
func New(id string) *Checkout {
	return &Checkout{ID: id, Status: StatusOpen}
}

// HasBuyer reports whether a buyer email has been set.
func (c *Checkout) HasBuyer() bool {
	return strings.TrimSpace(c.Buyer.Email) != ""
}

// HasAddress reports whether a complete shipping address has been set.
func (c *Checkout) HasAddress() bool {
	return c.Address.Validate() == nil
}

// Totals recomputes the monetary breakdown from the current line items.
func (c *Checkout) Totals(taxRateBasisPoints, shippingFlatRate int64) money.Totals {
	lines := make([]money.Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, money.Line{UnitPrice: item.Product.Price, Quantity: item.Quantity})
	}
	return money.Compute(lines, taxRateBasisPoints, shippingFlatRate)
}

func (c *Checkout) guardOpen() error {
	if c.Status != StatusOpen {
		return errors.WithMetadata(
			errors.CodeCheckoutNotOpen,
			fmt.Sprintf("checkout %s is %s and can no longer be modified", c.ID, c.Status),
			map[string]string{"checkout_id": c.ID, "status": string(c.Status)},
		)
	}
	return nil
}

// AddItem adds quantity units of a product, merging into an existing line
// when the product is already present. Fails when the checkout is not open
// or quantity is below one.
func (c *Checkout) AddItem(p product.Product, quantity int64) error {
	if err := c.guardOpen(); err != nil {
		return err
	}
	if quantity < 1 {
		return errors.WithMetadata(
			errors.CodeCheckoutQuantityInvalid,
			fmt.Sprintf("quantity must be at least 1, got %d", quantity),
			map[string]string{"product_id": p.ID},
		)
	}

	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, LineItem{Product: p, Quantity: quantity})
	return nil
}

// RemoveItem removes the line for productID. Fails when the checkout is not
// open or the product has no line.
func (c *Checkout) RemoveItem(productID string) error {
	if err := c.guardOpen(); err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return errors.WithMetadata(
		errors.CodeNotFound,
		fmt.Sprintf("product %s is not in checkout %s", productID, c.ID),
		map[string]string{"checkout_id": c.ID, "product_id": productID},
	)
}

// UpdateItem sets the exact quantity of an existing line. Quantity zero is
// equivalent to removal. Fails when the checkout is not open, the quantity
// is negative, or the product has no line.
func (c *Checkout) UpdateItem(productID string, quantity int64) error {
	if err := c.guardOpen(); err != nil {
		return err
	}
	if quantity < 0 {
		return errors.WithMetadata(
			errors.CodeCheckoutQuantityInvalid,
			fmt.Sprintf("quantity must not be negative, got %d", quantity),
			map[string]string{"product_id": productID},
		)
	}
	if quantity == 0 {
		return c.RemoveItem(productID)
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return errors.WithMetadata(
		errors.CodeNotFound,
		fmt.Sprintf("product %s is not in checkout %s", productID, c.ID),
		map[string]string{"checkout_id": c.ID, "product_id": productID},
	)
}

// SetBuyer attaches or overwrites the buyer contact. The email is required;
// names are optional.
func (c *Checkout) SetBuyer(email, firstName, lastName string) error {
	if err := c.guardOpen(); err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		return errors.New(errors.CodeCheckoutBuyerEmailEmpty, "buyer email must not be empty")
	}
	c.Buyer = Buyer{Email: email, FirstName: firstName, LastName: lastName}
	return nil
}

// SetAddress attaches or overwrites the shipping address after validation.
func (c *Checkout) SetAddress(addr Address) error {
	if err := c.guardOpen(); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	c.Address = addr
	return nil
}

// StartPayment moves an open checkout to ready_for_complete once it has at
// least one line item, a buyer email, and a complete address. Rejections
// leave the checkout unchanged.
func (c *Checkout) StartPayment() error {
	if c.Status != StatusOpen {
		return errors.WithMetadata(
			errors.CodeCheckoutNotOpen,
			fmt.Sprintf("checkout %s is %s; payment can only start on an open checkout", c.ID, c.Status),
			map[string]string{"checkout_id": c.ID, "status": string(c.Status)},
		)
	}
	if len(c.Items) == 0 {
		return errors.WithMetadata(
			errors.CodeCheckoutEmpty,
			fmt.Sprintf("checkout %s has no line items", c.ID),
			map[string]string{"checkout_id": c.ID},
		)
	}
	if !c.HasBuyer() {
		return errors.WithMetadata(
			errors.CodeCheckoutBuyerMissing,
			fmt.Sprintf("checkout %s has no buyer email", c.ID),
			map[string]string{"checkout_id": c.ID},
		)
	}
	if !c.HasAddress() {
		return errors.WithMetadata(
			errors.CodeCheckoutAddressMissing,
			fmt.Sprintf("checkout %s has no complete shipping address", c.ID),
			map[string]string{"checkout_id": c.ID},
		)
	}
	c.Status = StatusReadyForComplete
	return nil
}

// Complete moves a ready_for_complete checkout to completed and links the
// order created from it. Rejections leave the checkout unchanged.
func (c *Checkout) Complete(orderID string) error {
	if c.Status != StatusReadyForComplete {
		return errors.WithMetadata(
			errors.CodeCheckoutNotReady,
			fmt.Sprintf("checkout %s is %s; payment must start before completion", c.ID, c.Status),
			map[string]string{"checkout_id": c.ID, "status": string(c.Status)},
		)
	}
	c.Status = StatusCompleted
	c.OrderID = orderID
	return nil
}

// Fail marks a ready_for_complete checkout as failed. It is the only exit
// from ready_for_complete other than completion.
func (c *Checkout) Fail() error {
	if c.Status != StatusReadyForComplete {
		return errors.WithMetadata(
			errors.CodeCheckoutNotReady,
			fmt.Sprintf("checkout %s is %s and cannot fail", c.ID, c.Status),
			map[string]string{"checkout_id": c.ID, "status": string(c.Status)},
		)
	}
	c.Status = StatusFailed
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal state.
func (c *Checkout) Clone() *Checkout {
	clone := *c
	clone.Items = make([]LineItem, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}
