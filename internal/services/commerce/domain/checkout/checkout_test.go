package checkout

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/ucp.shop/internal/platform/errors"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/money"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/product"
)

var (
	shoes   = product.Product{ID: "p1", Name: "Trail Runner Shoes", Price: 8999}
	cookies = product.Product{ID: "p2", Name: "Chocolate Chip Cookies", Price: 499}
)

func completeAddress() Address {
	return Address{
		Name:         "Jane Doe",
		AddressLine1: "123 Main St",
		City:         "Portland",
		Region:       "OR",
		PostalCode:   "97201",
		Country:      "US",
	}
}

func errorCode(t *testing.T, err error) apperrors.Code {
	t.Helper()
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %v", err)
	}
	return domainErr.Code
}

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	if err := c.AddItem(shoes, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := c.AddItem(shoes, 3); err != nil {
		t.Fatalf("add item again: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("got %d lines, want 1", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", c.Items[0].Quantity)
	}
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	err := c.AddItem(shoes, 0)
	if code := errorCode(t, err); code != apperrors.CodeCheckoutQuantityInvalid {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeCheckoutQuantityInvalid)
	}
	if len(c.Items) != 0 {
		t.Fatal("rejected add must not modify the checkout")
	}
}

func TestRemoveItemMissingLine(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	err := c.RemoveItem("nope")
	if code := errorCode(t, err); code != apperrors.CodeNotFound {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	if err := c.AddItem(shoes, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := c.UpdateItem(shoes.ID, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("got %d lines, want 0", len(c.Items))
	}

	// Same as remove: a second update on the absent line is not found.
	err := c.UpdateItem(shoes.ID, 0)
	if code := errorCode(t, err); code != apperrors.CodeNotFound {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestUpdateItemSetsExactQuantity(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	if err := c.AddItem(shoes, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := c.UpdateItem(shoes.ID, 7); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if c.Items[0].Quantity != 7 {
		t.Fatalf("quantity = %d, want 7", c.Items[0].Quantity)
	}
}

func TestSetBuyerRequiresEmail(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	err := c.SetBuyer("  ", "Jane", "Doe")
	if code := errorCode(t, err); code != apperrors.CodeCheckoutBuyerEmailEmpty {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeCheckoutBuyerEmailEmpty)
	}
}

func TestSetAddressReportsMissingFields(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	err := c.SetAddress(Address{Name: "Jane Doe", City: "Portland"})

	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %v", err)
	}
	if domainErr.Code != apperrors.CodeCheckoutAddressIncomplete {
		t.Fatalf("code = %s, want %s", domainErr.Code, apperrors.CodeCheckoutAddressIncomplete)
	}
	if domainErr.Metadata["missing_fields"] != "address_line1,region,postal_code,country" {
		t.Fatalf("missing_fields = %q", domainErr.Metadata["missing_fields"])
	}
}

func TestAddressLine2IsOptional(t *testing.T) {
	t.Parallel()

	addr := completeAddress()
	addr.AddressLine2 = ""
	if err := addr.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestStartPaymentPreconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(c *Checkout)
		want  apperrors.Code
	}{
		{
			name:  "empty cart",
			setup: func(c *Checkout) {},
			want:  apperrors.CodeCheckoutEmpty,
		},
		{
			name: "no buyer",
			setup: func(c *Checkout) {
				if err := c.AddItem(shoes, 1); err != nil {
					t.Fatalf("add item: %v", err)
				}
			},
			want: apperrors.CodeCheckoutBuyerMissing,
		},
		{
			name: "no address",
			setup: func(c *Checkout) {
				if err := c.AddItem(shoes, 1); err != nil {
					t.Fatalf("add item: %v", err)
				}
				if err := c.SetBuyer("jane@example.com", "Jane", "Doe"); err != nil {
					t.Fatalf("set buyer: %v", err)
				}
			},
			want: apperrors.CodeCheckoutAddressMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("chk_1")
			tt.setup(c)

			err := c.StartPayment()
			if code := errorCode(t, err); code != tt.want {
				t.Fatalf("code = %s, want %s", code, tt.want)
			}
			if c.Status != StatusOpen {
				t.Fatalf("status = %s, want %s after rejection", c.Status, StatusOpen)
			}
		})
	}
}

func TestStartPaymentSucceeds(t *testing.T) {
	t.Parallel()

	c := readyCheckout(t)
	if c.Status != StatusReadyForComplete {
		t.Fatalf("status = %s, want %s", c.Status, StatusReadyForComplete)
	}
}

func TestCompleteRequiresReadyStatus(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	err := c.Complete("ord_1")
	if code := errorCode(t, err); code != apperrors.CodeCheckoutNotReady {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeCheckoutNotReady)
	}
	if c.Status != StatusOpen || c.OrderID != "" {
		t.Fatal("rejected completion must not modify the checkout")
	}
}

func TestCompleteLinksOrder(t *testing.T) {
	t.Parallel()

	c := readyCheckout(t)
	if err := c.Complete("ord_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if c.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", c.Status, StatusCompleted)
	}
	if c.OrderID != "ord_1" {
		t.Fatalf("order id = %q, want ord_1", c.OrderID)
	}
}

func TestFailOnlyFromReady(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	if err := c.Fail(); err == nil {
		t.Fatal("expected error failing an open checkout")
	}

	c = readyCheckout(t)
	if err := c.Fail(); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if c.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", c.Status, StatusFailed)
	}
}

func TestMutationsRejectedAfterCompletion(t *testing.T) {
	t.Parallel()

	c := readyCheckout(t)
	if err := c.Complete("ord_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	before := *c.Clone()

	mutations := map[string]func() error{
		"add":        func() error { return c.AddItem(cookies, 1) },
		"remove":     func() error { return c.RemoveItem(shoes.ID) },
		"update":     func() error { return c.UpdateItem(shoes.ID, 3) },
		"setBuyer":   func() error { return c.SetBuyer("new@example.com", "", "") },
		"setAddress": func() error { return c.SetAddress(completeAddress()) },
	}
	for name, mutate := range mutations {
		err := mutate()
		if code := errorCode(t, err); code != apperrors.CodeCheckoutNotOpen {
			t.Fatalf("%s: code = %s, want %s", name, code, apperrors.CodeCheckoutNotOpen)
		}
	}

	after := *c.Clone()
	if len(after.Items) != len(before.Items) || !reflect.DeepEqual(after.Items[0], before.Items[0]) ||
		after.Buyer != before.Buyer || after.Address != before.Address ||
		after.Status != before.Status || after.OrderID != before.OrderID {
		t.Fatal("rejected mutations must leave the checkout unchanged")
	}
}

func TestTotalsRecomputeFromLines(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	if err := c.AddItem(shoes, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := c.AddItem(cookies, 3); err != nil {
		t.Fatalf("add item: %v", err)
	}

	totals := c.Totals(money.DefaultTaxRateBasisPoints, money.DefaultShippingFlatRate)
	wantSubtotal := int64(2*8999 + 3*499)
	if totals.Subtotal != wantSubtotal {
		t.Fatalf("subtotal = %d, want %d", totals.Subtotal, wantSubtotal)
	}
	if totals.Total != totals.Subtotal+totals.Tax+totals.Shipping {
		t.Fatalf("total %d != subtotal %d + tax %d + shipping %d",
			totals.Total, totals.Subtotal, totals.Tax, totals.Shipping)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := New("chk_1")
	if err := c.AddItem(shoes, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	clone := c.Clone()
	clone.Items[0].Quantity = 99
	if c.Items[0].Quantity != 2 {
		t.Fatalf("clone mutation leaked into original: quantity = %d", c.Items[0].Quantity)
	}
}

func readyCheckout(t *testing.T) *Checkout {
	t.Helper()
	c := New("chk_1")
	if err := c.AddItem(shoes, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := c.SetBuyer("jane@example.com", "Jane", "Doe"); err != nil {
		t.Fatalf("set buyer: %v", err)
	}
	if err := c.SetAddress(completeAddress()); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := c.StartPayment(); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	return c
}
