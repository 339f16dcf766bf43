// Package app implements the commerce engine: catalog search, checkout
// lifecycle, payment gating, and the order ledger.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/ucp.shop/internal/platform/errors"
	"github.com/louisbranch/ucp.shop/internal/platform/id"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/catalog"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/checkout"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/filter"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/money"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/order"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/domain/product"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/storage"
)

// Config carries the static pricing and merchant parameters of an engine.
type Config struct {
	Seller             order.Seller
	TaxRateBasisPoints int64
	ShippingFlatRate   int64
}

// CheckoutView is a read-only snapshot of a checkout with derived totals
// and, once completed, the embedded order.
type CheckoutView struct {
	Checkout *checkout.Checkout
	Totals   money.Totals
	Order    *order.Order
}

// Engine owns the full commerce lifecycle. Operations on distinct checkout
// ids run concurrently; operations on the same id are serialized through a
// per-id mutex created lazily and retained for the record's lifetime.
type Engine struct {
	store  storage.Store
	seller order.Seller
	taxBp  int64
	flat   int64

	// catalog is immutable after construction; no lock needed for reads.
	products  []product.Product
	productBy map[string]product.Product

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine builds an engine over the given store. When the store holds no
// products the built-in catalog is seeded first; the catalog is then cached
// in memory for the engine's lifetime.
func NewEngine(ctx context.Context, store storage.Store, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.TaxRateBasisPoints == 0 {
		cfg.TaxRateBasisPoints = money.DefaultTaxRateBasisPoints
	}
	if cfg.ShippingFlatRate == 0 {
		cfg.ShippingFlatRate = money.DefaultShippingFlatRate
	}

	count, err := store.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		if err := SeedCatalog(ctx, store); err != nil {
			return nil, err
		}
	}

	records, err := store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	engine := &Engine{
		store:     store,
		seller:    cfg.Seller,
		taxBp:     cfg.TaxRateBasisPoints,
		flat:      cfg.ShippingFlatRate,
		products:  make([]product.Product, 0, len(records)),
		productBy: make(map[string]product.Product, len(records)),
		locks:     make(map[string]*sync.Mutex),
	}
	for _, record := range records {
		p := productFromRecord(record)
		engine.products = append(engine.products, p)
		engine.productBy[p.ID] = p
	}
	return engine, nil
}

// SeedCatalog writes the built-in catalog into the store.
func SeedCatalog(ctx context.Context, store storage.ProductStore) error {
	products, err := catalog.Default()
	if err != nil {
		return err
	}
	return SeedProducts(ctx, store, products)
}

// SeedProducts writes products into the store, assigning positions in slice
// order.
func SeedProducts(ctx context.Context, store storage.ProductStore, products []product.Product) error {
	for i, p := range products {
		record := storage.ProductRecord{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Brand:       p.Brand,
			Price:       p.Price,
			ImageURLs:   p.ImageURLs,
			Position:    int64(i),
		}
		if err := store.PutProduct(ctx, record); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}

func productFromRecord(record storage.ProductRecord) product.Product {
	return product.Product{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Category:    record.Category,
		Brand:       record.Brand,
		Price:       record.Price,
		ImageURLs:   record.ImageURLs,
	}
}

// lockFor returns the mutex serializing operations on one checkout or
// order id, creating it on first reference.
func (e *Engine) lockFor(recordID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[recordID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[recordID] = lock
	}
	return lock
}

// SearchCatalog returns products matching a keyword query and an optional
// AIP-160 filter expression, in stable catalog order. An empty query and
// filter return the full catalog.
func (e *Engine) SearchCatalog(ctx context.Context, query, filterStr string) ([]product.Product, error) {
	if strings.TrimSpace(filterStr) == "" {
		return product.Search(e.products, query), nil
	}

	cond, err := filter.ParseProductFilter(filterStr)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCatalogFilterInvalid, "invalid catalog filter", err)
	}
	records, err := e.store.QueryProducts(ctx, cond.Clause, cond.Params)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	filtered := make([]product.Product, 0, len(records))
	for _, record := range records {
		filtered = append(filtered, productFromRecord(record))
	}
	return product.Search(filtered, query), nil
}

// GetProduct returns one catalog product by id.
func (e *Engine) GetProduct(productID string) (product.Product, error) {
	p, ok := e.productBy[productID]
	if !ok {
		return product.Product{}, errors.WithMetadata(
			errors.CodeNotFound,
			fmt.Sprintf("product %s not found", productID),
			map[string]string{"product_id": productID},
		)
	}
	return p, nil
}

// CreateCheckout allocates a fresh open checkout.
func (e *Engine) CreateCheckout(ctx context.Context) (*CheckoutView, error) {
	checkoutID, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("allocate checkout id: %w", err)
	}

	lock := e.lockFor(checkoutID)
	lock.Lock()
	defer lock.Unlock()

	c := checkout.New(checkoutID)
	if err := e.persist(ctx, c); err != nil {
		return nil, err
	}
	return e.view(ctx, c)
}

// GetCheckout returns a read-only snapshot of one checkout.
func (e *Engine) GetCheckout(ctx context.Context, checkoutID string) (*CheckoutView, error) {
	lock := e.lockFor(checkoutID)
	lock.Lock()
	defer lock.Unlock()

	c, err := e.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	return e.view(ctx, c)
}

// AddItem adds quantity units of a product to a checkout. An empty
// checkoutID implicitly creates a new checkout first.
func (e *Engine) AddItem(ctx context.Context, checkoutID, productID string, quantity int64) (*CheckoutView, error) {
	p, err := e.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	create := strings.TrimSpace(checkoutID) == ""
	if create {
		checkoutID, err = id.NewID()
		if err != nil {
			return nil, fmt.Errorf("allocate checkout id: %w", err)
		}
	}

	lock := e.lockFor(checkoutID)
	lock.Lock()
	defer lock.Unlock()

	var c *checkout.Checkout
	if create {
		c = checkout.New(checkoutID)
	} else {
		c, err = e.load(ctx, checkoutID)
		if err != nil {
			return nil, err
		}
	}

	if err := c.AddItem(p, quantity); err != nil {
		return nil, err
	}
	if err := e.persist(ctx, c); err != nil {
		return nil, err
	}
	return e.view(ctx, c)
}

// RemoveItem removes a product line from a checkout.
func (e *Engine) RemoveItem(ctx context.Context, checkoutID, productID string) (*CheckoutView, error) {
	return e.mutate(ctx, checkoutID, func(c *checkout.Checkout) error {
		return c.RemoveItem(productID)
	})
}

// UpdateItem sets the exact quantity of a product line. Quantity zero
// removes the line.
func (e *Engine) UpdateItem(ctx context.Context, checkoutID, productID string, quantity int64) (*CheckoutView, error) {
	return e.mutate(ctx, checkoutID, func(c *checkout.Checkout) error {
		return c.UpdateItem(productID, quantity)
	})
}

// SetBuyer attaches buyer contact details to a checkout.
func (e *Engine) SetBuyer(ctx context.Context, checkoutID, email, firstName, lastName string) (*CheckoutView, error) {
	return e.mutate(ctx, checkoutID, func(c *checkout.Checkout) error {
		return c.SetBuyer(email, firstName, lastName)
	})
}

// SetAddress attaches a shipping address to a checkout.
func (e *Engine) SetAddress(ctx context.Context, checkoutID string, addr checkout.Address) (*CheckoutView, error) {
	return e.mutate(ctx, checkoutID, func(c *checkout.Checkout) error {
		return c.SetAddress(addr)
	})
}

// UpdateCustomerDetails sets the shipping address and, when an email is
// given, the buyer contact in one atomic step. Buyer names are derived by
// splitting the address name on its first space.
func (e *Engine) UpdateCustomerDetails(ctx context.Context, checkoutID, email string, addr checkout.Address) (*CheckoutView, error) {
	return e.mutate(ctx, checkoutID, func(c *checkout.Checkout) error {
		if err := c.SetAddress(addr); err != nil {
			return err
		}
		if strings.TrimSpace(email) == "" {
			return nil
		}
		firstName, lastName := splitName(addr.Name)
		return c.SetBuyer(email, firstName, lastName)
	})
}

func splitName(fullName string) (firstName, lastName string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// StartPayment gates a checkout into ready_for_complete once items, buyer,
// and address are all present.
func (e *Engine) StartPayment(ctx context.Context, checkoutID string) (*CheckoutView, error) {
	return e.mutate(ctx, checkoutID, func(c *checkout.Checkout) error {
		return c.StartPayment()
	})
}

// CompleteCheckout promotes a ready checkout into an immutable order. The
// order is written to the ledger before the checkout is marked completed so
// a stored completed checkout always references a stored order.
func (e *Engine) CompleteCheckout(ctx context.Context, checkoutID string) (*CheckoutView, error) {
	lock := e.lockFor(checkoutID)
	lock.Lock()
	defer lock.Unlock()

	c, err := e.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	totals := c.Totals(e.taxBp, e.flat)
	orderID, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("allocate order id: %w", err)
	}
	if err := c.Complete(orderID); err != nil {
		return nil, err
	}

	o := order.FromCheckout(orderID, c, e.seller, totals, time.Now())
	if err := e.store.PutOrder(ctx, orderToRecord(o)); err != nil {
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return nil, errors.WithMetadata(
				errors.CodeOrderDuplicateID,
				fmt.Sprintf("order id %s already exists in the ledger", orderID),
				map[string]string{"order_id": orderID, "checkout_id": checkoutID},
			)
		}
		return nil, fmt.Errorf("store order: %w", err)
	}
	if err := e.persist(ctx, c); err != nil {
		return nil, err
	}

	return &CheckoutView{Checkout: c.Clone(), Totals: totals, Order: o}, nil
}

// GetOrder returns one immutable order from the ledger.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	record, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.WithMetadata(
				errors.CodeNotFound,
				fmt.Sprintf("order %s not found", orderID),
				map[string]string{"order_id": orderID},
			)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return orderFromRecord(record), nil
}

// mutate runs one state change on a checkout under its lock and persists
// the result. Validation failures leave stored state untouched.
func (e *Engine) mutate(ctx context.Context, checkoutID string, fn func(*checkout.Checkout) error) (*CheckoutView, error) {
	lock := e.lockFor(checkoutID)
	lock.Lock()
	defer lock.Unlock()

	c, err := e.load(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := e.persist(ctx, c); err != nil {
		return nil, err
	}
	return e.view(ctx, c)
}

func (e *Engine) load(ctx context.Context, checkoutID string) (*checkout.Checkout, error) {
	record, err := e.store.GetCheckout(ctx, checkoutID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.WithMetadata(
				errors.CodeNotFound,
				fmt.Sprintf("checkout %s not found", checkoutID),
				map[string]string{"checkout_id": checkoutID},
			)
		}
		return nil, fmt.Errorf("get checkout: %w", err)
	}

	c := &checkout.Checkout{
		ID:     record.ID,
		Status: checkout.Status(record.Status),
		Buyer: checkout.Buyer{
			Email:     record.BuyerEmail,
			FirstName: record.BuyerFirstName,
			LastName:  record.BuyerLastName,
		},
		Address: checkout.Address{
			Name:         record.AddressName,
			AddressLine1: record.AddressLine1,
			AddressLine2: record.AddressLine2,
			City:         record.City,
			Region:       record.Region,
			PostalCode:   record.PostalCode,
			Country:      record.Country,
		},
		OrderID: record.OrderID,
	}
	for _, item := range record.Items {
		p, ok := e.productBy[item.ProductID]
		if !ok {
			return nil, errors.WithMetadata(
				errors.CodeUnknown,
				fmt.Sprintf("checkout %s references unknown product %s", checkoutID, item.ProductID),
				map[string]string{"checkout_id": checkoutID, "product_id": item.ProductID},
			)
		}
		c.Items = append(c.Items, checkout.LineItem{Product: p, Quantity: item.Quantity})
	}
	return c, nil
}

func (e *Engine) persist(ctx context.Context, c *checkout.Checkout) error {
	record := storage.CheckoutRecord{
		ID:             c.ID,
		Status:         string(c.Status),
		BuyerEmail:     c.Buyer.Email,
		BuyerFirstName: c.Buyer.FirstName,
		BuyerLastName:  c.Buyer.LastName,
		AddressName:    c.Address.Name,
		AddressLine1:   c.Address.AddressLine1,
		AddressLine2:   c.Address.AddressLine2,
		City:           c.Address.City,
		Region:         c.Address.Region,
		PostalCode:     c.Address.PostalCode,
		Country:        c.Address.Country,
		OrderID:        c.OrderID,
	}
	for i, item := range c.Items {
		record.Items = append(record.Items, storage.LineItemRecord{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Position:  int64(i),
		})
	}
	if err := e.store.PutCheckout(ctx, record); err != nil {
		return fmt.Errorf("put checkout: %w", err)
	}
	return nil
}

// view assembles the snapshot returned to callers, loading the linked
// order for completed checkouts.
func (e *Engine) view(ctx context.Context, c *checkout.Checkout) (*CheckoutView, error) {
	snapshot := &CheckoutView{
		Checkout: c.Clone(),
		Totals:   c.Totals(e.taxBp, e.flat),
	}
	if c.OrderID != "" {
		o, err := e.GetOrder(ctx, c.OrderID)
		if err != nil {
			return nil, err
		}
		snapshot.Order = o
		snapshot.Totals = o.Totals
	}
	return snapshot, nil
}

func orderToRecord(o *order.Order) storage.OrderRecord {
	record := storage.OrderRecord{
		ID:             o.ID,
		CheckoutID:     o.CheckoutID,
		Status:         o.Status,
		SellerName:     o.Seller.Name,
		SellerDomain:   o.Seller.Domain,
		BuyerEmail:     o.Buyer.Email,
		BuyerFirstName: o.Buyer.FirstName,
		BuyerLastName:  o.Buyer.LastName,
		AddressName:    o.Address.Name,
		AddressLine1:   o.Address.AddressLine1,
		AddressLine2:   o.Address.AddressLine2,
		City:           o.Address.City,
		Region:         o.Address.Region,
		PostalCode:     o.Address.PostalCode,
		Country:        o.Address.Country,
		Subtotal:       o.Totals.Subtotal,
		Tax:            o.Totals.Tax,
		Shipping:       o.Totals.Shipping,
		Total:          o.Totals.Total,
		CreatedAt:      o.CreatedAt,
	}
	for i, item := range o.Items {
		record.Items = append(record.Items, storage.OrderItemRecord{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			Position:    int64(i),
		})
	}
	return record
}

func orderFromRecord(record storage.OrderRecord) *order.Order {
	o := &order.Order{
		ID:         record.ID,
		CheckoutID: record.CheckoutID,
		Status:     record.Status,
		Seller:     order.Seller{Name: record.SellerName, Domain: record.SellerDomain},
		Buyer: checkout.Buyer{
			Email:     record.BuyerEmail,
			FirstName: record.BuyerFirstName,
			LastName:  record.BuyerLastName,
		},
		Address: checkout.Address{
			Name:         record.AddressName,
			AddressLine1: record.AddressLine1,
			AddressLine2: record.AddressLine2,
			City:         record.City,
			Region:       record.Region,
			PostalCode:   record.PostalCode,
			Country:      record.Country,
		},
		Totals: money.Totals{
			Subtotal: record.Subtotal,
			Tax:      record.Tax,
			Shipping: record.Shipping,
			Total:    record.Total,
		},
		CreatedAt: record.CreatedAt,
	}
	for _, item := range record.Items {
		o.Items = append(o.Items, checkout.LineItem{
			Product: product.Product{
				ID:    item.ProductID,
				Name:  item.ProductName,
				Price: item.UnitPrice,
			},
			Quantity: item.Quantity,
		})
	}
	return o
}
