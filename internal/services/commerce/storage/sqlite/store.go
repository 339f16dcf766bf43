// Package sqlite provides a SQLite-backed commerce storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/ucp.shop/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/storage"
	"github.com/louisbranch/ucp.shop/internal/services/commerce/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists commerce state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite commerce store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutProduct inserts or replaces one catalog product.
func (s *Store) PutProduct(ctx context.Context, record storage.ProductRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("product id is required")
	}

	imageURLs, err := json.Marshal(record.ImageURLs)
	if err != nil {
		return fmt.Errorf("encode image urls: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO products (id, name, description, category, brand, price, image_urls, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   category = excluded.category,
		   brand = excluded.brand,
		   price = excluded.price,
		   image_urls = excluded.image_urls,
		   position = excluded.position`,
		record.ID,
		record.Name,
		record.Description,
		record.Category,
		record.Brand,
		record.Price,
		string(imageURLs),
		record.Position,
	)
	if err != nil {
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// GetProduct returns one product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (storage.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProductRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProductRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.ProductRecord{}, fmt.Errorf("product id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, description, category, brand, price, image_urls, position
		   FROM products
		  WHERE id = ?`,
		id,
	)
	record, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ProductRecord{}, storage.ErrNotFound
		}
		return storage.ProductRecord{}, fmt.Errorf("get product: %w", err)
	}
	return record, nil
}

// ListProducts returns every product in catalog insertion order.
func (s *Store) ListProducts(ctx context.Context) ([]storage.ProductRecord, error) {
	return s.QueryProducts(ctx, "", nil)
}

// QueryProducts returns products matching a SQL condition in insertion
// order. An empty clause returns every product.
func (s *Store) QueryProducts(ctx context.Context, whereClause string, params []any) ([]storage.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT id, name, description, category, brand, price, image_urls, position
	            FROM products`
	if strings.TrimSpace(whereClause) != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY position"

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []storage.ProductRecord
	for rows.Next() {
		record, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return records, nil
}

// CountProducts returns the number of stored products.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func scanProduct(scan func(dest ...any) error) (storage.ProductRecord, error) {
	var record storage.ProductRecord
	var imageURLs string
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Description,
		&record.Category,
		&record.Brand,
		&record.Price,
		&imageURLs,
		&record.Position,
	); err != nil {
		return storage.ProductRecord{}, err
	}
	if imageURLs != "" {
		if err := json.Unmarshal([]byte(imageURLs), &record.ImageURLs); err != nil {
			return storage.ProductRecord{}, fmt.Errorf("decode image urls: %w", err)
		}
	}
	return record, nil
}

// PutCheckout inserts or replaces one checkout with its line items.
func (s *Store) PutCheckout(ctx context.Context, record storage.CheckoutRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("checkout id is required")
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put checkout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO checkouts (
		   id, status,
		   buyer_email, buyer_first_name, buyer_last_name,
		   address_name, address_line1, address_line2, city, region, postal_code, country,
		   order_id, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   buyer_email = excluded.buyer_email,
		   buyer_first_name = excluded.buyer_first_name,
		   buyer_last_name = excluded.buyer_last_name,
		   address_name = excluded.address_name,
		   address_line1 = excluded.address_line1,
		   address_line2 = excluded.address_line2,
		   city = excluded.city,
		   region = excluded.region,
		   postal_code = excluded.postal_code,
		   country = excluded.country,
		   order_id = excluded.order_id,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.Status,
		record.BuyerEmail,
		record.BuyerFirstName,
		record.BuyerLastName,
		record.AddressName,
		record.AddressLine1,
		record.AddressLine2,
		record.City,
		record.Region,
		record.PostalCode,
		record.Country,
		record.OrderID,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put checkout: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM checkout_items WHERE checkout_id = ?", record.ID); err != nil {
		return fmt.Errorf("clear checkout items: %w", err)
	}
	for _, item := range record.Items {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO checkout_items (checkout_id, product_id, quantity, position)
			 VALUES (?, ?, ?, ?)`,
			record.ID,
			item.ProductID,
			item.Quantity,
			item.Position,
		); err != nil {
			return fmt.Errorf("put checkout item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put checkout: %w", err)
	}
	return nil
}

// GetCheckout returns one checkout with its line items.
func (s *Store) GetCheckout(ctx context.Context, id string) (storage.CheckoutRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CheckoutRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CheckoutRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CheckoutRecord{}, fmt.Errorf("checkout id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, status,
		        buyer_email, buyer_first_name, buyer_last_name,
		        address_name, address_line1, address_line2, city, region, postal_code, country,
		        order_id, created_at, updated_at
		   FROM checkouts
		  WHERE id = ?`,
		id,
	)

	var record storage.CheckoutRecord
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.Status,
		&record.BuyerEmail,
		&record.BuyerFirstName,
		&record.BuyerLastName,
		&record.AddressName,
		&record.AddressLine1,
		&record.AddressLine2,
		&record.City,
		&record.Region,
		&record.PostalCode,
		&record.Country,
		&record.OrderID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CheckoutRecord{}, storage.ErrNotFound
		}
		return storage.CheckoutRecord{}, fmt.Errorf("get checkout: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT product_id, quantity, position
		   FROM checkout_items
		  WHERE checkout_id = ?
		  ORDER BY position`,
		id,
	)
	if err != nil {
		return storage.CheckoutRecord{}, fmt.Errorf("get checkout items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item storage.LineItemRecord
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Position); err != nil {
			return storage.CheckoutRecord{}, fmt.Errorf("scan checkout item: %w", err)
		}
		record.Items = append(record.Items, item)
	}
	if err := rows.Err(); err != nil {
		return storage.CheckoutRecord{}, fmt.Errorf("iterate checkout items: %w", err)
	}
	return record, nil
}

// PutOrder inserts one order snapshot. Orders are append-only, so a
// duplicate id returns ErrAlreadyExists.
func (s *Store) PutOrder(ctx context.Context, record storage.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("order id is required")
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO orders (
		   id, checkout_id, status,
		   seller_name, seller_domain,
		   buyer_email, buyer_first_name, buyer_last_name,
		   address_name, address_line1, address_line2, city, region, postal_code, country,
		   subtotal, tax, shipping, total, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CheckoutID,
		record.Status,
		record.SellerName,
		record.SellerDomain,
		record.BuyerEmail,
		record.BuyerFirstName,
		record.BuyerLastName,
		record.AddressName,
		record.AddressLine1,
		record.AddressLine2,
		record.City,
		record.Region,
		record.PostalCode,
		record.Country,
		record.Subtotal,
		record.Tax,
		record.Shipping,
		record.Total,
		toMillis(createdAt),
	)
	if err != nil {
		if isOrderUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put order: %w", err)
	}

	for _, item := range record.Items {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			record.ID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
			item.Position,
		); err != nil {
			return fmt.Errorf("put order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put order: %w", err)
	}
	return nil
}

// GetOrder returns one order with its frozen line items.
func (s *Store) GetOrder(ctx context.Context, id string) (storage.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.OrderRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.OrderRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.OrderRecord{}, fmt.Errorf("order id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, checkout_id, status,
		        seller_name, seller_domain,
		        buyer_email, buyer_first_name, buyer_last_name,
		        address_name, address_line1, address_line2, city, region, postal_code, country,
		        subtotal, tax, shipping, total, created_at
		   FROM orders
		  WHERE id = ?`,
		id,
	)

	var record storage.OrderRecord
	var createdAt int64
	err := row.Scan(
		&record.ID,
		&record.CheckoutID,
		&record.Status,
		&record.SellerName,
		&record.SellerDomain,
		&record.BuyerEmail,
		&record.BuyerFirstName,
		&record.BuyerLastName,
		&record.AddressName,
		&record.AddressLine1,
		&record.AddressLine2,
		&record.City,
		&record.Region,
		&record.PostalCode,
		&record.Country,
		&record.Subtotal,
		&record.Tax,
		&record.Shipping,
		&record.Total,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.OrderRecord{}, storage.ErrNotFound
		}
		return storage.OrderRecord{}, fmt.Errorf("get order: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT product_id, product_name, unit_price, quantity, position
		   FROM order_items
		  WHERE order_id = ?
		  ORDER BY position`,
		id,
	)
	if err != nil {
		return storage.OrderRecord{}, fmt.Errorf("get order items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item storage.OrderItemRecord
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity, &item.Position); err != nil {
			return storage.OrderRecord{}, fmt.Errorf("scan order item: %w", err)
		}
		record.Items = append(record.Items, item)
	}
	if err := rows.Err(); err != nil {
		return storage.OrderRecord{}, fmt.Errorf("iterate order items: %w", err)
	}
	return record, nil
}

func isOrderUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "orders.id")
}

var _ storage.Store = (*Store)(nil)
