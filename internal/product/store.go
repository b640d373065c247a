package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scanwise/scancore/internal/auth"
)

// productColumns is the column list every product query selects, in scan order.
const productColumns = "id, barcode, name, description, price, discounts, image"

// Store persists products in SQLite. Unlike user accounts there is no
// in-memory index — product lookups always hit storage.
type Store struct {
	db *sql.DB
}

// NewStore creates a product store over an open SQLite connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new product and fills in the storage-assigned id.
// Gated at write-products.
func (s *Store) Create(ctx context.Context, p auth.Principal, prod *Product) error {
	if err := auth.Require(p, auth.LevelWriteProducts); err != nil {
		return err
	}

	discounts, err := encodeDiscounts(prod.Discounts)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO products (barcode, name, description, price, discounts, image) VALUES (?, ?, ?, ?, ?, ?)",
		prod.Barcode, prod.Name, prod.Description, prod.Price, discounts, prod.Image,
	)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product id: %w", err)
	}
	prod.ID = id
	return nil
}

// GetByID retrieves a product by its storage id. Gated at read-products.
func (s *Store) GetByID(ctx context.Context, p auth.Principal, id int64) (*Product, error) {
	if err := auth.Require(p, auth.LevelReadProducts); err != nil {
		return nil, err
	}
	return s.getProduct(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
}

// GetByBarcode retrieves the first product carrying the barcode, in
// insertion order. Barcodes are not unique — re-scanned items may be
// entered more than once. Gated at read-products.
func (s *Store) GetByBarcode(ctx context.Context, p auth.Principal, barcode string) (*Product, error) {
	if err := auth.Require(p, auth.LevelReadProducts); err != nil {
		return nil, err
	}
	return s.getProduct(ctx, "SELECT "+productColumns+" FROM products WHERE barcode = ? ORDER BY id LIMIT 1", barcode)
}

// List returns all products in insertion order. Gated at read-products.
func (s *Store) List(ctx context.Context, p auth.Principal) ([]Product, error) {
	if err := auth.Require(p, auth.LevelReadProducts); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		prod, err := scanProductFrom(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *prod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

// getProduct executes a query expected to return one product row.
func (s *Store) getProduct(ctx context.Context, query string, args ...any) (*Product, error) {
	return scanProductFrom(s.db.QueryRowContext(ctx, query, args...))
}

// scanner is the shared Scan surface of sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProductFrom(sc scanner) (*Product, error) {
	var prod Product
	var discounts string
	var image []byte

	err := sc.Scan(&prod.ID, &prod.Barcode, &prod.Name, &prod.Description,
		&prod.Price, &discounts, &image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}

	prod.Image = image
	if err := json.Unmarshal([]byte(discounts), &prod.Discounts); err != nil {
		return nil, fmt.Errorf("decoding discounts for product %d: %w", prod.ID, err)
	}

	return &prod, nil
}

// encodeDiscounts serialises the discounts map, defaulting to an empty
// document so the NOT NULL column is always satisfied.
func encodeDiscounts(d map[string]Discount) (string, error) {
	if d == nil {
		d = map[string]Discount{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding discounts: %w", err)
	}
	return string(data), nil
}
