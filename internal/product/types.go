package product

import "errors"

// Discount kinds.
const (
	// DiscountPercent reduces the price by a percentage.
	DiscountPercent = "percent"
	// DiscountTotal reduces the price by a fixed amount.
	DiscountTotal = "total"
)

// Discount is a single price reduction, keyed by reason in Product.Discounts.
type Discount struct {
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"`
}

// Product is one scanned item. Price is kept as text exactly as entered;
// the application never does arithmetic on it.
type Product struct {
	ID          int64               `json:"id"`
	Barcode     string              `json:"barcode"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       string              `json:"price"`
	Discounts   map[string]Discount `json:"discounts"`
	Image       []byte              `json:"-"`
}

// Sentinel errors for product storage operations.
var (
	ErrProductNotFound = errors.New("product not found")
)
