// Package domain defines the persistent entities, raw record forms, and
// storage contracts used by depotcore.
package domain

// User is an account record. Name is unique (case-insensitive) within the
// users collection.
type User struct {
	ID    int64   `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Spend float64 `json:"spend" yaml:"spend"`
	Email *string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Product is a sellable item. SKU is unique (case-sensitive). Version and Tag
// are optional; Tag links the product to a ProductGroup by value.
type Product struct {
	ID       int64   `json:"id" yaml:"id"`
	SKU      string  `json:"sku" yaml:"sku"`
	Price    float64 `json:"price" yaml:"price"`
	Currency string  `json:"currency" yaml:"currency"`
	Version  *string `json:"version,omitempty" yaml:"version,omitempty"`
	Tag      *string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// DefaultCurrency is applied when a product record omits its currency.
const DefaultCurrency = "SEK"

// System is a named composition of products. ProductIDs is ordered and may
// contain duplicates; every id must resolve to an existing product at
// create/update time.
type System struct {
	ID         int64   `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	ProductIDs []int64 `json:"product_ids" yaml:"product_ids"`
}

// ProductGroup maps a unique tag to a filesystem path holding grouped
// product material.
type ProductGroup struct {
	ID   int64  `json:"id" yaml:"id"`
	Tag  string `json:"tag" yaml:"tag"`
	Path string `json:"path" yaml:"path"`
}
