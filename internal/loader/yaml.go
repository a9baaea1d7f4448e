// Package loader reads bulk entity definitions from YAML files and product
// tar bundles and feeds them through the data API, one result per record.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"depotcore/internal/catalog"
	"depotcore/pkg/domain"
)

// LoadUsers reads a YAML sequence of users and creates each one. Every
// record's result is returned; one failure does not stop the batch.
func LoadUsers(ctx context.Context, path string, api *catalog.DataAPI) ([]domain.Result[domain.User], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users []domain.User
	if err := yaml.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	results := make([]domain.Result[domain.User], 0, len(users))
	for _, u := range users {
		results = append(results, api.CreateUser(ctx, u))
	}
	return results, nil
}

// LoadProducts reads a YAML sequence of products and creates each one.
func LoadProducts(ctx context.Context, path string, api *catalog.DataAPI) ([]domain.Result[domain.Product], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}
	var products []domain.Product
	if err := yaml.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse products file: %w", err)
	}
	results := make([]domain.Result[domain.Product], 0, len(products))
	for _, p := range products {
		if p.Currency == "" {
			p.Currency = domain.DefaultCurrency
		}
		results = append(results, api.CreateProduct(ctx, p))
	}
	return results, nil
}

// systemFile is the on-disk shape of a system definition: identity plus a
// list of product bundle paths relative to the file.
type systemFile struct {
	ID       int64    `yaml:"id"`
	Name     string   `yaml:"name"`
	Products []string `yaml:"products"`
}

// SystemLoad carries the outcome of loading a system definition: one result
// per extracted product bundle plus the system's own result.
type SystemLoad struct {
	Products []domain.Result[domain.Product]
	System   domain.Result[domain.System]
}

// LoadSystem reads a system YAML whose products are tar.gz bundles, extracts
// and creates each bundled product, then creates the system referencing them.
// Bundle paths resolve relative to the system file's directory.
func LoadSystem(ctx context.Context, path string, api *catalog.DataAPI) (SystemLoad, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SystemLoad{}, fmt.Errorf("read system file: %w", err)
	}
	var def systemFile
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return SystemLoad{}, fmt.Errorf("parse system file: %w", err)
	}

	load := SystemLoad{Products: make([]domain.Result[domain.Product], 0, len(def.Products))}
	productIDs := make([]int64, 0, len(def.Products))
	for _, ref := range def.Products {
		product, err := ReadBundle(filepath.Join(filepath.Dir(path), ref))
		if err != nil {
			return SystemLoad{}, err
		}
		load.Products = append(load.Products, api.CreateProduct(ctx, product))
		productIDs = append(productIDs, product.ID)
	}
	load.System = api.CreateSystem(ctx, domain.System{ID: def.ID, Name: def.Name, ProductIDs: productIDs})
	return load, nil
}
