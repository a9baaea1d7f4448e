package catalog

import (
	"context"
	"sort"

	"depotcore/pkg/domain"
)

// SKUPrice is the (sku, price) projection of a product.
type SKUPrice struct {
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
}

// ListProductVersions returns the distinct non-nil product versions, sorted.
func (api *DataAPI) ListProductVersions(ctx context.Context) domain.Result[[]string] {
	products := api.products.List(ctx, api.env)
	if products.Failed() {
		return domain.Fail[[]string](products.Err)
	}
	seen := make(map[string]struct{})
	for _, p := range products.Value {
		if p.Version == nil {
			continue
		}
		seen[*p.Version] = struct{}{}
	}
	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return domain.Ok(versions)
}

// ListSystemNames returns all system names, sorted.
func (api *DataAPI) ListSystemNames(ctx context.Context) domain.Result[[]string] {
	systems := api.systems.List(ctx, api.env)
	if systems.Failed() {
		return domain.Fail[[]string](systems.Err)
	}
	names := make([]string, 0, len(systems.Value))
	for _, s := range systems.Value {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return domain.Ok(names)
}

// ProductsForSystem resolves the named system's product list in reference
// order. A dangling product id fails the whole query with the lookup's code.
func (api *DataAPI) ProductsForSystem(ctx context.Context, systemName string) domain.Result[[]domain.Product] {
	system := api.GetSystemByName(ctx, systemName)
	if system.Failed() {
		return domain.Fail[[]domain.Product](system.Err)
	}
	products := make([]domain.Product, 0, len(system.Value.ProductIDs))
	for _, pid := range system.Value.ProductIDs {
		product := api.products.Get(ctx, api.env, pid)
		if product.Failed() {
			return domain.Fail[[]domain.Product](product.Err)
		}
		products = append(products, product.Value)
	}
	return domain.Ok(products)
}

// ProductSKUPricesForSystem projects the named system's products to
// (sku, price) pairs, in reference order.
func (api *DataAPI) ProductSKUPricesForSystem(ctx context.Context, systemName string) domain.Result[[]SKUPrice] {
	products := api.ProductsForSystem(ctx, systemName)
	if products.Failed() {
		return domain.Fail[[]SKUPrice](products.Err)
	}
	pairs := make([]SKUPrice, 0, len(products.Value))
	for _, p := range products.Value {
		pairs = append(pairs, SKUPrice{SKU: p.SKU, Price: p.Price})
	}
	return domain.Ok(pairs)
}

// ProductInSystemByVersion finds the first product of the named system whose
// version matches, failing not_found when none does.
func (api *DataAPI) ProductInSystemByVersion(ctx context.Context, systemName, version string) domain.Result[domain.Product] {
	products := api.ProductsForSystem(ctx, systemName)
	if products.Failed() {
		return domain.Fail[domain.Product](products.Err)
	}
	for _, p := range products.Value {
		if p.Version != nil && *p.Version == version {
			return domain.Ok(p)
		}
	}
	return domain.Fail[domain.Product](string(domain.ErrNotFound))
}

// GroupForProduct resolves the group a product belongs to through its tag.
// Products without a tag, or tags without a matching group, fail not_found.
func (api *DataAPI) GroupForProduct(ctx context.Context, productID int64) domain.Result[domain.ProductGroup] {
	product := api.products.Get(ctx, api.env, productID)
	if product.Failed() {
		return domain.Fail[domain.ProductGroup](product.Err)
	}
	if product.Value.Tag == nil {
		return domain.Fail[domain.ProductGroup](string(domain.ErrNotFound))
	}
	return api.groups.GetByUnique(ctx, api.env, "tag", *product.Value.Tag)
}
