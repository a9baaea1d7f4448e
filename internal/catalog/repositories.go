// Package catalog composes the generic repository engine into the product
// catalog domain: users, products, systems, and product groups, plus the
// cross-entity queries layered on top.
package catalog

import "depotcore/pkg/domain"

// Collection names used as snapshot keys.
const (
	UsersTable         = "users"
	ProductsTable      = "products"
	SystemsTable       = "systems"
	ProductGroupsTable = "product_groups"
)

// UserSpec stores users with a case-insensitive unique name.
var UserSpec = domain.Spec[domain.User]{
	Table:  UsersTable,
	Unique: []domain.UniqueRule{domain.Unique("name", true)},
}

// ProductSpec stores products with a case-sensitive unique sku. Records that
// omit a currency decode with the default applied.
var ProductSpec = domain.Spec[domain.Product]{
	Table:  ProductsTable,
	Unique: []domain.UniqueRule{domain.Unique("sku", false)},
	Decode: func(rec domain.Record) (domain.Product, error) {
		p, err := domain.DecodeRecord[domain.Product](rec)
		if err != nil {
			return domain.Product{}, err
		}
		if p.Currency == "" {
			p.Currency = domain.DefaultCurrency
		}
		return p, nil
	},
}

// SystemSpec stores systems with a case-insensitive unique name.
var SystemSpec = domain.Spec[domain.System]{
	Table:  SystemsTable,
	Unique: []domain.UniqueRule{domain.Unique("name", true)},
}

// ProductGroupSpec stores product groups with a case-sensitive unique tag.
var ProductGroupSpec = domain.Spec[domain.ProductGroup]{
	Table:  ProductGroupsTable,
	Unique: []domain.UniqueRule{domain.Unique("tag", false)},
}
