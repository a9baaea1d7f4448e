package catalog

import (
	"context"

	"depotcore/internal/core"
	"depotcore/pkg/domain"
)

// DataAPI is the high-level access layer combining per-entity flows with
// cross-entity consistency checks. All operations return results; expected
// failures carry the stable code strings.
type DataAPI struct {
	env      *domain.Env
	rt       *core.Runtime
	users    core.Flow[domain.User]
	products core.Flow[domain.Product]
	systems  core.Flow[domain.System]
	groups   core.Flow[domain.ProductGroup]
}

// New binds a data API to the environment. Options configure the shared
// runtime (logger, metrics, clock).
func New(env *domain.Env, opts ...core.Option) *DataAPI {
	rt := core.NewRuntime(opts...)
	return &DataAPI{
		env:      env,
		rt:       rt,
		users:    core.NewFlow(UserSpec, rt),
		products: core.NewFlow(ProductSpec, rt),
		systems:  core.NewFlow(SystemSpec, rt),
		groups:   core.NewFlow(ProductGroupSpec, rt),
	}
}

// Env returns the bound environment.
func (api *DataAPI) Env() *domain.Env { return api.env }

// Close flushes and releases the environment's backend handle.
func (api *DataAPI) Close() error { return api.env.Close() }

// ---- Users ----------------------------------------------------------------

// CreateUser inserts a new user.
func (api *DataAPI) CreateUser(ctx context.Context, user domain.User) domain.Result[domain.User] {
	return api.users.Create(ctx, api.env, user)
}

// GetUser fetches a user by id.
func (api *DataAPI) GetUser(ctx context.Context, id int64) domain.Result[domain.User] {
	return api.users.Get(ctx, api.env, id)
}

// GetUserByName fetches a user by its unique name.
func (api *DataAPI) GetUserByName(ctx context.Context, name string) domain.Result[domain.User] {
	return api.users.GetByUnique(ctx, api.env, "name", name)
}

// ListUsers fetches all users.
func (api *DataAPI) ListUsers(ctx context.Context) domain.Result[[]domain.User] {
	return api.users.List(ctx, api.env)
}

// UpdateUser replaces the user at id with a copy carrying the field
// overrides.
func (api *DataAPI) UpdateUser(ctx context.Context, id int64, overrides map[string]any) domain.Result[domain.User] {
	return updateWithOverrides(ctx, api.env, api.users, UserSpec, id, overrides)
}

// DeleteUser removes a user.
func (api *DataAPI) DeleteUser(ctx context.Context, id int64) domain.Result[int64] {
	return api.users.Delete(ctx, api.env, id)
}

// ---- Products -------------------------------------------------------------

// CreateProduct inserts a new product.
func (api *DataAPI) CreateProduct(ctx context.Context, product domain.Product) domain.Result[domain.Product] {
	return api.products.Create(ctx, api.env, product)
}

// GetProduct fetches a product by id.
func (api *DataAPI) GetProduct(ctx context.Context, id int64) domain.Result[domain.Product] {
	return api.products.Get(ctx, api.env, id)
}

// GetProductBySKU fetches a product by its unique sku.
func (api *DataAPI) GetProductBySKU(ctx context.Context, sku string) domain.Result[domain.Product] {
	return api.products.GetByUnique(ctx, api.env, "sku", sku)
}

// ListProducts fetches all products.
func (api *DataAPI) ListProducts(ctx context.Context) domain.Result[[]domain.Product] {
	return api.products.List(ctx, api.env)
}

// UpdateProduct replaces the product at id with a copy carrying the field
// overrides.
func (api *DataAPI) UpdateProduct(ctx context.Context, id int64, overrides map[string]any) domain.Result[domain.Product] {
	return updateWithOverrides(ctx, api.env, api.products, ProductSpec, id, overrides)
}

// DeleteProduct removes a product. Systems referencing it are not checked;
// referential integrity is enforced on system writes only.
func (api *DataAPI) DeleteProduct(ctx context.Context, id int64) domain.Result[int64] {
	return api.products.Delete(ctx, api.env, id)
}

// ---- Product groups -------------------------------------------------------

// CreateProductGroup inserts a new product group.
func (api *DataAPI) CreateProductGroup(ctx context.Context, group domain.ProductGroup) domain.Result[domain.ProductGroup] {
	return api.groups.Create(ctx, api.env, group)
}

// GetProductGroup fetches a group by id.
func (api *DataAPI) GetProductGroup(ctx context.Context, id int64) domain.Result[domain.ProductGroup] {
	return api.groups.Get(ctx, api.env, id)
}

// GetProductGroupByTag fetches a group by its unique tag.
func (api *DataAPI) GetProductGroupByTag(ctx context.Context, tag string) domain.Result[domain.ProductGroup] {
	return api.groups.GetByUnique(ctx, api.env, "tag", tag)
}

// ListProductGroups fetches all groups.
func (api *DataAPI) ListProductGroups(ctx context.Context) domain.Result[[]domain.ProductGroup] {
	return api.groups.List(ctx, api.env)
}

// UpdateProductGroup replaces the group at id with a copy carrying the field
// overrides.
func (api *DataAPI) UpdateProductGroup(ctx context.Context, id int64, overrides map[string]any) domain.Result[domain.ProductGroup] {
	return updateWithOverrides(ctx, api.env, api.groups, ProductGroupSpec, id, overrides)
}

// ---- Systems --------------------------------------------------------------

// CreateSystem inserts a system after verifying every referenced product id
// resolves to an existing product. The first missing id aborts with
// missing_product and nothing is persisted. The existence checks and the
// system write are separate cycles; a concurrent product deletion between
// them is an accepted single-writer limitation.
func (api *DataAPI) CreateSystem(ctx context.Context, system domain.System) domain.Result[domain.System] {
	if code := api.checkProductRefs(ctx, system.ProductIDs); code != "" {
		return domain.Fail[domain.System](code)
	}
	return api.systems.Create(ctx, api.env, system)
}

// GetSystem fetches a system by id.
func (api *DataAPI) GetSystem(ctx context.Context, id int64) domain.Result[domain.System] {
	return api.systems.Get(ctx, api.env, id)
}

// GetSystemByName fetches a system by name, case-insensitively.
func (api *DataAPI) GetSystemByName(ctx context.Context, name string) domain.Result[domain.System] {
	return api.systems.GetBy(ctx, api.env, "name", name, true)
}

// ListSystems fetches all systems.
func (api *DataAPI) ListSystems(ctx context.Context) domain.Result[[]domain.System] {
	return api.systems.List(ctx, api.env)
}

// UpdateSystem replaces the system at id with a copy carrying the field
// overrides, re-verifying every product reference of the replacement.
func (api *DataAPI) UpdateSystem(ctx context.Context, id int64, overrides map[string]any) domain.Result[domain.System] {
	current := api.systems.Get(ctx, api.env, id)
	if current.Failed() {
		return current
	}
	updated, err := core.ApplyOverrides(SystemSpec, current.Value, overrides)
	if err != nil {
		return domain.FailErr[domain.System](err)
	}
	if code := api.checkProductRefs(ctx, updated.ProductIDs); code != "" {
		return domain.Fail[domain.System](code)
	}
	return api.systems.Update(ctx, api.env, updated)
}

// DeleteSystem removes a system.
func (api *DataAPI) DeleteSystem(ctx context.Context, id int64) domain.Result[int64] {
	return api.systems.Delete(ctx, api.env, id)
}

// checkProductRefs verifies each referenced product id, returning a failure
// code on the first miss.
func (api *DataAPI) checkProductRefs(ctx context.Context, productIDs []int64) string {
	for _, pid := range productIDs {
		exists := api.products.ExistsBy(ctx, api.env, "id", pid, false)
		if exists.Failed() {
			return exists.Err
		}
		if !exists.Value {
			return string(domain.ErrMissingProduct)
		}
	}
	return ""
}

// updateWithOverrides is the generic fetch → override → update pattern shared
// by the entity update operations.
func updateWithOverrides[T any](ctx context.Context, env *domain.Env, flow core.Flow[T], spec domain.Spec[T], id int64, overrides map[string]any) domain.Result[T] {
	current := flow.Get(ctx, env, id)
	if current.Failed() {
		return current
	}
	updated, err := core.ApplyOverrides(spec, current.Value, overrides)
	if err != nil {
		return domain.FailErr[T](err)
	}
	return flow.Update(ctx, env, updated)
}
