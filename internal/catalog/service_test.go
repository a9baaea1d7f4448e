package catalog

import (
	"context"
	"testing"

	"depotcore/internal/core"
	"depotcore/pkg/domain"
)

func newTestAPI(t *testing.T) *DataAPI {
	t.Helper()
	env := core.NewEnv(core.StorageMemory, "", "")
	api := New(env)
	t.Cleanup(func() { _ = api.Close() })
	return api
}

func strptr(s string) *string { return &s }

func seedProduct(t *testing.T, api *DataAPI, p domain.Product) {
	t.Helper()
	if r := api.CreateProduct(context.Background(), p); r.Failed() {
		t.Fatalf("seed product %d: %s", p.ID, r.Err)
	}
}

func TestUserLifecycle(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	if r := api.CreateUser(ctx, domain.User{ID: 1, Name: "Alice", Spend: 10}); r.Failed() {
		t.Fatalf("create: %s", r.Err)
	}
	byName := api.GetUserByName(ctx, "ALICE")
	if byName.Failed() || byName.Value.ID != 1 {
		t.Fatalf("get by name = (%+v, %q)", byName.Value, byName.Err)
	}

	updated := api.UpdateUser(ctx, 1, map[string]any{"spend": 99.5, "email": "alice@example.com"})
	if updated.Failed() {
		t.Fatalf("update: %s", updated.Err)
	}
	if updated.Value.Spend != 99.5 {
		t.Fatalf("expected spend 99.5, got %v", updated.Value.Spend)
	}
	if updated.Value.Email == nil || *updated.Value.Email != "alice@example.com" {
		t.Fatalf("expected email override, got %v", updated.Value.Email)
	}

	if r := api.DeleteUser(ctx, 1); r.Failed() {
		t.Fatalf("delete: %s", r.Err)
	}
	if r := api.GetUser(ctx, 1); r.Err != "not_found" {
		t.Fatalf("expected not_found, got %q", r.Err)
	}
}

func TestUpdateMissingUserFailsThrough(t *testing.T) {
	api := newTestAPI(t)
	if r := api.UpdateUser(context.Background(), 404, map[string]any{"spend": 1}); r.Err != "not_found" {
		t.Fatalf("expected not_found, got %q", r.Err)
	}
}

func TestProductSKUIsCaseSensitive(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	seedProduct(t, api, domain.Product{ID: 1, SKU: "ABC", Price: 1})
	seedProduct(t, api, domain.Product{ID: 2, SKU: "abc", Price: 2})

	if r := api.CreateProduct(ctx, domain.Product{ID: 3, SKU: "ABC"}); r.Err != "unique_violation:sku" {
		t.Fatalf("expected unique_violation:sku, got %q", r.Err)
	}
	if r := api.GetProductBySKU(ctx, "abc"); r.Failed() || r.Value.ID != 2 {
		t.Fatalf("sku lookup = (%+v, %q)", r.Value, r.Err)
	}
}

func TestProductCurrencyDefault(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	seedProduct(t, api, domain.Product{ID: 1, SKU: "ABC", Price: 5})
	got := api.GetProduct(ctx, 1)
	if got.Failed() {
		t.Fatalf("get: %s", got.Err)
	}
	if got.Value.Currency != domain.DefaultCurrency {
		t.Fatalf("expected default currency, got %q", got.Value.Currency)
	}
}

func TestCreateSystemVerifiesProductRefs(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	seedProduct(t, api, domain.Product{ID: 1, SKU: "A"})
	seedProduct(t, api, domain.Product{ID: 2, SKU: "B"})

	ok := api.CreateSystem(ctx, domain.System{ID: 10, Name: "rig", ProductIDs: []int64{1, 2}})
	if ok.Failed() {
		t.Fatalf("create system: %s", ok.Err)
	}

	missing := api.CreateSystem(ctx, domain.System{ID: 11, Name: "broken", ProductIDs: []int64{1, 99}})
	if missing.Err != "missing_product" {
		t.Fatalf("expected missing_product, got %q", missing.Err)
	}
	// The failed create must not leave a system behind.
	if r := api.GetSystem(ctx, 11); r.Err != "not_found" {
		t.Fatalf("expected not_found, got %q", r.Err)
	}
}

func TestCreateSystemAcceptsLargeProductIDs(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	const bigID = int64(1_000_000)
	seedProduct(t, api, domain.Product{ID: bigID, SKU: "BIG"})

	// Ids above a million persist as float64s whose default formatting is
	// exponent notation; the existence check must still find them.
	ok := api.CreateSystem(ctx, domain.System{ID: 10, Name: "rig", ProductIDs: []int64{bigID}})
	if ok.Failed() {
		t.Fatalf("create system referencing product %d: %s", bigID, ok.Err)
	}
	products := api.ProductsForSystem(ctx, "rig")
	if products.Failed() || len(products.Value) != 1 || products.Value[0].ID != bigID {
		t.Fatalf("resolve products = (%+v, %q)", products.Value, products.Err)
	}
}

func TestUpdateSystemReverifiesProductRefs(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	seedProduct(t, api, domain.Product{ID: 1, SKU: "A"})
	if r := api.CreateSystem(ctx, domain.System{ID: 10, Name: "rig", ProductIDs: []int64{1}}); r.Failed() {
		t.Fatalf("create system: %s", r.Err)
	}

	bad := api.UpdateSystem(ctx, 10, map[string]any{"product_ids": []any{float64(1), float64(77)}})
	if bad.Err != "missing_product" {
		t.Fatalf("expected missing_product, got %q", bad.Err)
	}
	current := api.GetSystem(ctx, 10)
	if current.Failed() {
		t.Fatalf("get: %s", current.Err)
	}
	if len(current.Value.ProductIDs) != 1 {
		t.Fatalf("failed update persisted: %+v", current.Value)
	}

	good := api.UpdateSystem(ctx, 10, map[string]any{"name": "renamed"})
	if good.Failed() {
		t.Fatalf("update: %s", good.Err)
	}
	if good.Value.Name != "renamed" {
		t.Fatalf("expected rename, got %+v", good.Value)
	}
}

func TestSystemNameIsUniqueNoCase(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	if r := api.CreateSystem(ctx, domain.System{ID: 1, Name: "Rig"}); r.Failed() {
		t.Fatalf("create: %s", r.Err)
	}
	if r := api.CreateSystem(ctx, domain.System{ID: 2, Name: "RIG"}); r.Err != "unique_violation:name" {
		t.Fatalf("expected unique_violation:name, got %q", r.Err)
	}
	byName := api.GetSystemByName(ctx, "rig")
	if byName.Failed() || byName.Value.ID != 1 {
		t.Fatalf("get by name = (%+v, %q)", byName.Value, byName.Err)
	}
}

func TestProductGroupTagLookup(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	if r := api.CreateProductGroup(ctx, domain.ProductGroup{ID: 1, Tag: "group-a", Path: "/srv/a"}); r.Failed() {
		t.Fatalf("create group: %s", r.Err)
	}
	if r := api.CreateProductGroup(ctx, domain.ProductGroup{ID: 2, Tag: "group-a"}); r.Err != "unique_violation:tag" {
		t.Fatalf("expected unique_violation:tag, got %q", r.Err)
	}
	byTag := api.GetProductGroupByTag(ctx, "group-a")
	if byTag.Failed() || byTag.Value.Path != "/srv/a" {
		t.Fatalf("get by tag = (%+v, %q)", byTag.Value, byTag.Err)
	}
}
