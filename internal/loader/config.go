package loader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"depotcore/internal/catalog"
	"depotcore/pkg/domain"
)

// configFile is the on-disk shape of a mutable-config document: standalone
// product groups plus per-entity field overrides keyed by id.
type configFile struct {
	ProductGroups []domain.ProductGroup `yaml:"product_groups"`
	Products      []map[string]any      `yaml:"products"`
	Users         []map[string]any      `yaml:"users"`
	Systems       []map[string]any      `yaml:"systems"`
}

// ConfigReport accumulates one result per applied configuration entry,
// grouped by section.
type ConfigReport struct {
	ProductGroups []domain.Result[domain.ProductGroup]
	Products      []domain.Result[domain.Product]
	Users         []domain.Result[domain.User]
	Systems       []domain.Result[domain.System]
}

// LoadConfig reads a configuration YAML and applies it: product groups are
// created, everything else updates an existing record by id with the
// remaining fields as overrides. Failures accumulate per entry.
func LoadConfig(ctx context.Context, path string, api *catalog.DataAPI) (ConfigReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ConfigReport{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg configFile
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ConfigReport{}, fmt.Errorf("parse config file: %w", err)
	}

	var report ConfigReport
	for _, group := range cfg.ProductGroups {
		report.ProductGroups = append(report.ProductGroups, api.CreateProductGroup(ctx, group))
	}
	for _, item := range cfg.Products {
		id, overrides := splitID(item)
		report.Products = append(report.Products, api.UpdateProduct(ctx, id, overrides))
	}
	for _, item := range cfg.Users {
		id, overrides := splitID(item)
		report.Users = append(report.Users, api.UpdateUser(ctx, id, overrides))
	}
	for _, item := range cfg.Systems {
		id, overrides := splitID(item)
		report.Systems = append(report.Systems, api.UpdateSystem(ctx, id, overrides))
	}
	return report, nil
}

// splitID separates a config entry into its target id and the field
// overrides to apply.
func splitID(item map[string]any) (int64, map[string]any) {
	overrides := make(map[string]any, len(item))
	var id int64
	for k, v := range item {
		if k == "id" {
			if n, ok := domain.RecordID(map[string]any{"id": v}); ok {
				id = n
			}
			continue
		}
		overrides[k] = v
	}
	return id, overrides
}
