package loader

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"depotcore/pkg/domain"
)

// bundleManifest is the file inside every product bundle that carries the
// product's definition.
const bundleManifest = "product.yml"

// versionPattern extracts the version embedded in a bundle filename, e.g.
// widget-1.2.3.tar.gz.
var versionPattern = regexp.MustCompile(`-([0-9.]+)\.tar\.gz$`)

// BundleVersion parses the version out of a bundle filename. Filenames
// without an embedded version yield the empty string.
func BundleVersion(name string) string {
	if m := versionPattern.FindStringSubmatch(filepath.Base(name)); m != nil {
		return m[1]
	}
	return ""
}

// ReadBundle extracts the product definition from a tar.gz bundle. The
// version always comes from the archive filename, overriding anything the
// manifest declares.
func ReadBundle(path string) (domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Product{}, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return domain.Product{}, fmt.Errorf("read bundle %s: %w", path, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return domain.Product{}, fmt.Errorf("bundle %s: missing %s", path, bundleManifest)
		}
		if err != nil {
			return domain.Product{}, fmt.Errorf("read bundle %s: %w", path, err)
		}
		if filepath.Base(hdr.Name) != bundleManifest || hdr.Typeflag == tar.TypeDir {
			continue
		}
		raw, err := io.ReadAll(tr)
		if err != nil {
			return domain.Product{}, fmt.Errorf("read bundle %s: %w", path, err)
		}
		var product domain.Product
		if err := yaml.Unmarshal(raw, &product); err != nil {
			return domain.Product{}, fmt.Errorf("parse %s in %s: %w", bundleManifest, path, err)
		}
		version := BundleVersion(path)
		product.Version = &version
		if product.Currency == "" {
			product.Currency = domain.DefaultCurrency
		}
		return product, nil
	}
}
