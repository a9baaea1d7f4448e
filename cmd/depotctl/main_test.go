package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLINoCommand(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 2 {
		t.Fatalf("expected usage exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "usage:") {
		t.Fatalf("expected usage text, got: %s", stderr)
	}
}

func TestCLIUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "-driver", "memory", "frobnicate")
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "unknown command") {
		t.Fatalf("expected unknown command message, got: %s", stderr)
	}
}

func TestCLILoadAndQuery(t *testing.T) {
	dir := t.TempDir()
	products := filepath.Join(dir, "products.yml")
	if err := os.WriteFile(products, []byte(`
- id: 1
  sku: widget
  price: 10
`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	data := filepath.Join(dir, "state.json")

	code, stdout, stderr := runCLI(t, "-driver", "file", "-data", data, "load-products", products)
	if code != 0 {
		t.Fatalf("load-products failed (%d): %s", code, stderr)
	}
	if !strings.Contains(stdout, "widget") {
		t.Fatalf("expected loaded product echoed, got: %s", stdout)
	}

	code, stdout, stderr = runCLI(t, "-driver", "file", "-data", data, "get-product", "widget")
	if code != 0 {
		t.Fatalf("get-product failed (%d): %s", code, stderr)
	}
	if !strings.Contains(stdout, `"sku": "widget"`) {
		t.Fatalf("expected product JSON, got: %s", stdout)
	}
}

func TestCLIGetMissingProduct(t *testing.T) {
	data := filepath.Join(t.TempDir(), "state.json")
	code, _, stderr := runCLI(t, "-driver", "file", "-data", data, "get-product", "nope")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "not_found") {
		t.Fatalf("expected not_found on stderr, got: %s", stderr)
	}
}
