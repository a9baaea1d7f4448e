// Command depotctl loads entity definitions into a depotcore store and runs
// simple queries against it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"depotcore/internal/catalog"
	"depotcore/internal/core"
	"depotcore/internal/loader"
	"depotcore/pkg/domain"
)

var exitFunc = os.Exit

// slogLogger adapts a slog.Logger to the core logging interface.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func usage(stderr io.Writer) {
	fmt.Fprintln(stderr, `usage: depotctl [flags] <command> [args]

commands:
  load-users <file>      create users from a YAML sequence
  load-products <file>   create products from a YAML sequence
  load-system <file>     create a system and its bundled products
  apply-config <file>    apply a mutable-config YAML
  list-systems           print all system names
  list-versions          print all distinct product versions
  products <system>      print the products of a system
  get-product <sku>      print one product by sku

flags:
  -driver memory|file|sqlite   storage driver (default from env)
  -data <path>                 data file path
  -lock <path>                 lock file path
  -v                           debug logging`)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("depotctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		driver  string
		data    string
		lock    string
		verbose bool
	)
	fs.StringVar(&driver, "driver", "", "storage driver (memory, file, sqlite)")
	fs.StringVar(&data, "data", "", "data file path")
	fs.StringVar(&lock, "lock", "", "lock file path")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		usage(stderr)
		return 2
	}

	env := core.EnvFromOS()
	if driver != "" {
		env.Driver = driver
	}
	if data != "" {
		env.DataPath = data
	}
	if lock != "" {
		env.LockPath = lock
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slogLogger{l: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))}

	api := catalog.New(env, core.WithLogger(logger))
	defer func() {
		if err := api.Close(); err != nil {
			fmt.Fprintf(stderr, "close: %v\n", err)
		}
	}()

	ctx := context.Background()
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "load-users":
		return runLoadUsers(ctx, api, rest, stdout, stderr)
	case "load-products":
		return runLoadProducts(ctx, api, rest, stdout, stderr)
	case "load-system":
		return runLoadSystem(ctx, api, rest, stdout, stderr)
	case "apply-config":
		return runApplyConfig(ctx, api, rest, stdout, stderr)
	case "list-systems":
		return printResult(api.ListSystemNames(ctx), stdout, stderr)
	case "list-versions":
		return printResult(api.ListProductVersions(ctx), stdout, stderr)
	case "products":
		if len(rest) != 1 {
			usage(stderr)
			return 2
		}
		return printResult(api.ProductsForSystem(ctx, rest[0]), stdout, stderr)
	case "get-product":
		if len(rest) != 1 {
			usage(stderr)
			return 2
		}
		return printResult(api.GetProductBySKU(ctx, rest[0]), stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
}

func runLoadUsers(ctx context.Context, api *catalog.DataAPI, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		usage(stderr)
		return 2
	}
	results, err := loader.LoadUsers(ctx, args[0], api)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return reportBatch(results, stdout, stderr)
}

func runLoadProducts(ctx context.Context, api *catalog.DataAPI, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		usage(stderr)
		return 2
	}
	results, err := loader.LoadProducts(ctx, args[0], api)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return reportBatch(results, stdout, stderr)
}

func runLoadSystem(ctx context.Context, api *catalog.DataAPI, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		usage(stderr)
		return 2
	}
	load, err := loader.LoadSystem(ctx, args[0], api)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	code := reportBatch(load.Products, stdout, stderr)
	if load.System.Failed() {
		fmt.Fprintf(stderr, "system: %s\n", load.System.Err)
		return 1
	}
	fmt.Fprintf(stdout, "system %q created\n", load.System.Value.Name)
	return code
}

func runApplyConfig(ctx context.Context, api *catalog.DataAPI, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		usage(stderr)
		return 2
	}
	report, err := loader.LoadConfig(ctx, args[0], api)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	code := reportBatch(report.ProductGroups, stdout, stderr)
	if c := reportBatch(report.Products, stdout, stderr); c != 0 {
		code = c
	}
	if c := reportBatch(report.Users, stdout, stderr); c != 0 {
		code = c
	}
	if c := reportBatch(report.Systems, stdout, stderr); c != 0 {
		code = c
	}
	return code
}

// reportBatch prints each result, failing the run if any entry failed.
func reportBatch[T any](results []domain.Result[T], stdout, stderr io.Writer) int {
	code := 0
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintln(stderr, r.Err)
			code = 1
			continue
		}
		raw, err := json.Marshal(r.Value)
		if err != nil {
			fmt.Fprintln(stderr, err)
			code = 1
			continue
		}
		fmt.Fprintf(stdout, "ok %s\n", raw)
	}
	return code
}

// printResult renders a single query result as JSON.
func printResult[T any](r domain.Result[T], stdout, stderr io.Writer) int {
	if r.Failed() {
		fmt.Fprintln(stderr, r.Err)
		return 1
	}
	raw, err := json.MarshalIndent(r.Value, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, string(raw))
	return 0
}
