// Package gen implements the binding generator core: schema resolution,
// type translation through a shared symbol table, stub emission, aggregation
// into one generated source file, and the formatting post-passes.
package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

// Target is one generation target: a package address plus an optional
// human-readable note. The note is cosmetic and never affects the output.
type Target struct {
	Address types.PackageAddress
	Note    string
}

// Options configure one generation run.
type Options struct {
	// OutputPath is the generated source file. It is replaced atomically and
	// only after the whole batch succeeded.
	OutputPath string
	// PackageName is the Go package clause of the generated file.
	PackageName string
	// SkipReset skips the ledger reset before the batch. Only safe when the
	// caller already reset the simulator.
	SkipReset bool
}

// Generator drives one generation run. Single-threaded by design: the shared
// symbol table requires translations to happen in address order so that
// cross-package deduplication stays deterministic.
type Generator struct {
	source SchemaSource
	opts   Options
	logger *slog.Logger
}

func New(source SchemaSource, opts Options, logger *slog.Logger) *Generator {
	if opts.PackageName == "" {
		opts.PackageName = "native"
	}
	return &Generator{source: source, opts: opts, logger: logger}
}

// Run executes the full batch: reset, resolve each address in order,
// translate and emit each blueprint, aggregate, write, post-process.
//
// A resolution failure or a definition conflict aborts before the output file
// is touched. A blueprint whose signatures reference an unsupported type is
// skipped whole (zero callables); the run still writes the file and returns
// the skip errors so the process exits non-zero.
func (g *Generator) Run(ctx context.Context, targets []Target) error {
	text, skipped, err := g.Build(ctx, targets)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(g.opts.OutputPath, []byte(text)); err != nil {
		return err
	}
	if err := postProcess(g.opts.OutputPath); err != nil {
		return err
	}
	g.logger.Info("generated bindings", "file", g.opts.OutputPath, "packages", len(targets), "skipped_blueprints", len(skipped))
	return errors.Join(skipped...)
}

// Build produces the pre-formatting file text without touching the
// filesystem. Returned skip errors are the blueprints dropped whole for
// unsupported types; any other error aborts the batch.
func (g *Generator) Build(ctx context.Context, targets []Target) (string, []error, error) {
	if err := validateTargets(targets); err != nil {
		return "", nil, err
	}

	r := &resolver{source: g.source, logger: g.logger}
	if !g.opts.SkipReset {
		if err := r.reset(ctx); err != nil {
			return "", nil, err
		}
	}

	table := NewSymbolTable()
	em := newEmitter()
	var fragments []string
	var skipped []error

	for _, t := range targets {
		blueprints, err := r.resolve(ctx, t.Address)
		if err != nil {
			return "", nil, err
		}
		for i := range blueprints {
			bp := &blueprints[i]
			frag, err := emitBlueprint(table, em, t.Address, bp)
			if err != nil {
				var unsupported *UnsupportedTypeError
				if errors.As(err, &unsupported) {
					g.logger.Error("skipping blueprint", "package", t.Address, "blueprint", bp.Name, "error", err)
					skipped = append(skipped, err)
					continue
				}
				return "", nil, err
			}
			fragments = append(fragments, frag)
		}
	}

	return aggregate(preamble(g.opts.PackageName), fragments), skipped, nil
}

func validateTargets(targets []Target) error {
	seen := make(map[types.PackageAddress]bool, len(targets))
	for _, t := range targets {
		if err := t.Address.Validate(); err != nil {
			return err
		}
		if seen[t.Address] {
			return fmt.Errorf("duplicate target address %s", t.Address)
		}
		seen[t.Address] = true
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so the previous output
// stays intact if anything fails mid-write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".bindgen-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
