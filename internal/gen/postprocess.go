package gen

import (
	"fmt"
	"go/format"
	"os"

	"golang.org/x/tools/imports"
)

// postProcess normalizes the written file: a gofmt pass first, then a
// goimports cleanup pass that prunes unused imports (the fixed preamble
// imports more than an empty batch uses). Both operate on the file path; the
// emitted text must already be syntactically valid Go.
func postProcess(path string) error {
	if err := formatFile(path); err != nil {
		return err
	}
	return cleanupFile(path)
}

func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("format %s: %w", path, err)
	}
	formatted, err := format.Source(src)
	if err != nil {
		return fmt.Errorf("format %s: %w", path, err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

func cleanupFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cleanup %s: %w", path, err)
	}
	cleaned, err := imports.Process(path, src, nil)
	if err != nil {
		return fmt.Errorf("cleanup %s: %w", path, err)
	}
	return os.WriteFile(path, cleaned, 0o644)
}
