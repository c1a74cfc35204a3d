package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/gen"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

// Inspect resolves one package address and prints its decoded blueprint
// schemas as JSON. Useful for debugging a schema mismatch before generating.
type Inspect struct {
	Address string `arg:"" help:"Package address to inspect"`

	SimulatorFlags `embed:""`
}

// Run is called by Kong when the inspect command is executed.
func (i *Inspect) Run(logger *slog.Logger) error {
	address := types.PackageAddress(i.Address)
	if err := address.Validate(); err != nil {
		return &gen.ResolutionError{Address: i.Address, Err: err}
	}

	pkg, err := i.client().GetPackageSchema(context.Background(), address)
	if err != nil {
		return &gen.ResolutionError{Address: i.Address, Err: err}
	}
	logger.Debug("resolved package", "address", address, "blueprints", len(pkg.Blueprints))

	out, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
