package gen

import (
	"context"
	"log/slog"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

// SchemaSource is the ledger collaborator the resolver queries. Satisfied by
// *simclient.Client; tests substitute a fake.
type SchemaSource interface {
	ResetLedger(ctx context.Context) (*types.ResetResponse, error)
	GetPackageSchema(ctx context.Context, address types.PackageAddress) (*schema.Package, error)
}

// resolver turns package addresses into validated blueprint schemas, one
// address at a time, in the operator-supplied order.
type resolver struct {
	source SchemaSource
	logger *slog.Logger
}

// reset puts the ledger into a clean genesis state so that schema reads are
// reproducible across the batch and across runs.
func (r *resolver) reset(ctx context.Context) error {
	resp, err := r.source.ResetLedger(ctx)
	if err != nil {
		return &ResolutionError{Address: "", Err: err}
	}
	r.logger.Info("ledger reset", "epoch", resp.Epoch)
	return nil
}

// resolve fetches the blueprint schemas for one address. Every failure mode
// (unknown address, connection failure, malformed payload) surfaces as a
// ResolutionError; nothing is retried.
func (r *resolver) resolve(ctx context.Context, address types.PackageAddress) ([]schema.Blueprint, error) {
	if err := address.Validate(); err != nil {
		return nil, &ResolutionError{Address: address.String(), Err: err}
	}
	pkg, err := r.source.GetPackageSchema(ctx, address)
	if err != nil {
		return nil, &ResolutionError{Address: address.String(), Err: err}
	}
	r.logger.Debug("resolved package", "address", address, "blueprints", len(pkg.Blueprints))
	return pkg.Blueprints, nil
}
