// Package cmd holds the kong command implementations of the bindgen CLI.
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/gen"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/manifest"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/simclient"
)

// SimulatorFlags are the connection flags shared by every command that talks
// to the ledger simulator.
type SimulatorFlags struct {
	Simulator string        `help:"Simulator management address (host:port)" default:"localhost:3850" env:"BINDGEN_SIMULATOR"`
	Password  string        `help:"Simulator password, when the simulator requires authentication" env:"BINDGEN_PASSWORD"`
	Timeout   time.Duration `help:"Per-query read timeout; a timeout is fatal, never retried" default:"10s" env:"BINDGEN_TIMEOUT"`
}

func (f SimulatorFlags) client() *simclient.Client {
	cfg := simclient.Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  f.Timeout,
		WriteTimeout: f.Timeout,
		Password:     f.Password,
	}
	return simclient.NewWithConfig(f.Simulator, &cfg)
}

// Generate resolves the blueprint schemas of the requested packages and
// regenerates the stub file. With no addresses and no manifest it regenerates
// the built-in native set.
type Generate struct {
	Addresses []string `arg:"" optional:"" name:"address" help:"Package addresses to generate, in output order (defaults to the built-in native set)"`
	Manifest  string   `help:"YAML manifest listing package addresses and notes" env:"BINDGEN_MANIFEST"`
	Output    string   `help:"Generated file path" default:"native/bindings.go" env:"BINDGEN_OUTPUT"`
	Package   string   `help:"Package clause of the generated file" default:"native" env:"BINDGEN_PACKAGE"`
	SkipReset bool     `help:"Skip the ledger reset before resolving (only safe when the simulator was already reset)"`

	SimulatorFlags `embed:""`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger) error {
	m, err := g.targets()
	if err != nil {
		return err
	}

	logger.Info("starting binding generation", "packages", len(m.Packages), "output", g.Output, "simulator", g.Simulator)

	generator := gen.New(g.client(), gen.Options{
		OutputPath:  g.Output,
		PackageName: g.Package,
		SkipReset:   g.SkipReset,
	}, logger)
	return generator.Run(context.Background(), m.Targets())
}

func (g *Generate) targets() (*manifest.Manifest, error) {
	switch {
	case len(g.Addresses) > 0 && g.Manifest != "":
		return nil, errors.New("pass either addresses or --manifest, not both")
	case g.Manifest != "":
		return manifest.Load(g.Manifest)
	case len(g.Addresses) > 0:
		m := &manifest.Manifest{}
		for _, a := range g.Addresses {
			m.Packages = append(m.Packages, manifest.Entry{Address: a})
		}
		return m, nil
	default:
		return manifest.Default(), nil
	}
}
