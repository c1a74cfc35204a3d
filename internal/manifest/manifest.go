// Package manifest loads the operator-supplied list of generation targets:
// an ordered list of package addresses, each optionally annotated with a
// human-readable note. Order is significant; notes are cosmetic.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/gen"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/schema"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

type Entry struct {
	Address string `yaml:"address"`
	Note    string `yaml:"note,omitempty"`
}

type Manifest struct {
	Packages []Entry `yaml:"packages"`
}

// Load reads a YAML manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for i, e := range m.Packages {
		if e.Address == "" {
			return nil, fmt.Errorf("manifest entry %d: empty address", i)
		}
	}
	return &m, nil
}

// Default returns the built-in native package set, in regeneration order.
func Default() *Manifest {
	m := &Manifest{}
	for _, p := range schema.NativePackages {
		m.Packages = append(m.Packages, Entry{Address: p.Address, Note: p.Note})
	}
	return m
}

// Targets converts the manifest into generation targets, preserving order.
func (m *Manifest) Targets() []gen.Target {
	targets := make([]gen.Target, len(m.Packages))
	for i, e := range m.Packages {
		targets[i] = gen.Target{Address: types.PackageAddress(e.Address), Note: e.Note}
	}
	return targets
}
