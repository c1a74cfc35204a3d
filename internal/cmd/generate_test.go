package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/manifest"
)

func TestGenerateTargetSelection(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "packages.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte("packages:\n  - address: package_sim1fromfile\n"), 0o644))

	t.Run("explicit addresses", func(t *testing.T) {
		g := &Generate{Addresses: []string{"package_sim1aaaa", "package_sim1bbbb"}}
		m, err := g.targets()
		require.NoError(t, err)
		require.Len(t, m.Packages, 2)
		assert.Equal(t, "package_sim1aaaa", m.Packages[0].Address)
		assert.Equal(t, "package_sim1bbbb", m.Packages[1].Address)
	})

	t.Run("manifest file", func(t *testing.T) {
		g := &Generate{Manifest: manifestPath}
		m, err := g.targets()
		require.NoError(t, err)
		require.Len(t, m.Packages, 1)
		assert.Equal(t, "package_sim1fromfile", m.Packages[0].Address)
	})

	t.Run("addresses and manifest conflict", func(t *testing.T) {
		g := &Generate{Addresses: []string{"package_sim1aaaa"}, Manifest: manifestPath}
		_, err := g.targets()
		assert.ErrorContains(t, err, "not both")
	})

	t.Run("default native set", func(t *testing.T) {
		g := &Generate{}
		m, err := g.targets()
		require.NoError(t, err)
		assert.Equal(t, manifest.Default(), m)
	})
}
