package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validOwner = "pay1qyqszqgpqyqszqgpqyqszqgpqyqszqgp9ztdnl"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
Owner = "`+validOwner+`"
PlatformFeeBps = 100
DisputeWindow = 1000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8645", cfg.ListenAddress)
	require.Equal(t, "paywow-local", cfg.NetworkName)
	require.Equal(t, "WOW", cfg.PaymentAsset)
	require.Equal(t, uint32(100), cfg.PlatformFeeBps)
}

func TestLoadRequiresOwner(t *testing.T) {
	path := writeConfig(t, `
PlatformFeeBps = 100
DisputeWindow = 1000
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Owner")
}

func TestLoadRejectsInvalidOwner(t *testing.T) {
	path := writeConfig(t, `
Owner = "nope"
PlatformFeeBps = 100
DisputeWindow = 1000
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsFeeBpsOutOfRange(t *testing.T) {
	path := writeConfig(t, `
Owner = "`+validOwner+`"
PlatformFeeBps = 10001
DisputeWindow = 1000
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "PlatformFeeBps")
}

func TestLoadRequiresDisputeWindow(t *testing.T) {
	path := writeConfig(t, `
Owner = "`+validOwner+`"
PlatformFeeBps = 100
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DisputeWindow")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
Owner = "`+validOwner+`"
PlatformFeeBps = 100
DisputeWindow = 1000
Surprise = true
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestLoadValidatesGenesisAllocations(t *testing.T) {
	path := writeConfig(t, `
Owner = "`+validOwner+`"
PlatformFeeBps = 100
DisputeWindow = 1000

[[Genesis]]
Address = "not-an-address"
Amount = "1000"
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Genesis")
}

func TestOwnerAddressDecodes(t *testing.T) {
	path := writeConfig(t, `
Owner = "`+validOwner+`"
PlatformFeeBps = 100
DisputeWindow = 1000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	addr, err := cfg.OwnerAddress()
	require.NoError(t, err)
	require.NotEqual(t, [20]byte{}, addr)
}
