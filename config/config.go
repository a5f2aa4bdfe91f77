package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"paywow/crypto"
)

// Config is the process-wide settlement service configuration, decoded once
// at startup. There is no implicit global: the loaded value is passed to the
// node and server explicitly, and loading fails closed when a required field
// is missing instead of surfacing the gap on first use.
type Config struct {
	ListenAddress  string `toml:"ListenAddress"`
	DataDir        string `toml:"DataDir"`
	NetworkName    string `toml:"NetworkName"`
	Environment    string `toml:"Environment"`
	Owner          string `toml:"Owner"`
	PaymentAsset   string `toml:"PaymentAsset"`
	PlatformFeeBps uint32 `toml:"PlatformFeeBps"`
	DisputeWindow  uint64 `toml:"DisputeWindow"`
	EventCap       int    `toml:"EventCap"`

	Genesis []GenesisAlloc `toml:"Genesis"`
}

// GenesisAlloc seeds an account balance on first start.
type GenesisAlloc struct {
	Address string `toml:"Address"`
	Amount  string `toml:"Amount"`
}

// Load loads and validates the configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown field %s in %s", undecoded[0].String(), path)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = ":8645"
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = "paywow-local"
	}
	if strings.TrimSpace(c.PaymentAsset) == "" {
		c.PaymentAsset = "WOW"
	}
}

// Validate fails closed on missing or out-of-range required fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("config: Owner address required")
	}
	if _, err := crypto.DecodeAddress(c.Owner); err != nil {
		return fmt.Errorf("config: invalid Owner address: %w", err)
	}
	if c.PlatformFeeBps > 10_000 {
		return fmt.Errorf("config: PlatformFeeBps out of range: %d", c.PlatformFeeBps)
	}
	if c.DisputeWindow == 0 {
		return fmt.Errorf("config: DisputeWindow must be positive")
	}
	for i, alloc := range c.Genesis {
		if _, err := crypto.DecodeAddress(alloc.Address); err != nil {
			return fmt.Errorf("config: invalid Genesis[%d] address: %w", i, err)
		}
		if strings.TrimSpace(alloc.Amount) == "" {
			return fmt.Errorf("config: Genesis[%d] amount required", i)
		}
	}
	return nil
}

// OwnerAddress decodes the validated owner address.
func (c *Config) OwnerAddress() ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(c.Owner)
	if err != nil {
		return out, err
	}
	copy(out[:], addr.Bytes())
	return out, nil
}

// RPCToken reads the bearer token guarding mutating RPC methods.
func RPCToken() string {
	return strings.TrimSpace(os.Getenv("PAYWOW_RPC_TOKEN"))
}
