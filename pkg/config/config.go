package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures module-level configuration knobs. Feature packages (relay,
// journal, cipher) pull from these nested structs.
type Config struct {
	Relay   RelayConfig   `mapstructure:"relay" json:"relay"`
	Journal JournalConfig `mapstructure:"journal" json:"journal"`
	Cipher  CipherConfig  `mapstructure:"cipher" json:"cipher"`
}

// RelayConfig tunes the propagation protocol.
type RelayConfig struct {
	// DedupeTTL bounds the lifetime of loop-suppression tokens. It must
	// outlive propagation across the deepest expected tree.
	DedupeTTL time.Duration `mapstructure:"dedupe_ttl" json:"dedupe_ttl"`
	// Debug enables per-hop diagnostics for every broadcast sent from this
	// realm; individual calls can enable it per broadcast instead.
	Debug bool `mapstructure:"debug" json:"debug"`
	// DeferRelays enqueues each relay hop on the configured queue instead of
	// sending inline.
	DeferRelays bool `mapstructure:"defer_relays" json:"defer_relays"`
}

// JournalConfig enables the diagnostics journal.
type JournalConfig struct {
	Enabled   bool          `mapstructure:"enabled" json:"enabled"`
	Retention time.Duration `mapstructure:"retention" json:"retention"`
}

// CipherConfig holds the optional pre-shared key for sealed payloads.
type CipherConfig struct {
	// SealKey is the base64 encoding of a 32-byte XChaCha20-Poly1305 key.
	// Empty disables sealing; the BE obfuscation codec needs no key here
	// because it derives its key from the envelope origin.
	SealKey string `mapstructure:"seal_key" json:"seal_key"`
}

// SealKeyBytes decodes the pre-shared key, or returns nil when unset.
func (c CipherConfig) SealKeyBytes() ([]byte, error) {
	if c.SealKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.SealKey)
	if err != nil {
		return nil, fmt.Errorf("cipher.seal_key: %w", err)
	}
	return key, nil
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Relay: RelayConfig{
			DedupeTTL: 30 * time.Second,
		},
		Journal: JournalConfig{
			Retention: 24 * time.Hour,
		},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Relay.DedupeTTL <= 0 {
		return errors.New("relay.dedupe_ttl must be > 0")
	}
	if c.Journal.Retention < 0 {
		return fmt.Errorf("journal.retention must be >= 0")
	}
	if c.Cipher.SealKey != "" {
		key, err := c.Cipher.SealKeyBytes()
		if err != nil {
			return err
		}
		if len(key) != 32 {
			return fmt.Errorf("cipher.seal_key must decode to 32 bytes, got %d", len(key))
		}
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// While cfgx.Build still returns zero values, we fallback to a lightweight
// decoder to keep smoke tests meaningful. Once cfgx is fully implemented we
// can drop the fallback.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Relay.DedupeTTL == 0 {
		c.Relay.DedupeTTL = defaults.Relay.DedupeTTL
	}
	if c.Journal.Retention == 0 {
		c.Journal.Retention = defaults.Journal.Retention
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
