package filemap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/filemap/codec"
)

// ConfigFileName is the conventional config file name.
const ConfigFileName = ".filemap.json"

// Config mirrors the JSONC configuration file. Zero fields keep their
// defaults, so a partial file is fine.
type Config struct {
	Dir          string `json:"dir,omitempty"`
	Codec        string `json:"codec,omitempty"`
	Compress     bool   `json:"compress,omitempty"`
	AtomicWrites bool   `json:"atomic_writes,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns the configuration Open uses when no file is
// loaded: gob encoding in [DefaultDir], no compression, direct writes.
func DefaultConfig() Config {
	return Config{
		Dir:   DefaultDir,
		Codec: codec.NameGob,
	}
}

// LoadConfig reads a JSONC config file (comments and trailing commas
// allowed). Parse failures and unknown codec names wrap
// [ErrConfigInvalid]; read failures keep the underlying error
// inspectable, so a missing file still matches os.ErrNotExist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("filemap: read config %s: %w", path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	cfg := DefaultConfig()

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	validateErr := cfg.validate()
	if validateErr != nil {
		return Config{}, validateErr
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Codec != "" {
		_, err := codec.ByName(c.Codec)
		if err != nil {
			return err
		}
	}

	return nil
}

// Options converts the configuration into Open options. Callers may
// append their own options after these to layer in a logger or
// metrics.
func (c Config) Options() ([]Option, error) {
	name := c.Codec
	if name == "" {
		name = codec.NameGob
	}

	enc, err := codec.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	if c.Compress {
		enc = codec.Snappy{Inner: enc}
	}

	opts := []Option{WithCodec(enc)}
	if c.AtomicWrites {
		opts = append(opts, WithAtomicWrites())
	}

	return opts, nil
}

// OpenConfig opens a store as configured by cfg. Extra options are
// applied after the configured ones and win on conflict.
func OpenConfig[K comparable, V any](cfg Config, opts ...Option) (*Map[K, V], error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	return Open[K, V](cfg.Dir, append(base, opts...)...)
}
