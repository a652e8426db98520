package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/keshon/filevault/internal/digest"
)

// DefaultFile is the config file name looked up when none is given.
const DefaultFile = "filevault.toml"

// Config is one run's validated configuration.
type Config struct {
	Extensions []string `toml:"extensions"`
	Hash       string   `toml:"hash"`
	Compress   bool     `toml:"compress"`
	Ignore     []string `toml:"ignore"`
}

// Load reads and validates a TOML config file. The accepted extensions are
// lowercased and deduplicated; the hash algorithm defaults to md5.
func Load(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return Config{}, fmt.Errorf("parse config file %q: %w", path, err)
		}
		return Config{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	if !md.IsDefined("extensions") {
		return Config{}, fmt.Errorf("config file %q: missing required key \"extensions\"", path)
	}

	seen := make(map[string]struct{}, len(cfg.Extensions))
	exts := cfg.Extensions[:0]
	for _, e := range cfg.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		exts = append(exts, e)
	}
	cfg.Extensions = exts

	if cfg.Hash == "" {
		cfg.Hash = digest.Default
	}
	if !digest.Known(cfg.Hash) {
		return Config{}, fmt.Errorf("config file %q: unknown hash algorithm %q (supported: %s)",
			path, cfg.Hash, strings.Join(digest.Names(), ", "))
	}

	return cfg, nil
}

// ExtensionSet returns the accepted extensions as a membership set.
func (c Config) ExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Extensions))
	for _, e := range c.Extensions {
		set[e] = struct{}{}
	}
	return set
}
