package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kat-daemon/katd/internal/logger"
)

// Path resolves the config file location: $HOME/.config/kat/config.ini,
// falling back to /tmp/.config/kat/config.ini when $HOME is unset (spec
// §6), the way the teacher's GetConfigPath layers system/user/cwd.
func Path() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = "/tmp"
	}
	return filepath.Join(home, ".config", "kat", "config.ini")
}

// Load reads the config file, applying defaults for anything missing or
// absent, then appends any of the 13 declared names missing from the file
// (spec §6: "Missing names on load are appended... to the existing file").
// If the file does not exist at all, it is created with the full default
// set via Save.
func Load() (*Config, error) {
	path := Path()
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := Save(&cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config at %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	values := decode(bytes.NewReader(data))
	present := parseInto(&cfg, values)

	var missing []string
	for _, p := range Params(&cfg) {
		if !present[p.Name] {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		if err := appendMissing(path, &cfg, missing); err != nil {
			logger.Warnf("failed to append missing config entries: %v", err)
		}
	}

	return &cfg, nil
}

// appendMissing opens path in append mode and writes only the missing
// entries, leaving the rest of the file byte-for-byte untouched.
func appendMissing(path string, cfg *Config, missing []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeMissing(f, cfg, missing)
}

// Save rewrites the config file from scratch with the fixed header and all
// 13 entries in declaration order (spec §6).
func Save(cfg *Config) error {
	path := Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
