// Package config holds w14asm's TOML-backed settings: limits the spec
// leaves as implementation choices, the output directory, and the
// printable base-4 alphabet used by the object-file emitter.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is w14asm's configuration.
type Config struct {
	// Assembler settings: limits and behavioral choices spec.md leaves open.
	Assembler struct {
		MaxLineLength                      int    `toml:"max_line_length"`
		MaxMacroNestingDepth               int    `toml:"max_macro_nesting_depth"`
		MaxImageWords                      int    `toml:"max_image_words"`
		EmitHeaderOnlyObjectForEmptySource bool   `toml:"emit_header_only_object_for_empty_source"`
		OutputDir                          string `toml:"output_dir"`
	} `toml:"assembler"`

	// Encoding settings: the printable base-4 alphabet of spec.md §6.
	Encoding struct {
		Alphabet string `toml:"alphabet"`
	} `toml:"encoding"`

	// Display settings: how the CLI/TUI present diagnostics.
	Display struct {
		ColorOutput    bool `toml:"color_output"`
		ShowSourceLine bool `toml:"show_source_line"`
	} `toml:"display"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assembler.MaxLineLength = 80
	cfg.Assembler.MaxMacroNestingDepth = 1
	cfg.Assembler.MaxImageWords = 3996
	cfg.Assembler.EmitHeaderOnlyObjectForEmptySource = true
	cfg.Assembler.OutputDir = "."
	cfg.Encoding.Alphabet = "*#%!"
	cfg.Display.ColorOutput = true
	cfg.Display.ShowSourceLine = true
	return cfg
}

// appDirKind names the two per-platform directories w14asm needs; the
// lookup rule is identical for both, only the base and leaf paths and the
// fallback differ.
type appDirKind struct {
	windowsLeaf  []string // appended to %APPDATA%
	unixLeaf     []string // appended to $HOME
	unixBase     string   // ".config" or ".local/share"
	fallback     string
	ensureExists bool
}

var configDirKind = appDirKind{
	windowsLeaf:  []string{"w14asm"},
	unixBase:     ".config",
	unixLeaf:     []string{"w14asm"},
	fallback:     ".",
	ensureExists: true,
}

var logDirKind = appDirKind{
	windowsLeaf:  []string{"w14asm", "logs"},
	unixBase:     ".local/share",
	unixLeaf:     []string{"w14asm", "logs"},
	fallback:     "logs",
	ensureExists: true,
}

// resolveAppDir finds kind's platform directory, creating it if the lookup
// succeeds. Any failure along the way (no home directory, can't create the
// directory) degrades to kind.fallback rather than erroring, since a missing
// config/log directory should never stop the assembler from running.
func resolveAppDir(kind appDirKind) string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(append([]string{base}, kind.windowsLeaf...)...)
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return kind.fallback
		}
		parts := append([]string{home, kind.unixBase}, kind.unixLeaf...)
		dir = filepath.Join(parts...)
	default:
		return kind.fallback
	}

	if kind.ensureExists {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return kind.fallback
		}
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path, honoring
// $W14ASM_CONFIG as an override for scripted/CI use.
func GetConfigPath() string {
	if override := os.Getenv("W14ASM_CONFIG"); override != "" {
		return override
	}
	dir := resolveAppDir(configDirKind)
	if dir == configDirKind.fallback {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	return resolveAppDir(logDirKind)
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads path and overlays it onto DefaultConfig; a missing file is
// not an error, since an unconfigured install should just run on defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path as TOML, creating its parent directory as needed.
func (c *Config) SaveTo(path string) (err error) {
	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0750); mkdirErr != nil {
		return fmt.Errorf("creating config directory for %s: %w", path, mkdirErr)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing config file %s: %w", path, closeErr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}
	return nil
}
