// Package config loads deducels.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up from the workspace root upward.
const FileName = "deducels.toml"

// ErrUnknownKeys is wrapped by Load when the file has keys no section knows.
var ErrUnknownKeys = errors.New("unknown configuration keys")

type Server struct {
	DebounceMS     int  `toml:"debounce_ms"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Trace          bool `toml:"trace"`
}

type Completion struct {
	Keywords bool `toml:"keywords"`
	Snippets bool `toml:"snippets"` // induction skeletons
	Fuzzy    bool `toml:"fuzzy"`
}

type Imports struct {
	// Search lists extra directories for `import NAME`; relative entries are
	// taken relative to the importing document.
	Search []string `toml:"search"`
}

// Config is the whole file. Missing keys keep their defaults.
type Config struct {
	Server     Server     `toml:"server"`
	Completion Completion `toml:"completion"`
	Imports    Imports    `toml:"imports"`

	// Path is the file the config was read from ("" for defaults).
	Path string `toml:"-"`
}

func Default() Config {
	return Config{
		Server:     Server{DebounceMS: 300, MaxDiagnostics: 100},
		Completion: Completion{Keywords: true, Snippets: true},
		Imports:    Imports{Search: []string{"lib"}},
	}
}

// Debounce returns the diagnostics delay as a duration.
func (c Config) Debounce() time.Duration {
	if c.Server.DebounceMS < 0 {
		return 0
	}
	return time.Duration(c.Server.DebounceMS) * time.Millisecond
}

// Find walks up from startDir looking for deducels.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads path on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	// пустой список search в файле означает "только соседние файлы"
	if meta.IsDefined("imports", "search") && cfg.Imports.Search == nil {
		cfg.Imports.Search = []string{}
	}
	if cfg.Server.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: server.max_diagnostics must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest deducels.toml above startDir, or defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
