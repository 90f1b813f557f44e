package djlex

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dpotapov/go-djlex/loader"
)

// Loader types accepted in the configuration.
const (
	LoaderFileSystem = "filesystem"
	LoaderAppDirs    = "app_dirs"
	LoaderLocMem     = "locmem"
)

// Config describes how templates are located.
type Config struct {
	BaseDir  string         `yaml:"-"`        // Directory containing the config file, for resolving relative paths
	Encoding string         `yaml:"encoding"` // Template file encoding (default: "utf-8")
	Cached   bool           `yaml:"cached"`   // Cache lookups for the lifetime of the process (default: true)
	Loaders  []LoaderConfig `yaml:"loaders"`
}

// LoaderConfig configures one entry of the loader chain.
type LoaderConfig struct {
	Type      string            `yaml:"type"`      // filesystem, app_dirs or locmem
	Dirs      []string          `yaml:"dirs"`      // filesystem: template directories
	Apps      []string          `yaml:"apps"`      // app_dirs: application directories
	Templates map[string]string `yaml:"templates"` // locmem: template sources by name
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Encoding: "utf-8",
		Cached:   true,
	}
}

// LoadConfig reads a YAML configuration file. ${VAR} references are replaced
// with values from getenv before parsing.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, filepath.Dir(absPath), getenv)
}

// ParseConfig parses YAML configuration data. Relative directories are
// resolved against baseDir.
func ParseConfig(data []byte, baseDir string, getenv func(string) string) (*Config, error) {
	if getenv != nil {
		data = interpolateEnv(data, getenv)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.BaseDir = baseDir

	for i := range cfg.Loaders {
		lc := &cfg.Loaders[i]
		for j, dir := range lc.Dirs {
			lc.Dirs[j] = cfg.resolve(dir)
		}
		for j, app := range lc.Apps {
			lc.Apps[j] = cfg.resolve(app)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loader entries.
func (c *Config) Validate() error {
	var errs []error
	for i, lc := range c.Loaders {
		switch lc.Type {
		case LoaderFileSystem:
			if len(lc.Dirs) == 0 {
				errs = append(errs, fmt.Errorf("loaders[%d]: filesystem loader needs at least one dir", i))
			}
		case LoaderAppDirs:
			if len(lc.Apps) == 0 {
				errs = append(errs, fmt.Errorf("loaders[%d]: app_dirs loader needs at least one app", i))
			}
		case LoaderLocMem:
		case "":
			errs = append(errs, fmt.Errorf("loaders[%d]: missing type", i))
		default:
			errs = append(errs, fmt.Errorf("loaders[%d]: unknown loader type %q", i, lc.Type))
		}
	}
	return errors.Join(errs...)
}

// Loader assembles the configured loader chain.
func (c *Config) Loader(logger *slog.Logger) (loader.Loader, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	loaders := make([]loader.Loader, 0, len(c.Loaders))
	for _, lc := range c.Loaders {
		switch lc.Type {
		case LoaderFileSystem:
			loaders = append(loaders, &loader.FileSystemLoader{Dirs: lc.Dirs, Encoding: c.Encoding})
		case LoaderAppDirs:
			loaders = append(loaders, &loader.AppDirsLoader{Apps: lc.Apps, Encoding: c.Encoding})
		case LoaderLocMem:
			loaders = append(loaders, &loader.LocMemLoader{Templates: lc.Templates})
		}
	}

	if c.Cached {
		return loader.NewCachedLoader(logger, loaders...), nil
	}
	return loader.Chain(loaders...), nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnv replaces ${VAR} with the value of VAR.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(getenv(string(m[2 : len(m)-1])))
	})
}
