// Package config handles loading and parsing of Tabsmith configuration files.
//
// Configuration merges in layers: built-in defaults, then the global config,
// then every project config from the filesystem root down to the working
// directory. Later layers win key by key.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// SupportedConfigNames contains supported configuration file names (in order of preference)
var SupportedConfigNames = []string{
	".tabsmith.yml",
	".tabsmith.yaml",
	".tabsmith.toml",
	".tabsmith.json",
}

const (
	// GlobalConfigName is the name of the global config file
	GlobalConfigName = "config.yml"

	// ShowSymbolsOff never offers interpreter symbols in the command slot.
	ShowSymbolsOff = "off"
	// ShowSymbolsFallback offers symbols only when nothing else matches.
	ShowSymbolsFallback = "fallback"
	// ShowSymbolsAlways appends symbols after every other candidate group.
	ShowSymbolsAlways = "always"
)

// Options are the completion engine settings.
type Options struct {
	IgnoreCase           bool   `koanf:"ignore_case"`
	Paring               bool   `koanf:"paring"`
	Cycle                bool   `koanf:"cycle"`
	CycleCutoff          int    `koanf:"cycle_cutoff"`
	AutoList             bool   `koanf:"autolist"`
	ShowSymbols          string `koanf:"show_symbols"`
	CompleteFunctions    bool   `koanf:"complete_functions"`
	ForceExecution       bool   `koanf:"force_execution"`
	SuppressWhileBusy    bool   `koanf:"suppress_while_busy"`
	IgnoreFileExtensions string `koanf:"ignore_file_extensions"`
}

// When describes conditions guarding an alias. Atomic fields and composite
// lists are mutually exclusive at one level.
type When struct {
	File    string `koanf:"file"`
	Var     string `koanf:"var"`
	Dir     string `koanf:"dir"`
	Command string `koanf:"command"`
	All     []When `koanf:"all"`
	Any     []When `koanf:"any"`
}

// AliasConfig is a normalized alias definition.
type AliasConfig struct {
	// Command is the replacement command line, optionally a template.
	Command string
	// CompleteAs names the command whose completion the alias inherits.
	// Empty means the first word of Command.
	CompleteAs string
	// NoComplete disables argument completion for the alias.
	NoComplete bool
	// When guards the alias; a nil When is always active.
	When *When
}

// Config represents a merged tabsmith configuration.
type Config struct {
	Aliases      map[string]any    `koanf:"aliases"`
	Functions    map[string]string `koanf:"functions"`
	Vars         map[string]string `koanf:"vars"`
	Suffixes     map[string]string `koanf:"suffixes"`
	Completion   Options           `koanf:"completion"`
	SearchPath   string            `koanf:"search_path"`
	LocalOnly    bool              `koanf:"local_only"`
	IgnoreGlobal bool              `koanf:"ignore_global"`
}

func emptyConfig() *Config {
	return &Config{
		Aliases:   make(map[string]any),
		Functions: make(map[string]string),
		Vars:      make(map[string]string),
		Suffixes:  make(map[string]string),
	}
}

// GetAliases returns a normalized map of alias name to AliasConfig
func (c *Config) GetAliases() map[string]AliasConfig {
	result := make(map[string]AliasConfig, len(c.Aliases))

	for name, value := range c.Aliases {
		switch v := value.(type) {
		case string:
			// Simple string format: "alias: command"
			result[name] = AliasConfig{Command: v}
		case map[string]interface{}:
			alias := AliasConfig{}

			if cmd, ok := v["command"].(string); ok {
				alias.Command = cmd
			}

			switch comp := v["completion"].(type) {
			case string:
				// Inherit from another command: "completion: git"
				alias.CompleteAs = comp
			case bool:
				// Disable: "completion: false"
				if !comp {
					alias.NoComplete = true
				}
			}

			if w, ok := v["when"]; ok {
				alias.When = whenFromAny(w)
			}

			result[name] = alias
		}
	}

	return result
}

// whenFromAny decodes a when clause from the untyped alias map.
func whenFromAny(v any) *When {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}

	w := &When{}
	if s, ok := m["file"].(string); ok {
		w.File = s
	}
	if s, ok := m["var"].(string); ok {
		w.Var = s
	}
	if s, ok := m["dir"].(string); ok {
		w.Dir = s
	}
	if s, ok := m["command"].(string); ok {
		w.Command = s
	}
	if list, ok := m["all"].([]interface{}); ok {
		for _, item := range list {
			if sub := whenFromAny(item); sub != nil {
				w.All = append(w.All, *sub)
			}
		}
	}
	if list, ok := m["any"].([]interface{}); ok {
		for _, item := range list {
			if sub := whenFromAny(item); sub != nil {
				w.Any = append(w.Any, *sub)
			}
		}
	}
	return w
}

// HasLocalConfig checks if a directory has a local configuration file
func HasLocalConfig(dir string) bool {
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// cachedConfig stores a parsed config with its modification time and hash
type cachedConfig struct {
	config  *Config
	modTime time.Time
	size    int64
	hash    string
}

// Loader handles loading and parsing configuration files
type Loader struct {
	// Cache for parsed configs with modtime validation
	parsedCache map[string]*cachedConfig
}

// New creates a new config loader
func New() *Loader {
	return &Loader{
		parsedCache: make(map[string]*cachedConfig),
	}
}

// parserForPath picks the koanf parser matching the file extension.
func parserForPath(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}

// Load reads and parses a single configuration file
func (l *Loader) Load(path string) (*Config, error) {
	// Check if we have a cached version
	if cached, exists := l.parsedCache[path]; exists && cached.config != nil {
		// Verify file hasn't been modified (check both modtime and size)
		fileInfo, err := os.Stat(path)
		if err == nil && !fileInfo.ModTime().After(cached.modTime) && fileInfo.Size() == cached.size {
			return cached.config, nil
		}
		delete(l.parsedCache, path)
	}

	parser, err := parserForPath(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := emptyConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Cache the parsed config with its modtime, size and hash
	if fileInfo, err := os.Stat(path); err == nil {
		var hashStr string
		if data, hashErr := os.ReadFile(path); hashErr == nil {
			hash := sha256.Sum256(data)
			hashStr = hex.EncodeToString(hash[:])
		}

		l.parsedCache[path] = &cachedConfig{
			config:  cfg,
			modTime: fileInfo.ModTime(),
			size:    fileInfo.Size(),
			hash:    hashStr,
		}
	}

	return cfg, nil
}

// Hash computes SHA-256 hash of a config file
func (l *Loader) Hash(path string) (string, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if cached, exists := l.parsedCache[path]; exists {
		if !fileInfo.ModTime().After(cached.modTime) && fileInfo.Size() == cached.size && cached.hash != "" {
			return cached.hash, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	hashStr := hex.EncodeToString(hash[:])

	if cached, exists := l.parsedCache[path]; exists {
		cached.hash = hashStr
	} else {
		l.parsedCache[path] = &cachedConfig{
			hash:    hashStr,
			modTime: fileInfo.ModTime(),
			size:    fileInfo.Size(),
		}
	}

	return hashStr, nil
}

// GetGlobalConfigPath returns the path to the global config file
func GetGlobalConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		// Fallback to ~/.config
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, "tabsmith", GlobalConfigName), nil
}

// FindConfigFiles searches for config files from current dir up to root
// Returns paths in order from root to leaf (for proper merging)
func FindConfigFiles(startDir string) ([]string, error) {
	var configs []string
	currentDir := startDir

	// Walk up directory tree
	for {
		// Check for config files in current directory
		for _, name := range SupportedConfigNames {
			path := filepath.Join(currentDir, name)
			if _, err := os.Stat(path); err == nil {
				configs = append(configs, path)
				break // Only one config per directory
			}
		}

		// Move up to parent directory
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			// Reached root
			break
		}
		currentDir = parent
	}

	// Reverse to get root-to-leaf order
	for i, j := 0, len(configs)-1; i < j; i, j = i+1, j-1 {
		configs[i], configs[j] = configs[j], configs[i]
	}

	return configs, nil
}

// LoadHierarchy loads and merges built-in defaults, the global config, and
// all project configs for dir. It returns the merged config and the list of
// files that contributed, in merge order.
//
// A config with ignore_global drops the global layer when it is the first
// project config. A config with local_only drops every layer above it; deeper
// directories still merge on top.
func (l *Loader) LoadHierarchy(dir string) (*Config, []string, error) {
	var paths []string

	globalPath, err := GetGlobalConfigPath()
	globalLoaded := false
	if err == nil {
		if _, statErr := os.Stat(globalPath); statErr == nil {
			// An unreadable global config is skipped, not fatal: project
			// configs must keep working.
			if _, loadErr := l.Load(globalPath); loadErr == nil {
				paths = append(paths, globalPath)
				globalLoaded = true
			}
		}
	}

	chain, err := FindConfigFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	for i, path := range chain {
		cfg, err := l.Load(path)
		if err != nil {
			return nil, append(paths, path), err
		}

		if i == 0 && cfg.IgnoreGlobal && globalLoaded {
			paths = paths[:0]
		}

		if cfg.LocalOnly {
			paths = paths[:0]
		}

		paths = append(paths, path)
	}

	merged, err := l.mergePaths(paths)
	if err != nil {
		return nil, paths, err
	}
	return merged, paths, nil
}

// mergePaths layers the defaults and the given files into one config.
func (l *Loader) mergePaths(paths []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load built-in defaults: %w", err)
	}

	for _, path := range paths {
		parser, err := parserForPath(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", path, err)
		}
	}

	cfg := emptyConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal merged config: %w", err)
	}
	return cfg, nil
}
