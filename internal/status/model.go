package status

import (
	"github.com/tabsmith/tabsmith/internal/config"
)

// Data contains everything the status view displays.
type Data struct {
	// Header
	CurrentDir string
	Version    string

	// System & installation
	Shell         string
	HookInstalled bool
	RCFile        string

	// Configuration
	GlobalConfig *config.GlobalInfo
	LocalConfigs []config.FileInfo
	HasAnyConfig bool

	// Config details
	Aliases   map[string]config.AliasInfo
	Functions []string
	Vars      map[string]string
	Suffixes  map[string]string
	Flags     []string
	Options   config.Options

	// Command index
	Index *IndexInfo

	// Completion registry
	Registry *RegistryInfo
}

// IndexInfo describes the command index cache.
type IndexInfo struct {
	Path     string
	Size     int64
	Dirs     int
	Commands int
}

// RegistryInfo describes the handler registry.
type RegistryInfo struct {
	Handlers    int
	SuffixRules int
}
