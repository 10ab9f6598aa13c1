// Package status collects and displays the tabsmith runtime state: the
// config hierarchy for the current directory, the hook installation, and the
// command index cache.
package status

import (
	"fmt"
	"os"

	"github.com/tabsmith/tabsmith/internal/complete"
	"github.com/tabsmith/tabsmith/internal/config"
	"github.com/tabsmith/tabsmith/internal/setup"
	"github.com/tabsmith/tabsmith/internal/shell"
	"github.com/tabsmith/tabsmith/pkg/version"
)

// CollectAll gathers status information for the current directory.
// indexCachePath is the command index cache file.
func CollectAll(indexCachePath string) (*Data, error) {
	data := &Data{
		Aliases:   make(map[string]config.AliasInfo),
		Functions: make([]string, 0),
		Vars:      make(map[string]string),
		Suffixes:  make(map[string]string),
		Flags:     make([]string, 0),
		Version:   version.Version,
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	data.CurrentDir = currentDir

	collectSystemInfo(data)

	hierarchy, err := config.GetHierarchyInfo(currentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get config hierarchy: %w", err)
	}
	data.GlobalConfig = hierarchy.GlobalConfig
	data.LocalConfigs = hierarchy.LocalConfigs
	data.HasAnyConfig = len(data.LocalConfigs) > 0 ||
		(data.GlobalConfig != nil && data.GlobalConfig.Exists)

	details := config.GetConfigDetails(hierarchy.MergedConfig)
	data.Aliases = details.Aliases
	data.Functions = details.Functions
	data.Vars = details.Vars
	data.Suffixes = details.Suffixes
	data.Flags = details.Flags
	if hierarchy.MergedConfig != nil {
		data.Options = hierarchy.MergedConfig.Completion
	}

	collectIndexInfo(data, indexCachePath)
	collectRegistryInfo(data, hierarchy.MergedConfig)

	return data, nil
}

func collectSystemInfo(data *Data) {
	data.Shell = shell.Detect()

	if rcFile, err := setup.GetRCFilePath(data.Shell); err == nil {
		data.RCFile = rcFile
	}
	if installed, err := setup.IsHookInstalled(data.Shell); err == nil {
		data.HookInstalled = installed
	}
}

func collectIndexInfo(data *Data, cachePath string) {
	info := &IndexInfo{Path: cachePath}
	if fi, err := os.Stat(cachePath); err == nil {
		info.Size = fi.Size()
	}

	ix := complete.NewCommandIndex(cachePath, data.Options.ForceExecution)
	info.Dirs, info.Commands = ix.Stats()
	data.Index = info
}

func collectRegistryInfo(data *Data, merged *config.Config) {
	r := complete.NewRegistry()
	complete.RegisterDefaults(r)
	if merged != nil {
		for command, pattern := range merged.Suffixes {
			_ = r.AddSuffix(command, pattern)
		}
	}
	data.Registry = &RegistryInfo{
		Handlers:    len(r.Commands()),
		SuffixRules: r.SuffixCount(),
	}
}
