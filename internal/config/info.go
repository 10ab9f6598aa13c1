package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// FileInfo describes one project config file in the hierarchy.
type FileInfo struct {
	Path      string
	Loaded    bool
	LocalOnly bool
}

// GlobalInfo describes the global config file.
type GlobalInfo struct {
	Path   string
	Exists bool
	Loaded bool
}

// HierarchyInfo describes the config chain that applies to a directory.
type HierarchyInfo struct {
	GlobalConfig *GlobalInfo
	LocalConfigs []FileInfo
	MergedConfig *Config
}

// GetHierarchyInfo loads the hierarchy for dir and reports which files
// exist and which actually contributed to the merge.
func GetHierarchyInfo(dir string) (*HierarchyInfo, error) {
	loader := New()

	merged, loadedPaths, err := loader.LoadHierarchy(dir)
	if err != nil {
		return nil, err
	}

	loaded := make(map[string]bool, len(loadedPaths))
	for _, p := range loadedPaths {
		loaded[p] = true
	}

	info := &HierarchyInfo{
		LocalConfigs: make([]FileInfo, 0),
		MergedConfig: merged,
	}

	if globalPath, err := GetGlobalConfigPath(); err == nil {
		if _, statErr := os.Stat(globalPath); statErr == nil {
			info.GlobalConfig = &GlobalInfo{
				Path:   globalPath,
				Exists: true,
				Loaded: loaded[globalPath],
			}
		}
	}

	chain, _ := FindConfigFiles(dir)
	for i, path := range chain {
		localOnly := false
		if merged != nil && merged.LocalOnly && i == len(chain)-1 {
			localOnly = true
		}
		info.LocalConfigs = append(info.LocalConfigs, FileInfo{
			Path:      path,
			Loaded:    loaded[path],
			LocalOnly: localOnly,
		})
	}

	return info, nil
}

// AliasInfo is a display-oriented summary of one alias.
type AliasInfo struct {
	Command     string
	CompleteAs  string
	NoComplete  bool
	HasWhen     bool
	WhenSummary string
}

// DetailsInfo summarizes a merged config for the status view.
type DetailsInfo struct {
	Aliases   map[string]AliasInfo
	Functions []string
	Vars      map[string]string
	Suffixes  map[string]string
	Flags     []string
}

// GetConfigDetails extracts display details from a merged config.
func GetConfigDetails(merged *Config) *DetailsInfo {
	details := &DetailsInfo{
		Aliases:   make(map[string]AliasInfo),
		Functions: make([]string, 0),
		Vars:      make(map[string]string),
		Suffixes:  make(map[string]string),
		Flags:     make([]string, 0),
	}
	if merged == nil {
		return details
	}

	for name, ac := range merged.GetAliases() {
		info := AliasInfo{
			Command:    ac.Command,
			CompleteAs: ac.CompleteAs,
			NoComplete: ac.NoComplete,
			HasWhen:    ac.When != nil,
		}
		if ac.When != nil {
			info.WhenSummary = summarizeWhen(ac.When)
		}
		details.Aliases[name] = info
	}

	for name := range merged.Functions {
		details.Functions = append(details.Functions, name)
	}
	sort.Strings(details.Functions)

	for name, value := range merged.Vars {
		details.Vars[name] = value
	}
	for command, pattern := range merged.Suffixes {
		details.Suffixes[command] = pattern
	}

	if merged.LocalOnly {
		details.Flags = append(details.Flags, "local_only")
	}
	if merged.IgnoreGlobal {
		details.Flags = append(details.Flags, "ignore_global")
	}

	return details
}

// summarizeWhen renders a when clause as a one-line summary.
func summarizeWhen(when *When) string {
	if when == nil {
		return ""
	}

	var parts []string
	if when.File != "" {
		parts = append(parts, fmt.Sprintf("file:%s", when.File))
	}
	if when.Dir != "" {
		parts = append(parts, fmt.Sprintf("dir:%s", when.Dir))
	}
	if when.Var != "" {
		parts = append(parts, fmt.Sprintf("var:%s", when.Var))
	}
	if when.Command != "" {
		parts = append(parts, fmt.Sprintf("cmd:%s", when.Command))
	}

	if len(when.All) > 0 {
		sub := make([]string, len(when.All))
		for i := range when.All {
			sub[i] = summarizeWhen(&when.All[i])
		}
		parts = append(parts, fmt.Sprintf("all(%s)", strings.Join(sub, ", ")))
	}
	if len(when.Any) > 0 {
		sub := make([]string, len(when.Any))
		for i := range when.Any {
			sub[i] = summarizeWhen(&when.Any[i])
		}
		parts = append(parts, fmt.Sprintf("any(%s)", strings.Join(sub, " | ")))
	}

	return strings.Join(parts, " + ")
}
