package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string.
func Render(data *Data) string {
	var b strings.Builder

	b.WriteString(renderHeader(data))
	b.WriteString("\n")

	b.WriteString(renderSystemInfo(data))
	b.WriteString("\n")

	b.WriteString(renderConfigHierarchy(data))
	b.WriteString("\n")

	if len(data.Aliases) > 0 {
		b.WriteString(renderAliases(data))
		b.WriteString("\n")
	}

	if len(data.Functions) > 0 {
		b.WriteString(renderFunctions(data))
		b.WriteString("\n")
	}

	if len(data.Vars) > 0 {
		b.WriteString(renderVars(data))
		b.WriteString("\n")
	}

	if len(data.Suffixes) > 0 {
		b.WriteString(renderSuffixes(data))
		b.WriteString("\n")
	}

	if len(data.Flags) > 0 {
		b.WriteString(renderFlags(data))
		b.WriteString("\n")
	}

	b.WriteString(renderOptions(data))
	b.WriteString("\n")

	b.WriteString(renderIndexInfo(data))

	if data.Registry != nil {
		b.WriteString("\n")
		b.WriteString(renderRegistryInfo(data))
	}

	return b.String()
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📂 Current directory: ") + valueStyle.Render(data.CurrentDir) + "\n")
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version))
	return b.String()
}

func renderSystemInfo(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚙️  System & Installation:") + "\n")

	b.WriteString("   " + keyStyle.Render("Shell: ") + valueStyle.Render(data.Shell) + "\n")

	if data.HookInstalled {
		b.WriteString("   " + keyStyle.Render("Hook: ") + successStyle.Render("✓ Installed") + "\n")
		if data.RCFile != "" {
			b.WriteString("   " + keyStyle.Render("RC file: ") + subtleStyle.Render(data.RCFile))
		}
	} else {
		b.WriteString("   " + keyStyle.Render("Hook: ") + errorStyle.Render("✗ Not installed") + "\n")
		b.WriteString("   " + warningStyle.Render(fmt.Sprintf("Run 'tabsmith setup %s' to install", data.Shell)))
	}

	return b.String()
}

func renderConfigHierarchy(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📝 Configuration hierarchy:") + "\n")

	hasGlobal := data.GlobalConfig != nil && data.GlobalConfig.Exists
	if len(data.LocalConfigs) == 0 && !hasGlobal {
		b.WriteString("   " + subtleStyle.Render("No configuration files found"))
		return b.String()
	}

	idx := 1
	if hasGlobal {
		status := successStyle.Render("✓")
		note := ""
		if !data.GlobalConfig.Loaded {
			status = errorStyle.Render("✗")
			note = subtleStyle.Render(" (ignored)")
		}
		b.WriteString(fmt.Sprintf("   %d. %s %s%s\n",
			idx,
			subtleStyle.Render(data.GlobalConfig.Path+" (global)"),
			status,
			note))
		idx++
	}

	for _, cfg := range data.LocalConfigs {
		status := successStyle.Render("✓")
		statusText := ""
		if !cfg.Loaded {
			status = errorStyle.Render("✗")
			statusText = subtleStyle.Render(" (not loaded)")
		} else if cfg.LocalOnly {
			statusText = subtleStyle.Render(" (local only)")
		}

		b.WriteString(fmt.Sprintf("   %d. %s %s%s\n",
			idx,
			valueStyle.Render(cfg.Path),
			status,
			statusText))
		idx++
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderAliases(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔗 Aliases:") + "\n")

	names := make([]string, 0, len(data.Aliases))
	for name := range data.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := data.Aliases[name]
		b.WriteString(fmt.Sprintf("   %s → %s",
			keyStyle.Render(name),
			valueStyle.Render(info.Command)))

		if info.CompleteAs != "" {
			b.WriteString(subtleStyle.Render(" (completes as " + info.CompleteAs + ")"))
		}
		if info.NoComplete {
			b.WriteString(subtleStyle.Render(" (no completion)"))
		}
		if info.HasWhen {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("      %s %s",
				subtleStyle.Render("when:"),
				subtleStyle.Render(info.WhenSummary)))
		}

		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderFunctions(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚙️  Functions:") + "\n")

	for _, fn := range data.Functions {
		b.WriteString("   " + valueStyle.Render(fn+"()") + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderVars(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🌍 Variables:") + "\n")

	names := make([]string, 0, len(data.Vars))
	for name := range data.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteString(fmt.Sprintf("   %s=%s\n",
			keyStyle.Render(name),
			subtleStyle.Render(truncateString(data.Vars[name], 50))))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderSuffixes(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🎯 Suffix rules:") + "\n")

	commands := make([]string, 0, len(data.Suffixes))
	for command := range data.Suffixes {
		commands = append(commands, command)
	}
	sort.Strings(commands)

	for _, command := range commands {
		b.WriteString(fmt.Sprintf("   %s → %s\n",
			keyStyle.Render(command),
			subtleStyle.Render(data.Suffixes[command])))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderFlags(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🏴 Flags:") + "\n")
	b.WriteString("   " + valueStyle.Render(strings.Join(data.Flags, ", ")))
	return b.String()
}

func renderOptions(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🎛  Completion options:") + "\n")

	onOff := func(v bool) string {
		if v {
			return successStyle.Render("on")
		}
		return subtleStyle.Render("off")
	}

	b.WriteString("   " + keyStyle.Render("ignore_case: ") + onOff(data.Options.IgnoreCase) + "\n")
	b.WriteString("   " + keyStyle.Render("paring: ") + onOff(data.Options.Paring) + "\n")
	b.WriteString("   " + keyStyle.Render("cycle: ") + onOff(data.Options.Cycle))
	if data.Options.Cycle {
		b.WriteString(subtleStyle.Render(fmt.Sprintf(" (cutoff %d)", data.Options.CycleCutoff)))
	}
	b.WriteString("\n")
	b.WriteString("   " + keyStyle.Render("show_symbols: ") + valueStyle.Render(data.Options.ShowSymbols) + "\n")
	b.WriteString("   " + keyStyle.Render("complete_functions: ") + onOff(data.Options.CompleteFunctions) + "\n")
	b.WriteString("   " + keyStyle.Render("force_execution: ") + onOff(data.Options.ForceExecution) + "\n")
	b.WriteString("   " + keyStyle.Render("suppress_while_busy: ") + onOff(data.Options.SuppressWhileBusy))

	return b.String()
}

func renderIndexInfo(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("💾 Command index:") + "\n")

	if data.Index == nil {
		b.WriteString("   " + subtleStyle.Render("Not available"))
		return b.String()
	}

	b.WriteString("   " + keyStyle.Render("Cache: ") + subtleStyle.Render(data.Index.Path) + "\n")
	b.WriteString("   " + keyStyle.Render("Size: ") + valueStyle.Render(formatBytes(data.Index.Size)) + "\n")
	b.WriteString("   " + keyStyle.Render("Directories: ") + valueStyle.Render(fmt.Sprintf("%d", data.Index.Dirs)) + "\n")
	b.WriteString("   " + keyStyle.Render("Commands: ") + valueStyle.Render(fmt.Sprintf("%d", data.Index.Commands)))

	return b.String()
}

func renderRegistryInfo(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔄 Handler registry:") + "\n")
	b.WriteString("   " + keyStyle.Render("Handlers: ") + valueStyle.Render(fmt.Sprintf("%d", data.Registry.Handlers)) + "\n")
	b.WriteString("   " + keyStyle.Render("Suffix rules: ") + valueStyle.Render(fmt.Sprintf("%d", data.Registry.SuffixRules)))
	return b.String()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
