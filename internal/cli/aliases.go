package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tabsmith/tabsmith/internal/config"
)

// AliasesParams contains parameters for the Aliases command.
type AliasesParams struct {
	IndexCachePath string
	LogLevel       string
	Output         io.Writer
}

// Aliases lists the aliases active in the current directory, with their
// completion behavior.
func Aliases(params AliasesParams) error {
	out := params.Output
	if out == nil {
		out = os.Stdout
	}

	session, err := NewSession(params.IndexCachePath, params.LogLevel)
	if err != nil {
		return err
	}

	names := session.Aliases.Names()
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Fprintln(out, "No aliases defined")
		return nil
	}

	details := config.GetConfigDetails(session.Config)
	for _, name := range names {
		a, ok := session.Aliases.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s = %s", name, a.Command)
		if a.CompleteAs != "" {
			fmt.Fprintf(out, "  (completes as %s)", a.CompleteAs)
		}
		if a.NoComplete {
			fmt.Fprint(out, "  (no completion)")
		}
		if info, ok := details.Aliases[name]; ok && info.HasWhen {
			fmt.Fprintf(out, "  [when: %s]", info.WhenSummary)
		}
		fmt.Fprintln(out)
	}
	return nil
}
