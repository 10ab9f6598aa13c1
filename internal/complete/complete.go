// Package complete implements argument-position completion for command
// lines: it tokenizes the line before the cursor, resolves the command to a
// completion handler, and computes the candidate set for the argument slot
// under the cursor.
//
// Failures never surface as errors. Anything that cannot be completed
// degrades to the InsertTab action, which tells the caller to insert a
// literal tab and move on.
package complete

import "strings"

// Candidate is one completion candidate.
type Candidate struct {
	// Value is the text to complete to.
	Value string
	// Description is optional help text shown next to the value.
	Description string
}

// Action tells the caller what to do with a Result.
type Action int

const (
	// Suggest means Candidates holds the candidate set for the slot.
	Suggest Action = iota
	// InsertTab means completion is not possible here; insert a literal
	// tab character instead.
	InsertTab
)

func (a Action) String() string {
	if a == InsertTab {
		return "insert-tab"
	}
	return "suggest"
}

// Result is the outcome of one completion request.
type Result struct {
	Action Action
	// Seed is the partial text being completed.
	Seed string
	// Replace is the byte span [start, end) in the line that a chosen
	// candidate replaces.
	Replace [2]int
	// Candidates is the candidate set, already filtered by Seed.
	Candidates []Candidate
	// Source names the provider that produced the candidates.
	Source string
}

// Values returns the candidate values as a plain string slice.
func (r *Result) Values() []string {
	values := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		values[i] = c.Value
	}
	return values
}

func insertTab(source string) *Result {
	return &Result{Action: InsertTab, Source: source}
}

// matchesSeed reports whether value completes seed.
func matchesSeed(value, seed string, ignoreCase bool) bool {
	if seed == "" {
		return true
	}
	if ignoreCase {
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(seed))
	}
	return strings.HasPrefix(value, seed)
}

// filterCandidates applies the seed prefix filter, and when paring is set
// removes duplicate values, first occurrence winning.
func filterCandidates(cands []Candidate, seed string, ignoreCase, paring bool) []Candidate {
	filtered := make([]Candidate, 0, len(cands))
	var seen map[string]struct{}
	if paring {
		seen = make(map[string]struct{}, len(cands))
	}
	for _, c := range cands {
		if !matchesSeed(c.Value, seed, ignoreCase) {
			continue
		}
		if paring {
			if _, dup := seen[c.Value]; dup {
				continue
			}
			seen[c.Value] = struct{}{}
		}
		filtered = append(filtered, c)
	}
	return filtered
}
