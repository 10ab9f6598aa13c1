// Package histexpand applies csh-style history designators (!!, !n, !-n,
// !prefix, !$) to an input line before it is completed or executed.
package histexpand

import (
	"fmt"
	"strconv"
	"strings"
)

// History is the event source. Index 0 is the oldest event.
type History interface {
	Len() int
	At(i int) string
}

// Expand rewrites history designators in line. It returns the expanded line
// and whether any designator was substituted. Designators inside single
// quotes and after backslashes stay literal. An unresolvable designator is an
// error; callers decide how to degrade.
func Expand(line string, h History) (string, bool, error) {
	if !strings.Contains(line, "!") {
		return line, false, nil
	}

	var b strings.Builder
	changed := false
	inSingle := false
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == '\\' && !inSingle:
			b.WriteByte(c)
			if i+1 < len(line) {
				b.WriteByte(line[i+1])
				i += 2
			} else {
				i++
			}
		case c == '\'':
			inSingle = !inSingle
			b.WriteByte(c)
			i++
		case c == '!' && !inSingle:
			rep, n, err := designator(line[i:], h)
			if err != nil {
				return "", false, err
			}
			if n == 0 {
				b.WriteByte(c)
				i++
			} else {
				b.WriteString(rep)
				i += n
				changed = true
			}
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), changed, nil
}

// designator resolves the designator at the start of s. A consumed length of
// zero means the bang is literal.
func designator(s string, h History) (string, int, error) {
	if len(s) < 2 {
		return "", 0, nil
	}

	n := 0
	if h != nil {
		n = h.Len()
	}

	switch c := s[1]; {
	case c == '!':
		if n == 0 {
			return "", 0, notFound("!!")
		}
		return h.At(n - 1), 2, nil

	case c == '$':
		if n == 0 {
			return "", 0, notFound("!$")
		}
		fields := strings.Fields(h.At(n - 1))
		if len(fields) == 0 {
			return "", 0, notFound("!$")
		}
		return fields[len(fields)-1], 2, nil

	case c >= '0' && c <= '9':
		j := 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		num, err := strconv.Atoi(s[1:j])
		if err != nil || num < 1 || num > n {
			return "", 0, notFound(s[:j])
		}
		return h.At(num - 1), j, nil

	case c == '-':
		j := 2
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == 2 {
			return "", 0, nil
		}
		num, err := strconv.Atoi(s[2:j])
		if err != nil || num < 1 || num > n {
			return "", 0, notFound(s[:j])
		}
		return h.At(n - num), j, nil

	case isPrefixByte(c):
		j := 1
		for j < len(s) && isPrefixByte(s[j]) {
			j++
		}
		prefix := s[1:j]
		for k := n - 1; k >= 0; k-- {
			if strings.HasPrefix(h.At(k), prefix) {
				return h.At(k), j, nil
			}
		}
		return "", 0, notFound(s[:j])

	default:
		return "", 0, nil
	}
}

func isPrefixByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == '/':
		return true
	}
	return false
}

func notFound(des string) error {
	return fmt.Errorf("%s: event not found", des)
}
