// Package lineparse splits a command line into positional arguments for
// completion. It understands quoting, variable and sub-expression expansion,
// pipeline operators, and the multi-dot directory shorthand, and it reports
// unterminated constructs as typed errors so callers can decide how to
// degrade.
package lineparse

import (
	"fmt"
	"strings"
)

// Arg is one parsed argument: its expanded text and the byte offset of its
// first character (the opening quote for quoted arguments) in the original
// line.
type Arg struct {
	Text string
	Pos  int
}

// Args is the parsed argument list, ordered left to right.
type Args []Arg

// Texts returns the argument texts as a slice, index-aligned with Positions.
func (as Args) Texts() []string {
	texts := make([]string, len(as))
	for i, a := range as {
		texts[i] = a.Text
	}
	return texts
}

// Positions returns the argument offsets as a slice, index-aligned with Texts.
func (as Args) Positions() []int {
	posns := make([]int, len(as))
	for i, a := range as {
		posns[i] = a.Pos
	}
	return posns
}

// Last returns the final argument, if any.
func (as Args) Last() (Arg, bool) {
	if len(as) == 0 {
		return Arg{}, false
	}
	return as[len(as)-1], true
}

// DelimiterError reports an unterminated quote, group, or sub-expression.
// Delim is the opening delimiter and Pos its byte offset in the line.
type DelimiterError struct {
	Delim rune
	Pos   int
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("unterminated %q at offset %d", e.Delim, e.Pos)
}

// CommentError reports a comment opening before the point.
type CommentError struct {
	Pos int
}

func (e *CommentError) Error() string {
	return fmt.Sprintf("comment at offset %d", e.Pos)
}

// Evaluator expands variables and evaluates sub-expressions during parsing.
// A nil Evaluator leaves the source text in place.
type Evaluator interface {
	// ExpandVar resolves $name and ${name}. The second result reports
	// whether the variable is defined.
	ExpandVar(name string) (string, bool)
	// EvalSubexpr evaluates the source between $( and ) or ( and ).
	EvalSubexpr(src string) (any, error)
}

// Parse tokenizes line up to point. Offsets in the result refer to the
// original line.
func Parse(line string, point int, ev Evaluator) (Args, error) {
	return ParseFrom(line, 0, point, ev)
}

// ParseFrom tokenizes line between from and point. Offsets still refer to the
// original line, which lets callers re-tokenize the text after an unterminated
// group without losing positions.
func ParseFrom(line string, from, point int, ev Evaluator) (Args, error) {
	if point < 0 {
		point = 0
	}
	if point > len(line) {
		point = len(line)
	}
	if from < 0 {
		from = 0
	}
	if from > point {
		from = point
	}

	p := &parser{line: line, point: point, ev: ev, curPos: -1}
	return p.run(from)
}

// HasOperators reports whether line contains a pipeline or separator operator
// outside quotes and sub-expressions.
func HasOperators(line string) bool {
	p := &parser{line: line, point: len(line)}
	i := 0
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '\'':
			end, ok := p.findClose(i+1, '\'')
			if !ok {
				return false
			}
			i = end + 1
		case '"':
			end, ok := p.findClose(i+1, '"')
			if !ok {
				return false
			}
			i = end + 1
		case '(':
			end, ok := p.matchDelim(i, '(', ')')
			if !ok {
				return false
			}
			i = end + 1
		case '{':
			end, ok := p.matchDelim(i, '{', '}')
			if !ok {
				return false
			}
			i = end + 1
		default:
			if operatorLen(line, i, len(line)) > 0 {
				return true
			}
			i++
		}
	}
	return false
}

type parser struct {
	line  string
	point int
	ev    Evaluator

	args      Args
	cur       strings.Builder
	curPos    int
	have      bool
	lastSpace bool
}

// begin marks the start of a token at offset i if none is in progress.
func (p *parser) begin(i int) {
	if !p.have {
		p.have = true
		p.curPos = i
	}
	p.lastSpace = false
}

func (p *parser) flush() {
	if !p.have {
		return
	}
	p.args = append(p.args, Arg{Text: normalizeDots(p.cur.String()), Pos: p.curPos})
	p.cur.Reset()
	p.have = false
	p.curPos = -1
}

func (p *parser) run(from int) (Args, error) {
	i := from
	for i < p.point {
		c := p.line[i]

		if c == ' ' || c == '\t' {
			p.flush()
			p.lastSpace = true
			i++
			continue
		}

		// A pipeline or separator operator starts a fresh sub-command:
		// everything before it is irrelevant to completion.
		if n := operatorLen(p.line, i, p.point); n > 0 {
			p.flush()
			p.args = p.args[:0]
			p.lastSpace = false
			i += n
			continue
		}

		if c == '#' && !p.have {
			return nil, &CommentError{Pos: i}
		}

		if c == '(' && !p.have {
			end, ok := p.matchDelim(i, '(', ')')
			if !ok {
				return nil, &DelimiterError{Delim: '(', Pos: i}
			}
			p.begin(i)
			p.cur.WriteString(p.evalForm(p.line[i+1:end], p.line[i:end+1]))
			i = end + 1
			continue
		}

		if c == '{' && !p.have {
			end, ok := p.matchDelim(i, '{', '}')
			if !ok {
				return nil, &DelimiterError{Delim: '{', Pos: i}
			}
			p.begin(i)
			p.cur.WriteString(p.line[i : end+1])
			i = end + 1
			continue
		}

		switch c {
		case '\\':
			p.begin(i)
			if i+1 < p.point {
				p.cur.WriteByte(p.line[i+1])
				i += 2
			} else {
				// Dangling escape at point: nothing to escape yet.
				i++
			}
		case '\'':
			p.begin(i)
			end, ok := p.findClose(i+1, '\'')
			if !ok {
				return nil, &DelimiterError{Delim: '\'', Pos: i}
			}
			p.cur.WriteString(p.line[i+1 : end])
			i = end + 1
		case '"':
			p.begin(i)
			ni, err := p.scanDouble(i)
			if err != nil {
				return nil, err
			}
			i = ni
		case '$':
			p.begin(i)
			ni, err := p.scanDollar(i)
			if err != nil {
				return nil, err
			}
			i = ni
		default:
			p.begin(i)
			p.cur.WriteByte(c)
			i++
		}
	}

	p.flush()

	// A line ending in an unescaped space means the user is starting a new
	// argument at the point.
	if p.lastSpace {
		p.args = append(p.args, Arg{Text: "", Pos: p.point})
	}

	if p.args == nil {
		p.args = Args{}
	}
	return p.args, nil
}

// scanDouble consumes a double-quoted span starting at i (the opening quote)
// and returns the index after the closing quote.
func (p *parser) scanDouble(i int) (int, error) {
	start := i
	i++
	for i < p.point {
		switch p.line[i] {
		case '"':
			return i + 1, nil
		case '\\':
			if i+1 < p.point {
				n := p.line[i+1]
				if n == '"' || n == '\\' || n == '$' {
					p.cur.WriteByte(n)
					i += 2
				} else {
					p.cur.WriteByte('\\')
					i++
				}
			} else {
				i++
			}
		case '$':
			ni, err := p.scanDollar(i)
			if err != nil {
				return 0, err
			}
			i = ni
		default:
			p.cur.WriteByte(p.line[i])
			i++
		}
	}
	return 0, &DelimiterError{Delim: '"', Pos: start}
}

// scanDollar consumes $name, ${name}, or $(expr) starting at i (the dollar)
// and returns the index after the construct.
func (p *parser) scanDollar(i int) (int, error) {
	if i+1 >= p.point {
		p.cur.WriteByte('$')
		return i + 1, nil
	}
	switch p.line[i+1] {
	case '(':
		end, ok := p.matchDelim(i+1, '(', ')')
		if !ok {
			return 0, &DelimiterError{Delim: '(', Pos: i + 1}
		}
		p.cur.WriteString(p.evalForm(p.line[i+2:end], p.line[i:end+1]))
		return end + 1, nil
	case '{':
		end, ok := p.matchDelim(i+1, '{', '}')
		if !ok {
			return 0, &DelimiterError{Delim: '{', Pos: i + 1}
		}
		name := p.line[i+2 : end]
		if p.ev != nil {
			if val, ok := p.ev.ExpandVar(name); ok {
				p.cur.WriteString(val)
				return end + 1, nil
			}
		}
		p.cur.WriteString(p.line[i : end+1])
		return end + 1, nil
	default:
		j := i + 1
		for j < p.point && isVarByte(p.line[j]) {
			j++
		}
		if j == i+1 {
			p.cur.WriteByte('$')
			return i + 1, nil
		}
		name := p.line[i+1 : j]
		if p.ev != nil {
			if val, ok := p.ev.ExpandVar(name); ok {
				p.cur.WriteString(val)
				return j, nil
			}
		}
		p.cur.WriteString(p.line[i:j])
		return j, nil
	}
}

// evalForm evaluates a sub-expression body, falling back to the raw source
// when no evaluator is set or evaluation fails.
func (p *parser) evalForm(src, raw string) string {
	if p.ev == nil {
		return raw
	}
	val, err := p.ev.EvalSubexpr(src)
	if err != nil {
		return raw
	}
	return stringify(val)
}

// findClose locates the closing quote q at or after from. Double quotes may
// be backslash-escaped; single quotes may not.
func (p *parser) findClose(from int, q byte) (int, bool) {
	for j := from; j < p.point; j++ {
		c := p.line[j]
		if c == '\\' && q == '"' {
			j++
			continue
		}
		if c == q {
			return j, true
		}
	}
	return 0, false
}

// matchDelim scans from i (the opening delimiter) to its match, honoring
// nesting, quotes, and escapes. Returns the index of the closing delimiter.
func (p *parser) matchDelim(i int, open, close byte) (int, bool) {
	depth := 0
	j := i
	for j < p.point {
		switch p.line[j] {
		case '\\':
			j++
		case '\'':
			end, ok := p.findClose(j+1, '\'')
			if !ok {
				return 0, false
			}
			j = end
		case '"':
			end, ok := p.findClose(j+1, '"')
			if !ok {
				return 0, false
			}
			j = end
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return j, true
			}
		}
		j++
	}
	return 0, false
}

func operatorLen(s string, i, limit int) int {
	switch s[i] {
	case '|':
		if i+1 < limit && s[i+1] == '|' {
			return 2
		}
		return 1
	case '&':
		if i+1 < limit && s[i+1] == '&' {
			return 2
		}
		return 1
	case ';':
		return 1
	}
	return 0
}

func isVarByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// normalizeDots expands runs of three or more dots that open a path segment
// into explicit parent hops: "...bar/" becomes "../../bar/". Bare dot runs
// without a following path stay as typed.
func normalizeDots(s string) string {
	if !strings.Contains(s, "...") {
		return s
	}
	var b strings.Builder
	i := 0
	for i < len(s) {
		atSegStart := i == 0 || s[i-1] == '/'
		if atSegStart && s[i] == '.' {
			j := i
			for j < len(s) && s[j] == '.' {
				j++
			}
			if n := j - i; n >= 3 && strings.Contains(s[j:], "/") {
				b.WriteString(strings.Repeat("../", n-1))
				if j < len(s) && s[j] == '/' {
					j++
				}
				i = j
				continue
			}
			b.WriteString(s[i:j])
			i = j
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
