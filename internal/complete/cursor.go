package complete

import (
	"github.com/tabsmith/tabsmith/internal/lineparse"
)

// Cursor walks the argument slots of a parsed line, leftmost first. Each
// slot's candidate set is computed only when Candidates is called, so the
// caller pays for exactly the slots it presents. The cursor owns all of its
// position state; advancing it is the caller's job.
type Cursor struct {
	engine *Engine
	line   string
	point  int
	args   lineparse.Args
	idx    int
}

// Cursor parses line up to point and returns a cursor positioned on slot 0.
// Tokenization failures are returned as-is; callers wanting the degrading
// behavior use Complete instead.
func (e *Engine) Cursor(line string, point int) (*Cursor, error) {
	if point < 0 {
		point = 0
	}
	if point > len(line) {
		point = len(line)
	}
	args, err := lineparse.Parse(line, point, e.eval)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		args = lineparse.Args{{Text: "", Pos: point}}
	}
	return &Cursor{engine: e, line: line, point: point, args: args}, nil
}

// Len returns the number of argument slots.
func (c *Cursor) Len() int {
	return len(c.args)
}

// Index returns the current slot, starting at 0.
func (c *Cursor) Index() int {
	return c.idx
}

// Arg returns the current slot's parsed argument.
func (c *Cursor) Arg() lineparse.Arg {
	return c.args[c.idx]
}

// Args returns every parsed argument.
func (c *Cursor) Args() lineparse.Args {
	return c.args
}

// Next advances to the following slot, reporting false at the end.
func (c *Cursor) Next() bool {
	if c.idx+1 >= len(c.args) {
		return false
	}
	c.idx++
	return true
}

// Last reports whether the cursor is on the final slot, the one under the
// editing point.
func (c *Cursor) Last() bool {
	return c.idx == len(c.args)-1
}

// Candidates computes the candidate set for the current slot. The final
// slot's replace span ends at the parse point; earlier slots end at the
// token's own end.
func (c *Cursor) Candidates() *Result {
	end := c.point
	if !c.Last() {
		end = c.args[c.idx].Pos + len(c.args[c.idx].Text)
	}
	if c.idx == 0 {
		return c.engine.completeCommand(c.args[0], end)
	}
	return c.engine.completeArgument(c.args[:c.idx+1], c.idx, end)
}
