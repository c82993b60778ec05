package inventory

import "fmt"

// ParseError indicates device output could not be mapped to any usable state.
// Individual malformed lines are skipped silently; ParseError is returned
// only when nothing could be parsed at all.
type ParseError struct {
	Op     string // pm command whose output failed to parse
	Output string
}

func (e *ParseError) Error() string {
	out := e.Output
	if len(out) > 200 {
		out = out[:200] + "..."
	}
	return fmt.Sprintf("pm %s: unrecognized output: %q", e.Op, out)
}
