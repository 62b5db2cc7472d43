package inkwell

import (
	"log/slog"
	"sort"
	"strings"
)

// ConstraintsAttr is the element attribute holding forbidden operations.
const ConstraintsAttr = "constraints"

// Operation names understood by the built-in tools.
const (
	OpMove   = "move"
	OpSelect = "select"
	OpStyle  = "style"
	OpDelete = "delete"
	OpText   = "text"
)

// Constraints is the set of operations forbidden on an element. The zero
// value forbids nothing.
type Constraints map[string]struct{}

// ParseConstraints parses a constraints attribute value. Operation names are
// separated by commas or whitespace and must start with a letter followed by
// letters, digits, '-' or '_'. A malformed value returns ok=false and an
// empty set.
func ParseConstraints(s string) (c Constraints, ok bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, true
	}
	c = make(Constraints, len(fields))
	for _, f := range fields {
		if !validOpName(f) {
			return nil, false
		}
		c[strings.ToLower(f)] = struct{}{}
	}
	return c, true
}

func validOpName(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case i > 0 && (ch >= '0' && ch <= '9' || ch == '-' || ch == '_'):
		default:
			return false
		}
	}
	return s != ""
}

// ConstraintsOf reads the constraints of e. A malformed attribute is logged
// at warning level and treated as unconstrained. A nil element has no
// constraints.
func ConstraintsOf(e Element, log *slog.Logger) Constraints {
	if e == nil {
		return nil
	}
	raw, ok := e.Attr(ConstraintsAttr)
	if !ok {
		return nil
	}
	c, ok := ParseConstraints(raw)
	if !ok {
		if log != nil {
			log.Warn("malformed constraints, treating element as unconstrained",
				"element", e.ID(), "value", raw)
		}
		return nil
	}
	return c
}

// Forbids reports whether op is listed.
func (c Constraints) Forbids(op string) bool {
	_, ok := c[op]
	return ok
}

// With returns a copy of c with op added.
func (c Constraints) With(op string) Constraints {
	out := make(Constraints, len(c)+1)
	for k := range c {
		out[k] = struct{}{}
	}
	out[op] = struct{}{}
	return out
}

// Without returns a copy of c with op removed.
func (c Constraints) Without(op string) Constraints {
	out := make(Constraints, len(c))
	for k := range c {
		if k != op {
			out[k] = struct{}{}
		}
	}
	return out
}

// String formats c as a sorted, comma separated attribute value.
func (c Constraints) String() string {
	ops := make([]string, 0, len(c))
	for k := range c {
		ops = append(ops, k)
	}
	sort.Strings(ops)
	return strings.Join(ops, ",")
}
