package condition

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty indicates a blank expression.
var ErrEmpty = errors.New("empty condition")

// ErrUnbalancedQuote indicates a quoted string without its closing quote.
var ErrUnbalancedQuote = errors.New("unbalanced quote")

// Condition is a parsed-once boolean expression.
// A Condition is immutable and safe for concurrent use.
type Condition struct {
	source string
}

// Compile checks expr for structural errors and returns a Condition.
func Compile(expr string) (*Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmpty
	}
	if quote := openQuote(expr); quote != 0 {
		return nil, fmt.Errorf("%w: %c in %q", ErrUnbalancedQuote, quote, expr)
	}
	return &Condition{source: expr}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Condition {
	c, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("condition: %v", err))
	}
	return c
}

// String returns the source expression.
func (c *Condition) String() string {
	return c.source
}

// Match evaluates the condition against vars.
func (c *Condition) Match(vars map[string]any) bool {
	return evaluate(c.source, vars)
}

// Eval compiles and evaluates expr in one call.
func Eval(expr string, vars map[string]any) (bool, error) {
	c, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return c.Match(vars), nil
}

// Vars builds the variables map for a chain step.
func Vars(input, result any) map[string]any {
	return map[string]any{
		"input":  input,
		"result": result,
	}
}

type binaryOp struct {
	token   string
	compare func(left, right any) bool
}

// Longer tokens first so ">=" is not read as ">".
var binaryOps = []binaryOp{
	{"==", func(l, r any) bool { return fmt.Sprint(l) == fmt.Sprint(r) }},
	{"!=", func(l, r any) bool { return fmt.Sprint(l) != fmt.Sprint(r) }},
	{">=", func(l, r any) bool { return toFloat64(l) >= toFloat64(r) }},
	{"<=", func(l, r any) bool { return toFloat64(l) <= toFloat64(r) }},
	{">", func(l, r any) bool { return toFloat64(l) > toFloat64(r) }},
	{"<", func(l, r any) bool { return toFloat64(l) < toFloat64(r) }},
	{" contains ", func(l, r any) bool { return strings.Contains(fmt.Sprint(l), fmt.Sprint(r)) }},
}

func evaluate(expr string, vars map[string]any) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}

	if left, right, ok := splitOutsideQuotes(expr, " or "); ok {
		return evaluate(left, vars) || evaluate(right, vars)
	}
	if left, right, ok := splitOutsideQuotes(expr, " and "); ok {
		return evaluate(left, vars) && evaluate(right, vars)
	}

	if strings.HasPrefix(expr, "not ") {
		return !evaluate(strings.TrimPrefix(expr, "not "), vars)
	}
	if strings.HasPrefix(expr, "!") && !strings.HasPrefix(expr, "!=") {
		return !evaluate(strings.TrimPrefix(expr, "!"), vars)
	}

	for _, op := range binaryOps {
		if left, right, ok := splitOutsideQuotes(expr, op.token); ok {
			return op.compare(Resolve(left, vars), Resolve(right, vars))
		}
	}

	return IsTruthy(Resolve(expr, vars))
}

// splitOutsideQuotes splits s at the first sep not inside a quoted string.
func splitOutsideQuotes(s, sep string) (string, string, bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case strings.HasPrefix(s[i:], sep):
			return s[:i], s[i+len(sep):], true
		}
	}
	return "", "", false
}

// openQuote returns the quote character left open at the end of s, or 0.
func openQuote(s string) byte {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		if ch == '\'' || ch == '"' {
			quote = ch
		}
	}
	return quote
}
