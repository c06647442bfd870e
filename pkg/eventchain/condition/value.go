package condition

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Resolve returns the literal or variable value denoted by s.
func Resolve(s string, vars map[string]any) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil":
		return nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if v, ok := lookup(s, vars); ok {
		return v
	}

	// Unresolved identifiers read as bare strings
	return s
}

// lookup resolves an identifier, walking dotted paths with gjson.
// A path under a known root that does not exist resolves to nil.
func lookup(path string, vars map[string]any) (any, bool) {
	if vars == nil {
		return nil, false
	}
	if v, ok := vars[path]; ok {
		return v, true
	}

	head, rest, found := strings.Cut(path, ".")
	if !found {
		return nil, false
	}
	root, ok := vars[head]
	if !ok {
		return nil, false
	}

	var body []byte
	switch r := root.(type) {
	case []byte:
		body = r
	case string:
		body = []byte(r)
	default:
		b, err := json.Marshal(r)
		if err != nil {
			return nil, true
		}
		body = b
	}
	if !gjson.ValidBytes(body) {
		return nil, true
	}

	res := gjson.GetBytes(body, rest)
	if !res.Exists() {
		return nil, true
	}
	return res.Value(), true
}

// IsTruthy reports whether v counts as true.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	case bool:
		if val {
			return 1
		}
	}
	return 0
}
