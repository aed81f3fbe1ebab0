// Package jsonpath evaluates a small JSONPath subset against JSON text using
// gjson. Supported forms: $, $.a.b, $['a'], $["a"], $[0], $.a[2].b and the
// wildcard index $.a[*].b, which yields a JSON array of the matches.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract returns the value at path as text. Strings are returned without
// quotes, null as "null", objects and arrays as raw JSON.
func Extract(json string, path string) (string, error) {
	if json == "" {
		return "", fmt.Errorf("empty JSON string")
	}
	if !gjson.Valid(json) {
		return "", fmt.Errorf("invalid JSON")
	}

	gpath, err := ToGjson(path)
	if err != nil {
		return "", err
	}

	result := gjson.Get(json, gpath)
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// Exists reports whether path resolves to a value in json.
func Exists(json string, path string) bool {
	gpath, err := ToGjson(path)
	if err != nil {
		return false
	}
	return gjson.Get(json, gpath).Exists()
}

// ExtractMultiple extracts every named path. Values found are returned even
// when some paths fail; the error lists the failures.
func ExtractMultiple(json string, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	results := make(map[string]string, len(paths))
	var failures []string
	for name, path := range paths {
		value, err := Extract(json, path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// ToGjson converts a JSONPath expression into gjson path syntax.
func ToGjson(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}

	rest := strings.TrimPrefix(path, "$")
	if rest == "" {
		return "@this", nil
	}

	var segments []string
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return "", fmt.Errorf("empty member name in %q", path)
			}
			segments = append(segments, escapeKey(rest[:end]))
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("unterminated bracket in %q", path)
			}
			inner := strings.TrimSpace(rest[1:end])
			rest = rest[end+1:]
			segment, err := bracketSegment(inner)
			if err != nil {
				return "", fmt.Errorf("%w in %q", err, path)
			}
			segments = append(segments, segment)
		default:
			// bare member name, e.g. "name" or "a.b" without the $ prefix
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			segments = append(segments, escapeKey(rest[:end]))
			rest = rest[end:]
		}
	}

	return strings.Join(segments, "."), nil
}

func bracketSegment(inner string) (string, error) {
	switch {
	case inner == "*":
		return "#", nil
	case len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0]:
		return escapeKey(inner[1 : len(inner)-1]), nil
	case inner == "":
		return "", fmt.Errorf("empty index")
	}
	for _, r := range inner {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("unsupported index %q", inner)
		}
	}
	return inner, nil
}

// escapeKey escapes the characters gjson treats as path syntax.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
