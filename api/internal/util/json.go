package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoJSONObject is returned when the text holds no {...} span at all.
var ErrNoJSONObject = errors.New("no JSON object found")

// ExtractJSONObject parses raw as a JSON object, falling back to the span between
// the first '{' and the last '}'. That tolerates one layer of code fences or chatter
// around the object. It is a heuristic, not a parser: braces in the surrounding
// prose widen the span and make the parse fail.
func ExtractJSONObject(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)

	if obj, err := decodeObject(trimmed); err == nil {
		return obj, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w (payload snippet: %s)", ErrNoJSONObject, Snippet(trimmed))
	}

	candidate := trimmed[start : end+1]
	obj, err := decodeObject(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w (candidate snippet: %s)", err, Snippet(candidate))
	}
	return obj, nil
}

// decodeObject wants exactly one non-null object. Numbers go through
// json.Number so a literal beyond float64 range becomes ±Inf instead of an error.
func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("JSON value is not an object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	for k, v := range obj {
		obj[k] = toFloats(v)
	}
	return obj, nil
}

func toFloats(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return t
		}
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = toFloats(e)
		}
	case []any:
		for i, e := range t {
			t[i] = toFloats(e)
		}
	}
	return v
}

// Snippet flattens whitespace and truncates s for log lines.
func Snippet(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
