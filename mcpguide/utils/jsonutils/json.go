package jsonutils

import (
	"bytes"
	"encoding/json"
	"strings"
)

// IsArray reports whether raw holds a JSON array. Leading whitespace is ignored;
// null, objects, strings and numbers are not arrays.
func IsArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Compact returns s with insignificant whitespace removed when s is valid JSON,
// otherwise s unchanged. Used to keep provider error bodies on one log line.
func Compact(s string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return strings.TrimSpace(s)
	}
	return buf.String()
}

// ToJSON serializes a Go value to a JSON string with indentation.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
