package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnmarshalFlex parses model output as JSON in two stages: a strict pass
// after stripping markdown code fences, then a best-effort pass over the
// outermost brace/bracket pair. Model responses routinely wrap the document
// in ```json fences or prepend a sentence of chatter.
func UnmarshalFlex(raw string, v interface{}) error {
	cleaned := stripFences(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	candidate, ok := outermost(cleaned)
	if !ok {
		return fmt.Errorf("no JSON document found in response")
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// outermost trims the string to the first '{' or '[' and its matching
// last counterpart.
func outermost(s string) (string, bool) {
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	start, closer := objStart, byte('}')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start, closer = arrStart, byte(']')
	}
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
