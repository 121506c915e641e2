// Package sanitize normalizes generated post text before it is sent over a
// transport that accepts only inline <b>/<i> markup. Clean is idempotent:
// Clean(Clean(x)) == Clean(x).
package sanitize

import (
	"regexp"
	"strings"
)

// MaxPostLength is the transport's hard message size limit.
const MaxPostLength = 4096

var introPhrases = []string{
	"Конечно, вот пост:",
	"Вот пост:",
	"Вот текст поста:",
	"Вот готовый пост:",
	"Готовый пост:",
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// Clean strips generator chatter and stray markdown, normalizes paragraph
// breaks, and clamps the result to MaxPostLength. Inline tag spans (<...>)
// pass through untouched.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = stripIntro(s)
	s = stripWrappingQuotes(s)
	s = stripMarkdown(s)
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	return clamp(s, MaxPostLength)
}

func stripIntro(s string) string {
	for _, phrase := range introPhrases {
		if strings.HasPrefix(s, phrase) {
			s = strings.TrimSpace(strings.TrimPrefix(s, phrase))
		}
	}
	return s
}

func stripWrappingQuotes(s string) string {
	for {
		trimmed := s
		if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
			trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		}
		if len(trimmed) >= 2 && trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'' {
			trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

// stripMarkdown removes bold/italic/heading/list markers outside of <...>
// spans. A span is copied verbatim so <b>/<i> formatting survives.
func stripMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lineStart := true
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if j := strings.IndexByte(s[i:], '>'); j >= 0 {
				b.WriteString(s[i : i+j+1])
				i += j + 1
				lineStart = false
				continue
			}
		}
		if strings.HasPrefix(s[i:], "**") || strings.HasPrefix(s[i:], "__") {
			i += 2
			continue
		}
		if s[i] == '#' {
			i++
			continue
		}
		if lineStart && (strings.HasPrefix(s[i:], "* ") || strings.HasPrefix(s[i:], "- ")) {
			i += 2
			continue
		}
		b.WriteByte(s[i])
		lineStart = s[i] == '\n'
		i++
	}
	return b.String()
}

func clamp(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
