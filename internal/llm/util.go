package llm

import (
	"regexp"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers and any conversational
// text around the first JSON object or array in a response.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	candidate := text[start:]
	var extracted string
	if candidate[0] == '{' {
		extracted = extractJSONObject(candidate)
	} else {
		extracted = extractJSONArray(candidate)
	}
	if extracted == "" {
		return text
	}
	return extracted
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONObject returns the balanced object at the start of s, or "".
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced array at the start of s, or "".
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

var (
	htmlFenceOpen  = regexp.MustCompile("(?i)^```html?\\s*\\n?")
	htmlFenceClose = regexp.MustCompile("\\n?```\\s*$")
)

// StripHTMLFences removes a leading ```html (or ```htm) fence and a trailing
// ``` fence from generated markup.
func StripHTMLFences(text string) string {
	text = htmlFenceOpen.ReplaceAllString(text, "")
	return htmlFenceClose.ReplaceAllString(text, "")
}

// ExtractJSONObject returns the first balanced {...} object in text, or "".
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	return extractJSONObject(text[start:])
}
