package llm

import "strings"

// CleanJSONBlock strips markdown code fences and any conversational text
// around a JSON value. Local models often do both even under a response
// schema. Text without a recognizable JSON value is returned trimmed.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the fence line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "[") {
		if v := extractJSONArray(text); v != "" {
			return v
		}
	}
	// Objects win over arrays so a bracketed token such as "[email]" in a
	// preamble is not mistaken for the payload.
	if i := strings.IndexByte(text, '{'); i >= 0 {
		if v := extractJSONObject(text[i:]); v != "" {
			return v
		}
	}
	if i := strings.IndexByte(text, '['); i >= 0 {
		if v := extractJSONArray(text[i:]); v != "" {
			return v
		}
	}
	return text
}

func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

// extractBalanced returns the prefix of s that closes the bracket s starts
// with, skipping brackets inside JSON strings. It returns "" when s does not
// start with opening or never closes.
func extractBalanced(s string, opening, closing byte) string {
	if s == "" || s[0] != opening {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
