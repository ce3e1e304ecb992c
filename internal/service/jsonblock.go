package service

import (
	"errors"
	"strings"
)

var (
	errNoJSONBlock    = errors.New("no JSON object in reply")
	errUnbalancedJSON = errors.New("unbalanced JSON object in reply")
)

// extractJSONBlock returns the first balanced brace-delimited block in s.
// Inference services wrap their structured replies in prose or markdown
// code fences; every call site goes through this one adapter and fails
// closed (falls to the next tier) on any parse error.
func extractJSONBlock(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errNoJSONBlock
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errUnbalancedJSON
}
