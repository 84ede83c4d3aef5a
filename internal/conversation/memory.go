package conversation

import "strings"

// ExtractMemoryInstruction detects an explicit "remember ..." instruction
// and returns the fact to persist, or "" when the message is not one.
//
// The accepted shape is, case-insensitively: optional leading "please",
// then "remember", optional "that", optional ":" or "-" separator, then the
// fact. The instruction must open the message; "I won't forget to remember
// my keys" is a normal question, not a memory instruction.
func ExtractMemoryInstruction(message string) string {
	s := strings.TrimSpace(message)

	if rest, ok := cutKeyword(s, "please"); ok {
		s = strings.TrimLeft(rest, " \t,")
	}

	rest, ok := cutKeyword(s, "remember")
	if !ok {
		return ""
	}
	s = strings.TrimLeft(rest, " \t")

	if rest, ok := cutKeyword(s, "that"); ok {
		s = strings.TrimLeft(rest, " \t")
	}

	// Optional single separator between the verb and the fact.
	if len(s) > 0 && (s[0] == ':' || s[0] == '-') {
		s = s[1:]
	}

	return strings.TrimSpace(s)
}

// cutKeyword strips a leading keyword case-insensitively, requiring a word
// boundary after it so "remembering" never matches "remember".
func cutKeyword(s, keyword string) (string, bool) {
	if len(s) < len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
		return s, false
	}
	rest := s[len(keyword):]
	if rest != "" && isWordChar(rest[0]) {
		return s, false
	}
	return rest, true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
