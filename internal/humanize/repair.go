package humanize

import (
	"regexp"
	"strings"
)

// Rule is one deterministic text repair. Every rule must be pure and
// idempotent in isolation so the composed pass is idempotent too.
type Rule struct {
	Name  string
	Apply func(string) string
}

// repairRules run left to right. They are the last line of defense for
// presentation correctness when the generation model ignores formatting
// instructions.
var repairRules = []Rule{
	{Name: "normalize-line-endings", Apply: normalizeLineEndings},
	{Name: "rejoin-split-page-numbers", Apply: rejoinSplitPageNumbers},
	{Name: "source-marker-on-own-line", Apply: sourceMarkerOnOwnLine},
	{Name: "encouragement-own-paragraph", Apply: encouragementOwnParagraph},
	{Name: "numbered-item-new-paragraph", Apply: numberedItemNewParagraph},
	{Name: "collapse-blank-lines", Apply: collapseBlankLines},
}

// Repair applies every repair rule in order.
func Repair(s string) string {
	for _, rule := range repairRules {
		s = rule.Apply(s)
	}
	return s
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// A page citation the model broke across a line ("(p.\n12)") is reunited.
// This also normalizes stray spaces inside the parentheses.
var splitPageRe = regexp.MustCompile(`\(p\.\s*(\d+)\s*\)`)

func rejoinSplitPageNumbers(s string) string {
	return splitPageRe.ReplaceAllString(s, "(p.$1)")
}

// "Source:" markers the model glued onto the tip line move to their own line.
var inlineSourceRe = regexp.MustCompile(`([^\s\n])[ \t]+Source:`)

func sourceMarkerOnOwnLine(s string) string {
	return inlineSourceRe.ReplaceAllString(s, "$1\nSource:")
}

// "Encouragement:" starts its own paragraph.
var inlineEncouragementRe = regexp.MustCompile(`([^\n])[ \t]*\n?Encouragement:`)

func encouragementOwnParagraph(s string) string {
	return inlineEncouragementRe.ReplaceAllString(s, "$1\n\nEncouragement:")
}

// A numbered list marker the model ran into prose ("...sleep. 2. Keep...")
// starts a new paragraph. The punctuation guard keeps page labels like
// "(p.4)" untouched.
var inlineItemRe = regexp.MustCompile(`([.!?:;])[ \t]+(\d{1,2})([.)])[ \t]`)

func numberedItemNewParagraph(s string) string {
	return inlineItemRe.ReplaceAllString(s, "$1\n\n$2$3 ")
}

// Four or more consecutive blank lines collapse to two.
var blankRunRe = regexp.MustCompile(`\n{5,}`)

func collapseBlankLines(s string) string {
	return blankRunRe.ReplaceAllString(s, "\n\n\n")
}
