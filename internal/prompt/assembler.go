// Package prompt assembles the full text sent to the retrieval gateway:
// system policy, remembered notes, a bounded transcript window, and the new
// user message.
package prompt

import (
	"strings"

	"github.com/hearthside/carekb/internal/conversation"
)

// DefaultMaxChars bounds the transcript portion of the assembled prompt.
const DefaultMaxChars = 4000

// systemPreamble is the fixed policy preamble. Remembered notes are
// conversation-scoped facts the user asked the assistant to keep; they are
// trusted but distinct from knowledge-base content.
const systemPreamble = `You are a supportive assistant for family caregivers. ` +
	`Answer from the knowledge base first and never invent facts, names, or sources. ` +
	`If the knowledge base does not cover a question, say so plainly. ` +
	`"Remembered notes" below are facts the user explicitly asked you to keep for this conversation. ` +
	`Treat them as trusted personal context, not as knowledge-base material.`

// Build assembles the prompt for one chat turn.
//
// The transcript (notes excluded) is hard-truncated to its last maxChars
// characters: recency wins over completeness. The output always ends with
// an "Assistant:" cue for the downstream model.
func Build(history []conversation.Turn, newMessage string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\n")
	b.WriteString(notesBlock(history))
	b.WriteString("\n\n")
	b.WriteString(truncateHead(transcript(history, newMessage), maxChars))
	b.WriteString("\nAssistant:")
	return b.String()
}

// notesBlock renders every memory turn as a bullet, or a "(none)" marker.
func notesBlock(history []conversation.Turn) string {
	var notes []string
	for _, turn := range history {
		if turn.Role == conversation.RoleMemory && turn.Content != "" {
			notes = append(notes, "- "+turn.Content)
		}
	}
	if len(notes) == 0 {
		return "Remembered notes: (none)"
	}
	return "Remembered notes:\n" + strings.Join(notes, "\n")
}

// transcript renders the non-memory turns plus the new message.
func transcript(history []conversation.Turn, newMessage string) string {
	var lines []string
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		switch turn.Role {
		case conversation.RoleUser:
			lines = append(lines, "User: "+turn.Content)
		case conversation.RoleAssistant:
			lines = append(lines, "Assistant: "+turn.Content)
		}
	}
	lines = append(lines, "User: "+newMessage)
	return strings.Join(lines, "\n")
}

// truncateHead keeps the last max characters of s. Counting runes rather
// than bytes keeps the cut off the middle of a multi-byte character.
func truncateHead(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[len(runes)-max:])
}
