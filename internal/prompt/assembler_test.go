package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hearthside/carekb/internal/conversation"
)

func turn(role conversation.Role, content string) conversation.Turn {
	return conversation.Turn{Role: role, Content: content}
}

func TestBuild_EmptyHistory(t *testing.T) {
	got := Build(nil, "What is sundowning?", 0)

	if !strings.Contains(got, "Remembered notes: (none)") {
		t.Errorf("missing (none) marker:\n%s", got)
	}
	if !strings.Contains(got, "User: What is sundowning?") {
		t.Errorf("missing new message line:\n%s", got)
	}
	if !strings.HasSuffix(got, "\nAssistant:") {
		t.Errorf("missing Assistant cue:\n%s", got)
	}
}

func TestBuild_MemoryTurnsFeedNotesNotTranscript(t *testing.T) {
	history := []conversation.Turn{
		turn(conversation.RoleUser, "Please remember: mom takes donepezil at 8am"),
		turn(conversation.RoleMemory, "mom takes donepezil at 8am"),
		turn(conversation.RoleUser, "How should I plan mornings?"),
		turn(conversation.RoleAssistant, "Keep a predictable routine."),
	}

	got := Build(history, "And evenings?", 0)

	if !strings.Contains(got, "Remembered notes:\n- mom takes donepezil at 8am") {
		t.Errorf("memory turn missing from notes block:\n%s", got)
	}
	if strings.Contains(got, "User: mom takes donepezil at 8am") ||
		strings.Contains(got, "Assistant: mom takes donepezil at 8am") {
		t.Errorf("memory turn leaked into transcript:\n%s", got)
	}
	if !strings.Contains(got, "User: How should I plan mornings?\nAssistant: Keep a predictable routine.\nUser: And evenings?") {
		t.Errorf("transcript out of order:\n%s", got)
	}
}

func TestBuild_SkipsEmptyTurns(t *testing.T) {
	history := []conversation.Turn{
		turn(conversation.RoleUser, ""),
		turn(conversation.RoleAssistant, "answer"),
	}

	got := Build(history, "next", 0)
	if strings.Contains(got, "User: \n") {
		t.Errorf("empty turn rendered:\n%s", got)
	}
}

func TestBuild_TruncationKeepsRecentContent(t *testing.T) {
	old := strings.Repeat("x", 500)
	history := []conversation.Turn{
		turn(conversation.RoleUser, old),
		turn(conversation.RoleAssistant, "recent answer"),
	}

	got := Build(history, "latest question", 100)

	if strings.Contains(got, old) {
		t.Error("oldest content survived truncation")
	}
	if !strings.Contains(got, "latest question") {
		t.Errorf("newest content dropped:\n%s", got)
	}
	// The notes block is excluded from the truncation limit.
	if !strings.Contains(got, "Remembered notes: (none)") {
		t.Errorf("notes block truncated away:\n%s", got)
	}
}

func TestBuild_TruncationPreservesRuneBoundaries(t *testing.T) {
	history := []conversation.Turn{
		turn(conversation.RoleUser, strings.Repeat("é", 200)),
	}

	for max := 99; max <= 102; max++ {
		got := Build(history, "latest", max)
		if !utf8.ValidString(got) {
			t.Errorf("Build with max %d produced invalid UTF-8:\n%q", max, got)
		}
		if strings.Contains(got, "�") {
			t.Errorf("Build with max %d emitted a replacement character:\n%q", max, got)
		}
	}
}

func TestBuild_NotesExcludedFromLimit(t *testing.T) {
	note := strings.Repeat("n", 300)
	history := []conversation.Turn{turn(conversation.RoleMemory, note)}

	got := Build(history, "short", 50)
	if !strings.Contains(got, note) {
		t.Error("note was truncated; only the transcript should be bounded")
	}
}

func TestBuild_PolicyPreambleFirst(t *testing.T) {
	got := Build(nil, "q", 0)
	if !strings.HasPrefix(got, systemPreamble) {
		t.Error("prompt does not start with the policy preamble")
	}
	for _, want := range []string{"knowledge base", "Remembered notes"} {
		if !strings.Contains(systemPreamble, want) {
			t.Errorf("preamble missing %q", want)
		}
	}
}
