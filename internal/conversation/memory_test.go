package conversation

import "testing"

func TestExtractMemoryInstruction(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "remember that",
			message: "Remember that I take medication at 8am",
			want:    "I take medication at 8am",
		},
		{
			name:    "please remember colon",
			message: "Please remember: I prefer calling them my mom, not patient",
			want:    "I prefer calling them my mom, not patient",
		},
		{
			name:    "bare remember",
			message: "remember my sister visits on Sundays",
			want:    "my sister visits on Sundays",
		},
		{
			name:    "dash separator",
			message: "remember - the night nurse starts at 9pm",
			want:    "the night nurse starts at 9pm",
		},
		{
			name:    "uppercase",
			message: "PLEASE REMEMBER THAT dad dislikes loud rooms",
			want:    "dad dislikes loud rooms",
		},
		{
			name:    "please with comma",
			message: "Please, remember that mornings are hardest",
			want:    "mornings are hardest",
		},
		{
			name:    "surrounding whitespace",
			message: "  remember that hydration matters  ",
			want:    "hydration matters",
		},
		{
			name:    "not anchored",
			message: "I won't forget to remember my keys",
			want:    "",
		},
		{
			name:    "never forget",
			message: "I will never forget my keys",
			want:    "",
		},
		{
			name:    "remembering is not remember",
			message: "remembering names is getting harder for her",
			want:    "",
		},
		{
			name:    "that prefix word stays",
			message: "remember thatched roofs need checks",
			want:    "thatched roofs need checks",
		},
		{
			name:    "empty fact",
			message: "remember",
			want:    "",
		},
		{
			name:    "empty message",
			message: "",
			want:    "",
		},
		{
			name:    "ordinary question",
			message: "What are early signs of dementia?",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMemoryInstruction(tt.message)
			if got != tt.want {
				t.Errorf("ExtractMemoryInstruction(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
