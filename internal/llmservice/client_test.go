package llmservice

import (
	"strings"
	"testing"
)

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain array",
			text: `["Paris", "N/A"]`,
			want: []string{"Paris", "N/A"},
		},
		{
			name: "fenced json block",
			text: "```json\n[\"Paris\", \"1889\"]\n```",
			want: []string{"Paris", "1889"},
		},
		{
			name: "bare fence",
			text: "```\n[\"Paris\"]\n```",
			want: []string{"Paris"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswers(tt.text)
			if err != nil {
				t.Fatalf("parseAnswers: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("answers = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("answers = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestParseAnswersRejectsNonArray(t *testing.T) {
	if _, err := parseAnswers(`{"answer": "Paris"}`); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := parseAnswers("not json at all"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("some text", []string{"What is it?", "When was it?"})

	if !strings.HasPrefix(prompt, "Content:\nsome text\n\n") {
		t.Fatalf("prompt = %q", prompt)
	}
	if !strings.Contains(prompt, "There are 2 questions.") {
		t.Fatalf("prompt = %q", prompt)
	}
	if !strings.Contains(prompt, "\t- What is it?\n") || !strings.Contains(prompt, "\t- When was it?\n") {
		t.Fatalf("prompt = %q", prompt)
	}
}

func TestTokenUsage(t *testing.T) {
	in, out := tokenUsage(map[string]any{"PromptTokens": 120, "CompletionTokens": 30})
	if in != 120 || out != 30 {
		t.Fatalf("usage = (%d, %d), want (120, 30)", in, out)
	}

	in, out = tokenUsage(map[string]any{})
	if in != 0 || out != 0 {
		t.Fatalf("usage = (%d, %d), want zeros", in, out)
	}
}
