package answer

import (
	"context"
	"strings"
	"testing"
)

func TestNewOpenAIAnswererDefaults(t *testing.T) {
	a := NewOpenAIAnswerer(Config{APIKey: "test-key"})
	if a.config.Model != DefaultModel {
		t.Errorf("model = %q, want default %q", a.config.Model, DefaultModel)
	}

	a = NewOpenAIAnswerer(Config{APIKey: "test-key", Model: "gpt-4o"})
	if a.config.Model != "gpt-4o" {
		t.Errorf("model = %q, want configured gpt-4o", a.config.Model)
	}
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	a := NewOpenAIAnswerer(Config{APIKey: "test-key"})
	if _, err := a.Answer(context.Background(), "  ", "some context"); err == nil {
		t.Error("expected error for empty question")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Did they collaborate?", "A collaborated with B.")

	if !strings.HasPrefix(prompt, "Knowledge graph context:\n") {
		t.Errorf("prompt missing context header: %q", prompt)
	}
	if !strings.Contains(prompt, "A collaborated with B.") {
		t.Error("prompt missing graph context")
	}
	if !strings.Contains(prompt, "Question: Did they collaborate?") {
		t.Error("prompt missing question")
	}
	if !strings.HasSuffix(prompt, "Answer:") {
		t.Errorf("prompt missing answer cue: %q", prompt)
	}
}
