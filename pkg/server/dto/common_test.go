package dto

import (
	"errors"
	"strings"
	"testing"
)

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantErr  bool
	}{
		{"valid", "Did Taylor Swift collaborate with Ed Sheeran?", false},
		{"empty", "", true},
		{"whitespace only", "   \t", true},
		{"at the limit", strings.Repeat("q", MaxQuestionLength), false},
		{"over the limit", strings.Repeat("q", MaxQuestionLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ChatRequest{Question: tt.question}
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChatRequestTooLongSentinel(t *testing.T) {
	req := ChatRequest{Question: strings.Repeat("q", MaxQuestionLength+1)}
	if err := req.Validate(); !errors.Is(err, ErrQuestionTooLong) {
		t.Errorf("expected ErrQuestionTooLong, got %v", err)
	}
}

func TestGraphQueryRequestValidate(t *testing.T) {
	valid := GraphQueryRequest{Query: "connections of Adele"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	hops := GraphQueryRequest{Query: "connections of Adele", MaxHops: 2}
	if err := hops.Validate(); err != nil {
		t.Errorf("unexpected error with max hops set: %v", err)
	}

	empty := GraphQueryRequest{Query: " "}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for blank query")
	}

	long := GraphQueryRequest{Query: strings.Repeat("q", MaxQuestionLength+1)}
	if err := long.Validate(); !errors.Is(err, ErrQuestionTooLong) {
		t.Errorf("expected ErrQuestionTooLong, got %v", err)
	}
}
