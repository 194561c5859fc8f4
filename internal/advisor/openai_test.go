package advisor

import (
	"errors"
	"strings"
	"testing"

	"RTMonitor/internal/model"
)

// The oscillator is positive when price sits above its EMA; the prompt
// must state the same convention or the model flips its trend labels.
func TestSystemPromptSignConvention(t *testing.T) {
	if !strings.Contains(systemPrompt, "positive means price is above its mean") {
		t.Fatal("prompt sign convention does not match the oscillator")
	}
	if strings.Contains(systemPrompt, "positive means price is below") {
		t.Fatal("prompt describes an inverted sign convention")
	}
}

func TestParseAssessment_PlainJSON(t *testing.T) {
	got, err := parseAssessment(`{"label": "Trending Up", "rationale": "sustained positive RTM"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != model.LabelTrendingUp {
		t.Errorf("expected %q, got %q", model.LabelTrendingUp, got.Label)
	}
	if got.Rationale == "" {
		t.Error("expected rationale to survive parsing")
	}
}

func TestParseAssessment_FencedJSON(t *testing.T) {
	content := "```json\n{\"label\": \"Ranging\", \"rationale\": \"oscillating around zero\"}\n```"
	got, err := parseAssessment(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != model.LabelRanging {
		t.Errorf("expected %q, got %q", model.LabelRanging, got.Label)
	}
}

func TestParseAssessment_BadJSON(t *testing.T) {
	_, err := parseAssessment("the market looks bullish to me")
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestParseAssessment_UnknownLabel(t *testing.T) {
	_, err := parseAssessment(`{"label": "Moonshot", "rationale": "vibes"}`)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}
