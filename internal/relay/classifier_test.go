package relay

import (
	"testing"

	"floodbot/internal/domain"
)

func TestClassify_FloodMarker(t *testing.T) {
	c := NewClassifier(true)
	for _, text := range []string{"/flood", "/FLOOD", "tell me /flood now", "prefix/Flood"} {
		if got := c.Classify(text); got != domain.IntentFlood {
			t.Errorf("Classify(%q) = %s, want flood", text, got)
		}
	}
}

func TestClassify_PrepMarker(t *testing.T) {
	c := NewClassifier(true)
	for _, text := range []string{"/disruption", "/DISRUPTION info", "x /Disruption"} {
		if got := c.Classify(text); got != domain.IntentPrep {
			t.Errorf("Classify(%q) = %s, want prep", text, got)
		}
	}
}

func TestClassify_FloodWinsOverPrep(t *testing.T) {
	c := NewClassifier(true)
	if got := c.Classify("/disruption and /flood"); got != domain.IntentFlood {
		t.Errorf("Classify = %s, want flood when both markers present", got)
	}
}

func TestClassify_PrepDisabled(t *testing.T) {
	c := NewClassifier(false)
	if got := c.Classify("/disruption"); got != domain.IntentNone {
		t.Errorf("Classify = %s, want none when prep is not configured", got)
	}
}

func TestClassify_NoMarker(t *testing.T) {
	c := NewClassifier(true)
	for _, text := range []string{"", "hello", "flooding is bad", "disruption"} {
		if got := c.Classify(text); got != domain.IntentNone {
			t.Errorf("Classify(%q) = %s, want none", text, got)
		}
	}
}
