package domain

import "testing"

func TestParseStageAcceptsAllEnumMembers(t *testing.T) {
	for _, stage := range Stages {
		parsed, ok := ParseStage(string(stage))
		if !ok || parsed != stage {
			t.Fatalf("expected %q to parse, got %q ok=%v", stage, parsed, ok)
		}
	}
}

func TestParseStageRejectsUnknownAndCaseMismatch(t *testing.T) {
	for _, value := range []string{"", "bogus", "won", "NEW", "demo scheduled"} {
		if _, ok := ParseStage(value); ok {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
