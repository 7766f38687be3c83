package ai

import (
	"math"
	"testing"
)

func TestModelSelection(t *testing.T) {
	if got := GetDefaultModel(); got != ModelSonnet {
		t.Errorf("Expected %s, got %s", ModelSonnet, got)
	}
	if got := GetSimpleTaskModel(); got != ModelHaiku {
		t.Errorf("Expected %s, got %s", ModelHaiku, got)
	}

	t.Setenv("SOCRATES_MODEL_DEFAULT", "custom-model")
	if got := GetDefaultModel(); got != "custom-model" {
		t.Errorf("Expected env override, got %s", got)
	}

	t.Setenv("SOCRATES_MODEL_SIMPLE", "custom-simple")
	if got := GetSimpleTaskModel(); got != "custom-simple" {
		t.Errorf("Expected env override, got %s", got)
	}
}

func TestEstimateCost(t *testing.T) {
	// 1M input + 1M output at sonnet rates
	got := EstimateCost(ModelSonnet, 1_000_000, 1_000_000)
	if math.Abs(got-18.00) > 1e-9 {
		t.Errorf("Expected $18.00, got %v", got)
	}

	got = EstimateCost(ModelHaiku, 500_000, 0)
	if math.Abs(got-0.40) > 1e-9 {
		t.Errorf("Expected $0.40, got %v", got)
	}

	// Unknown models price at the default tier
	unknown := EstimateCost("mystery-model", 1_000_000, 0)
	sonnet := EstimateCost(ModelSonnet, 1_000_000, 0)
	if unknown != sonnet {
		t.Errorf("Expected unknown model priced as default, got %v vs %v", unknown, sonnet)
	}

	if got := EstimateCost(ModelSonnet, 0, 0); got != 0 {
		t.Errorf("Expected zero cost for zero tokens, got %v", got)
	}
}
