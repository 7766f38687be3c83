package ai

import "os"

// Socrates uses a tiered approach to model selection based on task
// complexity: the default model handles dialogue generation and code
// generation, while simple tasks (categorization, summaries) use the
// cheaper tier.
//
// Environment variable overrides:
// - SOCRATES_MODEL_DEFAULT: Override default model
// - SOCRATES_MODEL_SIMPLE: Override model for simple tasks
const (
	// ModelSonnet is the high-end model for complex reasoning tasks
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelHaiku is the cost-efficient model for simple tasks
	ModelHaiku = "claude-3-5-haiku-20241022"
)

// GetDefaultModel returns the default model, checking SOCRATES_MODEL_DEFAULT first
func GetDefaultModel() string {
	if model := os.Getenv("SOCRATES_MODEL_DEFAULT"); model != "" {
		return model
	}
	return ModelSonnet
}

// GetSimpleTaskModel returns the model for simple tasks, checking SOCRATES_MODEL_SIMPLE first
func GetSimpleTaskModel() string {
	if model := os.Getenv("SOCRATES_MODEL_SIMPLE"); model != "" {
		return model
	}
	return ModelHaiku
}

// Per-1M-token prices used for cost estimates in the usage ledger.
var modelPricing = map[string]struct {
	inputUSD  float64
	outputUSD float64
}{
	ModelSonnet: {inputUSD: 3.00, outputUSD: 15.00},
	ModelHaiku:  {inputUSD: 0.80, outputUSD: 4.00},
}

// EstimateCost returns the estimated USD cost for a call. Unknown models
// estimate at the default model's rates.
func EstimateCost(model string, inputTokens, outputTokens int64) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		pricing = modelPricing[ModelSonnet]
	}
	return float64(inputTokens)/1e6*pricing.inputUSD + float64(outputTokens)/1e6*pricing.outputUSD
}
