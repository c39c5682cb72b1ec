package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Pricing defines USD cost per 1M tokens for input/output.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// defaultPricing provides hardcoded USD pricing per 1M text tokens.
var defaultPricing = map[string]Pricing{
	"gemini-2.5-flash":           {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite":      {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.5-pro":             {InputPerM: 1.25, OutputPerM: 10.00},
	"claude-3-5-sonnet-20240620": {InputPerM: 3.00, OutputPerM: 15.00},
	"claude-3-5-haiku-20241022":  {InputPerM: 0.80, OutputPerM: 4.00},
	"gpt-4o":                     {InputPerM: 2.50, OutputPerM: 10.00},
	"gpt-4o-mini":                {InputPerM: 0.15, OutputPerM: 0.60},
}

// ResolvePricing returns the pricing of model. Versioned names such as
// "gpt-4o-2024-08-06" fall back to the longest known prefix; unknown models
// cost zero.
func ResolvePricing(model string) Pricing {
	model = strings.ToLower(strings.TrimSpace(model))
	if p, ok := defaultPricing[model]; ok {
		return p
	}
	var (
		best    Pricing
		bestLen int
	)
	for name, p := range defaultPricing {
		if strings.HasPrefix(model, name) && len(name) > bestLen {
			best, bestLen = p, len(name)
		}
	}
	return best
}

// ComputeCost converts token usage to USD cost using per-1M Pricing.
func ComputeCost(usage *schema.TokenUsage, p Pricing) (inputCost, outputCost, total float64) {
	if usage == nil {
		return 0, 0, 0
	}
	inputCost = p.InputPerM * float64(usage.PromptTokens) / 1_000_000.0
	outputCost = p.OutputPerM * float64(usage.CompletionTokens) / 1_000_000.0
	total = inputCost + outputCost
	return
}
