package ai

import (
	"context"
	"testing"

	"quant_architect/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisPrompt(t *testing.T) {
	p := AnalysisPrompt("  nvda  ", models.ModeScalp)

	assert.Equal(t, SystemPrompt, p.System)
	assert.Equal(t, float32(0.2), p.Temperature)
	assert.True(t, p.Search)
	assert.Contains(t, p.Instruction, "COMMAND: nvda.")
	assert.Contains(t, p.Instruction, "ACTIVE TRADING MODE: SCALP")
}

func TestSystemPromptNamesEveryTimeframe(t *testing.T) {
	for _, tf := range models.Timeframes {
		assert.Contains(t, SystemPrompt, `"tf": "`+tf+`"`)
	}
}

func TestUnconfigured(t *testing.T) {
	var g Generator = Unconfigured{}

	assert.False(t, g.Configured())
	_, err := g.Generate(context.Background(), Prompt{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
