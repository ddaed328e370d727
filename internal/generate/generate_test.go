package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierValidate(t *testing.T) {
	assert.NoError(t, TierFast.Validate())
	assert.NoError(t, TierQuality.Validate())

	err := Tier("turbo").Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model tier")
}

func TestNewAnthropic(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")

		_, err := NewAnthropic(AnthropicConfig{
			FastModel:    "claude-haiku",
			QualityModel: "claude-sonnet",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errAPIKeyRequired)
	})

	t.Run("requires both model IDs", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "test-key")

		_, err := NewAnthropic(AnthropicConfig{FastModel: "claude-haiku"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model IDs must be configured")
	})

	t.Run("env var takes precedence", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "env-key")

		gen, err := NewAnthropic(AnthropicConfig{
			APIKey:       "config-key",
			FastModel:    "claude-haiku",
			QualityModel: "claude-sonnet",
		})
		require.NoError(t, err)
		assert.NotNil(t, gen)
	})
}
