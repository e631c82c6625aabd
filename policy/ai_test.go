package policy

import (
	"testing"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldFlagAIIndicators_FullVibeNeverFlags(t *testing.T) {
	e, err := NewEvaluator()
	require.NoError(t, err)

	flag, err := e.ShouldFlagAIIndicators(model.PolicyFullVibe, 10.0)
	require.NoError(t, err)
	assert.False(t, flag)
}

func TestShouldFlagAIIndicators_TraditionalFlagsAtLowerThreshold(t *testing.T) {
	e, err := NewEvaluator()
	require.NoError(t, err)

	flag, err := e.ShouldFlagAIIndicators(model.PolicyTraditional, 4.0)
	require.NoError(t, err)
	assert.True(t, flag)

	flag, err = e.ShouldFlagAIIndicators(model.PolicyTraditional, 2.0)
	require.NoError(t, err)
	assert.False(t, flag)
}

func TestShouldFlagAIIndicators_AIAssistedRequiresHigherScore(t *testing.T) {
	e, err := NewEvaluator()
	require.NoError(t, err)

	flag, err := e.ShouldFlagAIIndicators(model.PolicyAIAssisted, 5.0)
	require.NoError(t, err)
	assert.False(t, flag)

	flag, err = e.ShouldFlagAIIndicators(model.PolicyAIAssisted, 9.0)
	require.NoError(t, err)
	assert.True(t, flag)
}

func TestShouldFlagAIIndicators_UnrecognizedModeFallsBackToCustom(t *testing.T) {
	e, err := NewEvaluator()
	require.NoError(t, err)

	flag, err := e.ShouldFlagAIIndicators(model.AIPolicyMode("not_a_real_mode"), 6.0)
	require.NoError(t, err)
	assert.True(t, flag)
}
