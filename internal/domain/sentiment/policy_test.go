package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopEmotionPicksHighestScore(t *testing.T) {
	scores := []EmotionScore{
		{Label: "joy", Score: 0.95},
		{Label: "surprise", Score: 0.03},
		{Label: "neutral", Score: 0.02},
	}

	top, err := TopEmotion(scores)
	require.NoError(t, err)
	assert.Equal(t, "joy", top.Label)
	assert.Equal(t, 0.95, top.Score)
}

func TestTopEmotionTieKeepsFirstOccurrence(t *testing.T) {
	scores := []EmotionScore{
		{Label: "anger", Score: 0.4},
		{Label: "fear", Score: 0.4},
		{Label: "joy", Score: 0.2},
	}

	top, err := TopEmotion(scores)
	require.NoError(t, err)
	assert.Equal(t, "anger", top.Label)
}

func TestTopEmotionEmptyInput(t *testing.T) {
	_, err := TopEmotion(nil)
	assert.ErrorIs(t, err, ErrNoScores)

	_, err = TopEmotion([]EmotionScore{})
	assert.ErrorIs(t, err, ErrNoScores)
}

func TestNegativePolicyDefaults(t *testing.T) {
	p := DefaultNegativePolicy()

	for _, label := range []string{"anger", "fear", "sadness", "disgust"} {
		assert.True(t, p.IsNegative(label), "expected %q to be negative", label)
	}
	for _, label := range []string{"joy", "surprise", "neutral"} {
		assert.False(t, p.IsNegative(label), "expected %q to be non-negative", label)
	}
}

func TestNegativePolicyCaseInsensitive(t *testing.T) {
	p := DefaultNegativePolicy()

	assert.True(t, p.IsNegative("Anger"))
	assert.True(t, p.IsNegative("SADNESS"))
	assert.False(t, p.IsNegative("Joy"))
}

func TestNegativePolicyCustomSet(t *testing.T) {
	p := NewNegativePolicy([]string{"negative"})

	assert.True(t, p.IsNegative("negative"))
	assert.False(t, p.IsNegative("anger"))
}
