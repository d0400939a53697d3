package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sundramrai3691/Farm-Guru/internal/models"
)

func TestLocalizedFallbackEnglishIrrigation(t *testing.T) {
	resp := LocalizedFallback("when should I water my crops", "en", "")

	assert.Contains(t, resp.Answer, "check soil moisture levels")
	assert.InDelta(t, 0.6, resp.Confidence, 1e-9)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "ICAR Guidelines", resp.Sources[0].Title)
	assert.Equal(t, models.ModeFallback, resp.Meta["mode"])
	assert.Equal(t, "en", resp.Meta["language"])
}

func TestLocalizedFallbackHindi(t *testing.T) {
	resp := LocalizedFallback("pest on my tomato", "hi", "")

	assert.Contains(t, resp.Answer, "कीट और रोग प्रबंधन")
	require.Len(t, resp.Actions, 3)
	assert.Equal(t, "hi", resp.Meta["language"])
	assert.Equal(t, "ICAR दिशानिर्देश", resp.Sources[0].Title)
}

func TestLocalizedFallbackUnknownLanguageDefaultsToEnglish(t *testing.T) {
	resp := LocalizedFallback("anything", "fr", "")

	assert.Equal(t, "en", resp.Meta["language"])
	assert.Contains(t, resp.Answer, "I'm here to help")
}

func TestLocalizedFallbackGeneralAdvice(t *testing.T) {
	resp := LocalizedFallback("tell me about farming", "en", "")

	assert.Contains(t, resp.Answer, "general farming tips")
	require.Len(t, resp.Actions, 3)
	assert.Equal(t, "Conduct soil testing", resp.Actions[0])
}

func TestLocalizedFallbackImageContext(t *testing.T) {
	resp := LocalizedFallback("what is wrong", "en", "yellow leaves")

	assert.Contains(t, resp.Answer, "Based on the uploaded image (yellow leaves):")
	assert.Equal(t, true, resp.Meta["has_image"])
}
