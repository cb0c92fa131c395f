package gemini

import (
	"testing"

	"lumina/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestExtractEditedImageReturnsInlineData(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
			}},
		}},
	}

	data, err := extractEditedImage(resp)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, data)
}

func TestExtractEditedImageBlockedPrompt(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason:        genai.BlockedReasonSafety,
			BlockReasonMessage: "unsafe content",
		},
	}

	_, err := extractEditedImage(resp)
	assert.Equal(t, models.CodeContentBlocked, appCode(t, err))
	assert.Contains(t, err.Error(), "unsafe content")
}

func TestExtractEditedImageNoCandidates(t *testing.T) {
	_, err := extractEditedImage(&genai.GenerateContentResponse{})
	assert.Equal(t, models.CodeContentBlocked, appCode(t, err))
}

func TestExtractEditedImageTextOnlyRefusal(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "I cannot edit this image."},
			}},
		}},
	}

	_, err := extractEditedImage(resp)
	assert.Equal(t, models.CodeGenerationFailed, appCode(t, err))
	assert.Contains(t, err.Error(), "I cannot edit this image.")
}

func TestExtractEditedImageEmptyContent(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	}

	_, err := extractEditedImage(resp)
	assert.Equal(t, models.CodeGenerationFailed, appCode(t, err))
}

func TestParseSuggestions(t *testing.T) {
	got, err := parseSuggestions(`{"Motion": ["slow zoom in", "gentle pan"], "Atmosphere": ["add drifting fog"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"slow zoom in", "gentle pan"}, got["Motion"])
	assert.Equal(t, []string{"add drifting fog"}, got["Atmosphere"])
}

func TestParseSuggestionsStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"Camera\": [\"orbit left\"]}\n```"

	got, err := parseSuggestions(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"orbit left"}, got["Camera"])
}

func TestParseSuggestionsInvalidJSON(t *testing.T) {
	_, err := parseSuggestions("not json at all")
	assert.Equal(t, models.CodeGenerationFailed, appCode(t, err))
}

func TestParseSuggestionsEmptyObject(t *testing.T) {
	_, err := parseSuggestions("{}")
	assert.Equal(t, models.CodeGenerationFailed, appCode(t, err))
}
