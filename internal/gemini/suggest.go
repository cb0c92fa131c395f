package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"lumina/internal/models"
	"lumina/internal/observability"

	"google.golang.org/genai"
)

const suggestInstruction = `Look at this image and suggest short, creative prompts for animating it as a video.
Respond with a JSON object mapping a few category names (like "Motion", "Atmosphere", "Camera") to arrays of 4-6 short prompt strings.
Respond with JSON only, no commentary.`

// SuggestPrompts asks the text model for a taxonomy of animation prompt
// suggestions for the given image.
func (c *Client) SuggestPrompts(ctx context.Context, img Image) (map[string][]string, error) {
	ctx, span := observability.Tracer.Start(ctx, "gemini.SuggestPrompts")
	defer span.End()
	defer observability.TrackUpstream("suggest_prompts")()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.MIMEType),
			genai.NewPartFromText(suggestInstruction),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		observability.LogUpstreamCall(ctx, "suggest_prompts", err, nil)
		return nil, models.NewGenerationFailedError("Prompt suggestions could not be generated.", err)
	}

	suggestions, err := parseSuggestions(resp.Text())
	observability.LogUpstreamCall(ctx, "suggest_prompts", err, map[string]any{"model": c.textModel})
	return suggestions, err
}

func parseSuggestions(raw string) (map[string][]string, error) {
	raw = strings.TrimSpace(raw)
	// Some model responses still wrap JSON in a markdown fence.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var suggestions map[string][]string
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		return nil, models.NewGenerationFailedError("Prompt suggestions were not valid JSON.", err)
	}
	if len(suggestions) == 0 {
		return nil, models.NewGenerationFailedError("Prompt suggestions were empty.", nil)
	}
	return suggestions, nil
}
