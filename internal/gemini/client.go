// Package gemini wraps the Google generative AI service. The rest of the
// application talks to the small interfaces defined here so tests can swap
// in fakes.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"lumina/internal/models"
	"lumina/internal/observability"

	"google.golang.org/genai"
)

// Image is one image payload sent upstream.
type Image struct {
	Data     []byte
	MIMEType string
}

// ImageEditor performs a single image edit with a free-text instruction.
type ImageEditor interface {
	EditImage(ctx context.Context, img Image, instruction string) ([]byte, error)
}

// VideoGenerator turns an image and a prompt into a fetchable video resource
// location.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, img Image, prompt, aspectRatio, resolution string) (string, error)
}

// PromptSuggester produces a category -> suggestions taxonomy for an image.
type PromptSuggester interface {
	SuggestPrompts(ctx context.Context, img Image) (map[string][]string, error)
}

// Client calls the Gemini API. It implements ImageEditor, VideoGenerator,
// and PromptSuggester.
type Client struct {
	client     *genai.Client
	imageModel string
	videoModel string
	textModel  string
}

// Config selects the API key and model names.
type Config struct {
	APIKey     string
	ImageModel string
	VideoModel string
	TextModel  string
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gemini-2.5-flash-image"
	}
	if cfg.VideoModel == "" {
		cfg.VideoModel = "veo-3.0-generate-001"
	}
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client:     client,
		imageModel: cfg.ImageModel,
		videoModel: cfg.VideoModel,
		textModel:  cfg.TextModel,
	}, nil
}

// EditImage sends the image and instruction to the image model and returns
// the edited image bytes. Safety refusals and text-only responses are
// surfaced as distinguishable errors.
func (c *Client) EditImage(ctx context.Context, img Image, instruction string) ([]byte, error) {
	ctx, span := observability.Tracer.Start(ctx, "gemini.EditImage")
	defer span.End()
	defer observability.TrackUpstream("edit_image")()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.MIMEType),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		observability.LogUpstreamCall(ctx, "edit_image", err, nil)
		return nil, models.NewGenerationFailedError("The AI service request failed.", err)
	}

	data, err := extractEditedImage(resp)
	observability.LogUpstreamCall(ctx, "edit_image", err, map[string]any{"model": c.imageModel})
	return data, err
}

// extractEditedImage pulls the image bytes out of a generate-content
// response, mapping the failure shapes of the upstream service onto the
// application error taxonomy.
func extractEditedImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 {
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			msg := fmt.Sprintf("Request was blocked for reason: %s.", fb.BlockReason)
			if fb.BlockReasonMessage != "" {
				msg += " Details: " + fb.BlockReasonMessage
			}
			return nil, models.NewContentBlockedError(msg)
		}
		return nil, models.NewContentBlockedError(
			"AI response was blocked, which may be due to safety policies. Please adjust your prompt and try again.")
	}

	if content := resp.Candidates[0].Content; content != nil {
		for _, part := range content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	// No image part; a text response may explain the refusal.
	if text := strings.TrimSpace(resp.Text()); text != "" {
		return nil, models.NewGenerationFailedError(
			fmt.Sprintf("AI did not return an image, but provided a text response: %q", text), nil)
	}

	return nil, models.NewGenerationFailedError(
		"AI did not return an image. The response may have been empty or refused due to safety policies. Please try a different prompt.", nil)
}
