package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lumina/internal/models"
	"lumina/internal/observability"

	"google.golang.org/genai"
)

const (
	videoPollInterval = 10 * time.Second
	videoPollBudget   = 10 * time.Minute
	// The operations endpoint can briefly 404 a freshly created operation;
	// tolerate a few consecutive poll errors before giving up.
	videoPollErrorTolerance = 3
)

// GenerateVideo starts a video generation operation and polls it to
// completion, returning the URI of the produced video resource. Polling is
// bounded; an operation that outlives the budget fails rather than hanging.
func (c *Client) GenerateVideo(ctx context.Context, img Image, prompt, aspectRatio, resolution string) (string, error) {
	ctx, span := observability.Tracer.Start(ctx, "gemini.GenerateVideo")
	defer span.End()
	defer observability.TrackUpstream("generate_video")()

	op, err := c.client.Models.GenerateVideos(ctx, c.videoModel, prompt,
		&genai.Image{ImageBytes: img.Data, MIMEType: img.MIMEType},
		&genai.GenerateVideosConfig{
			AspectRatio: aspectRatio,
			Resolution:  resolution,
		})
	if err != nil {
		observability.LogUpstreamCall(ctx, "generate_video", err, nil)
		return "", models.NewGenerationFailedError("Video generation could not be started.", err)
	}

	deadline := time.Now().Add(videoPollBudget)
	pollErrors := 0
	for !op.Done {
		if time.Now().After(deadline) {
			return "", models.NewGenerationFailedError("Video generation timed out.", nil)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(videoPollInterval):
		}

		next, err := c.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			pollErrors++
			if pollErrors > videoPollErrorTolerance && !isNotFound(err) {
				observability.LogUpstreamCall(ctx, "generate_video", err, nil)
				return "", models.NewGenerationFailedError("Video generation failed while polling.", err)
			}
			continue
		}
		pollErrors = 0
		op = next
	}

	uri, err := extractVideoURI(op)
	observability.LogUpstreamCall(ctx, "generate_video", err, map[string]any{"model": c.videoModel})
	return uri, err
}

func extractVideoURI(op *genai.GenerateVideosOperation) (string, error) {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return "", models.NewGenerationFailedError("Video generation completed without a result.", nil)
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil || video.URI == "" {
		return "", models.NewGenerationFailedError("Video generation returned no downloadable resource.", nil)
	}
	return video.URI, nil
}

func isNotFound(err error) bool {
	return strings.Contains(fmt.Sprintf("%v", err), "not found") ||
		strings.Contains(fmt.Sprintf("%v", err), "404")
}
