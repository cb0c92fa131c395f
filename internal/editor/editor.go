// Package editor drives one image-editing session: fanning a single edit
// request out across the three supported aspect ratios, and keeping a
// one-level undo/redo of the resulting variation set.
package editor

import (
	"context"
	"strings"
	"sync"

	"lumina/internal/gemini"
	"lumina/internal/models"
	"lumina/internal/observability"
	"lumina/internal/session"

	"golang.org/x/sync/errgroup"
)

// Session is the slice of the session manager the orchestrator needs:
// reserving credits before a paid operation and logging produced variations.
type Session interface {
	Current() (*models.UserBundle, bool)
	DeductCredits(ctx context.Context, amount int) (bool, error)
	LogGeneration(ctx context.Context, in session.EditInput) (*models.SavedEdit, error)
}

// Image is a base image held by the orchestrator: raw bytes for upstream
// calls plus a reference string recorded in history entries.
type Image struct {
	Data     []byte
	MIMEType string
	Ref      string
}

// State is a snapshot of the editing session for API responses.
type State struct {
	BaseRef    string            `json:"base,omitempty"`
	InitialRef string            `json:"initialUpload,omitempty"`
	Prompt     string            `json:"prompt,omitempty"`
	Variations models.Variations `json:"variations"`
	CanUndo    bool              `json:"canUndo"`
	CanRedo    bool              `json:"canRedo"`
}

// Orchestrator owns the editing chain for the active session. It does not
// serialize overlapping RequestEdit calls — callers are expected to disable
// the trigger while a request is in flight — but each publish of the
// variation set is atomic.
type Orchestrator struct {
	editor  gemini.ImageEditor
	videos  gemini.VideoGenerator
	session Session

	mu         sync.Mutex
	initial    *Image
	base       *Image
	prompt     string
	variations models.Variations
	redo       *models.Variations
}

// New creates an orchestrator with no image loaded.
func New(imageEditor gemini.ImageEditor, videos gemini.VideoGenerator, sess Session) *Orchestrator {
	return &Orchestrator{editor: imageEditor, videos: videos, session: sess}
}

// Upload installs a new base image and hard-resets the editing chain.
func (o *Orchestrator) Upload(img Image) State {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.initial = &img
	o.base = &img
	o.prompt = ""
	o.variations = models.Variations{}
	o.redo = nil
	return o.stateLocked()
}

// Base returns the current base image, if one is loaded.
func (o *Orchestrator) Base() (Image, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.base == nil {
		return Image{}, false
	}
	return *o.base, true
}

// State returns a snapshot of the current editing session.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() State {
	s := State{
		Prompt:     o.prompt,
		Variations: o.variations,
		CanUndo:    !o.variations.IsEmpty(),
		CanRedo:    o.redo != nil,
	}
	if o.base != nil {
		s.BaseRef = o.base.Ref
	}
	if o.initial != nil {
		s.InitialRef = o.initial.Ref
	}
	return s
}

// RequestEdit runs one edit across all three aspect ratios. The variation
// set is only published once every ratio has resolved; if any one fails, the
// prior variation state is left untouched. Credits are reserved up front and
// are not refunded on failure.
func (o *Orchestrator) RequestEdit(ctx context.Context, prompt string, quality models.PortraitQuality) (models.Variations, error) {
	prompt = strings.TrimSpace(prompt)

	o.mu.Lock()
	base := o.base
	o.mu.Unlock()

	if base == nil || prompt == "" {
		return models.Variations{}, models.NewValidationError("Please upload an image and enter an editing prompt.")
	}
	if quality == "" {
		quality = models.QualityFHD
	}

	if err := o.reserveCredits(ctx, models.EditCost, "edit"); err != nil {
		return models.Variations{}, err
	}

	instructions := buildRatioPrompts(prompt, quality)
	results := make([][]byte, len(models.Ratios))

	g, gctx := errgroup.WithContext(ctx)
	for i, ratio := range models.Ratios {
		g.Go(func() error {
			data, err := o.editor.EditImage(gctx, gemini.Image{Data: base.Data, MIMEType: base.MIMEType}, instructions[ratio])
			if err != nil {
				observability.GenerationsTotal.WithLabelValues(ratio, "error").Inc()
				return err
			}
			observability.GenerationsTotal.WithLabelValues(ratio, "success").Inc()
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Variations{}, err
	}

	var produced models.Variations
	for i, ratio := range models.Ratios {
		ref := EncodeDataURL("image/jpeg", results[i])
		produced.Set(ratio, ref)
		if _, err := o.session.LogGeneration(ctx, session.EditInput{
			Original: base.Ref,
			Edited:   ref,
			Prompt:   prompt,
		}); err != nil {
			return models.Variations{}, err
		}
	}

	o.mu.Lock()
	o.prompt = prompt
	o.variations = produced
	o.redo = nil
	o.mu.Unlock()

	return produced, nil
}

// reserveCredits deducts the cost of a paid operation, translating a failed
// reservation into the insufficient-credits condition.
func (o *Orchestrator) reserveCredits(ctx context.Context, cost int, operation string) error {
	ok, err := o.session.DeductCredits(ctx, cost)
	if err != nil {
		return err
	}
	if !ok {
		balance := 0
		if bundle, active := o.session.Current(); active {
			balance = bundle.Credits
		}
		return models.NewInsufficientCreditsError(cost, balance)
	}
	observability.CreditsSpentTotal.WithLabelValues(operation).Add(float64(cost))
	return nil
}

// Undo moves the current variation set into the redo buffer and clears the
// visible set. With nothing to undo it is a no-op.
func (o *Orchestrator) Undo() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.variations.IsEmpty() {
		return o.stateLocked()
	}
	snapshot := o.variations
	o.redo = &snapshot
	o.variations = models.Variations{}
	return o.stateLocked()
}

// Redo restores the snapshot from the redo buffer, if any, and clears the
// buffer. The buffer holds at most one snapshot — there is no multi-level
// history.
func (o *Orchestrator) Redo() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.redo == nil {
		return o.stateLocked()
	}
	o.variations = *o.redo
	o.redo = nil
	return o.stateLocked()
}

// SetAsBase promotes the variation for the given ratio to be the base image
// for subsequent edits. This is a hard reset of the editing chain:
// variations, redo buffer, and prompt are all cleared.
func (o *Orchestrator) SetAsBase(ratio string) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ref := o.variations.Get(ratio)
	if ref == "" {
		return o.stateLocked(), models.NewValidationError("No variation available for that aspect ratio.")
	}
	img, err := DecodeDataURL(ref)
	if err != nil {
		return o.stateLocked(), models.NewValidationError("Variation image could not be decoded.")
	}

	o.base = &img
	o.variations = models.Variations{}
	o.redo = nil
	o.prompt = ""
	return o.stateLocked(), nil
}

// ResetToInitialUpload restores the very first uploaded image as the base,
// discarding all downstream edits in the session.
func (o *Orchestrator) ResetToInitialUpload() (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initial == nil {
		return o.stateLocked(), models.NewValidationError("No uploaded image to reset to.")
	}
	o.base = o.initial
	o.variations = models.Variations{}
	o.redo = nil
	o.prompt = ""
	return o.stateLocked(), nil
}

// GenerateVideo animates the current base image. It follows the same credit
// policy as edits: reserve up front, no refund on failure.
func (o *Orchestrator) GenerateVideo(ctx context.Context, prompt, aspectRatio, resolution string) (string, error) {
	prompt = strings.TrimSpace(prompt)

	o.mu.Lock()
	base := o.base
	o.mu.Unlock()

	if base == nil || prompt == "" {
		return "", models.NewValidationError("Please upload an image and enter a prompt.")
	}
	if aspectRatio != models.RatioLandscape && aspectRatio != models.RatioPortrait {
		return "", models.NewValidationError("Video aspect ratio must be 16:9 or 9:16.")
	}
	if resolution != "720p" && resolution != "1080p" {
		return "", models.NewValidationError("Video resolution must be 720p or 1080p.")
	}

	if err := o.reserveCredits(ctx, models.VideoCost, "video"); err != nil {
		return "", err
	}

	return o.videos.GenerateVideo(ctx, gemini.Image{Data: base.Data, MIMEType: base.MIMEType}, prompt, aspectRatio, resolution)
}
