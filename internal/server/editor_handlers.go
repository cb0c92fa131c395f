package server

import (
	"lumina/internal/editor"
	"lumina/internal/gemini"
	"lumina/internal/imaging"
	"lumina/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetEditorState handles GET /api/editor/state
// @Summary Get the editing session state
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} editor.State
// @Failure 401 {object} models.ErrorResponse
// @Router /editor/state [get]
func (s *Server) GetEditorState(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.orchestrator.State())
}

// UploadPhoto handles POST /api/editor/upload
// @Summary Upload a photo to edit
// @Description Installs the photo as the base image and hard-resets the editing chain: variations, undo/redo, and prompt are all cleared.
// @Tags editor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Photo"
// @Success 200 {object} editor.State
// @Failure 400 {object} models.ErrorResponse
// @Router /editor/upload [post]
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	content, contentType, err := readUploadedFile(c)
	if err != nil {
		return respondError(c, err)
	}
	photo, err := imaging.ValidatePhoto(content, contentType, s.config.MaxUploadSizeMB)
	if err != nil {
		return respondError(c, err)
	}

	state := s.orchestrator.Upload(editor.Image{
		Data:     photo.Data,
		MIMEType: photo.MIMEType,
		Ref:      editor.EncodeDataURL(photo.MIMEType, photo.Data),
	})
	return c.JSON(state)
}

// RequestEdit handles POST /api/editor/edit
// @Summary Run an AI edit across all aspect ratios
// @Description Costs 20 credits (free for premium). Generates the edit as square, landscape, and portrait variations; the set is published only if every ratio succeeds. Credits are not refunded on failure.
// @Tags editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{prompt=string,portraitQuality=string} true "Edit request; portraitQuality is hd or fhd"
// @Success 200 {object} editor.State
// @Failure 402 {object} models.ErrorResponse "Insufficient credits"
// @Failure 422 {object} models.ErrorResponse "Blocked by safety policies"
// @Failure 502 {object} models.ErrorResponse "Generation failed"
// @Router /editor/edit [post]
func (s *Server) RequestEdit(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Prompt          string `json:"prompt"`
		PortraitQuality string `json:"portraitQuality"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	quality := models.PortraitQuality(req.PortraitQuality)
	switch quality {
	case "", models.QualityHD, models.QualityFHD:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("portraitQuality must be hd or fhd"))
	}

	if _, err := s.orchestrator.RequestEdit(c.UserContext(), req.Prompt, quality); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.orchestrator.State())
}

// UndoEdit handles POST /api/editor/undo
// @Summary Undo the last edit
// @Description Clears the visible variation set, keeping it in a one-level redo buffer. A no-op when there is nothing to undo.
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} editor.State
// @Router /editor/undo [post]
func (s *Server) UndoEdit(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.orchestrator.Undo())
}

// RedoEdit handles POST /api/editor/redo
// @Summary Redo the undone edit
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} editor.State
// @Router /editor/redo [post]
func (s *Server) RedoEdit(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.orchestrator.Redo())
}

// SetAsBase handles POST /api/editor/base
// @Summary Promote a variation to be the base image
// @Description Subsequent edits chain on the promoted variation. Resets variations, redo buffer, and prompt.
// @Tags editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{ratio=string} true "Aspect ratio of the variation (1:1, 16:9, 9:16)"
// @Success 200 {object} editor.State
// @Failure 400 {object} models.ErrorResponse
// @Router /editor/base [post]
func (s *Server) SetAsBase(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Ratio string `json:"ratio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	state, err := s.orchestrator.SetAsBase(req.Ratio)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

// ResetEditor handles POST /api/editor/reset
// @Summary Reset to the initial upload
// @Description Restores the very first uploaded image as the base, discarding all downstream edits in the session.
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} editor.State
// @Failure 400 {object} models.ErrorResponse
// @Router /editor/reset [post]
func (s *Server) ResetEditor(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	state, err := s.orchestrator.ResetToInitialUpload()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

// GenerateVideo handles POST /api/editor/video
// @Summary Animate the base image into a video
// @Description Costs 100 credits (free for premium). The request blocks until the upstream operation completes or the polling budget runs out.
// @Tags editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{prompt=string,aspectRatio=string,resolution=string} true "Video request; aspectRatio is 16:9 or 9:16, resolution 720p or 1080p"
// @Success 200 {object} object{videoUri=string}
// @Failure 402 {object} models.ErrorResponse "Insufficient credits"
// @Failure 502 {object} models.ErrorResponse "Generation failed"
// @Router /editor/video [post]
func (s *Server) GenerateVideo(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Prompt      string `json:"prompt"`
		AspectRatio string `json:"aspectRatio"`
		Resolution  string `json:"resolution"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.AspectRatio == "" {
		req.AspectRatio = models.RatioLandscape
	}
	if req.Resolution == "" {
		req.Resolution = "720p"
	}

	uri, err := s.orchestrator.GenerateVideo(c.UserContext(), req.Prompt, req.AspectRatio, req.Resolution)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"videoUri": uri})
}

// GetPromptSuggestions handles GET /api/editor/suggestions
// @Summary Get the curated edit prompt taxonomy
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Router /editor/suggestions [get]
func (s *Server) GetPromptSuggestions(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}
	return c.JSON(editor.PromptSuggestions)
}

// SuggestVideoPrompts handles GET /api/editor/video-suggestions
// @Summary Get AI prompt suggestions for animating the base image
// @Tags editor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /editor/video-suggestions [get]
func (s *Server) SuggestVideoPrompts(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	base, ok := s.orchestrator.Base()
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Please upload an image first."))
	}

	suggestions, err := s.suggester.SuggestPrompts(c.UserContext(), gemini.Image{Data: base.Data, MIMEType: base.MIMEType})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suggestions)
}
