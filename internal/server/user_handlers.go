package server

import (
	"io"

	"lumina/internal/editor"
	"lumina/internal/imaging"
	"lumina/internal/models"
	"lumina/internal/session"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserBundle
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	bundle, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bundle)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update profile fields
// @Description Change the display name and/or profile picture. The user id stays fixed; already-published posts keep the author snapshot captured when they were created.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,profilePicture=string} true "Profile update"
// @Success 200 {object} models.UserBundle
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Name           *string `json:"name"`
		ProfilePicture *string `json:"profilePicture"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == nil && req.ProfilePicture == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Nothing to update"))
	}

	if req.Name != nil {
		if err := s.session.UpdateUsername(c.UserContext(), *req.Name); err != nil {
			return respondError(c, err)
		}
	}
	if req.ProfilePicture != nil {
		if err := s.session.UpdateProfilePicture(c.UserContext(), *req.ProfilePicture); err != nil {
			return respondError(c, err)
		}
	}

	bundle, _ := s.session.Current()
	return c.JSON(bundle)
}

// UploadAvatar handles POST /api/users/me/avatar
// @Summary Upload a profile picture
// @Description Accepts a multipart image, center-crops it to a square avatar, and stores it on the profile.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Avatar image"
// @Success 200 {object} models.UserBundle
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me/avatar [post]
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	content, contentType, err := readUploadedFile(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := imaging.ValidatePhoto(content, contentType, s.config.MaxUploadSizeMB); err != nil {
		return respondError(c, err)
	}

	avatar, err := imaging.BuildAvatar(content)
	if err != nil {
		return respondError(c, err)
	}

	picture := editor.EncodeDataURL("image/webp", avatar)
	if err := s.session.UpdateProfilePicture(c.UserContext(), picture); err != nil {
		return respondError(c, err)
	}

	bundle, _ := s.session.Current()
	return c.JSON(bundle)
}

// GoPremium handles POST /api/users/me/premium
// @Summary Upgrade to premium
// @Description Premium removes credit deductions for all future paid operations. Idempotent.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserBundle
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/premium [post]
func (s *Server) GoPremium(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}
	if err := s.session.GoPremium(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	bundle, _ := s.session.Current()
	return c.JSON(bundle)
}

// ToggleProfileVisibility handles POST /api/users/me/visibility
// @Summary Toggle public profile
// @Description Flipping to public mirrors every favorite into the public feed; flipping to private removes all of the user's posts from it.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{isProfilePublic=bool}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/visibility [post]
func (s *Server) ToggleProfileVisibility(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}
	public, err := s.session.ToggleProfilePublic(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isProfilePublic": public})
}

// GetSavedEdits handles GET /api/users/me/edits
// @Summary List saved edits (favorites)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SavedEdit
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/edits [get]
func (s *Server) GetSavedEdits(c *fiber.Ctx) error {
	bundle, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bundle.SavedEdits)
}

// SaveEdit handles POST /api/users/me/edits
// @Summary Save an edit to favorites
// @Description Stamps the edit with the current author identity. When the profile is public the edit is mirrored to the feed as well.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body session.EditInput true "Edit to save"
// @Success 201 {object} models.SavedEdit
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me/edits [post]
func (s *Server) SaveEdit(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	var req session.EditInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Original == "" || req.Edited == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Original and edited images are required"))
	}

	saved, err := s.session.SaveEdit(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// GetGenerationHistory handles GET /api/users/me/history
// @Summary List the generation history
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SavedEdit
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/history [get]
func (s *Server) GetGenerationHistory(c *fiber.Ctx) error {
	bundle, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bundle.GenerationHistory)
}

// readUploadedFile pulls the "file" part out of a multipart request.
func readUploadedFile(c *fiber.Ctx) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", models.NewValidationError("No file uploaded")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", models.NewValidationError("Uploaded file could not be read")
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", models.NewValidationError("Uploaded file could not be read")
	}
	return content, fileHeader.Header.Get("Content-Type"), nil
}
