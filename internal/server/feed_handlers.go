package server

import (
	"lumina/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
// @Summary List the public feed
// @Description Returns every public post, most recent first. No authentication required.
// @Tags feed
// @Produce json
// @Success 200 {array} models.PublicPost
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	return c.JSON(s.feed.ListFeed())
}

// GetUserPosts handles GET /api/feed/users/:userId/posts
// @Summary List one user's public posts
// @Tags feed
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} models.PublicPost
// @Router /feed/users/{userId}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	posts := s.feed.ListByUser(c.Params("userId"))
	if posts == nil {
		posts = []models.PublicPost{}
	}
	return c.JSON(posts)
}

// LikePost handles POST /api/feed/posts/:id/like
// @Summary Toggle a like on a post
// @Description Liking an already-liked post removes the like; a pair of toggles restores the original state exactly.
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.PublicPost
// @Failure 404 {object} models.ErrorResponse
// @Router /feed/posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	bundle, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.feed.ToggleLike(c.UserContext(), c.Params("id"), bundle.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CommentOnPost handles POST /api/feed/posts/:id/comments
// @Summary Comment on a post
// @Description Comments are permanent; there is no edit or delete.
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body object{text=string} true "Comment text"
// @Success 201 {object} models.PublicPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /feed/posts/{id}/comments [post]
func (s *Server) CommentOnPost(c *fiber.Ctx) error {
	bundle, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.feed.AddComment(c.UserContext(), c.Params("id"), bundle.ID, bundle.Name, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// SharePost handles POST /api/feed/posts/:id/share
// @Summary Record a share of a post
// @Description The share counter is monotonic; repeated shares by the same user count independently.
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.PublicPost
// @Failure 404 {object} models.ErrorResponse
// @Router /feed/posts/{id}/share [post]
func (s *Server) SharePost(c *fiber.Ctx) error {
	if _, err := s.currentUser(c); err != nil {
		return respondError(c, err)
	}

	post, err := s.feed.IncrementShare(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
