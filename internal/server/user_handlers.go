// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	profile, err := s.userService.GetProfile(c.Context(), username, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

// GetMyAccount handles GET /api/me
func (s *Server) GetMyAccount(c *fiber.Ctx) error {
	user, err := s.userService.GetCurrentUser(c.Context(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpdateMyAccount handles PUT /api/me
func (s *Server) UpdateMyAccount(c *fiber.Ctx) error {
	var req struct {
		Name            *string `json:"name"`
		Bio             *string `json:"bio"`
		ProfilePicture  *string `json:"profile_picture"`
		CurrentPassword string  `json:"current_password"`
		NewPassword     string  `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:          currentUserID(c),
		Name:            req.Name,
		Bio:             req.Bio,
		ProfilePicture:  req.ProfilePicture,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// FollowUser handles POST /api/users/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.userService.Follow(c.Context(), currentUserID(c), username); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Now following " + username,
	})
}

// UnfollowUser handles DELETE /api/users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.userService.Unfollow(c.Context(), currentUserID(c), username); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Unfollowed " + username,
	})
}

// GetFollowers handles GET /api/users/:username/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 20)

	users, err := s.userService.Followers(c.Context(), username, p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"followers": users})
}

// GetFollowing handles GET /api/users/:username/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 20)

	users, err := s.userService.Following(c.Context(), username, p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"following": users})
}
