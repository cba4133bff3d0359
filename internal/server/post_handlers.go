// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		Tags       []string `json:"tags"`
		CoverImage string   `json:"cover_image"`
		Published  *bool    `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:     currentUserID(c),
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Published:  req.Published,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: s.optionalUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// SearchPosts handles GET /api/posts/search?q=
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.SearchPosts(c.Context(), c.Query("q"), p.Limit, p.Offset, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPostsByTag handles GET /api/posts/tag/:tag
func (s *Server) GetPostsByTag(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.PostsByTag(c.Context(), c.Params("tag"), p.Limit, p.Offset, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetUserPosts handles GET /api/users/:username/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")
	author, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return fail(c, err)
	}
	if author == nil {
		return fail(c, models.NewNotFoundError("User", username))
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.GetUserPosts(c.Context(), author.ID, p.Limit, p.Offset, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetFeed handles GET /api/me/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.Feed(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetMyBookmarks handles GET /api/me/bookmarks
func (s *Server) GetMyBookmarks(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.BookmarkedPosts(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string  `json:"title"`
		Content    *string  `json:"content"`
		Tags       []string `json:"tags"`
		CoverImage *string  `json:"cover_image"`
		Published  *bool    `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:     currentUserID(c),
		PostID:     id,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Published:  req.Published,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.Context(), currentUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.Context(), currentUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// BookmarkPost handles POST /api/posts/:id/bookmark
func (s *Server) BookmarkPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.BookmarkPost(c.Context(), currentUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// UnbookmarkPost handles DELETE /api/posts/:id/bookmark
func (s *Server) UnbookmarkPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnbookmarkPost(c.Context(), currentUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}
