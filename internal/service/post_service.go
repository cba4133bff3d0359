package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxTitleLen   = 300
	maxContentLen = 100000
	maxTags       = 10
)

// PostService handles post CRUD, reactions and discovery.
type PostService struct {
	postRepo  repository.PostRepository
	sanitizer *bluemonday.Policy
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput carries the fields of a post creation request.
type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	Tags       []string
	CoverImage string
	Published  *bool
}

// UpdatePostInput carries the fields of a post update request. Nil means
// leave the current value alone.
type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Title      *string
	Content    *string
	Tags       []string
	CoverImage *string
	Published  *bool
}

// ListPostsInput bundles pagination and viewer identity for listing queries.
type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

// NewPostService creates a new post service. Post content is stored rendered
// as HTML, so it is sanitized with a UGC policy on every write.
func NewPostService(postRepo repository.PostRepository, isAdmin func(ctx context.Context, userID uint) (bool, error)) *PostService {
	return &PostService{
		postRepo:  postRepo,
		sanitizer: bluemonday.UGCPolicy(),
		isAdmin:   isAdmin,
	}
}

// CreatePost validates, sanitizes and stores a new post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 100000 characters)")
	}

	tagNames, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	tags, err := s.postRepo.ResolveTags(ctx, tagNames)
	if err != nil {
		return nil, err
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		Title:      title,
		Content:    s.sanitizer.Sanitize(in.Content),
		AuthorID:   in.UserID,
		Tags:       tags,
		CoverImage: in.CoverImage,
		Published:  published,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns a post and counts a view. Unpublished posts are visible only
// to their author.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.visiblePost(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	post.ViewCount++
	return post, nil
}

// ListPosts returns recent published posts.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

// Feed returns recent posts from authors the user follows.
func (s *PostService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.Feed(ctx, userID, limit, offset)
}

// SearchPosts returns published posts matching the query in title or content.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

// PostsByTag returns published posts carrying the given tag.
func (s *PostService) PostsByTag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, models.NewValidationError("Tag is required")
	}
	return s.postRepo.GetByTag(ctx, strings.ToLower(strings.TrimSpace(tag)), limit, offset, currentUserID)
}

// GetUserPosts returns a user's posts; drafts only when the viewer is the author.
func (s *PostService) GetUserPosts(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

// BookmarkedPosts returns the viewer's saved posts.
func (s *PostService) BookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.Bookmarked(ctx, userID, limit, offset)
}

// UpdatePost applies edits to a post owned by the caller.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.visiblePost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 100000 characters)")
		}
		post.Content = s.sanitizer.Sanitize(*in.Content)
	}
	if in.Tags != nil {
		tagNames, err := normalizeTags(in.Tags)
		if err != nil {
			return nil, err
		}
		tags, err := s.postRepo.ResolveTags(ctx, tagNames)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	if in.CoverImage != nil {
		post.CoverImage = *in.CoverImage
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes a post. Admins may delete any post.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, userID)
			if err != nil {
				return err
			}
		}
		if !admin {
			// A draft stays invisible to non-authors, even on mutation attempts.
			if !post.Published {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, postID)
}

// visiblePost loads a post applying the same draft rule as GetPost: an
// unpublished post does not exist for anyone but its author.
func (s *PostService) visiblePost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !post.Published && post.AuthorID != userID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// LikePost records a like. Liking an already-liked post is rejected so the
// client can keep its toggle state honest.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}
	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, models.NewAlreadyInRelationError("You already liked this post")
	}
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnlikePost removes a like.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}
	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !liked {
		return nil, models.NewNotInRelationError("You have not liked this post")
	}
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// BookmarkPost saves a post for the user.
func (s *PostService) BookmarkPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}
	bookmarked, err := s.postRepo.IsBookmarked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if bookmarked {
		return nil, models.NewAlreadyInRelationError("You already bookmarked this post")
	}
	if err := s.postRepo.Bookmark(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// UnbookmarkPost removes a saved post.
func (s *PostService) UnbookmarkPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return nil, err
	}
	bookmarked, err := s.postRepo.IsBookmarked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !bookmarked {
		return nil, models.NewNotInRelationError("You have not bookmarked this post")
	}
	if err := s.postRepo.Unbookmark(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// normalizeTags lowercases, trims and dedupes tag names.
func normalizeTags(raw []string) ([]string, error) {
	if len(raw) > maxTags {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, t := range raw {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" {
			continue
		}
		if len(name) > 50 {
			return nil, models.NewValidationError("Tag too long (max 50 characters)")
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
