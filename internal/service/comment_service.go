package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/microcosm-cc/bluemonday"
)

const maxCommentLen = 5000

// CommentService handles threaded comments on posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	sanitizer   *bluemonday.Policy
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreateCommentInput carries the fields of a comment creation request.
type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	Content  string
	ParentID *uint
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		sanitizer:   bluemonday.UGCPolicy(),
		isAdmin:     isAdmin,
	}
}

// CreateComment validates, sanitizes and stores a comment. A reply's parent
// must be a comment on the same post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	// The post must exist and be visible to the commenter.
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !post.Published && post.AuthorID != in.UserID {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  s.sanitizer.Sanitize(content),
		UserID:   in.UserID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetPostComments lists a post's comments oldest first.
func (s *CommentService) GetPostComments(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID, currentUserID)
	if err != nil {
		return nil, err
	}
	if !post.Published && post.AuthorID != currentUserID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.GetByPostID(ctx, postID, limit, offset)
}

// UpdateComment edits a comment owned by the caller.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = s.sanitizer.Sanitize(content)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Admins may delete any comment.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
