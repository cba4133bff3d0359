package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
)

func TestCommentServiceCreateRequiresContent(t *testing.T) {
	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 5, Content: "   "})

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation error, got %#v", err)
	}
}

func TestCommentServiceCreateSanitizesContent(t *testing.T) {
	comments := noopCommentRepo()
	var created *models.Comment
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		created = c
		return nil
	}

	svc := NewCommentService(comments, noopPostRepo(), nil)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  1,
		PostID:  5,
		Content: `nice <script>alert("x")</script>post`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.Content != "nice post" {
		t.Fatalf("script tag survived sanitization: %#v", created)
	}
}

func TestCommentServiceReplyAcrossPostsRejected(t *testing.T) {
	comments := noopCommentRepo()
	comments.getByIDFn = func(ctx context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 99}, nil
	}

	svc := NewCommentService(comments, noopPostRepo(), nil)
	parentID := uint(7)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:   1,
		PostID:   5,
		Content:  "reply",
		ParentID: &parentID,
	})

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation error for cross-post parent, got %#v", err)
	}
}

func TestCommentServiceCreateReply(t *testing.T) {
	comments := noopCommentRepo()
	comments.getByIDFn = func(ctx context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 5}, nil
	}
	var created *models.Comment
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 11
		created = c
		return nil
	}

	svc := NewCommentService(comments, noopPostRepo(), nil)
	parentID := uint(7)
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:   1,
		PostID:   5,
		Content:  "reply",
		ParentID: &parentID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.ID != 11 || created.ParentID == nil || *created.ParentID != 7 {
		t.Fatalf("reply not threaded: %#v", created)
	}
}

func TestCommentServiceCommentOnDraftRejected(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 9, Published: false}, nil
	}

	svc := NewCommentService(noopCommentRepo(), posts, nil)
	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 2, PostID: 5, Content: "hi"})

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found for a draft, got %#v", err)
	}
}

func TestCommentServiceUpdateOwnership(t *testing.T) {
	comments := noopCommentRepo()
	comments.getByIDFn = func(ctx context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 9, PostID: 5, Content: "original"}, nil
	}

	svc := NewCommentService(comments, noopPostRepo(), nil)
	_, err := svc.UpdateComment(context.Background(), 2, 7, "edited")

	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %#v", err)
	}
}

func TestCommentServiceDeleteByAdmin(t *testing.T) {
	comments := noopCommentRepo()
	comments.getByIDFn = func(ctx context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 9, PostID: 5}, nil
	}
	var deleted uint
	comments.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	svc := NewCommentService(comments, noopPostRepo(), func(context.Context, uint) (bool, error) { return true, nil })
	if err := svc.DeleteComment(context.Background(), 2, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Fatal("comment was not deleted")
	}
}
