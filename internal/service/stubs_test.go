package service

import (
	"context"

	"inkwell/internal/models"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getProfileFn    func(context.Context, string, uint) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	return s.getProfileFn(ctx, username, currentUserID)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getProfileFn:    func(context.Context, string, uint) (*models.User, error) { return &models.User{}, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

type followRepoStub struct {
	existsFn    func(context.Context, uint, uint) (bool, error)
	createFn    func(context.Context, uint, uint) error
	deleteFn    func(context.Context, uint, uint) (bool, error)
	followersFn func(context.Context, uint, int, int) ([]models.User, error)
	followingFn func(context.Context, uint, int, int) ([]models.User, error)
	countsFn    func(context.Context, uint) (int64, int64, error)
}

func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	return s.countsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		existsFn:    func(context.Context, uint, uint) (bool, error) { return false, nil },
		createFn:    func(context.Context, uint, uint) error { return nil },
		deleteFn:    func(context.Context, uint, uint) (bool, error) { return true, nil },
		followersFn: func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
		followingFn: func(context.Context, uint, int, int) ([]models.User, error) { return nil, nil },
		countsFn:    func(context.Context, uint) (int64, int64, error) { return 0, 0, nil },
	}
}

type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint, uint) (*models.Post, error)
	getByAuthorIDFn      func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByTagFn           func(context.Context, string, int, int, uint) ([]*models.Post, error)
	listFn               func(context.Context, int, int, uint) ([]*models.Post, error)
	feedFn               func(context.Context, uint, int, int) ([]*models.Post, error)
	searchFn             func(context.Context, string, int, int, uint) ([]*models.Post, error)
	bookmarkedFn         func(context.Context, uint, int, int) ([]*models.Post, error)
	updateFn             func(context.Context, *models.Post) error
	deleteFn             func(context.Context, uint) error
	incrementViewCountFn func(context.Context, uint) error
	isLikedFn            func(context.Context, uint, uint) (bool, error)
	likeFn               func(context.Context, uint, uint) error
	unlikeFn             func(context.Context, uint, uint) error
	isBookmarkedFn       func(context.Context, uint, uint) (bool, error)
	bookmarkFn           func(context.Context, uint, uint) error
	unbookmarkFn         func(context.Context, uint, uint) error
	resolveTagsFn        func(context.Context, []string) ([]models.Tag, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByTag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByTagFn(ctx, tag, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.feedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *postRepoStub) Bookmarked(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.bookmarkedFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementViewCountFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isBookmarkedFn(ctx, userID, postID)
}
func (s *postRepoStub) Bookmark(ctx context.Context, userID, postID uint) error {
	return s.bookmarkFn(ctx, userID, postID)
}
func (s *postRepoStub) Unbookmark(ctx context.Context, userID, postID uint) error {
	return s.unbookmarkFn(ctx, userID, postID)
}
func (s *postRepoStub) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.resolveTagsFn(ctx, names)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
			return &models.Post{ID: id, Published: true}, nil
		},
		getByAuthorIDFn:      func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		getByTagFn:           func(context.Context, string, int, int, uint) ([]*models.Post, error) { return nil, nil },
		listFn:               func(context.Context, int, int, uint) ([]*models.Post, error) { return nil, nil },
		feedFn:               func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		searchFn:             func(context.Context, string, int, int, uint) ([]*models.Post, error) { return nil, nil },
		bookmarkedFn:         func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		updateFn:             func(context.Context, *models.Post) error { return nil },
		deleteFn:             func(context.Context, uint) error { return nil },
		incrementViewCountFn: func(context.Context, uint) error { return nil },
		isLikedFn:            func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:               func(context.Context, uint, uint) error { return nil },
		unlikeFn:             func(context.Context, uint, uint) error { return nil },
		isBookmarkedFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		bookmarkFn:           func(context.Context, uint, uint) error { return nil },
		unbookmarkFn:         func(context.Context, uint, uint) error { return nil },
		resolveTagsFn: func(ctx context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, 0, len(names))
			for i, n := range names {
				tags = append(tags, models.Tag{ID: uint(i + 1), Name: n})
			}
			return tags, nil
		},
	}
}

type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	getByPostIDFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetByPostID(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.getByPostIDFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(context.Context, *models.Comment) error { return nil },
		getByIDFn:     func(ctx context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		getByPostIDFn: func(context.Context, uint, int, int) ([]*models.Comment, error) { return nil, nil },
		updateFn:      func(context.Context, *models.Comment) error { return nil },
		deleteFn:      func(context.Context, uint) error { return nil },
	}
}

type resetRepoStub struct {
	replaceForUserFn func(context.Context, *models.PasswordResetToken) error
	getByTokenFn     func(context.Context, string) (*models.PasswordResetToken, error)
	deleteByIDFn     func(context.Context, uint) error
	consumeFn        func(context.Context, uint, uint, string) error
}

func (s *resetRepoStub) ReplaceForUser(ctx context.Context, token *models.PasswordResetToken) error {
	return s.replaceForUserFn(ctx, token)
}
func (s *resetRepoStub) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	return s.getByTokenFn(ctx, token)
}
func (s *resetRepoStub) DeleteByID(ctx context.Context, id uint) error {
	return s.deleteByIDFn(ctx, id)
}
func (s *resetRepoStub) ConsumeAndUpdatePassword(ctx context.Context, tokenID, userID uint, passwordHash string) error {
	return s.consumeFn(ctx, tokenID, userID, passwordHash)
}

func noopResetRepo() *resetRepoStub {
	return &resetRepoStub{
		replaceForUserFn: func(context.Context, *models.PasswordResetToken) error { return nil },
		getByTokenFn:     func(context.Context, string) (*models.PasswordResetToken, error) { return nil, nil },
		deleteByIDFn:     func(context.Context, uint) error { return nil },
		consumeFn:        func(context.Context, uint, uint, string) error { return nil },
	}
}

type mailerStub struct {
	sendPasswordResetFn func(to, token string) error
}

func (s *mailerStub) SendPasswordReset(to, token string) error {
	return s.sendPasswordResetFn(to, token)
}
