// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	user := &models.User{
		Username:       username,
		Email:          gofakeit.Email(),
		Name:           gofakeit.Name(),
		Bio:            gofakeit.Sentence(10),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:           models.RoleUser,
		Enabled:        true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post struct without persisting it. Useful for
// batching and dry runs.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:     strings.TrimSuffix(gofakeit.Sentence(6), "."),
		Content:   f.postBody(),
		AuthorID:  author.ID,
		Published: f.rng.Float32() >= draftRatio,
	}

	if f.rng.Float32() < coverImageRatio {
		post.CoverImage = fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID())
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given
// author, attaching a random selection of tags.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: author=%d title=%q published=%v", post.AuthorID, post.Title, post.Published)
		return post, nil
	}

	if len(post.Tags) == 0 {
		tags, err := f.pickTags()
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user. Pass a parent to create a reply.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `post`.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
}

// CreateBookmark persists a bookmark from `user` on `post`.
func (f *Factory) CreateBookmark(user *models.User, post *models.Post) error {
	return f.db.Create(&models.Bookmark{UserID: user.ID, PostID: post.ID}).Error
}

// CreateFollow persists a follow edge from `follower` to `followee`.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	return f.db.Create(&models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}).Error
}

// pickTags returns 1-3 tags from the curated pool, creating rows as needed.
func (f *Factory) pickTags() ([]models.Tag, error) {
	count := 1 + f.rng.Intn(3)
	picked := map[string]struct{}{}
	tags := make([]models.Tag, 0, count)
	for len(tags) < count {
		name := tagPool[f.rng.Intn(len(tagPool))]
		if _, dup := picked[name]; dup {
			continue
		}
		picked[name] = struct{}{}

		var tag models.Tag
		if err := f.db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// postBody generates a few markdown-ish paragraphs.
func (f *Factory) postBody() string {
	paragraphs := 2 + f.rng.Intn(4)
	var sb strings.Builder
	for i := 0; i < paragraphs; i++ {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("<p>")
		sb.WriteString(gofakeit.Paragraph(1, 3, 8, " "))
		sb.WriteString("</p>")
	}
	return sb.String()
}
