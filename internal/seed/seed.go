package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// SkipBcrypt stores plaintext passwords; dev fast mode only.
	SkipBcrypt bool
	// MaxDays bounds how far in the past generated posts are dated.
	MaxDays int
}

const (
	// draftRatio is the fraction of generated posts left unpublished.
	draftRatio = 0.15
	// coverImageRatio is the fraction of posts given a cover image.
	coverImageRatio = 0.4
	// followRatio is the probability of a follow edge between any user pair.
	followRatio = 0.2
	// likeRatio / bookmarkRatio are per user-post pair probabilities.
	likeRatio     = 0.1
	bookmarkRatio = 0.03
)

// tagPool is the curated set of tags attached to generated posts.
var tagPool = []string{
	"go", "programming", "webdev", "devops", "databases", "career",
	"tutorial", "opinion", "productivity", "opensource", "security",
	"testing", "cloud", "linux", "frontend", "backend",
}

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// Factory exposes the underlying entity factory for fine-grained seeding.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// ClearAll removes every seeded row. Dependent tables go first.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	// Join rows first, the tables they reference after.
	if err := s.db.Exec("DELETE FROM post_tags").Error; err != nil {
		return fmt.Errorf("clear post_tags: %w", err)
	}
	tables := []any{
		&models.PasswordResetToken{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.Follow{},
		&models.Post{},
		&models.Tag{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedCommunity creates users and a follow mesh between them. A few fixed
// accounts are always present so logins stay predictable between reseeds.
func (s *Seeder) SeedCommunity(numUsers int) ([]*models.User, error) {
	users := make([]*models.User, 0, numUsers)

	for _, name := range []string{"ada", "brian", "demo"} {
		if len(users) >= numUsers {
			break
		}
		name := name
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = name
			u.Email = fmt.Sprintf("%s@example.com", name)
			u.Bio = "One of the originals."
		})
		if err != nil {
			return nil, fmt.Errorf("create base user %s: %w", name, err)
		}
		users = append(users, user)
	}

	for i := len(users); i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("skipping user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	if !s.opts.DryRun {
		if err := s.seedFollows(users); err != nil {
			return nil, err
		}
	}

	log.Printf("✓ %d users created", len(users))
	return users, nil
}

// SeedContent creates posts for the given users along with comments, replies,
// likes and bookmarks.
func (s *Seeder) SeedContent(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, fmt.Errorf("create post %d: %w", i, err)
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	log.Printf("✓ %d posts created", len(posts))

	if s.opts.DryRun {
		return posts, nil
	}

	if err := s.seedEngagement(users, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Seed runs a full community-plus-content pass with the given options.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	s := NewSeeder(db, opts)
	if opts.ShouldClean && !opts.DryRun {
		if err := s.ClearAll(); err != nil {
			log.Printf("warning: could not clear all existing data: %v", err)
		}
	}

	users, err := s.SeedCommunity(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed community: %w", err)
	}
	if _, err := s.SeedContent(users, opts.NumPosts); err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func (s *Seeder) seedFollows(users []*models.User) error {
	edges := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID {
				continue
			}
			if s.factory.rng.Float32() >= followRatio {
				continue
			}
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
			edges++
		}
	}
	log.Printf("✓ %d follow edges created", edges)
	return nil
}

func (s *Seeder) seedEngagement(users []*models.User, posts []*models.Post) error {
	likes, bookmarks, comments := 0, 0, 0
	rng := s.factory.rng

	for _, post := range posts {
		// Drafts are private; nobody else can see them yet.
		if !post.Published {
			continue
		}

		var roots []*models.Comment
		for _, user := range users {
			if rng.Float32() < likeRatio && user.ID != post.AuthorID {
				if err := s.factory.CreateLike(user, post); err != nil {
					return fmt.Errorf("create like: %w", err)
				}
				likes++
			}
			if rng.Float32() < bookmarkRatio {
				if err := s.factory.CreateBookmark(user, post); err != nil {
					return fmt.Errorf("create bookmark: %w", err)
				}
				bookmarks++
			}
			if rng.Float32() < 0.05 {
				var parent *models.Comment
				if len(roots) > 0 && rng.Float32() < 0.3 {
					parent = roots[rng.Intn(len(roots))]
				}
				comment, err := s.factory.CreateComment(user, post, parent)
				if err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				if parent == nil {
					roots = append(roots, comment)
				}
				comments++
			}
		}
	}

	log.Printf("✓ engagement created: %d likes, %d bookmarks, %d comments", likes, bookmarks, comments)
	return nil
}
