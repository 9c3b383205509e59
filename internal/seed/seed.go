// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with sample data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	return s.db.Exec("TRUNCATE TABLE post_likes, posts, users RESTART IDENTITY CASCADE").Error
}

// Run seeds users, posts, replies and likes according to opts.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	posts, err := s.seedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	if err := s.seedLikes(users, posts); err != nil {
		return fmt.Errorf("seed likes: %w", err)
	}

	log.Printf("Seeded %d users, %d posts", len(users), len(posts))
	return nil
}

// BuildUser constructs an unsaved user with generated identity fields. The
// index keeps generated emails unique across a run.
func BuildUser(i int, hashedPassword string) models.User {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	return models.User{
		Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		Name:      first + " " + last,
		Password:  hashedPassword,
		AvatarURL: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		IsActive:  true,
	}
}

// BuildPost constructs an unsaved post with generated text, clipped to the
// post length limit, with a realistic created_at spread.
func BuildPost(author models.User) models.Post {
	post := models.Post{
		UserID: author.ID,
		Text:   clip(gofakeit.Sentence(rand.Intn(10)+4), models.MaxPostTextLen),
	}

	daysBack := rand.Intn(90)
	hoursBack := rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	return post
}

func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	// Seed users share a password for easy local login.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := BuildUser(i, string(hashed))
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []models.User, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := BuildPost(users[rand.Intn(len(users))])
		// Roughly a third of posts reply to an earlier one.
		if len(posts) > 0 && rand.Intn(3) == 0 {
			parent := posts[rand.Intn(len(posts))]
			post.ReplyingToID = &parent.ID
			post.Text = clip(gofakeit.Sentence(rand.Intn(6)+2), models.MaxPostTextLen)
			if post.CreatedAt.Before(parent.CreatedAt) {
				post.CreatedAt = parent.CreatedAt.Add(time.Duration(rand.Intn(120)+1) * time.Minute)
			}
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedLikes(users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			if rand.Intn(5) != 0 {
				continue
			}
			like := models.Like{PostID: post.ID, UserID: user.ID}
			if err := s.db.Create(&like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
