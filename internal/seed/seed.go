// Package seed fills a store with fake users and posts for development.
// Records go through the resource layer, so seeded data obeys the same
// validation and uniqueness rules as API traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"posts/internal/middleware"
	"posts/internal/models"
	"posts/internal/service"
	"posts/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

// maxEmailAttempts bounds how often a user is regenerated after an email clash.
const maxEmailAttempts = 5

// Options controls how much data is generated.
type Options struct {
	Users        int
	PostsPerUser int
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed int64
}

// Result reports what a run created.
type Result struct {
	Users []models.UserView
	Posts int
}

// Factory builds fake payloads and submits them to the services.
type Factory struct {
	users *service.UserService
	posts *service.PostService
	faker *gofakeit.Faker
}

// NewFactory creates a Factory bound to the given services.
func NewFactory(users *service.UserService, posts *service.PostService, seed int64) *Factory {
	return &Factory{users: users, posts: posts, faker: gofakeit.New(seed)}
}

// CreateUser submits a fake user, regenerating the email on conflict.
func (f *Factory) CreateUser(ctx context.Context) (models.UserView, error) {
	var lastErr error
	for attempt := 0; attempt < maxEmailAttempts; attempt++ {
		payload := validation.NewPayload(map[string]string{
			"name":  f.faker.Name(),
			"email": f.faker.Email(),
		})
		user, err := f.users.Create(ctx, payload)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, models.ErrDuplicateEmail) {
			return models.UserView{}, err
		}
		lastErr = err
	}
	return models.UserView{}, fmt.Errorf("seed: no unique email after %d attempts: %w", maxEmailAttempts, lastErr)
}

// CreatePost submits a fake post owned by userID.
func (f *Factory) CreatePost(ctx context.Context, userID uint) (models.PostView, error) {
	payload := validation.NewPayload(map[string]string{
		"title": f.faker.Sentence(5),
		"body":  f.faker.Paragraph(1, 3, 12, "\n"),
	})
	return f.posts.Create(ctx, userID, payload)
}

// Run creates opts.Users users, each with opts.PostsPerUser posts.
func Run(ctx context.Context, users *service.UserService, posts *service.PostService, opts Options) (Result, error) {
	if opts.Users < 0 || opts.PostsPerUser < 0 {
		return Result{}, errors.New("seed: counts must not be negative")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = gofakeit.Int64()
	}
	f := NewFactory(users, posts, seed)

	var res Result
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			return res, fmt.Errorf("seed user %d: %w", i+1, err)
		}
		res.Users = append(res.Users, user)

		for j := 0; j < opts.PostsPerUser; j++ {
			if _, err := f.CreatePost(ctx, user.ID); err != nil {
				return res, fmt.Errorf("seed post %d for user %d: %w", j+1, user.ID, err)
			}
			res.Posts++
		}
	}

	middleware.Logger.Info("Seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", res.Posts),
		slog.Int64("seed", seed),
	)
	return res, nil
}
