package service

import (
	"context"
	"errors"

	"posts/internal/models"
	"posts/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	listFn    func(context.Context) ([]models.User, error)
	getByIDFn func(context.Context, uint) (*models.User, error)
	createFn  func(context.Context, *models.User) error
	updateFn  func(context.Context, *models.User, repository.UserUpdate) error
	deleteFn  func(context.Context, uint) error
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User, changes repository.UserUpdate) error {
	return s.updateFn(ctx, user, changes)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

var errUnexpectedCall = errors.New("unexpected repository call")

func failingUserRepo() *userRepoStub {
	return &userRepoStub{
		listFn:    func(context.Context) ([]models.User, error) { return nil, errUnexpectedCall },
		getByIDFn: func(context.Context, uint) (*models.User, error) { return nil, errUnexpectedCall },
		createFn:  func(context.Context, *models.User) error { return errUnexpectedCall },
		updateFn:  func(context.Context, *models.User, repository.UserUpdate) error { return errUnexpectedCall },
		deleteFn:  func(context.Context, uint) error { return errUnexpectedCall },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listByUserFn    func(context.Context, uint) ([]models.Post, error)
	getForUserFn    func(context.Context, uint, uint) (*models.Post, error)
	createFn        func(context.Context, *models.Post) error
	updateFn        func(context.Context, *models.Post, repository.PostUpdate) error
	deleteForUserFn func(context.Context, uint, uint) error
}

func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) GetForUser(ctx context.Context, userID, postID uint) (*models.Post, error) {
	return s.getForUserFn(ctx, userID, postID)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post, changes repository.PostUpdate) error {
	return s.updateFn(ctx, post, changes)
}
func (s *postRepoStub) DeleteForUser(ctx context.Context, userID, postID uint) error {
	return s.deleteForUserFn(ctx, userID, postID)
}

func failingPostRepo() *postRepoStub {
	return &postRepoStub{
		listByUserFn:    func(context.Context, uint) ([]models.Post, error) { return nil, errUnexpectedCall },
		getForUserFn:    func(context.Context, uint, uint) (*models.Post, error) { return nil, errUnexpectedCall },
		createFn:        func(context.Context, *models.Post) error { return errUnexpectedCall },
		updateFn:        func(context.Context, *models.Post, repository.PostUpdate) error { return errUnexpectedCall },
		deleteForUserFn: func(context.Context, uint, uint) error { return errUnexpectedCall },
	}
}

type storeStub struct {
	users *userRepoStub
	posts *postRepoStub
}

func (s *storeStub) Users() repository.UserRepository { return s.users }
func (s *storeStub) Posts() repository.PostRepository { return s.posts }

// runnerStub runs fn directly against a stub store and records each session.
type runnerStub struct {
	store      *storeStub
	beginErr   error
	operations []string
}

func newRunner() *runnerStub {
	return &runnerStub{store: &storeStub{users: failingUserRepo(), posts: failingPostRepo()}}
}

func (r *runnerStub) Run(ctx context.Context, operation string, fn func(context.Context, repository.Store) error) error {
	r.operations = append(r.operations, operation)
	if r.beginErr != nil {
		return r.beginErr
	}
	return fn(ctx, r.store)
}

func existingUser(id uint) func(context.Context, uint) (*models.User, error) {
	return func(_ context.Context, got uint) (*models.User, error) {
		if got != id {
			return nil, repository.ErrUserNotFound
		}
		return &models.User{ID: id, Name: "Jill", Email: "jill@test.com"}, nil
	}
}
