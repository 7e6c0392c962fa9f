package service

import (
	"context"

	"posts/internal/models"
	"posts/internal/repository"
	"posts/internal/validation"
)

type UserService struct {
	sessions Runner
}

func NewUserService(sessions Runner) *UserService {
	return &UserService{sessions: sessions}
}

// List returns every user ordered by ascending id.
func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	var views []models.UserView
	err := s.sessions.Run(ctx, "users.list", func(ctx context.Context, store repository.Store) error {
		users, err := store.Users().List(ctx)
		if err != nil {
			return err
		}
		views = models.UserViews(users)
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return views, nil
}

func (s *UserService) Get(ctx context.Context, userID uint) (models.UserView, error) {
	var view models.UserView
	err := s.sessions.Run(ctx, "users.get", func(ctx context.Context, store repository.Store) error {
		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		view = user.View()
		return nil
	})
	if err != nil {
		return models.UserView{}, storeError(err)
	}
	return view, nil
}

func (s *UserService) Create(ctx context.Context, payload validation.Payload) (models.UserView, error) {
	in, err := validation.CreateUser(payload)
	if err != nil {
		return models.UserView{}, err
	}

	var view models.UserView
	err = s.sessions.Run(ctx, "users.create", func(ctx context.Context, store repository.Store) error {
		user := &models.User{Name: in.Name, Email: in.Email}
		if err := store.Users().Create(ctx, user); err != nil {
			return err
		}
		view = user.View()
		return nil
	})
	if err != nil {
		return models.UserView{}, storeError(err)
	}
	return view, nil
}

// Update changes only the supplied fields.
func (s *UserService) Update(ctx context.Context, userID uint, payload validation.Payload) (models.UserView, error) {
	patch, err := validation.UpdateUser(payload)
	if err != nil {
		return models.UserView{}, err
	}

	var view models.UserView
	err = s.sessions.Run(ctx, "users.update", func(ctx context.Context, store repository.Store) error {
		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := store.Users().Update(ctx, user, repository.UserUpdate{Name: patch.Name, Email: patch.Email}); err != nil {
			return err
		}
		view = user.View()
		return nil
	})
	if err != nil {
		return models.UserView{}, storeError(err)
	}
	return view, nil
}

// Delete removes the user and, through the cascade, all of its posts.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	err := s.sessions.Run(ctx, "users.delete", func(ctx context.Context, store repository.Store) error {
		return store.Users().Delete(ctx, userID)
	})
	return storeError(err)
}
