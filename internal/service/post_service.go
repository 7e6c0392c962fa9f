package service

import (
	"context"

	"posts/internal/models"
	"posts/internal/repository"
	"posts/internal/validation"
)

// PostService serves posts nested under their owning user. Checks run in
// the order payload, user, post.
type PostService struct {
	sessions Runner
}

func NewPostService(sessions Runner) *PostService {
	return &PostService{sessions: sessions}
}

// List returns the user's posts in creation order.
func (s *PostService) List(ctx context.Context, userID uint) ([]models.PostView, error) {
	var views []models.PostView
	err := s.sessions.Run(ctx, "posts.list", func(ctx context.Context, store repository.Store) error {
		if _, err := store.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		posts, err := store.Posts().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		views = models.PostViews(posts)
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return views, nil
}

func (s *PostService) Get(ctx context.Context, userID, postID uint) (models.PostView, error) {
	var view models.PostView
	err := s.sessions.Run(ctx, "posts.get", func(ctx context.Context, store repository.Store) error {
		post, err := ownedPost(ctx, store, userID, postID)
		if err != nil {
			return err
		}
		view = post.View()
		return nil
	})
	if err != nil {
		return models.PostView{}, storeError(err)
	}
	return view, nil
}

func (s *PostService) Create(ctx context.Context, userID uint, payload validation.Payload) (models.PostView, error) {
	in, err := validation.CreatePost(payload)
	if err != nil {
		return models.PostView{}, err
	}

	var view models.PostView
	err = s.sessions.Run(ctx, "posts.create", func(ctx context.Context, store repository.Store) error {
		if _, err := store.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		post := &models.Post{Title: in.Title, Body: in.Body, UserID: userID}
		// The foreign key still guards against the user vanishing after the check.
		if err := store.Posts().Create(ctx, post); err != nil {
			return err
		}
		view = post.View()
		return nil
	})
	if err != nil {
		return models.PostView{}, storeError(err)
	}
	return view, nil
}

func (s *PostService) Update(ctx context.Context, userID, postID uint, payload validation.Payload) (models.PostView, error) {
	patch, err := validation.UpdatePost(payload)
	if err != nil {
		return models.PostView{}, err
	}

	var view models.PostView
	err = s.sessions.Run(ctx, "posts.update", func(ctx context.Context, store repository.Store) error {
		post, err := ownedPost(ctx, store, userID, postID)
		if err != nil {
			return err
		}
		if err := store.Posts().Update(ctx, post, repository.PostUpdate{Title: patch.Title, Body: patch.Body}); err != nil {
			return err
		}
		view = post.View()
		return nil
	})
	if err != nil {
		return models.PostView{}, storeError(err)
	}
	return view, nil
}

func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	err := s.sessions.Run(ctx, "posts.delete", func(ctx context.Context, store repository.Store) error {
		if _, err := ownedPost(ctx, store, userID, postID); err != nil {
			return err
		}
		return store.Posts().DeleteForUser(ctx, userID, postID)
	})
	return storeError(err)
}

// ownedPost checks the user first so a missing user is never reported as a
// missing post.
func ownedPost(ctx context.Context, store repository.Store, userID, postID uint) (*models.Post, error) {
	if _, err := store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return store.Posts().GetForUser(ctx, userID, postID)
}
