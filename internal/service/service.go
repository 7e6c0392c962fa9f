// Package service implements the user and post resources. Each operation
// validates its payload, then runs as exactly one store session.
package service

import (
	"context"
	"errors"

	"posts/internal/models"
	"posts/internal/repository"
)

// Runner executes fn inside one committed-or-rolled-back session.
// *session.Manager satisfies it.
type Runner interface {
	Run(ctx context.Context, operation string, fn func(ctx context.Context, store repository.Store) error) error
}

// storeError converts store sentinels into the application error taxonomy.
// Both resources share it so a given store outcome always reads the same.
func storeError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrUserMissing):
		return models.ErrNoSuchUser
	case errors.Is(err, repository.ErrPostNotFound):
		return models.ErrNoSuchPost
	case errors.Is(err, repository.ErrDuplicateEmail):
		return models.ErrDuplicateEmail
	default:
		return models.NewInternalError(err)
	}
}
