// Package repository implements the data access layer for users and posts.
//
// Repositories are bound to a single *gorm.DB handle, normally the
// transaction owned by a session, and never open transactions themselves.
package repository

import "gorm.io/gorm"

// Store groups the repositories that share one transaction.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
}

type store struct {
	users UserRepository
	posts PostRepository
}

// NewStore binds both repositories to db.
func NewStore(db *gorm.DB) Store {
	return &store{
		users: NewUserRepository(db),
		posts: NewPostRepository(db),
	}
}

func (s *store) Users() UserRepository { return s.users }

func (s *store) Posts() PostRepository { return s.posts }
