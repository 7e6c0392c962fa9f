package validation

import (
	"regexp"

	"posts/internal/models"
)

const (
	MsgNoData       = "No data was provided."
	MsgNoName       = "No name was provided."
	MsgNoEmail      = "No email was provided."
	MsgInvalidEmail = "An invalid email was provided."
	MsgNoPostTitle  = "No post title was provided."
	MsgNoPostBody   = "No post body was provided."
)

var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// NewUser holds the fields of a user to create.
type NewUser struct {
	Name  string
	Email string
}

// UserPatch holds the supplied fields of a user update.
type UserPatch struct {
	Name  *string
	Email *string
}

// NewPost holds the fields of a post to create.
type NewPost struct {
	Title string
	Body  string
}

// PostPatch holds the supplied fields of a post update.
type PostPatch struct {
	Title *string
	Body  *string
}

// ValidEmail reports whether email has the <local>@<domain>.<tld> shape.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// CreateUser checks, in order: any data, name, email, email shape.
func CreateUser(p Payload) (NewUser, error) {
	if p.Empty() {
		return NewUser{}, models.NewValidationError(MsgNoData)
	}
	name, ok := p.Get("name")
	if !ok {
		return NewUser{}, models.NewValidationError(MsgNoName)
	}
	email, ok := p.Get("email")
	if !ok {
		return NewUser{}, models.NewValidationError(MsgNoEmail)
	}
	if !ValidEmail(email) {
		return NewUser{}, models.NewValidationError(MsgInvalidEmail)
	}
	return NewUser{Name: name, Email: email}, nil
}

// UpdateUser requires at least one of name or email. A supplied email must
// still have a valid shape.
func UpdateUser(p Payload) (UserPatch, error) {
	var patch UserPatch
	if name, ok := p.Get("name"); ok {
		patch.Name = &name
	}
	if email, ok := p.Get("email"); ok {
		patch.Email = &email
	}
	if patch.Name == nil && patch.Email == nil {
		return UserPatch{}, models.NewValidationError(MsgNoData)
	}
	if patch.Email != nil && !ValidEmail(*patch.Email) {
		return UserPatch{}, models.NewValidationError(MsgInvalidEmail)
	}
	return patch, nil
}

// CreatePost checks, in order: any data, title, body.
func CreatePost(p Payload) (NewPost, error) {
	if p.Empty() {
		return NewPost{}, models.NewValidationError(MsgNoData)
	}
	title, ok := p.Get("title")
	if !ok {
		return NewPost{}, models.NewValidationError(MsgNoPostTitle)
	}
	body, ok := p.Get("body")
	if !ok {
		return NewPost{}, models.NewValidationError(MsgNoPostBody)
	}
	return NewPost{Title: title, Body: body}, nil
}

// UpdatePost requires at least one of title or body.
func UpdatePost(p Payload) (PostPatch, error) {
	var patch PostPatch
	if title, ok := p.Get("title"); ok {
		patch.Title = &title
	}
	if body, ok := p.Get("body"); ok {
		patch.Body = &body
	}
	if patch.Title == nil && patch.Body == nil {
		return PostPatch{}, models.NewValidationError(MsgNoData)
	}
	return patch, nil
}
