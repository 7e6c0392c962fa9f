package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. The HTTP status is derived from the code.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeUnavailable = "STORE_UNAVAILABLE"
	CodeInternal    = "INTERNAL_ERROR"
)

// Messages shared by the user and post resources.
const (
	MsgNoSuchUser       = "No such user found."
	MsgNoSuchPost       = "No such post found."
	MsgDuplicateEmail   = "A user with that email already exists."
	MsgStoreUnavailable = "The store is currently unavailable."
	MsgInternal         = "Internal server error."
	MsgInvalidBody      = "Invalid request body."
)

// ErrorResponse is the body of every non-success response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AppError represents a categorised application error.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError with the same code and message, so freshly
// constructed errors compare equal to the well-known values below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Well-known not-found and conflict outcomes.
var (
	ErrNoSuchUser     = NewNotFoundError(MsgNoSuchUser)
	ErrNoSuchPost     = NewNotFoundError(MsgNoSuchPost)
	ErrDuplicateEmail = NewConflictError(MsgDuplicateEmail)
)

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewUnavailableError reports that a transaction could not be started or committed
// for infrastructure reasons.
func NewUnavailableError(err error) *AppError {
	return &AppError{Code: CodeUnavailable, Message: MsgStoreUnavailable, Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: MsgInternal, Err: err}
}

// StatusFor maps an error to the HTTP status that carries its category.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	case CodeUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard {"error": message} body. Errors that are
// not AppErrors never leak their text to the caller.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	message := MsgInternal

	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}
