package service

import (
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
)

// ===== Ownership Errors =====
var (
	ErrNotOwner = errors.New("not the owner of this resource")
)

// ===== Entity Errors =====
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationInUse    = errors.New("location is referenced by quests")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrQuestNotFound    = errors.New("quest not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrUnknownReference = errors.New("unknown reference kind")
)

// ===== Engagement Errors =====
var (
	ErrBookmarkConflict = errors.New("bookmark was changed concurrently, try again")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// ValidationError carries field-level problems with a request. Handlers
// render it as a 422 listing every field.
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

// invalid returns a ValidationError when fields is non-empty
func invalid(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// invalidField returns a ValidationError for one field
func invalidField(field, message string) error {
	return &ValidationError{Fields: []model.FieldError{{Field: field, Message: message}}}
}
