package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API. Unrecognized errors
// are logged and become a generic 500.
func MapServiceError(r *http.Request, err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return model.NewValidationError(validation.Fields)
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewInvalidCredentialsError()

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotOwner):
		return model.NewForbiddenError("Not enough permissions")
	case errors.Is(err, service.ErrUserInactive):
		return model.NewForbiddenError("Inactive users cannot update their profile")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("User")
	case errors.Is(err, service.ErrLocationNotFound):
		return model.NewNotFoundError("Location")
	case errors.Is(err, service.ErrCampaignNotFound):
		return model.NewNotFoundError("Campaign")
	case errors.Is(err, service.ErrQuestNotFound):
		return model.NewNotFoundError("Quest")
	case errors.Is(err, service.ErrCommentNotFound):
		return model.NewNotFoundError("Comment")
	case errors.Is(err, service.ErrUnknownReference):
		return model.NewNotFoundError("Reference list")
	case errors.Is(err, service.ErrNotFollowing):
		return model.NewNotFoundError("Follow")

	// ===== Bad Request → 400 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewEmailExistsError()

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrBookmarkConflict),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrLocationInUse):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrCannotFollowSelf):
		return model.NewValidationError([]model.FieldError{{Field: "id", Message: err.Error()}})
	}

	slog.ErrorContext(r.Context(), "unhandled service error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	return model.NewInternalError("")
}

// handleError writes the problem document for err
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, MapServiceError(r, err))
}
