package handler

import (
	"net/http"
	"strconv"

	"github.com/forgo/guildhall/api/internal/middleware"
	"github.com/forgo/guildhall/api/internal/model"
)

// pathID reads a positive integer path value
func pathID(r *http.Request, name string) (int, *model.ProblemDetails) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, model.NewValidationError([]model.FieldError{
			{Field: name, Message: name + " must be a positive integer"},
		})
	}
	return id, nil
}

// pageParams reads skip and limit, falling back to the default page.
// Range checks are left to the services.
func pageParams(r *http.Request) (model.PageRequest, *model.ProblemDetails) {
	page := model.DefaultPage()
	var errs []model.FieldError

	q := r.URL.Query()
	if raw := q.Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, model.FieldError{Field: "skip", Message: "skip must be an integer"})
		}
		page.Skip = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, model.FieldError{Field: "limit", Message: "limit must be an integer"})
		}
		page.Limit = v
	}

	if len(errs) > 0 {
		return page, model.NewValidationError(errs)
	}
	return page, nil
}

// questFilter reads the optional quest listing filters
func questFilter(r *http.Request) (model.QuestFilter, *model.ProblemDetails) {
	var filter model.QuestFilter
	var errs []model.FieldError
	q := r.URL.Query()

	for _, f := range []struct {
		name string
		dst  **int
	}{
		{"author_id", &filter.AuthorID},
		{"campaign_id", &filter.CampaignID},
		{"difficulty_id", &filter.DifficultyID},
		{"interest_id", &filter.InterestID},
		{"quest_type_id", &filter.QuestTypeID},
	} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			errs = append(errs, model.FieldError{Field: f.name, Message: f.name + " must be a positive integer"})
			continue
		}
		*f.dst = &v
	}

	for _, f := range []struct {
		name string
		dst  **bool
	}{
		{"is_public", &filter.IsPublic},
		{"completed", &filter.Completed},
	} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, model.FieldError{Field: f.name, Message: f.name + " must be true or false"})
			continue
		}
		*f.dst = &v
	}

	if len(errs) > 0 {
		return filter, model.NewValidationError(errs)
	}
	return filter, nil
}

// callerID returns the authenticated user's id. Routes that call it sit
// behind the auth middleware.
func callerID(r *http.Request) int {
	return middleware.GetUserID(r.Context())
}
