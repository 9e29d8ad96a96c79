package model

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field length limits
const (
	MaxNameLength        = 200
	MaxDisplayNameLength = 100
	MaxShortTextLength   = 500
	MaxLongTextLength    = 5000
	MaxCommentLength     = 2000
	MaxEmailLength       = 254
	MaxURLLength         = 2048
	MaxMediaURLs         = 20
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

// IsValidEmail performs a structural email check
func IsValidEmail(email string) bool {
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 || strings.Count(email, "@") != 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	return dotIndex < len(email)-1
}

// NormalizeEmail lower-cases and trims an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidURL(raw string) bool {
	if len(raw) > MaxURLLength {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func checkRequired(errs []FieldError, field, value string, max int) []FieldError {
	switch {
	case strings.TrimSpace(value) == "":
		errs = append(errs, FieldError{Field: field, Message: field + " is required"})
	case utf8.RuneCountInString(value) > max:
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be %d characters or less", field, max)})
	}
	return errs
}

func checkOptional(errs []FieldError, field string, value *string, max int) []FieldError {
	if value != nil && utf8.RuneCountInString(*value) > max {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be %d characters or less", field, max)})
	}
	return errs
}

// checkOptionalField length-checks a clearable text field when it carries a value.
func checkOptionalField(errs []FieldError, field string, o Optional[string], max int) []FieldError {
	if !o.HasValue() {
		return errs
	}
	return checkOptional(errs, field, &o.Value, max)
}

func checkID(errs []FieldError, field string, id int) []FieldError {
	if id <= 0 {
		errs = append(errs, FieldError{Field: field, Message: field + " must be a positive integer"})
	}
	return errs
}

func checkPassword(errs []FieldError, password string) []FieldError {
	n := utf8.RuneCountInString(password)
	switch {
	case n < MinPasswordLength:
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)})
	case n > MaxPasswordLength:
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("password must be %d characters or less", MaxPasswordLength)})
	}
	return errs
}

func checkLatitude(errs []FieldError, lat float64) []FieldError {
	if lat < -90 || lat > 90 {
		errs = append(errs, FieldError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	return errs
}

func checkLongitude(errs []FieldError, lng float64) []FieldError {
	if lng < -180 || lng > 180 {
		errs = append(errs, FieldError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	return errs
}

func checkMediaURLs(errs []FieldError, urls []string) []FieldError {
	if len(urls) > MaxMediaURLs {
		return append(errs, FieldError{Field: "media_urls", Message: fmt.Sprintf("media_urls may contain at most %d entries", MaxMediaURLs)})
	}
	for _, u := range urls {
		if !isValidURL(u) {
			return append(errs, FieldError{Field: "media_urls", Message: "media_urls must contain absolute http(s) URLs"})
		}
	}
	return errs
}
