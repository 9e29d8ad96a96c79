package model

import "time"

// User represents a registered account
type User struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url"`
	GuildRank   *string    `json:"guild_rank"`
	Hash        *string    `json:"-"` // Never expose password hash
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// RegisterRequest represents a sign-up payload
type RegisterRequest struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Password    string  `json:"password"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	GuildRank   *string `json:"guild_rank,omitempty"`
}

// Validate checks if the register request is valid
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	if !IsValidEmail(r.Email) {
		errors = append(errors, FieldError{Field: "email", Message: "email must be a valid address"})
	}
	errors = checkRequired(errors, "display_name", r.DisplayName, MaxDisplayNameLength)
	errors = checkPassword(errors, r.Password)
	if r.AvatarURL != nil && !isValidURL(*r.AvatarURL) {
		errors = append(errors, FieldError{Field: "avatar_url", Message: "avatar_url must be an absolute http(s) URL"})
	}
	errors = checkOptional(errors, "guild_rank", r.GuildRank, MaxDisplayNameLength)

	return errors
}

// UpdateUserRequest is a sparse profile update. email, display_name and
// password cannot be cleared; avatar_url and guild_rank can.
type UpdateUserRequest struct {
	Email       Optional[string] `json:"email"`
	DisplayName Optional[string] `json:"display_name"`
	Password    Optional[string] `json:"password"`
	AvatarURL   Optional[string] `json:"avatar_url"`
	GuildRank   Optional[string] `json:"guild_rank"`
}

// Validate checks if the update request is valid
func (r *UpdateUserRequest) Validate() []FieldError {
	var errors []FieldError

	errors = requireNonNull(errors, "email", r.Email)
	errors = requireNonNull(errors, "display_name", r.DisplayName)
	errors = requireNonNull(errors, "password", r.Password)

	if r.Email.HasValue() && !IsValidEmail(r.Email.Value) {
		errors = append(errors, FieldError{Field: "email", Message: "email must be a valid address"})
	}
	if r.DisplayName.HasValue() {
		errors = checkRequired(errors, "display_name", r.DisplayName.Value, MaxDisplayNameLength)
	}
	if r.Password.HasValue() {
		errors = checkPassword(errors, r.Password.Value)
	}
	if r.AvatarURL.HasValue() && !isValidURL(r.AvatarURL.Value) {
		errors = append(errors, FieldError{Field: "avatar_url", Message: "avatar_url must be an absolute http(s) URL"})
	}
	if r.GuildRank.HasValue() {
		errors = checkOptional(errors, "guild_rank", &r.GuildRank.Value, MaxDisplayNameLength)
	}

	return errors
}

// IsEmpty reports whether the update names no fields
func (r *UpdateUserRequest) IsEmpty() bool {
	return !r.Email.Set && !r.DisplayName.Set && !r.Password.Set && !r.AvatarURL.Set && !r.GuildRank.Set
}

// UserChanges is the storage-level form of a profile update, with the
// password already hashed.
type UserChanges struct {
	Email       Optional[string]
	DisplayName Optional[string]
	Hash        Optional[string]
	AvatarURL   Optional[string]
	GuildRank   Optional[string]
	IsActive    Optional[bool]
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
