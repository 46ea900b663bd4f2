package registry

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegexp    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateTitle checks the title rules shared by create and update.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if len(trimmed) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("Title cannot exceed %d characters", MaxTitleLength)}
	}
	return nil
}

// ValidateBody checks the body-text length limit.
func ValidateBody(body string) error {
	if len(body) > MaxBodyLength {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("Content cannot exceed %d characters", MaxBodyLength)}
	}
	return nil
}

// ValidateRegistration checks email shape, password length, and username
// shape. The request is expected to be normalized already (trimmed,
// lowercased email).
func ValidateRegistration(req RegisterUserRequest) error {
	if !emailRegexp.MatchString(req.Email) {
		return &ValidationError{Field: "email", Message: "Please provide a valid email"}
	}
	if len(req.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)}
	}
	if len(req.Username) < MinUsernameLength || len(req.Username) > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)}
	}
	if !usernameRegexp.MatchString(req.Username) {
		return &ValidationError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}
	return nil
}
