package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field limits shared by the CLI, TUI and HTTP surfaces.
const (
	MaxTitleLength   = 200
	MaxCommentLength = 2000
	MaxTagLength     = 40
	MinPasswordLen   = 6
)

// emailRegex is deliberately loose: one @, no whitespace, a dot in the domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateTitle validates a roadmap title.
//
// The validation rules are:
//   - Not blank after trimming whitespace
//   - No control characters
//   - Maximum length of MaxTitleLength characters
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidTitle, "roadmap title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return New(ErrCodeInvalidTitle, "roadmap title too long (max %d characters)", MaxTitleLength)
	}
	if hasControl(title) {
		return New(ErrCodeInvalidTitle, "roadmap title contains invalid control characters")
	}
	return nil
}

// ValidateStepTitle validates the title of a single step.
// The index is 1-based to match what users see in the creation form.
func ValidateStepTitle(index int, title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidStep, "step %d title cannot be empty", index)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return New(ErrCodeInvalidStep, "step %d title too long (max %d characters)", index, MaxTitleLength)
	}
	if hasControl(title) {
		return New(ErrCodeInvalidStep, "step %d title contains invalid control characters", index)
	}
	return nil
}

// ValidateEmail checks that email looks like an address.
func ValidateEmail(email string) error {
	if email == "" {
		return New(ErrCodeInvalidEmail, "email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return New(ErrCodeInvalidEmail, "please enter a valid email address")
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if password == "" {
		return New(ErrCodeInvalidPassword, "password cannot be empty")
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return New(ErrCodeInvalidPassword, "password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateComment validates the body of a comment.
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidComment, "comment cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return New(ErrCodeInvalidComment, "comment too long (max %d characters)", MaxCommentLength)
	}
	return nil
}

// ValidateTag validates a single roadmap tag.
// Tags may contain spaces ("personal growth") but no control characters or commas,
// since commas separate tags on the command line.
func ValidateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return New(ErrCodeInvalidTag, "tag cannot be empty")
	}
	if utf8.RuneCountInString(tag) > MaxTagLength {
		return New(ErrCodeInvalidTag, "tag too long (max %d characters)", MaxTagLength)
	}
	if strings.Contains(tag, ",") || hasControl(tag) {
		return New(ErrCodeInvalidTag, "tag contains invalid characters: %q", tag)
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
