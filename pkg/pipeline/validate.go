package pipeline

import (
	errs "github.com/matzehuels/waymark/pkg/errors"
)

// ValidateTheme checks that a theme name is known.
func ValidateTheme(theme string) error {
	if _, ok := themes[theme]; !ok {
		return errs.New(errs.ErrCodeInvalidInput, "invalid theme: %q (must be one of: dark, light)", theme)
	}
	return nil
}
