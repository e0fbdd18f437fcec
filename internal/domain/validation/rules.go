package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CheckLength appends at most one error describing why value is not a
// present, non-blank string of min..max characters after trimming.
func CheckLength(h Handler, field string, value *string, min, max int) error {
	if value == nil {
		return h.Append(NewError(fmt.Sprintf("'%s' should not be null", field)))
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return h.Append(NewError(fmt.Sprintf("'%s' should not be empty", field)))
	}

	if n := utf8.RuneCountInString(trimmed); n < min || n > max {
		return h.Append(NewError(fmt.Sprintf("'%s' must be between %d and %d characters", field, min, max)))
	}
	return nil
}
