package progress

import (
	"errors"
	"fmt"
)

// MaxUserIDLen bounds profile ids so they stay readable in the header.
const MaxUserIDLen = 32

// ErrInvalidUserID is returned for profile ids that are empty, too long or
// contain characters outside [A-Za-z0-9._-].
var ErrInvalidUserID = errors.New("invalid user id")

// UserIDRune reports whether r may appear in a profile id.
func UserIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}

// ValidateUserID checks a profile id.
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUserID)
	}
	if len(id) > MaxUserIDLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidUserID, MaxUserIDLen)
	}
	for _, r := range id {
		if !UserIDRune(r) {
			return fmt.Errorf("%w: %q not allowed", ErrInvalidUserID, r)
		}
	}
	return nil
}
