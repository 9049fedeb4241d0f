package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/narrate/narrate/internal/model"
)

// fieldError carries a field-specific message and matches model.ErrValidation
// under errors.Is so callers can map any validate failure to a 400.
type fieldError struct{ msg string }

func (e *fieldError) Error() string { return e.msg }
func (e *fieldError) Unwrap() error { return model.ErrValidation }

func errf(format string, args ...interface{}) error {
	return &fieldError{msg: fmt.Sprintf(format, args...)}
}

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserID must be lowercase letters, digits, underscore, 1-20 chars.
var userIdRx = regexp.MustCompile(`^[a-z0-9_]{1,20}$`)

// MaxEntryContentLen caps a single journal entry body.
const MaxEntryContentLen = 10000

func UserID(v string) error {
	if v == "" {
		return errf("userId is required")
	}
	if !userIdRx.MatchString(v) {
		return errf("userId must match %s", userIdRx.String())
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return errf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return errf("invalid email")
	}
	return nil
}

// Password enforces a minimum length and the bcrypt 72-byte input ceiling.
func Password(v string) error {
	if len(v) < 8 {
		return errf("password must be at least 8 characters")
	}
	if len(v) > 72 {
		return errf("password exceeds 72 bytes")
	}
	return nil
}

// EntryContent requires a non-blank body within the length cap.
// Length is checked on the trimmed content since storage trims it too.
func EntryContent(v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return errf("content is required")
	}
	if len(trimmed) > MaxEntryContentLen {
		return errf("content exceeds %d characters", MaxEntryContentLen)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return errf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// -------- Request specific helpers ----------

// Register validates input for account creation.
func Register(userId, email, password string, displayName *string) error {
	if err := UserID(userId); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := Password(password); err != nil {
		return err
	}
	return MaxLen("displayName", displayName, 100)
}

// Login validates credential presence; format errors still reach the
// credential check so responses do not leak which field was wrong.
func Login(email, password string) error {
	if email == "" {
		return errf("email is required")
	}
	if password == "" {
		return errf("password is required")
	}
	return nil
}
