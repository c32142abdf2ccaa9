package frameflow

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeUserNotExist      = "auth_user_not_exist"
	TextCodeIncorrectPassword = "auth_incorrect_password"
	TextCodeUserNotFound      = "auth_user_not_found"
	TextCodeTokenMalformed    = "auth_token_malformed"
	TextCodeTokenExpired      = "auth_token_expired"
	TextCodeUsernameTaken     = "validation_username_taken"
	TextCodeAmbiguousToggle   = "toggle_ambiguous_change"
)

// ErrUserNotExist is returned when the password strategy cannot resolve the
// submitted username. The message is part of the client contract.
var ErrUserNotExist = errors.New("User doesn't exist", errors.CategoryAuth).
	WithTextCode(TextCodeUserNotExist).
	WithCode(errors.CodeBadRequest)

// ErrIncorrectPassword is returned when the password strategy resolves the
// user but the password does not verify. Message is part of the contract.
var ErrIncorrectPassword = errors.New("Incorrect password", errors.CategoryAuth).
	WithTextCode(TextCodeIncorrectPassword).
	WithCode(errors.CodeBadRequest)

// ErrUserNotFound is returned when a verified token references a principal
// the store no longer knows.
var ErrUserNotFound = errors.New("User not found", errors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that do not parse or whose
// signature does not verify.
var ErrTokenMalformed = errors.New("invalid or malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for structurally valid tokens past their expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrUsernameTaken aborts a registration before any hashing work happens.
var ErrUsernameTaken = errors.New("User with this name already exists", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeBadRequest)

// ErrAmbiguousToggle rejects a replacement set that differs from the stored
// set by more than one element. Nothing is persisted in that case.
var ErrAmbiguousToggle = errors.New("relationship update changes more than one member", errors.CategoryBadInput).
	WithTextCode(TextCodeAmbiguousToggle).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the verification mismatch sentinel. A
// mismatch is a normal outcome, not a fault; strategies translate it to
// ErrIncorrectPassword at the boundary.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty plaintext before hashing.
var ErrNoEmptyString = errors.New("refusing to hash an empty string", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// IsAuthFailure reports whether err is a normal authentication rejection as
// opposed to a hard failure (store unreachable, entropy exhaustion).
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuth
}

// isDuplicateKeyError reports whether err is a unique-index violation.
// The username pre-check leaves the index as the final arbiter under races;
// its violation is a conflict, any other store failure is not.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// IsTokenExpiredError checks for expired token errors across wrappers.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError checks for malformed token errors across wrappers.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
