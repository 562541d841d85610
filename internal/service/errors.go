package service

// errors.go maps errors to operator-facing messages with codes for support
// reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: file exceeds MAX_FILE_SIZE
//	FILE002 - Invalid CSV: malformed quoting or a row wider than the header
//	FILE003 - Encoding error: input decodes as neither UTF-8 nor Shift_JIS,
//	          or output contains characters Shift_JIS cannot represent
//	FILE004 - No file: no file was selected
//	FILE005 - Empty file: the file has no header row
//	FILE006 - Unknown encoding: encoding name is not utf-8 or shift_jis
//
// # Profile Errors (PRF001-PRF099)
//
//	PRF001 - Profile not found
//	PRF002 - Duplicate profile name
//	PRF003 - Invalid profile: blank name, bad encoding or unreadable document
//	PRF004 - No profile selected and no inline rules given
//
// # Request Errors (SYS001-SYS099)
//
//	SYS001 - Request timed out
//	SYS002 - Request cancelled
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// Rule problems are never errors: they come back as warnings with RUL codes.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvlayout/internal/csvio"
	"github.com/JonMunkholm/csvlayout/internal/profile"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorMapping matches a sentinel via errors.Is, or a lowercase substring of
// the message for errors that arrive without a wrapped sentinel.
type errorMapping struct {
	target  error
	pattern string
	msg     UserMessage
}

// errorMappings is searched in order; the first match wins.
var errorMappings = []errorMapping{
	{
		target:  csvio.ErrFileTooLarge,
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		target:  csvio.ErrInvalidCSV,
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated and no row has more fields than the header",
			Code:    "FILE002",
		},
	},
	{
		target:  csvio.ErrEncoding,
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains characters that cannot be converted",
			Action:  "Check the input encoding, or choose UTF-8 output",
			Code:    "FILE003",
		},
	},
	{
		target:  ErrNoFile,
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file",
			Code:    "FILE004",
		},
	},
	{
		target:  csvio.ErrEmptyFile,
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Please select a CSV file with a header row",
			Code:    "FILE005",
		},
	},
	{
		target:  csvio.ErrUnknownEncoding,
		pattern: "unknown encoding",
		msg: UserMessage{
			Message: "Unknown character encoding",
			Action:  "Use utf-8 or shift_jis",
			Code:    "FILE006",
		},
	},
	{
		target:  profile.ErrNotFound,
		pattern: "profile not found",
		msg: UserMessage{
			Message: "Profile not found",
			Action:  "Check the profile name, or reload the profile list",
			Code:    "PRF001",
		},
	},
	{
		target:  profile.ErrDuplicate,
		pattern: "profile already exists",
		msg: UserMessage{
			Message: "A profile with this name already exists",
			Action:  "Choose a different name, or edit the existing profile",
			Code:    "PRF002",
		},
	},
	{
		target:  profile.ErrInvalid,
		pattern: "invalid profile",
		msg: UserMessage{
			Message: "Profile is invalid",
			Action:  "Enter a profile name and use utf-8 or shift_jis encodings",
			Code:    "PRF003",
		},
	},
	{
		target:  ErrNoRules,
		pattern: "no profile selected",
		msg: UserMessage{
			Message: "No profile was selected",
			Action:  "Select a profile or enter rules",
			Code:    "PRF004",
		},
	},
	{
		target:  context.DeadlineExceeded,
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "SYS001",
		},
	},
	{
		target:  context.Canceled,
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SYS002",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Wrapped sentinels are checked first, then message patterns
// (case-insensitive). Returns the ERR000 fallback when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, m := range errorMappings {
		if strings.Contains(errStr, m.pattern) {
			return m.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
