package core

import "errors"

// ErrorKind classifies a failure so callers can branch on the class of
// problem without matching message strings.
type ErrorKind string

const (
	// KindNetwork covers transport and connectivity failures, including
	// responses that could not be read or decoded.
	KindNetwork ErrorKind = "network"
	// KindUnauthorized means the credential was rejected or has expired.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindValidation means the caller's input was malformed before or after
	// the wire, e.g. a non-numeric room id or an empty required field.
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	// KindConflict is a uniqueness violation, e.g. a duplicate registration.
	KindConflict      ErrorKind = "conflict"
	KindAlreadyMember ErrorKind = "already_member"
	// KindEmpty is rejected empty message content.
	KindEmpty ErrorKind = "empty"
)

// Error is a failure surfaced across the client's user-facing boundary.
// The message is safe to show as-is.
type Error struct {
	Kind    ErrorKind
	Message string
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the taxonomy kind of err. Anything that is not a core
// Error is treated as a network-class failure.
func KindOf(err error) ErrorKind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return KindNetwork
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
