package services

import "errors"

// Service-level sentinel errors. The transport layer maps these onto API
// error responses.
var (
	// ErrUnknownSchool is returned for a school filter that is not part of
	// the experiment roster.
	ErrUnknownSchool = errors.New("unknown school")
)
