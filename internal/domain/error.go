package domain

import "errors"

var (
	// Admission errors, surfaced to the user as a chat reply.
	ErrEmptyToken         = errors.New("empty token")
	ErrInvalidTokenFormat = errors.New("invalid token format")
	ErrInvalidURL         = errors.New("invalid url")

	// Lookup results that callers are expected to handle.
	ErrTokenNotFound = errors.New("token not found")
	ErrJobNotFound   = errors.New("job not found")

	// Infrastructure faults.
	ErrStoreFailure    = errors.New("store failure")
	ErrDownloadFailure = errors.New("download failure")
	ErrUploadFailure   = errors.New("upload failure")
	ErrGatewayFailure  = errors.New("gateway failure")

	ErrInvalidArgument = errors.New("invalid argument")
)
