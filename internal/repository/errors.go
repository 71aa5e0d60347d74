package repository

import "errors"

// Causes wrapped inside model.LookupError values.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
	ErrExternalAPI      = errors.New("external API error")
	ErrMalformed        = errors.New("malformed upstream response")
)
