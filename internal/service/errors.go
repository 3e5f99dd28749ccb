// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Handlers map these onto the response envelope.
var (
	ErrInvalidEmail       = errors.New("valid email is required")
	ErrMissingBreachID    = errors.New("breach id is required")
	ErrBreachNotFound     = errors.New("breach not found")
	ErrPostNotFound       = errors.New("blog post not found")
	ErrGenerationFailed   = errors.New("failed to generate content")
	ErrPersistenceFailed  = errors.New("failed to save blog post")
	ErrCrawlNotConfigured = errors.New("search connector not configured")
)
