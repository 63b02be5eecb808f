package entity

import "errors"

// Domain errors
var (
	// Source wiki errors
	ErrPageNotFound    = errors.New("page not found")
	ErrMissingProject  = errors.New("project name is required")
	ErrPageListFailure = errors.New("page listing failed")

	// Collaborator errors
	ErrServiceNotReady  = errors.New("service is not ready")
	ErrEmbeddingFailure = errors.New("embedding failed")
	ErrIndexFailure     = errors.New("indexing failed")
	ErrSearchFailure    = errors.New("search failed")
	ErrGenerateFailure  = errors.New("answer generation failed")

	// Validation errors
	ErrEmptyQuery       = errors.New("query is empty")
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
