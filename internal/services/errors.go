package services

import "errors"

// Domain errors surfaced by the product workflow.
var (
	// ErrCannotDelete indicates the acting user lacks the destroy permission.
	// No deletion is attempted when this is returned.
	ErrCannotDelete = errors.New("product cannot be deleted")

	// ErrForbidden indicates the acting user may not edit the product.
	ErrForbidden = errors.New("forbidden")

	// ErrNotAuthenticated indicates no request data was found in context.
	ErrNotAuthenticated = errors.New("not authenticated")
)
