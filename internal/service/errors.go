package service

import "errors"

// Pipeline errors recovered at the handler boundary and turned into
// user-safe messages. Provider errors (provider.RejectedError,
// provider.TransportError) pass through unchanged.
var (
	ErrMissingCredentials = errors.New("api credentials are not configured")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidBIN         = errors.New("invalid bin number")
	ErrInvalidProduct     = errors.New("invalid product id")
	ErrProductNotFound    = errors.New("product not found")
	ErrRateLimited        = errors.New("too many requests, please try again later")
	ErrDynamicDisabled    = errors.New("dynamic installments are not enabled")
	ErrDirectDisabled     = errors.New("direct integration is not enabled")
)
