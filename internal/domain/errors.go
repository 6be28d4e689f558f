package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOrder     = errors.New("invalid order parameters")
	ErrInvalidListing   = errors.New("invalid listing parameters")
	ErrAlreadyListed    = errors.New("listing already for sale")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPriceUnavailable = errors.New("node price unavailable")
)
