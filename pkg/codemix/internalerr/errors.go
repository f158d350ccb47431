package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownTagset    = errors.New("unknown tagset")
	ErrEmptyCorpus      = errors.New("empty corpus")
	ErrUnseenNgram      = errors.New("unseen n-gram")
	ErrStoreUnavailable = errors.New("store unavailable")
)
