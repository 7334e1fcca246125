package services

import "errors"

// Service-level failure kinds. Handlers map these onto HTTP statuses with
// errors.Is; upstream detail stays in the server log.
var (
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrAccountExists      = errors.New("account already exists")
	ErrUnauthenticated    = errors.New("invalid or expired token")
	ErrLinkingDenied      = errors.New("linking denied")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrFileUnavailable    = errors.New("content file unavailable")
	ErrMalformedRange     = errors.New("malformed range header")
	ErrUpstream           = errors.New("upstream service error")
	ErrUpstreamTimeout    = errors.New("upstream service timeout")
)
