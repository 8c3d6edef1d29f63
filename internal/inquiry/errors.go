package inquiry

import "errors"

var (
	// ErrInvalidBody is returned when the request body is not valid JSON
	ErrInvalidBody = errors.New("invalid request body")

	// ErrValidation is the generic user-facing validation failure. Field
	// detail is logged server-side and intentionally not surfaced on a
	// public, unauthenticated endpoint.
	ErrValidation = errors.New("please check the form and try again")

	// ErrTooFast is returned when the form was submitted faster than a
	// human plausibly could. Unlike other spam signals this one is shown
	// honestly, since autofill users can trip it and should retry.
	ErrTooFast = errors.New("that was quick, please take a moment and submit again")

	// ErrRateLimited is returned when a client exceeds the submission limit
	ErrRateLimited = errors.New("too many submissions, please try again later")
)
