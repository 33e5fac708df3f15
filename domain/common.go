package domain

import "errors"

const (
	HeaderUserID = "X-User-ID"
	LocalsUserID = "user_id"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedMissingUser    = "missing user identity"

	ErrMissingUser = errors.New("missing user identity")
)
