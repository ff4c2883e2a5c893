package errors

import "errors"

var (
	ErrAPIKeyNotSet       = errors.New("API key is not set")
	ErrAppendTypeNotValid = errors.New("append type is not valid")
	ErrCredentialsNotSet  = errors.New("credentials are not set")
	ErrEndpointNotSet     = errors.New("endpoint is not set")
	ErrEndpointNotValid   = errors.New("endpoint is not valid")
	ErrPasswordNotSet     = errors.New("password is not set")
	ErrRequestMarshal     = errors.New("cannot marshal request body")
	ErrUnmarshalResponse  = errors.New("cannot unmarshal response")
	ErrUsernameNotSet     = errors.New("username is not set")
)
