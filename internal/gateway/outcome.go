package gateway

import "errors"

const (
	outcomeFound               = "found"
	outcomeNotFound            = "not_found"
	outcomeInvalidInput        = "invalid_input"
	outcomeConfiguration       = "configuration_error"
	outcomeUpstreamError       = "upstream_error"
	outcomeUpstreamUnavailable = "upstream_unavailable"
	outcomeInternal            = "internal_error"
)

func outcomeFromError(err error) (outcome string) {
	switch {
	case err == nil:
		return outcomeFound
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrInvalidInput):
		return outcomeInvalidInput
	case errors.Is(err, ErrConfiguration):
		return outcomeConfiguration
	case errors.Is(err, ErrUpstream):
		return outcomeUpstreamError
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, ErrUpstreamMalformed):
		return outcomeUpstreamUnavailable
	default:
		return outcomeInternal
	}
}
