package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/qdm12/ipappend/internal/models"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConfiguration       = errors.New("configuration error")
	ErrNotFound            = errors.New("no data available for this IP")
	ErrUpstream            = errors.New("provider API error")
	ErrUpstreamUnavailable = errors.New("provider unavailable")
	ErrUpstreamMalformed   = errors.New("provider response malformed")
)

// UpstreamError is returned when the provider answers with a non 2xx
// status code. The status code and body are kept verbatim.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return ErrUpstream.Error() + ": status " + strconv.Itoa(e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// NotFoundError is returned when the provider answers successfully
// without any record carrying identity fields.
type NotFoundError struct {
	Details models.ProviderDetails
}

func (e *NotFoundError) Error() string {
	return ErrNotFound.Error()
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// HTTPStatus maps an error returned by the gateway to the HTTP
// status code to answer with.
func HTTPStatus(err error) (status int) {
	var upstreamErr *UpstreamError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstreamErr):
		return upstreamErr.StatusCode
	case errors.Is(err, ErrUpstreamUnavailable),
		errors.Is(err, ErrUpstreamMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResponse builds the JSON error body for err. The provider
// body of an UpstreamError is carried as is in the details field,
// as JSON if it is valid JSON and as a string otherwise.
func NewErrorResponse(err error) (response ErrorResponse) {
	var upstreamErr *UpstreamError
	var notFoundErr *NotFoundError
	switch {
	case errors.As(err, &upstreamErr):
		response.Error = ErrUpstream.Error()
		response.Details = rawOrString(upstreamErr.Body)
	case errors.As(err, &notFoundErr):
		response.Error = ErrNotFound.Error()
		response.Details = notFoundErr.Details
	default:
		response.Error = err.Error()
	}
	return response
}

func rawOrString(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
