package utils

import (
	"fmt"
	"net/url"

	perrors "github.com/qdm12/ipappend/internal/provider/errors"
)

// CheckEndpoint returns a non-nil error if the endpoint is not
// an absolute http or https URL.
func CheckEndpoint(endpoint string) (err error) {
	if endpoint == "" {
		return fmt.Errorf("%w", perrors.ErrEndpointNotSet)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrEndpointNotValid, err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%w: scheme %q is not http or https",
			perrors.ErrEndpointNotValid, u.Scheme)
	case u.Host == "":
		return fmt.Errorf("%w: host is empty", perrors.ErrEndpointNotValid)
	}
	return nil
}
