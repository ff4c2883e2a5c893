package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"

	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider/constants"
	"github.com/qdm12/ipappend/internal/provider/providers/datazapp"
	"github.com/qdm12/ipappend/internal/provider/providers/datazappv2"
)

// Provider isolates everything specific to one provider schema version.
// A schema change must only touch the implementation of this interface.
type Provider interface {
	String() string
	Name() models.Provider
	Endpoint() string
	Credentials() models.Credentials
	// Validate returns an error if the provider is missing
	// configuration required to send requests.
	Validate() (err error)
	// BuildRequest builds the outbound append request for a single IP address.
	BuildRequest(ctx context.Context, ip netip.Addr) (request *http.Request, err error)
	// ParseResponse extracts the records of a 2xx response body.
	ParseResponse(body []byte) (result models.ProviderResult, err error)
	// Authenticate sets the provider credentials in a pass-through payload.
	Authenticate(payload map[string]any)
}

type Settings struct {
	Name       models.Provider
	Endpoint   string
	APIKey     string
	Username   string
	Password   string
	AppendType int
}

var ErrProviderUnknown = errors.New("unknown provider")

func New(settings Settings) (provider Provider, err error) { //nolint:ireturn
	switch settings.Name {
	case constants.DataZapp:
		return datazapp.New(settings.Endpoint, settings.APIKey,
			settings.Username, settings.Password, settings.AppendType), nil
	case constants.DataZappV2:
		return datazappv2.New(settings.Endpoint, settings.APIKey,
			settings.AppendType), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, settings.Name)
	}
}
