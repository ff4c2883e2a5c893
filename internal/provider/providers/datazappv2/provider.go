package datazappv2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"

	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider/constants"
	"github.com/qdm12/ipappend/internal/provider/errors"
	"github.com/qdm12/ipappend/internal/provider/headers"
	"github.com/qdm12/ipappend/internal/provider/utils"
)

const (
	DefaultEndpoint   = "https://secureapi.datazapp.com/Appendv2"
	appendModule      = "ReverseIPAppend"
	defaultAppendType = 2
)

// Provider implements the v2 schema where the API key is the only
// credential and records are nested in ResponseDetail.Data.
type Provider struct {
	endpoint   string
	apiKey     string
	appendType int
}

func New(endpoint, apiKey string, appendType int) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if appendType == 0 {
		appendType = defaultAppendType
	}
	return &Provider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		appendType: appendType,
	}
}

func (p *Provider) String() string {
	return utils.ToString(constants.DataZappV2, p.endpoint)
}

func (p *Provider) Name() models.Provider {
	return constants.DataZappV2
}

func (p *Provider) Endpoint() string {
	return p.endpoint
}

func (p *Provider) Credentials() models.Credentials {
	return models.Credentials{
		APIKey: p.apiKey != "",
	}
}

func (p *Provider) Validate() (err error) {
	err = utils.CheckEndpoint(p.endpoint)
	if err != nil {
		return err
	}

	switch {
	case p.apiKey == "":
		return fmt.Errorf("%w", errors.ErrAPIKeyNotSet)
	case p.appendType < 0:
		return fmt.Errorf("%w: %d", errors.ErrAppendTypeNotValid, p.appendType)
	}
	return nil
}

type requestBody struct {
	APIKey       string        `json:"ApiKey"`
	AppendModule string        `json:"AppendModule"`
	AppendType   int           `json:"AppendType"`
	Data         []requestData `json:"Data"`
}

type requestData struct {
	IPAddress string `json:"IPAddress"`
}

func (p *Provider) BuildRequest(ctx context.Context, ip netip.Addr) (
	request *http.Request, err error) {
	body := requestBody{
		APIKey:       p.apiKey,
		AppendModule: appendModule,
		AppendType:   p.appendType,
		Data:         []requestData{{IPAddress: ip.String()}},
	}

	buffer := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buffer)
	err = encoder.Encode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRequestMarshal, err)
	}

	request, err = http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, buffer)
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}
	headers.SetUserAgent(request)
	headers.SetJSON(request)

	return request, nil
}

func (p *Provider) Authenticate(payload map[string]any) {
	utils.SetIfNotEmpty(payload, "ApiKey", p.apiKey)
}
