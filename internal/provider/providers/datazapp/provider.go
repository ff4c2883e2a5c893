package datazapp

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
	DefaultEndpoint = "https://api.datazapp.com/api/DataAppend"
	// advancedIPAppend is the append type returning person data
	// in addition to the IP location.
	advancedIPAppend = 4
)

type Provider struct {
	endpoint   string
	apiKey     string
	username   string
	password   string
	appendType int
}

func New(endpoint, apiKey, username, password string, appendType int) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if appendType == 0 {
		appendType = advancedIPAppend
	}
	return &Provider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		username:   username,
		password:   password,
		appendType: appendType,
	}
}

func (p *Provider) String() string {
	return utils.ToString(constants.DataZapp, p.endpoint)
}

func (p *Provider) Name() models.Provider {
	return constants.DataZapp
}

func (p *Provider) Endpoint() string {
	return p.endpoint
}

func (p *Provider) Credentials() models.Credentials {
	return models.Credentials{
		APIKey:   p.apiKey != "",
		Username: p.username != "",
		Password: p.password != "",
	}
}

// Validate accepts either an API key or a username and password pair.
func (p *Provider) Validate() (err error) {
	err = utils.CheckEndpoint(p.endpoint)
	if err != nil {
		return err
	}

	switch {
	case p.username != "" && p.password == "":
		return fmt.Errorf("%w", errors.ErrPasswordNotSet)
	case p.username == "" && p.password != "":
		return fmt.Errorf("%w", errors.ErrUsernameNotSet)
	case p.apiKey == "" && p.username == "":
		return fmt.Errorf("%w: API key or username and password must be set",
			errors.ErrCredentialsNotSet)
	case p.appendType < 0:
		return fmt.Errorf("%w: %d", errors.ErrAppendTypeNotValid, p.appendType)
	}
	return nil
}

type requestBody struct {
	Username   string        `json:"Username,omitempty"`
	Password   string        `json:"Password,omitempty"`
	APIKey     string        `json:"ApiKey,omitempty"`
	AppendType int           `json:"AppendType"`
	Data       []requestData `json:"Data"`
}

type requestData struct {
	IP string `json:"IP"`
}

func (p *Provider) BuildRequest(ctx context.Context, ip netip.Addr) (
	request *http.Request, err error) {
	body := requestBody{
		Username:   p.username,
		Password:   p.password,
		APIKey:     p.apiKey,
		AppendType: p.appendType,
		Data:       []requestData{{IP: ip.String()}},
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
	utils.SetIfNotEmpty(payload, "Username", p.username)
	utils.SetIfNotEmpty(payload, "Password", p.password)
	utils.SetIfNotEmpty(payload, "ApiKey", p.apiKey)
}
