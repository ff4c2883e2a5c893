package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosettings/validate"
	"github.com/qdm12/gotree"
	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider"
	"github.com/qdm12/ipappend/internal/provider/constants"
	"github.com/qdm12/ipappend/internal/provider/utils"
)

// Provider holds the settings of the enrichment provider.
// Credentials are optional at startup: the gateway reports them
// missing on each lookup and on its health endpoint instead.
type Provider struct {
	Name       string
	Endpoint   string
	APIKey     string
	Username   string
	Password   string
	AppendType int
}

func (p *Provider) setDefaults() {
	p.Name = gosettings.DefaultComparable(p.Name, string(constants.DataZapp))
}

var ErrAppendTypeNotValid = errors.New("append type is not valid")

func (p Provider) Validate() (err error) {
	choices := make([]string, len(constants.ProviderChoices()))
	for i, choice := range constants.ProviderChoices() {
		choices[i] = string(choice)
	}
	err = validate.IsOneOf(p.Name, choices...)
	if err != nil {
		return fmt.Errorf("provider name: %w", err)
	}

	if p.Endpoint != "" {
		err = utils.CheckEndpoint(p.Endpoint)
		if err != nil {
			return fmt.Errorf("provider endpoint: %w", err)
		}
	}

	if p.AppendType < 0 {
		return fmt.Errorf("%w: %d must be positive", ErrAppendTypeNotValid, p.AppendType)
	}

	return nil
}

func (p Provider) String() string {
	return p.toLinesNode().String()
}

func (p Provider) toLinesNode() *gotree.Node {
	node := gotree.New("Provider")
	node.Appendf("Name: %s", p.Name)
	node.Appendf("Endpoint: %s", defaultIfEmpty(p.Endpoint, "provider default"))
	node.Appendf("API key: %s", setOrNot(p.APIKey))
	node.Appendf("Username: %s", setOrNot(p.Username))
	node.Appendf("Password: %s", setOrNot(p.Password))
	appendType := "provider default"
	if p.AppendType > 0 {
		appendType = strconv.Itoa(p.AppendType)
	}
	node.Appendf("Append type: %s", appendType)
	return node
}

func (p Provider) ToSettings() provider.Settings {
	return provider.Settings{
		Name:       models.Provider(p.Name),
		Endpoint:   p.Endpoint,
		APIKey:     p.APIKey,
		Username:   p.Username,
		Password:   p.Password,
		AppendType: p.AppendType,
	}
}

func (p *Provider) read(r *reader.Reader) (err error) {
	p.Name = r.String("PROVIDER")
	p.Endpoint = r.String("PROVIDER_URL", reader.ForceLowercase(false))
	p.APIKey = r.String("PROVIDER_API_KEY",
		reader.RetroKeys("DATAZAPP_API_KEY"), reader.ForceLowercase(false))
	p.Username = r.String("PROVIDER_USERNAME",
		reader.RetroKeys("DATAZAPP_USER"), reader.ForceLowercase(false))
	p.Password = r.String("PROVIDER_PASSWORD",
		reader.RetroKeys("DATAZAPP_PASSWORD"), reader.ForceLowercase(false))

	appendTypeString := r.String("PROVIDER_APPEND_TYPE")
	if appendTypeString != "" {
		p.AppendType, err = strconv.Atoi(appendTypeString)
		if err != nil {
			return fmt.Errorf("environment variable PROVIDER_APPEND_TYPE: %w", err)
		}
	}

	return nil
}

func setOrNot(secret string) string {
	if secret == "" {
		return "[not set]"
	}
	return "[set]"
}

func defaultIfEmpty(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
