package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Config_String(t *testing.T) {
	t.Parallel()

	var defaultSettings Config
	defaultSettings.SetDefaults()

	s := defaultSettings.String()

	const expected = `Settings summary:
├── HTTP client
|   └── Timeout: 30s
├── Provider
|   ├── Name: datazapp
|   ├── Endpoint: provider default
|   ├── API key: [not set]
|   ├── Username: [not set]
|   ├── Password: [not set]
|   └── Append type: provider default
├── Server
|   ├── Listening address: :3000
|   ├── Gateway API key: [not set]
|   ├── Test endpoint authentication: no
|   ├── CORS allowed origins: *
|   └── Metrics: yes
├── Health
|   └── Server listening address: 127.0.0.1:9999
└── Logger
    ├── Level: INFO
    └── Caller: no`
	assert.Equal(t, expected, s)
}

func Test_Config_String_secretsHidden(t *testing.T) {
	t.Parallel()

	settings := Config{
		Provider: Provider{
			APIKey:   "provider-secret",
			Username: "user",
			Password: "password-secret",
		},
		Server: Server{
			GatewayAPIKey: "gateway-secret",
		},
		Shoutrrr: Shoutrrr{
			Addresses: []string{"generic://example.com/token-secret"},
		},
	}
	settings.SetDefaults()

	s := settings.String()

	for _, secret := range []string{"provider-secret", "password-secret",
		"gateway-secret", "token-secret"} {
		assert.NotContains(t, s, secret)
	}
	assert.Contains(t, s, "API key: [set]")
	assert.Contains(t, s, "Addresses: 1")
}

func Test_Config_Validate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		modify     func(config *Config)
		errMessage string
	}{
		"defaults": {
			modify: func(*Config) {},
		},
		"unknown provider": {
			modify: func(config *Config) {
				config.Provider.Name = "other"
			},
			errMessage: "provider settings: provider name: ",
		},
		"bad endpoint scheme": {
			modify: func(config *Config) {
				config.Provider.Endpoint = "ftp://example.com"
			},
			errMessage: `provider settings: provider endpoint: endpoint is not valid: ` +
				`scheme "ftp" is not http or https`,
		},
		"negative append type": {
			modify: func(config *Config) {
				config.Provider.AppendType = -1
			},
			errMessage: "provider settings: append type is not valid: -1 must be positive",
		},
		"negative timeout": {
			modify: func(config *Config) {
				config.Client.Timeout = -1
			},
			errMessage: "client settings: timeout is not valid: -1ns must be positive",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var config Config
			config.SetDefaults()
			testCase.modify(&config)

			err := config.Validate()

			if testCase.errMessage == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, testCase.errMessage)
		})
	}
}

func Test_parseLogLevel(t *testing.T) {
	t.Parallel()

	level, err := parseLogLevel("DEBUG")
	assert.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = parseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrLogLevelUnknown)
}
