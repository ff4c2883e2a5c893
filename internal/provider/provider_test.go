package provider

import (
	"testing"

	"github.com/qdm12/ipappend/internal/provider/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		settings   Settings
		name       string
		endpoint   string
		errWrapped error
		errMessage string
	}{
		"datazapp defaults": {
			settings: Settings{Name: constants.DataZapp},
			name:     "datazapp",
			endpoint: "https://api.datazapp.com/api/DataAppend",
		},
		"datazapp v2 custom endpoint": {
			settings: Settings{
				Name:     constants.DataZappV2,
				Endpoint: "http://127.0.0.1:8080/append",
			},
			name:     "datazappv2",
			endpoint: "http://127.0.0.1:8080/append",
		},
		"unknown provider": {
			settings:   Settings{Name: "other"},
			errWrapped: ErrProviderUnknown,
			errMessage: "unknown provider: other",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			provider, err := New(testCase.settings)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
				return
			}
			require.NotNil(t, provider)
			assert.Equal(t, testCase.name, string(provider.Name()))
			assert.Equal(t, testCase.endpoint, provider.Endpoint())
		})
	}
}
