package shoutrrr

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_addDefaultTitle(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		address        string
		defaultTitle   string
		updatedAddress string
	}{
		"generic_with_empty_title": {
			address:        "generic://example.com?title=",
			defaultTitle:   "IP Append Gateway",
			updatedAddress: "generic://example.com?title=",
		},
		"generic_with_title": {
			address:        "generic://example.com?title=MyTitle",
			defaultTitle:   "IP Append Gateway",
			updatedAddress: "generic://example.com?title=MyTitle",
		},
		"generic_without_title": {
			address:        "generic://example.com",
			defaultTitle:   "IP Append Gateway",
			updatedAddress: "generic://example.com?title=IP+Append+Gateway",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			updatedAddress := addDefaultTitle(testCase.address, testCase.defaultTitle)

			assert.Equal(t, testCase.updatedAddress, updatedAddress)
		})
	}
}

func Test_New(t *testing.T) {
	t.Parallel()

	client, err := New(Settings{})
	require.NoError(t, err)

	assert.Equal(t, "IP Append Gateway", client.defaultTitle)
	assert.Empty(t, client.serviceNames)
	client.Notify("no service to send to")

	_, err = New(Settings{Addresses: []string{"unknown://host"}})
	assert.ErrorContains(t, err, "validating settings: shoutrrr addresses: ")
}

type errorRecorder struct {
	mutex    sync.Mutex
	messages []string
}

func (e *errorRecorder) Error(s string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.messages = append(e.messages, s)
}

// newWebhook returns a generic shoutrrr address sending to a local
// server, and a channel receiving each notification body.
func newWebhook(t *testing.T, status int) (address string, bodies <-chan string) {
	t.Helper()
	channel := make(chan string, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		channel <- string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	address = "generic://" + strings.TrimPrefix(server.URL, "http://") +
		"/notify?disabletls=yes"
	return address, channel
}

func Test_Client_messages(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		notify  func(client *Client)
		message string
	}{
		"launched": {
			notify: func(client *Client) {
				client.NotifyLaunched("datazapp")
			},
			message: "Launched with provider datazapp",
		},
		"credentials rejected": {
			notify: func(client *Client) {
				client.NotifyCredentialsRejected("datazappv2", http.StatusForbidden)
			},
			message: "datazappv2 rejected the configured credentials with status 403 (Forbidden), " +
				"check the provider API key or username and password",
		},
		"exit": {
			notify: func(client *Client) {
				client.NotifyExit(errors.New("http server crashed"))
			},
			message: "Exiting: http server crashed",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			address, bodies := newWebhook(t, http.StatusOK)
			logger := &errorRecorder{}
			client, err := New(Settings{Addresses: []string{address}, Logger: logger})
			require.NoError(t, err)

			testCase.notify(client)

			require.Len(t, bodies, 1)
			assert.Equal(t, testCase.message, <-bodies)
			assert.Empty(t, logger.messages)
		})
	}
}

func Test_Client_Notify_sendError(t *testing.T) {
	t.Parallel()

	address, bodies := newWebhook(t, http.StatusInternalServerError)
	logger := &errorRecorder{}
	client, err := New(Settings{Addresses: []string{address}, Logger: logger})
	require.NoError(t, err)

	client.Notify("message")

	assert.Equal(t, "message", <-bodies)
	require.Len(t, logger.messages, 1)
	assert.True(t, strings.HasPrefix(logger.messages[0], "generic: "))
}
