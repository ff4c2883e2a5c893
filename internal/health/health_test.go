package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func() error

func (f checkerFunc) CheckConfiguration() error { return f() }

type warnRecorder struct {
	messages []string
}

func (w *warnRecorder) Warn(s string) { w.messages = append(w.messages, s) }

func Test_MakeIsHealthy(t *testing.T) {
	t.Parallel()

	errTest := errors.New("configuration error: datazapp: API key is not set")

	testCases := map[string]struct {
		checkErr error
		warnings []string
	}{
		"healthy": {},
		"unhealthy": {
			checkErr: errTest,
			warnings: []string{"unhealthy: configuration error: datazapp: API key is not set"},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger := &warnRecorder{}
			checker := checkerFunc(func() error { return testCase.checkErr })
			isHealthy := MakeIsHealthy(checker, logger)

			err := isHealthy()

			assert.ErrorIs(t, err, testCase.checkErr)
			assert.Equal(t, testCase.warnings, logger.messages)
		})
	}
}

func Test_handler(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		method     string
		target     string
		checkErr   error
		statusCode int
		body       string
	}{
		"healthy": {
			method:     http.MethodGet,
			target:     "/",
			statusCode: http.StatusOK,
		},
		"unhealthy": {
			method:     http.MethodGet,
			target:     "/",
			checkErr:   errors.New("API key is not set"),
			statusCode: http.StatusInternalServerError,
			body:       "API key is not set\n",
		},
		"wrong method": {
			method:     http.MethodPost,
			target:     "/",
			statusCode: http.StatusNotFound,
			body:       "Not Found\n",
		},
		"wrong path": {
			method:     http.MethodGet,
			target:     "/other",
			statusCode: http.StatusNotFound,
			body:       "Not Found\n",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			handler := newHandler(func() error { return testCase.checkErr })
			request := httptest.NewRequest(testCase.method, testCase.target, nil)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.statusCode, recorder.Code)
			assert.Equal(t, testCase.body, recorder.Body.String())
		})
	}
}

func Test_Client_Query(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(newHandler(func() error {
		if healthy.Load() {
			return nil
		}
		return errors.New("provider endpoint is not set")
	}))
	t.Cleanup(server.Close)

	_, port, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)

	client := NewClient()

	err = client.Query(context.Background(), ":"+port)
	require.NoError(t, err)

	healthy.Store(false)
	err = client.Query(context.Background(), ":"+port)
	assert.ErrorIs(t, err, ErrUnhealthy)
	assert.EqualError(t, err, "unhealthy: provider endpoint is not set")

	err = client.Query(context.Background(), "malformed")
	assert.EqualError(t, err, "splitting host and port: address malformed: missing port in address")
}

func Test_CheckReachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	t.Cleanup(server.Close)

	err := CheckReachable(context.Background(), server.Client(), server.URL)
	assert.NoError(t, err)

	server.Close()
	err = CheckReachable(context.Background(), server.Client(), server.URL)
	assert.ErrorContains(t, err, "performing request: ")
}
