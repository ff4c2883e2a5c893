package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/qdm12/ipappend/internal/gateway/mock_gateway"
	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider/providers/datazapp"
	"github.com/qdm12/ipappend/internal/provider/providers/datazappv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	server *httptest.Server
	calls  atomic.Int32
	bodies chan []byte
}

func newStub(t *testing.T, status int, body string) *stub {
	t.Helper()
	s := &stub{bodies: make(chan []byte, 100)}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		requestBody, _ := io.ReadAll(r.Body)
		s.bodies <- requestBody
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func newTestGateway(t *testing.T, provider Provider) *Gateway {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mock_gateway.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	metrics := mock_gateway.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveUpstream(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().IncLookup(gomock.Any()).AnyTimes()

	notifier := mock_gateway.NewMockNotifier(ctrl)
	notifier.EXPECT().NotifyCredentialsRejected(gomock.Any(), gomock.Any()).AnyTimes()

	client := &http.Client{Timeout: time.Second}
	return New(provider, client, logger, metrics, notifier, time.Now)
}

func ptrTo[T any](value T) *T { return &value }

const personBody = `{"Data":[{"FirstName":"Jane","LastName":"Doe",` +
	`"Email":"jane@example.com","City":"Austin"}],"Count":1,"ProcessedTime":"0.1s"}`

func Test_Gateway_Lookup(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		ipAddresses []string
		stubStatus  int
		stubBody    string
		noAPIKey    bool
		stubCalls   int32
		record      models.ContactRecord
		errWrapped  error
		errMessage  string
		status      int
	}{
		"empty IP addresses": {
			ipAddresses: []string{},
			errWrapped:  ErrInvalidInput,
			errMessage:  "invalid input: at least one IP address is required",
			status:      http.StatusBadRequest,
		},
		"nil IP addresses": {
			errWrapped: ErrInvalidInput,
			errMessage: "invalid input: at least one IP address is required",
			status:     http.StatusBadRequest,
		},
		"malformed IP address": {
			ipAddresses: []string{"1.2.3"},
			errWrapped:  ErrInvalidInput,
			errMessage:  `invalid input: IP address is not valid: "1.2.3"`,
			status:      http.StatusBadRequest,
		},
		"missing credentials": {
			ipAddresses: []string{"1.2.3.4"},
			noAPIKey:    true,
			errWrapped:  ErrConfiguration,
			errMessage: "configuration error: datazapp: credentials are not set: " +
				"API key or username and password must be set",
			status: http.StatusInternalServerError,
		},
		"person record": {
			ipAddresses: []string{"1.2.3.4"},
			stubStatus:  http.StatusOK,
			stubBody:    personBody,
			stubCalls:   1,
			record: models.ContactRecord{
				FirstName: ptrTo("Jane"),
				LastName:  ptrTo("Doe"),
				Email:     ptrTo("jane@example.com"),
				City:      ptrTo("Austin"),
			},
			status: http.StatusOK,
		},
		"only first IP address used": {
			ipAddresses: []string{"1.2.3.4", "5.6.7.8"},
			stubStatus:  http.StatusOK,
			stubBody:    personBody,
			stubCalls:   1,
			record: models.ContactRecord{
				FirstName: ptrTo("Jane"),
				LastName:  ptrTo("Doe"),
				Email:     ptrTo("jane@example.com"),
				City:      ptrTo("Austin"),
			},
			status: http.StatusOK,
		},
		"location only record": {
			ipAddresses: []string{"1.2.3.4"},
			stubStatus:  http.StatusOK,
			stubBody:    `{"Data":[{"City":"Austin","State":"TX","Country":"US"}],"Count":1}`,
			stubCalls:   1,
			errWrapped:  ErrNotFound,
			errMessage:  "no data available for this IP",
			status:      http.StatusNotFound,
		},
		"empty data": {
			ipAddresses: []string{"1.2.3.4"},
			stubStatus:  http.StatusOK,
			stubBody:    `{"Data":[],"Count":0}`,
			stubCalls:   1,
			errWrapped:  ErrNotFound,
			errMessage:  "no data available for this IP",
			status:      http.StatusNotFound,
		},
		"provider unavailable status": {
			ipAddresses: []string{"1.2.3.4"},
			stubStatus:  http.StatusServiceUnavailable,
			stubBody:    `{"Message":"maintenance"}`,
			stubCalls:   1,
			errWrapped:  ErrUpstream,
			errMessage:  "provider API error: status 503",
			status:      http.StatusServiceUnavailable,
		},
		"malformed provider response": {
			ipAddresses: []string{"1.2.3.4"},
			stubStatus:  http.StatusOK,
			stubBody:    `<html>`,
			stubCalls:   1,
			errWrapped:  ErrUpstreamMalformed,
			errMessage: "provider response malformed: cannot unmarshal response: " +
				"invalid character '<' looking for beginning of value",
			status: http.StatusBadGateway,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stub := newStub(t, testCase.stubStatus, testCase.stubBody)
			apiKey := "key"
			if testCase.noAPIKey {
				apiKey = ""
			}
			provider := datazapp.New(stub.server.URL, apiKey, "", "", 0)
			gateway := newTestGateway(t, provider)

			record, err := gateway.Lookup(context.Background(), testCase.ipAddresses)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
			}
			assert.Equal(t, testCase.record, record)
			assert.Equal(t, testCase.status, HTTPStatus(err))
			assert.Equal(t, testCase.stubCalls, stub.calls.Load())
		})
	}
}

func Test_Gateway_Lookup_requestBody(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, personBody)
	provider := datazapp.New(stub.server.URL, "key", "user", "pass", 0)
	gateway := newTestGateway(t, provider)

	_, err := gateway.Lookup(context.Background(), []string{"1.2.3.4", "5.6.7.8"})
	require.NoError(t, err)

	body := <-stub.bodies
	const expected = `{"Username":"user","Password":"pass","ApiKey":"key",` +
		`"AppendType":4,"Data":[{"IP":"1.2.3.4"}]}` + "\n"
	assert.Equal(t, expected, string(body))
}

func Test_Gateway_Lookup_upstreamBodyForwarded(t *testing.T) {
	t.Parallel()

	const providerBody = `{"Message":"Service Unavailable"}`
	stub := newStub(t, http.StatusServiceUnavailable, providerBody)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	_, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	assert.Equal(t, providerBody, string(upstreamErr.Body))

	response := NewErrorResponse(err)
	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	assert.Equal(t, `{"error":"provider API error","details":`+providerBody+`}`, string(encoded))
}

func Test_Gateway_Lookup_idempotent(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, personBody)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	first, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})
	require.NoError(t, err)
	second, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func Test_Gateway_Lookup_unavailable(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, personBody)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)
	stub.server.Close()

	_, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func Test_Gateway_Lookup_bodyCutOff(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Data":[`))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	ctrl := gomock.NewController(t)
	logger := mock_gateway.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	metrics := mock_gateway.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveUpstream(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().IncLookup(gomock.Any()).AnyTimes()
	notifier := mock_gateway.NewMockNotifier(ctrl)

	provider := datazapp.New(server.URL, "key", "", "", 0)
	client := &http.Client{Timeout: 100 * time.Millisecond}
	gateway := New(provider, client, logger, metrics, notifier, time.Now)

	_, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.NotErrorIs(t, err, ErrUpstreamMalformed)
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func Test_Gateway_Lookup_invalidNestedResponse(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		body string
	}{
		"opening brace only": {
			body: `{`,
		},
		"truncated data array": {
			body: `{"ResponseDetail":{"Data":[{"Email":"a@b.c"`,
		},
		"invalid response detail": {
			body: `{"ResponseDetail": nope}`,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stub := newStub(t, http.StatusOK, testCase.body)
			provider := datazappv2.New(stub.server.URL, "key", 0)
			gateway := newTestGateway(t, provider)

			_, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})

			assert.ErrorIs(t, err, ErrUpstreamMalformed)
			assert.EqualError(t, err, "provider response malformed: "+
				"cannot unmarshal response: response is not valid JSON")
			assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
		})
	}
}

func Test_Gateway_Lookup_canceled(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, personBody)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.Lookup(ctx, []string{"1.2.3.4"})

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func Test_Gateway_Lookup_credentialsRejected(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusUnauthorized, `{"Message":"Invalid API key"}`)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)

	ctrl := gomock.NewController(t)
	logger := mock_gateway.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Error("datazapp rejected the configured credentials with status 401")
	metrics := mock_gateway.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveUpstream(http.StatusUnauthorized, gomock.Any())
	metrics.EXPECT().IncLookup("upstream_error")
	notifier := mock_gateway.NewMockNotifier(ctrl)
	notifier.EXPECT().NotifyCredentialsRejected("datazapp", http.StatusUnauthorized)

	gateway := New(provider, &http.Client{}, logger, metrics, notifier, time.Now)

	_, err := gateway.Lookup(context.Background(), []string{"1.2.3.4"})

	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func Test_Gateway_LookupBatch(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, personBody)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	results, err := gateway.LookupBatch(context.Background(),
		[]string{"1.2.3.4", "bad", "5.6.7.8"})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "1.2.3.4", results[0].IP)
	assert.Equal(t, http.StatusOK, results[0].Status)
	require.NotNil(t, results[0].Record)
	assert.Equal(t, ptrTo("jane@example.com"), results[0].Record.Email)
	assert.Equal(t, models.BatchResult{
		IP:     "bad",
		Status: http.StatusBadRequest,
		Error:  `invalid input: IP address is not valid: "bad"`,
	}, results[1])
	assert.Equal(t, "5.6.7.8", results[2].IP)
	assert.Equal(t, http.StatusOK, results[2].Status)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func Test_Gateway_LookupBatch_invalid(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, personBody)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	_, err := gateway.LookupBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooMany := make([]string, maxBatchSize+1)
	_, err = gateway.LookupBatch(context.Background(), tooMany)
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	assert.Equal(t, int32(0), stub.calls.Load())
}

func Test_Gateway_Test(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusOK, `{"Data":[],"Count":0}`)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	data, err := gateway.Test(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, json.RawMessage(`{"Data":[],"Count":0}`), data)
	body := <-stub.bodies
	assert.Contains(t, string(body), `"Data":[{"IP":"8.8.8.8"}]`)
}

func Test_Gateway_Forward(t *testing.T) {
	t.Parallel()

	stub := newStub(t, http.StatusAccepted, `{"ok":true}`)
	provider := datazapp.New(stub.server.URL, "key", "", "", 0)
	gateway := newTestGateway(t, provider)

	payload := map[string]any{"AppendType": 1}
	statusCode, body, err := gateway.Forward(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, statusCode)
	assert.Equal(t, `{"ok":true}`, string(body))
	requestBody := <-stub.bodies
	assert.Equal(t, `{"ApiKey":"key","AppendType":1}`+"\n", string(requestBody))

	_, _, err = gateway.Forward(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func Test_Gateway_ConfigFlags(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, datazapp.New("", "", "user", "", 0))

	flags := gateway.ConfigFlags()

	expected := models.ConfigFlags{
		ProviderUsername: true,
		ProviderEndpoint: true,
	}
	assert.Equal(t, expected, flags)
}

func Test_HTTPStatus(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		err    error
		status int
	}{
		"nil":           {status: http.StatusOK},
		"unauthorized":  {err: ErrUnauthorized, status: http.StatusUnauthorized},
		"configuration": {err: ErrConfiguration, status: http.StatusInternalServerError},
		"upstream": {
			err:    &UpstreamError{StatusCode: http.StatusTooManyRequests},
			status: http.StatusTooManyRequests,
		},
		"unavailable": {err: ErrUpstreamUnavailable, status: http.StatusBadGateway},
		"other":       {err: errors.New("dummy"), status: http.StatusInternalServerError},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			status := HTTPStatus(testCase.err)

			assert.Equal(t, testCase.status, status)
		})
	}
}
