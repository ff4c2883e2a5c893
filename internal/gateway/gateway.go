package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider/headers"
	"github.com/qdm12/ipappend/internal/provider/utils"
)

// Gateway enriches IP addresses using a single provider.
// It holds no mutable state and is safe for concurrent use.
type Gateway struct {
	provider Provider
	client   *http.Client
	logger   Logger
	metrics  Metrics
	notifier Notifier
	timeNow  func() time.Time
}

func New(provider Provider, client *http.Client, logger Logger,
	metrics Metrics, notifier Notifier, timeNow func() time.Time) *Gateway {
	return &Gateway{
		provider: provider,
		client:   makeLogClient(client, logger),
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
		timeNow:  timeNow,
	}
}

func (g *Gateway) String() string {
	return g.provider.String()
}

// ConfigFlags reports which provider settings are present.
// The gateway API key flag is left to the caller.
func (g *Gateway) ConfigFlags() (flags models.ConfigFlags) {
	credentials := g.provider.Credentials()
	return models.ConfigFlags{
		ProviderAPIKey:   credentials.APIKey,
		ProviderUsername: credentials.Username,
		ProviderPassword: credentials.Password,
		ProviderEndpoint: g.provider.Endpoint() != "",
	}
}

// CheckConfiguration returns an error wrapping ErrConfiguration
// if the provider cannot be called.
func (g *Gateway) CheckConfiguration() (err error) {
	err = g.provider.Validate()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfiguration, g.provider.Name(), err)
	}
	return nil
}

// Lookup enriches the first of the IP addresses given. All the addresses
// must be valid, and the ones after the first one are ignored.
func (g *Gateway) Lookup(ctx context.Context, ipAddresses []string) (
	record models.ContactRecord, err error) {
	ips, err := parseIPs(ipAddresses)
	if err != nil {
		g.metrics.IncLookup(outcomeFromError(err))
		return record, err
	}

	if ignored := len(ips) - 1; ignored > 0 {
		g.logger.Warn(fmt.Sprintf("only enriching %s, ignoring %d other IP address(es)",
			ips[0], ignored))
	}

	record, err = g.lookup(ctx, ips[0])
	g.metrics.IncLookup(outcomeFromError(err))
	return record, err
}

var ErrBatchTooLarge = errors.New("too many IP addresses")

const maxBatchSize = 100

// LookupBatch enriches each IP address with its own provider call,
// concurrently. Results are in the order of the IP addresses given,
// and an error is only returned if the input itself is invalid.
func (g *Gateway) LookupBatch(ctx context.Context, ipAddresses []string) (
	results []models.BatchResult, err error) {
	switch {
	case len(ipAddresses) == 0:
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoIPAddress)
	case len(ipAddresses) > maxBatchSize:
		return nil, fmt.Errorf("%w: %w: %d exceeds the maximum of %d",
			ErrInvalidInput, ErrBatchTooLarge, len(ipAddresses), maxBatchSize)
	}

	type indexedResult struct {
		index  int
		result models.BatchResult
	}

	channel := make(chan indexedResult)

	for index, ipAddress := range ipAddresses {
		go func(index int, ipAddress string) {
			record, err := g.Lookup(ctx, []string{ipAddress})
			result := models.BatchResult{
				IP:     ipAddress,
				Status: HTTPStatus(err),
			}
			if err != nil {
				errResponse := NewErrorResponse(err)
				result.Error = errResponse.Error
				result.Details = errResponse.Details
			} else {
				result.Record = &record
			}
			channel <- indexedResult{index: index, result: result}
		}(index, ipAddress)
	}

	results = make([]models.BatchResult, len(ipAddresses))
	for range ipAddresses {
		indexed := <-channel
		results[indexed.index] = indexed.result
	}
	return results, nil
}

func (g *Gateway) lookup(ctx context.Context, ip netip.Addr) (
	record models.ContactRecord, err error) {
	err = g.CheckConfiguration()
	if err != nil {
		return record, err
	}

	request, err := g.provider.BuildRequest(ctx, ip)
	if err != nil {
		return record, fmt.Errorf("building request: %w", err)
	}

	statusCode, body, err := g.send(request)
	if err != nil {
		return record, err
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return record, &UpstreamError{StatusCode: statusCode, Body: body}
	}

	result, err := g.provider.ParseResponse(body)
	if err != nil {
		return record, fmt.Errorf("%w: %w", ErrUpstreamMalformed, err)
	}

	for _, record = range result.Records {
		if record.HasIdentity() {
			return record, nil
		}
	}

	g.logger.Info(fmt.Sprintf("no person data for %s in %d record(s)", ip, len(result.Records)))
	return models.ContactRecord{}, &NotFoundError{Details: result.Details}
}

// Test sends a single request for the IP address given, or 8.8.8.8 if
// it is empty, and returns the provider response body as is.
func (g *Gateway) Test(ctx context.Context, ipAddress string) (
	data any, err error) {
	if ipAddress == "" {
		ipAddress = "8.8.8.8"
	}

	ips, err := parseIPs([]string{ipAddress})
	if err != nil {
		return nil, err
	}

	err = g.CheckConfiguration()
	if err != nil {
		return nil, err
	}

	request, err := g.provider.BuildRequest(ctx, ips[0])
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	statusCode, body, err := g.send(request)
	if err != nil {
		return nil, err
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return nil, &UpstreamError{StatusCode: statusCode, Body: body}
	}

	return rawOrString(body), nil
}

// Forward sends the payload to the provider endpoint with the
// provider credentials set in it, and returns the provider status
// code and body verbatim.
func (g *Gateway) Forward(ctx context.Context, payload map[string]any) (
	statusCode int, body []byte, err error) {
	if payload == nil {
		return 0, nil, fmt.Errorf("%w: payload is not a JSON object", ErrInvalidInput)
	}

	err = g.CheckConfiguration()
	if err != nil {
		return 0, nil, err
	}

	g.provider.Authenticate(payload)

	buffer := bytes.NewBuffer(nil)
	err = json.NewEncoder(buffer).Encode(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: encoding payload: %w", ErrInvalidInput, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.provider.Endpoint(), buffer)
	if err != nil {
		return 0, nil, fmt.Errorf("creating http request: %w", err)
	}
	headers.SetUserAgent(request)
	headers.SetJSON(request)

	return g.send(request)
}

// send performs the single outbound call. Transport errors are
// wrapped with ErrUpstreamUnavailable and are never retried.
func (g *Gateway) send(request *http.Request) (
	statusCode int, body []byte, err error) {
	start := g.timeNow()
	response, err := g.client.Do(request)
	if err != nil {
		g.metrics.ObserveUpstream(0, g.timeNow().Sub(start))
		return 0, nil, fmt.Errorf("%w: doing request: %w", ErrUpstreamUnavailable, err)
	}

	body, err = utils.ReadBody(response.Body)
	duration := g.timeNow().Sub(start)
	g.metrics.ObserveUpstream(response.StatusCode, duration)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	g.logger.Debug(fmt.Sprintf("%s answered %d with %s in %s",
		g.provider.Name(), response.StatusCode,
		humanize.Bytes(uint64(len(body))), duration.Round(time.Millisecond)))

	switch response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		g.logger.Error(fmt.Sprintf("%s rejected the configured credentials with status %d",
			g.provider.Name(), response.StatusCode))
		g.notifier.NotifyCredentialsRejected(string(g.provider.Name()), response.StatusCode)
	}

	return response.StatusCode, body, nil
}
