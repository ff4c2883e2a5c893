package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/qdm12/ipappend/internal/provider/utils"
)

// makeLogClient returns a copy of client logging requests and responses
// at the debug level, with credentials masked.
func makeLogClient(client *http.Client, logger DebugLogger) (newClient *http.Client) {
	newClient = &http.Client{
		Timeout: client.Timeout,
	}

	originalTransport := client.Transport
	if originalTransport == nil {
		originalTransport = http.DefaultTransport
	}

	transport, ok := originalTransport.(*http.Transport)
	if !ok {
		panic(fmt.Sprintf("transport %T is not *http.Transport", originalTransport))
	}

	newClient.Transport = &loggingRoundTripper{
		proxied: transport.Clone(),
		logger:  logger,
	}

	return newClient
}

type loggingRoundTripper struct {
	proxied http.RoundTripper
	logger  DebugLogger
}

func (lrt *loggingRoundTripper) RoundTrip(request *http.Request) (
	response *http.Response, err error) {
	requestString, err := requestToString(request)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	lrt.logger.Debug(requestString)

	response, err = lrt.proxied.RoundTrip(request)
	if err != nil {
		return response, err
	}

	responseString, err := responseToString(response)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	lrt.logger.Debug(responseString)

	return response, nil
}

func requestToString(request *http.Request) (s string, err error) {
	s = request.Method + " " + request.URL.String()

	if request.Header != nil {
		s += " | headers: " + headerToString(request.Header)
	}

	if request.Body != nil {
		newBody, bodyString, err := readAndResetBody(request.Body)
		if err != nil {
			return "", err
		}
		request.Body = newBody
		s += " | body: " + maskCredentials(bodyString)
	}

	return s, nil
}

func responseToString(response *http.Response) (s string, err error) {
	s = response.Status

	if response.Header != nil {
		s += " | headers: " + headerToString(response.Header)
	}

	if response.Body != nil {
		newBody, bodyString, err := readAndResetBody(response.Body)
		if err != nil {
			return "", err
		}
		response.Body = newBody
		s += " | body: " + bodyString
	}

	return s, nil
}

func headerToString(header http.Header) (s string) {
	headers := make([]string, 0, len(header))
	for key, values := range header {
		headerString := key + ": " + strings.Join(values, ",")
		headers = append(headers, headerString)
	}
	return strings.Join(headers, "; ")
}

// readAndResetBody reads and closes body, returning a new body with
// the same content. The body is closed on a read error as well.
func readAndResetBody(body io.ReadCloser) (
	newBody io.ReadCloser, bodyString string, err error) {
	b, err := io.ReadAll(body)
	_ = body.Close()
	if err != nil {
		return nil, "", err
	}
	bodyString = utils.ToSingleLine(string(b))
	newBody = io.NopCloser(bytes.NewBuffer(b))
	return newBody, bodyString, nil
}

var regexCredentials = regexp.MustCompile(`(?i)("(?:apikey|password)"\s*:\s*)"[^"]*"`)

func maskCredentials(body string) (masked string) {
	return regexCredentials.ReplaceAllString(body, `$1"[redacted]"`)
}
