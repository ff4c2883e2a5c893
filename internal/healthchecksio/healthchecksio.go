package healthchecksio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// New creates a new healthchecks.io client.
// If passed an empty uuid string, it acts as no-op implementation.
func New(httpClient *http.Client, baseURL, uuid string, logger Erroer) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		uuid:       uuid,
		logger:     logger,
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	uuid       string
	logger     Erroer
}

type Erroer interface {
	Error(s string)
}

var ErrStatusCode = errors.New("bad status code")

type State string

const (
	Start State = "start"
	Exit0 State = "0"
	Exit1 State = "1"
)

func (c *Client) Ping(ctx context.Context, state State) (err error) {
	if c.uuid == "" {
		return nil
	}

	url := c.baseURL + "/" + c.uuid + "/" + string(state)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("doing http request: %w", err)
	}
	_ = response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrStatusCode, response.Status)
	}

	return nil
}

// PingExit reports the program exit, as failed if err is not nil.
// It uses its own short timeout since it runs after the program
// context is canceled, and only logs errors.
func (c *Client) PingExit(err error) {
	state := Exit0
	if err != nil {
		state = Exit1
	}

	const timeout = 3 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pingErr := c.Ping(ctx, state)
	if pingErr != nil {
		c.logger.Error("pinging healthchecks.io: " + pingErr.Error())
	}
}
