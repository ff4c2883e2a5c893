package health

import (
	"context"
	"fmt"
	"net/http"
)

// CheckReachable sends a HEAD request to the url given and only
// fails if no response is received. The status code is ignored
// since provider endpoints usually only accept POST requests.
func CheckReachable(ctx context.Context, client *http.Client, url string) (err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	_ = response.Body.Close()

	return nil
}
