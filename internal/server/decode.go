package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/qdm12/ipappend/internal/gateway"
)

const maxBodySize = 1 << 20

// decodeBody decodes the JSON request body into v. An empty body
// is only accepted if allowEmpty is true, leaving v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) (err error) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	err = json.NewDecoder(body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is empty", gateway.ErrInvalidInput)
	default:
		return fmt.Errorf("%w: decoding request body: %w", gateway.ErrInvalidInput, err)
	}
}
