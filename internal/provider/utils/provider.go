package utils

import (
	"github.com/qdm12/ipappend/internal/models"
)

func ToString(provider models.Provider, endpoint string) string {
	return "[provider: " + string(provider) + " | endpoint: " + endpoint + "]"
}

// SetIfNotEmpty sets the key to value in the payload only
// if value is not empty, so credentials never overwrite
// with empty strings.
func SetIfNotEmpty(payload map[string]any, key, value string) {
	if value == "" {
		return
	}
	payload[key] = value
}
