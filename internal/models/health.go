package models

import "time"

// ConfigFlags only reports the presence of configuration values,
// never the values themselves.
type ConfigFlags struct {
	ProviderAPIKey   bool `json:"providerApiKey"`
	ProviderUsername bool `json:"providerUsername"`
	ProviderPassword bool `json:"providerPassword"`
	ProviderEndpoint bool `json:"providerEndpoint"`
	GatewayAPIKey    bool `json:"gatewayApiKey"`
}

type HealthStatus struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Version     string      `json:"version"`
	Provider    string      `json:"provider"`
	ConfigFlags ConfigFlags `json:"configFlags"`
}
