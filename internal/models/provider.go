package models

// Provider is the name of an enrichment provider schema.
type Provider string

// Credentials reports which provider credentials are set.
type Credentials struct {
	APIKey   bool
	Username bool
	Password bool
}

// ProviderResult is the parsed content of a successful provider response.
type ProviderResult struct {
	Records []ContactRecord
	Details ProviderDetails
}

// ProviderDetails holds the diagnostic values of a provider
// response, reported to callers when no record is found.
type ProviderDetails struct {
	Count         *int    `json:"count"`
	ProcessedTime *string `json:"processedTime"`
}
