package models

// LookupRequest is the inbound body of the reverse IP append endpoints.
// IP is the legacy single address field and is only used when
// IPAddresses is empty.
type LookupRequest struct {
	IPAddresses []string `json:"ipAddresses"`
	IP          string   `json:"ip,omitempty"`
}

func (l LookupRequest) Addresses() (addresses []string) {
	if len(l.IPAddresses) > 0 || l.IP == "" {
		return l.IPAddresses
	}
	return []string{l.IP}
}

type TestRequest struct {
	IPAddress string `json:"ipAddress"`
}

type BatchResult struct {
	IP      string         `json:"ip"`
	Status  int            `json:"status"`
	Record  *ContactRecord `json:"record,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details any            `json:"details,omitempty"`
}

type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

// TestResponse is the body of the provider test endpoint.
// Data is the provider response body as is.
type TestResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}
