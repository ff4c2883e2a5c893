package gateway

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/qdm12/ipappend/internal/models"
)

//go:generate mockgen -destination=mock_$GOPACKAGE/$GOFILE . Provider,Logger,DebugLogger,Metrics,Notifier

type Provider interface {
	String() string
	Name() models.Provider
	Endpoint() string
	Credentials() models.Credentials
	Validate() (err error)
	BuildRequest(ctx context.Context, ip netip.Addr) (request *http.Request, err error)
	ParseResponse(body []byte) (result models.ProviderResult, err error)
	Authenticate(payload map[string]any)
}

type DebugLogger interface {
	Debug(s string)
}

type Logger interface {
	DebugLogger
	Info(s string)
	Warn(s string)
	Error(s string)
}

type Metrics interface {
	ObserveUpstream(statusCode int, duration time.Duration)
	IncLookup(outcome string)
}

type Notifier interface {
	NotifyCredentialsRejected(provider string, statusCode int)
}
