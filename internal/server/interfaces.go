package server

import (
	"context"
	"net/http"

	"github.com/qdm12/ipappend/internal/models"
)

//go:generate mockgen -destination=mock_$GOPACKAGE/$GOFILE . Gateway,Logger

type Gateway interface {
	ConfigFlags() (flags models.ConfigFlags)
	Lookup(ctx context.Context, ipAddresses []string) (record models.ContactRecord, err error)
	LookupBatch(ctx context.Context, ipAddresses []string) (results []models.BatchResult, err error)
	Test(ctx context.Context, ipAddress string) (data any, err error)
	Forward(ctx context.Context, payload map[string]any) (statusCode int, body []byte, err error)
}

type Metrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Logger interface {
	Debug(s string)
	Info(s string)
	Warn(s string)
	Error(s string)
}
