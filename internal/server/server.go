package server

import (
	"time"

	"github.com/qdm12/goservices/httpserver"
	"github.com/qdm12/ipappend/internal/models"
)

type Settings struct {
	Address            string
	GatewayAPIKey      string
	TestEndpointAuth   bool
	CORSAllowedOrigins []string
	ProviderName       string
	BuildInfo          models.BuildInformation
	Gateway            Gateway
	// Metrics is optional and the /metrics route is not served if it is nil.
	Metrics Metrics
	Logger  Logger
	TimeNow func() time.Time
}

func New(settings Settings) (server *httpserver.Server, err error) {
	name := "http"
	return httpserver.New(httpserver.Settings{
		Handler: newHandler(settings),
		Name:    &name,
		Address: &settings.Address,
		Logger:  settings.Logger,
	})
}
