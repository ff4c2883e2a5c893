package health

import (
	"github.com/qdm12/goservices/httpserver"
)

// NewServer returns the internal health server queried by
// the healthcheck subcommand of the program.
func NewServer(address string, logger Logger, healthcheck func() error) (
	server *httpserver.Server, err error) {
	name := "healthcheck"
	return httpserver.New(httpserver.Settings{
		Handler: newHandler(healthcheck),
		Name:    &name,
		Address: &address,
		Logger:  logger,
	})
}
