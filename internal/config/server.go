package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosettings/validate"
	"github.com/qdm12/gotree"
)

type Server struct {
	ListeningAddress string
	// GatewayAPIKey is the key callers must send in the x-api-key header.
	// It is left empty if unset, in which case protected routes answer 500.
	GatewayAPIKey      string
	TestEndpointAuth   *bool
	CORSAllowedOrigins []string
	MetricsEnabled     *bool
}

func (s *Server) setDefaults() {
	s.ListeningAddress = gosettings.DefaultComparable(s.ListeningAddress, ":3000")
	s.TestEndpointAuth = gosettings.DefaultPointer(s.TestEndpointAuth, false)
	s.CORSAllowedOrigins = gosettings.DefaultSlice(s.CORSAllowedOrigins, []string{"*"})
	s.MetricsEnabled = gosettings.DefaultPointer(s.MetricsEnabled, true)
}

func (s Server) Validate() (err error) {
	err = validate.ListeningAddress(s.ListeningAddress, os.Getuid())
	if err != nil {
		return fmt.Errorf("listening address: %w", err)
	}

	return nil
}

func (s Server) String() string {
	return s.toLinesNode().String()
}

func (s Server) toLinesNode() *gotree.Node {
	node := gotree.New("Server")
	node.Appendf("Listening address: %s", s.ListeningAddress)
	node.Appendf("Gateway API key: %s", setOrNot(s.GatewayAPIKey))
	node.Appendf("Test endpoint authentication: %s", gosettings.BoolToYesNo(s.TestEndpointAuth))
	node.Appendf("CORS allowed origins: %s", strings.Join(s.CORSAllowedOrigins, ", "))
	node.Appendf("Metrics: %s", gosettings.BoolToYesNo(s.MetricsEnabled))
	return node
}

func (s *Server) read(r *reader.Reader, warner Warner) (err error) {
	// Retro-compatibility
	port, err := r.Uint16Ptr("PORT")
	if err != nil {
		return err
	} else if port != nil {
		handleDeprecated(warner, "PORT", "LISTENING_ADDRESS")
		s.ListeningAddress = fmt.Sprintf(":%d", *port)
	}

	listeningAddress := r.String("LISTENING_ADDRESS")
	if listeningAddress != "" {
		s.ListeningAddress = listeningAddress
	}

	s.GatewayAPIKey = r.String("GATEWAY_API_KEY",
		reader.RetroKeys("DATAZAPP_PROXY_KEY"), reader.ForceLowercase(false))

	s.TestEndpointAuth, err = r.BoolPtr("TEST_ENDPOINT_AUTH")
	if err != nil {
		return err
	}

	s.CORSAllowedOrigins = r.CSV("CORS_ALLOWED_ORIGINS", reader.ForceLowercase(false))

	s.MetricsEnabled, err = r.BoolPtr("METRICS_ENABLED")
	if err != nil {
		return err
	}

	return nil
}
