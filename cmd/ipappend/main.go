package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/breml/rootcerts"
	"github.com/joho/godotenv"
	"github.com/qdm12/goservices"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosplash"
	"github.com/qdm12/ipappend/internal/config"
	"github.com/qdm12/ipappend/internal/gateway"
	"github.com/qdm12/ipappend/internal/health"
	"github.com/qdm12/ipappend/internal/healthchecksio"
	"github.com/qdm12/ipappend/internal/metrics"
	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/noop"
	"github.com/qdm12/ipappend/internal/provider"
	"github.com/qdm12/ipappend/internal/server"
	"github.com/qdm12/ipappend/internal/shoutrrr"
	"github.com/qdm12/log"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := log.New()

	// A missing .env file is fine, the environment is used as is.
	_ = godotenv.Load()

	reader := reader.New(reader.Settings{
		HandleDeprecatedKey: func(source, oldKey, newKey string) {
			logger.Warnf("%q key %s is deprecated, please use %q instead",
				source, oldKey, newKey)
		},
	})

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)

	errorCh := make(chan error)
	go func() {
		errorCh <- _main(ctx, reader, os.Args, logger, buildInfo, time.Now)
	}()

	select {
	case <-ctx.Done():
		stop()
		logger.Warn("Caught OS signal, shutting down")
	case err := <-errorCh:
		stop()
		close(errorCh)
		if err == nil { // expected exit such as healthcheck
			os.Exit(0)
		}
		logger.Error(err.Error())
		cancel()
	}

	const shutdownGracePeriod = 5 * time.Second
	timer := time.NewTimer(shutdownGracePeriod)
	select {
	case err := <-errorCh:
		if !timer.Stop() {
			<-timer.C
		}
		if err != nil {
			logger.Error(err.Error())
		}
		logger.Info("Shutdown successful")
	case <-timer.C:
		logger.Warn("Shutdown timed out")
	}

	os.Exit(1)
}

func _main(ctx context.Context, reader *reader.Reader, args []string, logger log.LoggerInterface,
	buildInfo models.BuildInformation, timeNow func() time.Time) (err error) {
	if len(args) > 1 {
		switch args[1] {
		case "version", "-version", "--version":
			fmt.Println(buildInfo.VersionString())
			return nil
		case "healthcheck":
			// Running the program in a separate instance through the Docker
			// built-in healthcheck, in an ephemeral fashion to query the
			// long running instance of the program about its status

			var healthSettings config.Health
			healthSettings.Read(reader)
			healthSettings.SetDefaults()
			err = healthSettings.Validate()
			if err != nil {
				return fmt.Errorf("health settings: %w", err)
			}

			client := health.NewClient()
			return client.Query(ctx, *healthSettings.ServerAddress)
		}
	}

	printSplash(buildInfo)

	config, err := readConfig(reader, logger)
	if err != nil {
		return err
	}

	shoutrrrSettings := shoutrrr.Settings{
		Addresses:    config.Shoutrrr.Addresses,
		DefaultTitle: config.Shoutrrr.DefaultTitle,
		Logger:       logger.New(log.SetComponent("shoutrrr")),
	}
	shoutrrrClient, err := shoutrrr.New(shoutrrrSettings)
	if err != nil {
		return fmt.Errorf("setting up Shoutrrr: %w", err)
	}

	enrichmentProvider, err := provider.New(config.Provider.ToSettings())
	if err != nil {
		shoutrrrClient.Notify(err.Error())
		return fmt.Errorf("creating provider: %w", err)
	}

	client := &http.Client{Timeout: config.Client.Timeout}
	defer client.CloseIdleConnections()

	err = health.CheckReachable(ctx, client, enrichmentProvider.Endpoint())
	if err != nil {
		logger.Warn("provider endpoint is not reachable: " + err.Error())
	}

	hioClient := healthchecksio.New(client, config.Health.HealthchecksioBaseURL,
		*config.Health.HealthchecksioUUID, logger.New(log.SetComponent("healthchecks.io")))

	metricsCollector := metrics.New()
	gatewayLogger := logger.New(log.SetComponent("gateway"))
	gw := gateway.New(enrichmentProvider, client, gatewayLogger,
		metricsCollector, shoutrrrClient, timeNow)
	logConfigurationProblems(gw, config.Server, logger)

	healthServer, err := createHealthServer(gw, logger, *config.Health.ServerAddress)
	if err != nil {
		return fmt.Errorf("creating health server: %w", err)
	}

	var serverMetrics server.Metrics
	if *config.Server.MetricsEnabled {
		serverMetrics = metricsCollector
	}
	serverLogger := logger.New(log.SetComponent("http server"))
	httpServer, err := server.New(server.Settings{
		Address:            config.Server.ListeningAddress,
		GatewayAPIKey:      config.Server.GatewayAPIKey,
		TestEndpointAuth:   *config.Server.TestEndpointAuth,
		CORSAllowedOrigins: config.Server.CORSAllowedOrigins,
		ProviderName:       string(enrichmentProvider.Name()),
		BuildInfo:          buildInfo,
		Gateway:            gw,
		Metrics:            serverMetrics,
		Logger:             serverLogger,
		TimeNow:            timeNow,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	servicesSequence, err := goservices.NewSequence(goservices.SequenceSettings{
		ServicesStart: []goservices.Service{healthServer, httpServer},
		ServicesStop:  []goservices.Service{httpServer, healthServer},
	})
	if err != nil {
		return fmt.Errorf("creating services sequence: %w", err)
	}

	runError, startErr := servicesSequence.Start(ctx)
	if startErr != nil {
		return fmt.Errorf("starting services: %w", startErr)
	}

	shoutrrrClient.NotifyLaunched(gw.String())
	err = hioClient.Ping(ctx, healthchecksio.Start)
	if err != nil {
		logger.Warn("pinging healthchecks.io: " + err.Error())
	}

	select {
	case <-ctx.Done():
	case err = <-runError:
		hioClient.PingExit(err)
		shoutrrrClient.NotifyExit(err)
		return fmt.Errorf("exiting due to critical error: %w", err)
	}

	err = servicesSequence.Stop()
	hioClient.PingExit(err)
	if err != nil {
		shoutrrrClient.NotifyExit(err)
		return fmt.Errorf("stopping failed: %w", err)
	}

	return nil
}

func printSplash(buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "qdm12",
		Repository: "ipappend",
		Emails:     []string{"quentin.mcgaw@gmail.com"},
		Version:    buildInfo.Version,
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
		// Sponsor information
		PaypalUser:    "qmcgaw",
		GithubSponsor: "qdm12",
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		fmt.Println(line)
	}
}

func readConfig(reader *reader.Reader, logger log.LoggerInterface) (
	config config.Config, err error) {
	err = config.Read(reader, logger)
	if err != nil {
		return config, fmt.Errorf("reading settings: %w", err)
	}
	config.SetDefaults()
	err = config.Validate()
	if err != nil {
		return config, fmt.Errorf("settings validation: %w", err)
	}

	logger.Patch(config.Logger.ToOptions()...)
	logger.Info(config.String())

	return config, nil
}

// logConfigurationProblems warns about missing settings which do not
// prevent the program from starting, but make requests fail.
func logConfigurationProblems(gw *gateway.Gateway, serverSettings config.Server,
	logger log.LeveledLogger) {
	err := gw.CheckConfiguration()
	if err != nil {
		logger.Warn("lookups will fail: " + err.Error())
	}

	if serverSettings.GatewayAPIKey == "" {
		logger.Warn("GATEWAY_API_KEY is not set: authenticated routes will answer with an error")
	}
}

//nolint:ireturn
func createHealthServer(checker health.ConfigurationChecker,
	logger log.LoggerInterface, serverAddress string) (
	healthServer goservices.Service, err error) {
	if !health.IsDocker() {
		return noop.New("healthcheck server"), nil
	}
	healthLogger := logger.New(log.SetComponent("healthcheck server"))
	isHealthy := health.MakeIsHealthy(checker, healthLogger)
	return health.NewServer(serverAddress, healthLogger, isHealthy)
}
