package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/config"
	"github.com/clearproof/api/internal/traces"
	"github.com/clearproof/api/logging"
	"github.com/clearproof/api/server"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "main"})

// serviceVersion is overridden at build time with -ldflags.
var serviceVersion = "dev"

func main() {
	var (
		err error

		configPath = flag.String("config", config.DefaultConfigPath, "Path to the config file")
		dotEnvPath = flag.String("dotenv-path", config.DefaultDotEnvPath, "Path to the dotenv file")
		envPrefix  = flag.String("env-prefix", "CLEARPROOF_", "The prefix for environment variables")
		logLevel   = flag.String("log-level", "debug", "One of trace, debug, info, warn, error, fatal, or panic.")
	)

	flag.Parse()
	logging.SetupLogging(*logLevel)

	log := log.WithFields(logrus.Fields{"context": "main"})

	// Load the configuration.
	spec, err := config.LoadConfig(*envPrefix, *configPath, *dotEnvPath)
	if err != nil {
		log.Fatalf("unable to load the configuration: %s", err.Error())
	}

	log.Info("loaded the configuration")

	// Set up tracing.
	shutdown, err := traces.Init(context.Background(), spec.OtelEndpoint, serviceVersion)
	if err != nil {
		log.Fatalf("unable to initialize tracing: %s", err.Error())
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Errorf("unable to shut down tracing cleanly: %s", err.Error())
		}
	}()

	// Initialize the server.
	server.Init(spec, serviceVersion)
}
