package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benmeehan/push-agent/internal/constants"
	"github.com/benmeehan/push-agent/internal/service_registry"
	"github.com/benmeehan/push-agent/internal/utils"
	"github.com/benmeehan/push-agent/pkg/file"
	"github.com/benmeehan/push-agent/pkg/push"
)

var version = "undefined"

var (
	configPath  = flag.String("config", constants.DefaultConfigPath, "path to the YAML configuration file")
	envFile     = flag.String("env", "", "optional dotenv file loaded before the configuration")
	showVersion = flag.Bool("version", false, "show program version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	// Bootstrap logger until the configured one is available
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	if *envFile != "" {
		if err := utils.LoadEnvFile(*envFile, fileClient); err != nil {
			log.Fatal().Err(err).Str("path", *envFile).Msg("Failed to load env file")
		}
	}

	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	instanceID := uuid.New().String()
	log = utils.NewLogger(os.Stdout, os.Stderr, config.Log.Level, config.Log.Pretty).
		With().Str("instance_id", instanceID).Logger()

	userAgent := fmt.Sprintf("%s/%s (%s)", constants.UserAgentProduct, version, instanceID)
	pushClient := push.NewClient(
		config.Push.URL,
		config.Push.Token,
		config.Push.Method,
		userAgent,
		config.PushTimeout(),
	)

	serviceRegistry := service_registry.NewServiceRegistry(pushClient, log)
	if err := serviceRegistry.RegisterServices(config); err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}
	if serviceRegistry.Len() == 0 {
		log.Fatal().Msg("No services enabled, nothing to do")
	}

	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().
		Str("url", config.Push.URL).
		Dur("interval", config.PushInterval()).
		Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stopCh

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Failed to stop services cleanly")
		os.Exit(1)
	}
}
