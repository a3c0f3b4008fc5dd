package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/chainkv/internal/api"
	"github.com/skybi/chainkv/internal/config"
	"github.com/skybi/chainkv/internal/keyspace"
	"github.com/skybi/chainkv/internal/keyspace/usage"
	"github.com/skybi/chainkv/internal/task"
)

const usageReportInterval = time.Minute

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")

	// Create the keyspace registry
	registry := keyspace.NewRegistry(keyspace.Settings{
		EntryLifetime:   cfg.EntryLifetime,
		CleanupInterval: cfg.CleanupInterval,
	})
	defer func() {
		log.Info().Msg("closing all keyspaces...")
		registry.Close()
	}()

	// Create the keyspace usage tracker and schedule a task that reports and resets it
	tracker := usage.NewTracker(func(id uuid.UUID) bool {
		return registry.Get(id) != nil
	})
	usageReportTask := task.NewRepeating(func() {
		n := tracker.Flush(func(id uuid.UUID, requests int64) {
			log.Debug().Str("keyspace", id.String()).Int64("requests", requests).Msg("keyspace usage")
		})
		if n > 0 {
			log.Info().Int("keyspaces", n).Msg("reported keyspace usage")
		}
	}, usageReportInterval)
	usageReportTask.Start()
	defer func() {
		log.Info().Msg("reporting remaining keyspace usage...")
		usageReportTask.Stop(true)
	}()

	// Start up the data API
	log.Info().Str("address", cfg.ListenAddress).Msg("starting up the data API...")
	apis := &api.Service{
		Config:   cfg,
		Registry: registry,
		Usage:    tracker,
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the data API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
