package api

import (
	"errors"
	"net/http"

	"github.com/skybi/chainkv/internal/api/data"
	"github.com/skybi/chainkv/internal/config"
	"github.com/skybi/chainkv/internal/keyspace"
	"github.com/skybi/chainkv/internal/keyspace/usage"
)

// Service represents the data API service wrapper managing its lifecycle
type Service struct {
	Config   *config.Config
	Registry *keyspace.Registry
	Usage    *usage.Tracker
	data     *data.Service
}

// Startup starts up the data API.
// Unexpected server errors are sent to errs.
func (service *Service) Startup(errs chan<- error) {
	dataService := &data.Service{
		Config:   service.Config,
		Registry: service.Registry,
		Usage:    service.Usage,
	}
	service.data = dataService
	go func() {
		if err := dataService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the data API
func (service *Service) Shutdown() {
	if service.data != nil {
		service.data.Shutdown()
		service.data = nil
	}
}
