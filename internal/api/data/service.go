package data

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/skybi/chainkv/internal/api/schema"
	"github.com/skybi/chainkv/internal/config"
	"github.com/skybi/chainkv/internal/keyspace"
	"github.com/skybi/chainkv/internal/keyspace/usage"
)

// Service represents the data API service
type Service struct {
	server *http.Server

	Config   *config.Config
	Registry *keyspace.Registry
	Usage    *usage.Tracker

	writer *schema.Writer
}

// Startup starts up the data API
func (service *Service) Startup() error {
	server := &http.Server{
		Addr:    service.Config.ListenAddress,
		Handler: service.Router(),
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the data API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}

// Router builds the HTTP handler serving every data API endpoint
func (service *Service) Router() http.Handler {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the data API experienced an unexpected error")
		},
	}

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://*", "https://*"},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the API endpoint handlers
	service.registerEndpoints(router)
	return router
}

func (service *Service) registerEndpoints(router chi.Router) {
	// Register the keyspace controller endpoints
	router.Post("/v1/keyspaces", service.EndpointCreateKeyspace)
	router.Get("/v1/keyspaces", service.EndpointGetKeyspaces)
	router.Get("/v1/keyspaces/{id}", withMiddlewares(service.EndpointGetKeyspace, service.MiddlewareFetchKeyspace))
	router.Delete("/v1/keyspaces/{id}", withMiddlewares(service.EndpointDeleteKeyspace, service.MiddlewareFetchKeyspace))

	// Register the entry controller endpoints
	router.Get("/v1/keyspaces/{id}/entries", withMiddlewares(service.EndpointGetEntries, service.MiddlewareFetchKeyspace))
	router.Get("/v1/keyspaces/{id}/entries/{key}", withMiddlewares(service.EndpointGetEntry, service.MiddlewareFetchKeyspace))
	router.Put("/v1/keyspaces/{id}/entries/{key}", withMiddlewares(service.EndpointPutEntry, service.MiddlewareFetchKeyspace))
	router.Delete("/v1/keyspaces/{id}/entries/{key}", withMiddlewares(service.EndpointDeleteEntry, service.MiddlewareFetchKeyspace))
}

func withMiddlewares(end http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	final := end
	for i := len(middlewares); i > 0; i-- {
		final = middlewares[i-1](final)
	}
	return final
}
