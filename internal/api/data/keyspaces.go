package data

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skybi/chainkv/internal/api/schema"
	"github.com/skybi/chainkv/internal/hashmap"
	"github.com/skybi/chainkv/internal/keyspace"
)

type contextKey string

var contextValueKeyspace = contextKey("keyspace")

var (
	errKeyspaceNotFound = func(id string) *schema.Error {
		return &schema.Error{
			Type:    "keyspace.notFound",
			Message: "There is no keyspace with the given ID.",
			Details: map[string]any{
				"id": id,
			},
		}
	}
	errKeyspaceInvalidOptions = func(reason string) *schema.Error {
		return &schema.Error{
			Type:    "keyspace.invalidOptions",
			Message: "The requested keyspace options are not valid.",
			Details: map[string]any{
				"reason": reason,
			},
		}
	}
)

// MiddlewareFetchKeyspace looks up the keyspace referenced by the 'id' URL parameter.
// Additionally, it injects the keyspace itself into the request context.
func (service *Service) MiddlewareFetchKeyspace(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		rawID := chi.URLParam(request, "id")
		id, err := uuid.Parse(rawID)
		if err != nil {
			service.writer.WriteErrors(writer, http.StatusNotFound, errKeyspaceNotFound(rawID))
			return
		}

		space := service.Registry.Get(id)
		if space == nil {
			service.writer.WriteErrors(writer, http.StatusNotFound, errKeyspaceNotFound(rawID))
			return
		}

		service.Usage.Accumulate(id)

		// Delegate to the next handler
		request = request.WithContext(context.WithValue(request.Context(), contextValueKeyspace, space))
		next(writer, request)
	}
}

type endpointCreateKeyspaceRequestPayload struct {
	InitialCapacity *int     `json:"initial_capacity" min:"1" max:"16777216"`
	LoadFactor      *float64 `json:"load_factor"`
}

// EndpointCreateKeyspace handles the 'POST /v1/keyspaces' endpoint
func (service *Service) EndpointCreateKeyspace(writer http.ResponseWriter, request *http.Request) {
	payload, validationErrs, err := schema.UnmarshalBody[endpointCreateKeyspaceRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	// Fall back to the configured defaults for every option the client did not specify
	opts := service.Config.MapOptions()
	if payload.InitialCapacity != nil {
		opts.InitialCapacity = *payload.InitialCapacity
	}
	if payload.LoadFactor != nil {
		opts.LoadFactorThreshold = *payload.LoadFactor
	}

	space, err := service.Registry.Create(opts)
	if err != nil {
		if errors.Is(err, hashmap.ErrInvalidArgument) {
			service.writer.WriteErrors(writer, http.StatusBadRequest, errKeyspaceInvalidOptions(err.Error()))
			return
		}
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSONCode(writer, http.StatusCreated, space.Stats())
}

// EndpointGetKeyspaces handles the 'GET /v1/keyspaces?offset={number?:0}&limit={number?:10}' endpoint
func (service *Service) EndpointGetKeyspaces(writer http.ResponseWriter, request *http.Request) {
	var validationErrs []*schema.Error

	offset, validationErr := schema.QueryNumber(request, "offset", false, 0, 0, math.MaxInt64)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	limit, validationErr := schema.QueryNumber(request, "limit", false, 10, 1, 1000)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	spaces := service.Registry.List()
	page := schema.Paginate(spaces, uint64(offset), uint64(limit))
	stats := make([]*keyspace.Stats, 0, len(page))
	for _, space := range page {
		stats = append(stats, space.Stats())
	}
	service.writer.WriteJSON(writer, schema.BuildPaginatedResponse(uint64(offset), uint64(limit), uint64(len(spaces)), stats))
}

// EndpointGetKeyspace handles the 'GET /v1/keyspaces/{id}' endpoint
func (service *Service) EndpointGetKeyspace(writer http.ResponseWriter, request *http.Request) {
	space := request.Context().Value(contextValueKeyspace).(*keyspace.Keyspace)
	service.writer.WriteJSON(writer, space.Stats())
}

// EndpointDeleteKeyspace handles the 'DELETE /v1/keyspaces/{id}' endpoint
func (service *Service) EndpointDeleteKeyspace(writer http.ResponseWriter, request *http.Request) {
	space := request.Context().Value(contextValueKeyspace).(*keyspace.Keyspace)
	if !service.Registry.Delete(space.ID) {
		// Deleted concurrently
		service.writer.WriteErrors(writer, http.StatusNotFound, errKeyspaceNotFound(space.ID.String()))
		return
	}
	service.Usage.Forget(space.ID)
	log.Info().Str("keyspace", space.ID.String()).Msg("a keyspace was deleted")
	writer.WriteHeader(http.StatusNoContent)
}
