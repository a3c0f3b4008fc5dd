package data

import (
	"math"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/skybi/chainkv/internal/api/schema"
	"github.com/skybi/chainkv/internal/keyspace"
)

var errEntryNotFound = func(key string) *schema.Error {
	return &schema.Error{
		Type:    "entry.notFound",
		Message: "The keyspace has no value assigned to the given key.",
		Details: map[string]any{
			"key": key,
		},
	}
}

type endpointPutEntryRequestPayload struct {
	Value *string `json:"value" required:"true"`
}

type endpointPutEntryResponse struct {
	*keyspace.Entry
	Previous *string `json:"previous"`
}

// EndpointGetEntries handles the 'GET /v1/keyspaces/{id}/entries?offset={number?:0}&limit={number?:10}' endpoint
func (service *Service) EndpointGetEntries(writer http.ResponseWriter, request *http.Request) {
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

	space := request.Context().Value(contextValueKeyspace).(*keyspace.Keyspace)
	entries, n := space.Page(uint64(offset), uint64(limit))
	service.writer.WriteJSON(writer, schema.BuildPaginatedResponse(uint64(offset), uint64(limit), n, entries))
}

// EndpointGetEntry handles the 'GET /v1/keyspaces/{id}/entries/{key}' endpoint
func (service *Service) EndpointGetEntry(writer http.ResponseWriter, request *http.Request) {
	space := request.Context().Value(contextValueKeyspace).(*keyspace.Keyspace)
	key := entryKey(request)

	value, ok := space.Get(key)
	if !ok {
		service.writer.WriteErrors(writer, http.StatusNotFound, errEntryNotFound(key))
		return
	}
	service.writer.WriteJSON(writer, &keyspace.Entry{Key: key, Value: value})
}

// EndpointPutEntry handles the 'PUT /v1/keyspaces/{id}/entries/{key}' endpoint.
// 201 Created is sent if the key was not present before, 200 OK otherwise.
func (service *Service) EndpointPutEntry(writer http.ResponseWriter, request *http.Request) {
	payload, validationErrs, err := schema.UnmarshalBody[endpointPutEntryRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	space := request.Context().Value(contextValueKeyspace).(*keyspace.Keyspace)
	key := entryKey(request)

	response := &endpointPutEntryResponse{
		Entry: &keyspace.Entry{Key: key, Value: *payload.Value},
	}
	previous, replaced := space.Put(key, *payload.Value)
	if !replaced {
		service.writer.WriteJSONCode(writer, http.StatusCreated, response)
		return
	}
	response.Previous = &previous
	service.writer.WriteJSON(writer, response)
}

// EndpointDeleteEntry handles the 'DELETE /v1/keyspaces/{id}/entries/{key}' endpoint
func (service *Service) EndpointDeleteEntry(writer http.ResponseWriter, request *http.Request) {
	space := request.Context().Value(contextValueKeyspace).(*keyspace.Keyspace)
	key := entryKey(request)

	value, ok := space.Remove(key)
	if !ok {
		service.writer.WriteErrors(writer, http.StatusNotFound, errEntryNotFound(key))
		return
	}
	service.writer.WriteJSON(writer, &keyspace.Entry{Key: key, Value: value})
}

// entryKey extracts the unescaped 'key' URL parameter
func entryKey(request *http.Request) string {
	raw := chi.URLParam(request, "key")
	if key, err := url.PathUnescape(raw); err == nil {
		return key
	}
	return raw
}
