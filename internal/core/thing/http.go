/*
Package thing's HTTP interface exposes the read-through lookups.

Routes (mounted under /api/v1):

  - GET /search?query=   candidates plus resolved Things
  - GET /things/{id}     one Thing, fetched upstream when not stored
  - GET /things?id=a,b   several Things at once
*/
package thing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/meeple/internal/platform/request"
	"github.com/taibuivan/meeple/internal/platform/respond"
)

// Handler translates HTTP requests into [Service] calls.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the search and detail endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/search", handler.search)
	router.Get("/things", handler.listThings)
	router.Get("/things/{id}", handler.getThing)
	return router
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Search(request.Context(), requestutil.Query(request, "query"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getThing(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.Detail(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) listThings(writer http.ResponseWriter, request *http.Request) {
	things, err := handler.service.DetailMany(request.Context(), requestutil.QueryList(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, things)
}
