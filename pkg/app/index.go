package app

import (
	"net/http"

	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Route struct {
	Method        string `json:"method"`
	Route         string `json:"route"`
	Functionality string `json:"functionality"`
}

var Routes = []Route{
	{http.MethodPost, "/api/v1/rooms", "Create a room."},
	{http.MethodGet, "/api/v1/rooms", "List of all rooms."},
	{http.MethodPost, "/api/v1/customers", "Create a customer."},
	{http.MethodGet, "/api/v1/customers", "List of all customers."},
	{http.MethodPost, "/api/v1/bookings", "Book a room."},
	{http.MethodGet, "/api/v1/bookings", "List of all bookings."},
	{http.MethodGet, "/api/v1/bookings/:customerName/:roomName", "List of all bookings by {customerName} for {roomName}."},
	{http.MethodGet, "/api/v1/collections/:kind", "List every entity of a kind: rooms, customers or bookings."},
	{http.MethodGet, "/health", "Liveness check."},
	{http.MethodGet, "/ready", "Readiness check against the store."},
}

type IndexHandler struct {
	log *logger.Logger
}

func NewIndexHandler(log *logger.Logger) *IndexHandler {
	return &IndexHandler{log: log}
}

func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, "Use the routes described below to access the different functionalities.", Routes); err != nil {
		h.log.Error("failed to write success response", "handler", "Index", "operation", "WriteSuccess", "error", err)
	}
}

func (h *IndexHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/", h.Index)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = apperrors.WriteError(w, apperrors.NotFound("Route"))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = apperrors.WriteError(w, apperrors.New("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed))
}
