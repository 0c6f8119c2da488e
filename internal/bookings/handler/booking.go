package handler

import (
	"fmt"
	"net/http"

	"roomly/internal/bookings/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Book", err)
		return
	}

	booking, err := h.service.Book(r.Context(), req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, "Successfully booked room.", booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		h.writeError(w, "ListBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, "List of all bookings", bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListBookingsFor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerName := ps.ByName("customerName")
	roomName := ps.ByName("roomName")

	bookings, err := h.service.ListBookingsFor(r.Context(), customerName, roomName)
	if err != nil {
		h.writeError(w, "ListBookingsFor", err)
		return
	}

	message := fmt.Sprintf("List of all bookings by %s for %s.", customerName, roomName)
	if err := httputil.WriteSuccess(w, message, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookingsFor", "operation", "WriteSuccess", "error", err)
	}
}

// List serves any collection by name, e.g. /api/v1/collections/rooms.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind := ps.ByName("kind")

	items, err := h.service.ListAll(r.Context(), kind)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, fmt.Sprintf("List of all %s", kind), items); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Book)
	router.GET("/api/v1/bookings", h.ListBookings)
	router.GET("/api/v1/bookings/:customerName/:roomName", h.ListBookingsFor)
	router.GET("/api/v1/collections/:kind", h.List)
}
