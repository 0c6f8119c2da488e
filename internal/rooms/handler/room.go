package handler

import (
	"net/http"

	"roomly/internal/rooms/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RoomRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateRoom", err)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), req)
	if err != nil {
		h.writeError(w, "CreateRoom", err)
		return
	}

	if err := httputil.WriteCreated(w, "Successfully created new room.", room); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRoom", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.writeError(w, "ListRooms", err)
		return
	}

	if err := httputil.WriteSuccess(w, "List of all rooms", rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "ListRooms", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) CreateCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CustomerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateCustomer", err)
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		h.writeError(w, "CreateCustomer", err)
		return
	}

	if err := httputil.WriteCreated(w, "Successfully registered.", customer); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateCustomer", "operation", "WriteCreated", "error", err)
	}
}

func (h *RoomHandler) ListCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.writeError(w, "ListCustomers", err)
		return
	}

	if err := httputil.WriteSuccess(w, "List of all customers", customers); err != nil {
		h.log.Error("failed to write success response", "handler", "ListCustomers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/rooms", h.CreateRoom)
	router.GET("/api/v1/rooms", h.ListRooms)
	router.POST("/api/v1/customers", h.CreateCustomer)
	router.GET("/api/v1/customers", h.ListCustomers)
}
