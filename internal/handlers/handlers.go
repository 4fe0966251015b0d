package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/engine"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/service"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	flightService service.FlightService
}

// NewHandler creates a new Handler instance
func NewHandler(flightService service.FlightService) *Handler {
	return &Handler{
		flightService: flightService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// ListFlights handles GET /api/flights
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := engine.Filter{
		DepartureCity:   q.Get("departureCity"),
		DestinationCity: q.Get("destinationCity"),
		OnlyForSale:     q.Get("onlyForSale") == "true",
		SortBy:          engine.SortKey(q.Get("sortBy")),
	}
	switch filter.SortBy {
	case "", engine.SortByPrice, engine.SortByDepartureTime:
	default:
		respondError(w, http.StatusBadRequest, "Unknown sort key")
		return
	}

	flights := h.flightService.ListFlights(r.Context(), filter)
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	flight, err := h.flightService.GetFlight(r.Context(), flightID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// AddFlight handles POST /api/flights
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var flight models.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if flight.ID == "" {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}

	if err := h.flightService.AddFlight(r.Context(), flight); err != nil {
		if errors.Is(err, engine.ErrDuplicateFlight) {
			respondError(w, http.StatusConflict, "Flight already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, flight)
}

// UpdateFlight handles PATCH /api/flights/{id}
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]

	var patch models.FlightUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	flight, err := h.flightService.UpdateFlight(r.Context(), flightID, patch)
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// DeleteFlight handles DELETE /api/flights/{id}
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]

	if err := h.flightService.DeleteFlight(r.Context(), flightID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// DelayFlight handles POST /api/flights/{id}/delay
func (h *Handler) DelayFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]

	var req models.DelayFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	flight, err := h.flightService.DelayFlight(r.Context(), flightID, req.Minutes)
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// CancelFlight handles POST /api/flights/{id}/cancel
func (h *Handler) CancelFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]

	notices, err := h.flightService.CancelFlight(r.Context(), flightID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, models.CancelFlightResponse{
		FlightID: flightID,
		Refunds:  notices,
	})
}

// GetConnections handles GET /api/flights/{id}/connections
func (h *Handler) GetConnections(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]

	connections, err := h.flightService.Connections(r.Context(), flightID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, connections)
}

// GetRoutes handles GET /api/routes
func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	depCity := q.Get("departureCity")
	desCity := q.Get("destinationCity")
	if depCity == "" || desCity == "" {
		respondError(w, http.StatusBadRequest, "departureCity and destinationCity are required")
		return
	}

	routes := h.flightService.AlternateRoutes(r.Context(), depCity, desCity)
	respondJSON(w, http.StatusOK, models.RoutesResponse{
		DepartureCity:   depCity,
		DestinationCity: desCity,
		Routes:          routes,
	})
}

// BuyTicket handles POST /api/tickets/buy
//
// A failed purchase is a valid outcome, not a transport error, so the
// response is always 200 with the result payload.
func (h *Handler) BuyTicket(w http.ResponseWriter, r *http.Request) {
	var req models.BuyTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.FlightID == "" {
		respondError(w, http.StatusBadRequest, "User ID and flight ID are required")
		return
	}

	result := h.flightService.BuyTicket(r.Context(), req.UserID, req.FlightID, req.Quantity)
	respondJSON(w, http.StatusOK, result)
}

// RefundTicket handles POST /api/tickets/refund
func (h *Handler) RefundTicket(w http.ResponseWriter, r *http.Request) {
	var req models.RefundTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.FlightID == "" {
		respondError(w, http.StatusBadRequest, "User ID and flight ID are required")
		return
	}

	result := h.flightService.RefundTicket(r.Context(), req.UserID, req.FlightID, req.Quantity)
	respondJSON(w, http.StatusOK, result)
}

// GetUserTickets handles GET /api/users/{id}/tickets
func (h *Handler) GetUserTickets(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	holdings := h.flightService.UserTickets(r.Context(), userID)
	respondJSON(w, http.StatusOK, holdings)
}

// Reserve handles POST /api/reservations
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req models.Reservation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.FlightID == "" {
		respondError(w, http.StatusBadRequest, "User ID and flight ID are required")
		return
	}

	h.flightService.Reserve(r.Context(), req)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "reserved"})
}

// DrainReservations handles POST /api/reservations/drain
func (h *Handler) DrainReservations(w http.ResponseWriter, r *http.Request) {
	outcomes := h.flightService.DrainReservations(r.Context())
	respondJSON(w, http.StatusOK, outcomes)
}

// StartGrabSession handles POST /api/grabs
func (h *Handler) StartGrabSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartGrabSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID, err := h.flightService.StartGrabSession(r.Context(), req.SaleOpenAt)
	if err != nil {
		if errors.Is(err, service.ErrGrabSessionsUnavailable) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, models.StartGrabSessionResponse{SessionID: sessionID})
}

// ReserveInSession handles POST /api/grabs/{id}/reservations
func (h *Handler) ReserveInSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req models.Reservation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.FlightID == "" {
		respondError(w, http.StatusBadRequest, "User ID and flight ID are required")
		return
	}

	if err := h.flightService.ReserveInSession(r.Context(), sessionID, req); err != nil {
		if errors.Is(err, service.ErrGrabSessionsUnavailable) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "reserved"})
}

// OpenSale handles POST /api/grabs/{id}/open
func (h *Handler) OpenSale(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.flightService.OpenSale(r.Context(), sessionID); err != nil {
		if errors.Is(err, service.ErrGrabSessionsUnavailable) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sale opened"})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
