package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/handlers"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/websocket"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *websocket.Hub) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights", h.ListFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights", h.AddFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.UpdateFlight).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.DeleteFlight).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/flights/{id}/delay", h.DelayFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{id}/cancel", h.CancelFlight).Methods(http.MethodPost, http.MethodOptions)

	// Connectivity
	api.HandleFunc("/flights/{id}/connections", h.GetConnections).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/routes", h.GetRoutes).Methods(http.MethodGet, http.MethodOptions)

	// Tickets
	api.HandleFunc("/tickets/buy", h.BuyTicket).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/tickets/refund", h.RefundTicket).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/users/{id}/tickets", h.GetUserTickets).Methods(http.MethodGet, http.MethodOptions)

	// Reservations
	api.HandleFunc("/reservations", h.Reserve).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reservations/drain", h.DrainReservations).Methods(http.MethodPost, http.MethodOptions)

	// Grab sessions
	api.HandleFunc("/grabs", h.StartGrabSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/grabs/{id}/reservations", h.ReserveInSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/grabs/{id}/open", h.OpenSale).Methods(http.MethodPost, http.MethodOptions)

	// WebSocket for real-time flight events
	if hub != nil {
		api.HandleFunc("/events/ws", hub.HandleWebSocket)
	}

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
