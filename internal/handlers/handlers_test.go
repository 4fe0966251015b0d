package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/engine"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/service"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/service/mocks"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/flights", h.ListFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.AddFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}", h.UpdateFlight).Methods(http.MethodPatch)
	api.HandleFunc("/flights/{id}", h.DeleteFlight).Methods(http.MethodDelete)
	api.HandleFunc("/flights/{id}/delay", h.DelayFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}/cancel", h.CancelFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}/connections", h.GetConnections).Methods(http.MethodGet)
	api.HandleFunc("/routes", h.GetRoutes).Methods(http.MethodGet)
	api.HandleFunc("/tickets/buy", h.BuyTicket).Methods(http.MethodPost)
	api.HandleFunc("/tickets/refund", h.RefundTicket).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/tickets", h.GetUserTickets).Methods(http.MethodGet)
	api.HandleFunc("/reservations", h.Reserve).Methods(http.MethodPost)
	api.HandleFunc("/reservations/drain", h.DrainReservations).Methods(http.MethodPost)
	api.HandleFunc("/grabs", h.StartGrabSession).Methods(http.MethodPost)
	api.HandleFunc("/grabs/{id}/open", h.OpenSale).Methods(http.MethodPost)
	return r
}

func TestHandler_ListFlights(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	expectedFlights := []models.Flight{
		{
			ID:              "G1001",
			DepartureCity:   "Beijing",
			DestinationCity: "Shanghai",
			Price:           550,
			Tickets:         120,
			IsForSale:       true,
		},
	}

	mockService.On("ListFlights", mock.Anything, engine.Filter{
		DepartureCity: "Beijing",
		OnlyForSale:   true,
		SortBy:        engine.SortByPrice,
	}).Return(expectedFlights)

	req := httptest.NewRequest(http.MethodGet, "/api/flights?departureCity=Beijing&onlyForSale=true&sortBy=price", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []models.Flight
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "G1001", response[0].ID)

	mockService.AssertExpectations(t)
}

func TestHandler_ListFlights_UnknownSortKey(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/flights?sortBy=altitude", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "ListFlights", mock.Anything, mock.Anything)
}

func TestHandler_GetFlight(t *testing.T) {
	tests := []struct {
		name           string
		flightID       string
		mockReturn     models.Flight
		mockError      error
		expectedStatus int
	}{
		{
			name:           "flight found",
			flightID:       "G1001",
			mockReturn:     models.Flight{ID: "G1001", DepartureCity: "Beijing"},
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			flightID:       "G9999",
			mockReturn:     models.Flight{},
			mockError:      engine.ErrFlightNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("GetFlight", mock.Anything, tt.flightID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/flights/"+tt.flightID, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_AddFlight(t *testing.T) {
	valid := models.Flight{
		ID:              "G1001",
		DepartureCity:   "Beijing",
		DestinationCity: "Shanghai",
		DepartureDate:   "20240101",
		DepartureTime:   "08:00",
		ArrivalTime:     "10:00",
		Price:           550,
		Tickets:         120,
		IsForSale:       true,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:           "valid flight",
			requestBody:    valid,
			mockError:      nil,
			expectedStatus: http.StatusCreated,
			shouldCallMock: true,
		},
		{
			name:           "duplicate flight",
			requestBody:    valid,
			mockError:      engine.ErrDuplicateFlight,
			expectedStatus: http.StatusConflict,
			shouldCallMock: true,
		},
		{
			name:           "missing flight ID",
			requestBody:    models.Flight{DepartureCity: "Beijing"},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("AddFlight", mock.Anything, mock.AnythingOfType("models.Flight")).Return(tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/flights", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandler_UpdateFlight(t *testing.T) {
	tests := []struct {
		name           string
		flightID       string
		mockReturn     models.Flight
		mockError      error
		expectedStatus int
	}{
		{
			name:           "flight updated",
			flightID:       "G1001",
			mockReturn:     models.Flight{ID: "G1001", Price: 700},
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			flightID:       "G9999",
			mockReturn:     models.Flight{},
			mockError:      engine.ErrFlightNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("UpdateFlight", mock.Anything, tt.flightID, mock.AnythingOfType("models.FlightUpdate")).Return(tt.mockReturn, tt.mockError)

			body, _ := json.Marshal(map[string]float64{"price": 700})
			req := httptest.NewRequest(http.MethodPatch, "/api/flights/"+tt.flightID, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_DeleteFlight(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	mockService.On("DeleteFlight", mock.Anything, "G1001").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/flights/G1001", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_DelayFlight(t *testing.T) {
	tests := []struct {
		name           string
		flightID       string
		mockReturn     models.Flight
		mockError      error
		expectedStatus int
	}{
		{
			name:           "flight delayed",
			flightID:       "G1001",
			mockReturn:     models.Flight{ID: "G1001", IsDelay: true, DelayMinutes: 45},
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			flightID:       "G9999",
			mockReturn:     models.Flight{},
			mockError:      engine.ErrFlightNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("DelayFlight", mock.Anything, tt.flightID, 45).Return(tt.mockReturn, tt.mockError)

			body, _ := json.Marshal(models.DelayFlightRequest{Minutes: 45})
			req := httptest.NewRequest(http.MethodPost, "/api/flights/"+tt.flightID+"/delay", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelFlight(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	notices := []models.RefundNotice{{UserID: "u1", Quantity: 2}}
	mockService.On("CancelFlight", mock.Anything, "G1001").Return(notices, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/flights/G1001/cancel", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.CancelFlightResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "G1001", response.FlightID)
	require.Len(t, response.Refunds, 1)
	assert.Equal(t, "u1", response.Refunds[0].UserID)

	mockService.AssertExpectations(t)
}

func TestHandler_GetConnections(t *testing.T) {
	tests := []struct {
		name           string
		flightID       string
		mockReturn     []string
		mockError      error
		expectedStatus int
	}{
		{
			name:           "connections found",
			flightID:       "G1001",
			mockReturn:     []string{"G1002", "G1003"},
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			flightID:       "G9999",
			mockReturn:     nil,
			mockError:      engine.ErrFlightNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("Connections", mock.Anything, tt.flightID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/flights/"+tt.flightID+"/connections", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetRoutes(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	routes := [][]string{{"G1001", "G1002"}, {"G1005"}}
	mockService.On("AlternateRoutes", mock.Anything, "Beijing", "Chengdu").Return(routes)

	req := httptest.NewRequest(http.MethodGet, "/api/routes?departureCity=Beijing&destinationCity=Chengdu", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.RoutesResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, routes, response.Routes)

	mockService.AssertExpectations(t)
}

func TestHandler_GetRoutes_MissingCities(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/routes?departureCity=Beijing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "AlternateRoutes", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_BuyTicket(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    models.BuyTicketRequest
		mockReturn     models.TicketResult
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:           "successful purchase",
			requestBody:    models.BuyTicketRequest{UserID: "u1", FlightID: "G1001", Quantity: 2},
			mockReturn:     models.TicketResult{OK: true, Reason: models.ReasonPurchased},
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "failed purchase still responds 200",
			requestBody:    models.BuyTicketRequest{UserID: "u1", FlightID: "G1001", Quantity: 500},
			mockReturn:     models.TicketResult{OK: false, Reason: models.ReasonInsufficientTickets},
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "missing user ID",
			requestBody:    models.BuyTicketRequest{FlightID: "G1001", Quantity: 1},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("BuyTicket", mock.Anything, tt.requestBody.UserID, tt.requestBody.FlightID, tt.requestBody.Quantity).Return(tt.mockReturn)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/tickets/buy", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.shouldCallMock {
				var response models.TicketResult
				err := json.NewDecoder(rec.Body).Decode(&response)
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, response)
			}
		})
	}
}

func TestHandler_RefundTicket(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	mockService.On("RefundTicket", mock.Anything, "u1", "G1001", 1).Return(models.TicketResult{OK: true, Reason: models.ReasonRefunded})

	body, _ := json.Marshal(models.RefundTicketRequest{UserID: "u1", FlightID: "G1001", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/refund", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_GetUserTickets(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	holdings := []models.Holding{{FlightID: "G1001", Quantity: 3}}
	mockService.On("UserTickets", mock.Anything, "u1").Return(holdings)

	req := httptest.NewRequest(http.MethodGet, "/api/users/u1/tickets", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []models.Holding
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, holdings, response)

	mockService.AssertExpectations(t)
}

func TestHandler_Reserve(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    models.Reservation
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:           "valid reservation",
			requestBody:    models.Reservation{Priority: 1, UserID: "u1", FlightID: "G1001", Quantity: 2},
			expectedStatus: http.StatusAccepted,
			shouldCallMock: true,
		},
		{
			name:           "missing flight ID",
			requestBody:    models.Reservation{Priority: 1, UserID: "u1"},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("Reserve", mock.Anything, tt.requestBody).Return()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandler_DrainReservations(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	outcomes := []models.GrabOutcome{
		{UserID: "u1", FlightID: "G1001", Quantity: 2, OK: true, Reason: models.ReasonGrabbed},
		{UserID: "u2", FlightID: "G1001", Quantity: 5, OK: false, Reason: models.ReasonInsufficientTickets},
	}
	mockService.On("DrainReservations", mock.Anything).Return(outcomes)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations/drain", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []models.GrabOutcome
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, outcomes, response)

	mockService.AssertExpectations(t)
}

func TestHandler_StartGrabSession(t *testing.T) {
	tests := []struct {
		name           string
		mockSessionID  string
		mockError      error
		expectedStatus int
	}{
		{
			name:           "session started",
			mockSessionID:  "ab12cd34",
			mockError:      nil,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "no workflow backend",
			mockSessionID:  "",
			mockError:      service.ErrGrabSessionsUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockFlightService)
			handler := NewHandler(mockService)
			router := setupTestRouter(handler)

			mockService.On("StartGrabSession", mock.Anything, mock.AnythingOfType("time.Time")).Return(tt.mockSessionID, tt.mockError)

			body, _ := json.Marshal(models.StartGrabSessionRequest{})
			req := httptest.NewRequest(http.MethodPost, "/api/grabs", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_OpenSale(t *testing.T) {
	mockService := new(mocks.MockFlightService)
	handler := NewHandler(mockService)
	router := setupTestRouter(handler)

	mockService.On("OpenSale", mock.Anything, "ab12cd34").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/grabs/ab12cd34/open", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	mockService.AssertExpectations(t)
}
