package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelbooking/internal/pkg/pagination"
	"travelbooking/internal/service/booking/application"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *application.CreateBookingRequest) (*application.CreateBookingResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CreateBookingResult), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingService) ModifyBooking(ctx context.Context, id uint64, changes map[string]any) error {
	return m.Called(ctx, id, changes).Error(0)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id uint64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, page pagination.Params) (*domain.BookingPage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingPage), args.Error(1)
}

func (m *MockBookingService) FilterBookings(ctx context.Context, criteria domain.FilterCriteria, page pagination.Params) (*domain.BookingPage, error) {
	args := m.Called(ctx, criteria, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingPage), args.Error(1)
}

func setupTestRouter(svc BookingService) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	NewBookingHandler(svc).RegisterRoutes(r)
	return r
}

func doRequest(router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID: 42, BookingCode: "BK202508010930150001", UserID: "user-1",
		Kind: domain.KindFlight, RefID: "FL-1", TravelDate: "2025-08-01", Quantity: 2,
		UnitPrice: 100000, TotalAmount: 200000, Currency: "IDR",
		Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPending,
	}
}

func TestHandler_CreateBooking(t *testing.T) {
	svc := new(MockBookingService)
	router := setupTestRouter(svc)

	svc.On("CreateBooking", mock.Anything, &application.CreateBookingRequest{
		UserID: "user-1", Type: "flight", RefID: "FL-1", TravelDate: "2025-08-01", Quantity: 2,
	}).Return(&application.CreateBookingResult{
		Booking: sampleBooking(),
		Payment: &port.PaymentResult{PaymentID: "PAY-1", Status: "pending"},
	}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/api/bookings", map[string]any{
		"userId": "user-1", "type": "flight", "refId": "FL-1", "travelDate": "2025-08-01", "quantity": 2,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]any)
	booking := data["bookingDetails"].(map[string]any)
	assert.Equal(t, 200000.0, booking["total_amount"])
	assert.Equal(t, "pending", booking["payment_status"])
	assert.Equal(t, "PAY-1", data["paymentDetails"].(map[string]any)["paymentId"])
	assert.NotContains(t, body, "warning")
	svc.AssertExpectations(t)
}

func TestHandler_CreateBooking_SnakeCaseAliases(t *testing.T) {
	svc := new(MockBookingService)
	router := setupTestRouter(svc)

	svc.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *application.CreateBookingRequest) bool {
		return req.UserID == "user-9" && req.RefID == "17" && req.TravelDate == "2025-09-09" &&
			req.PaymentMethod == "bank_transfer" && req.SpecialRequests == "late check-in" &&
			string(req.Details) == `{"room_type_name":"Deluxe"}`
	})).Return(&application.CreateBookingResult{Booking: sampleBooking()}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/api/bookings",
		`{"user_id":"user-9","type":"hotel","ref_id":17,"travel_date":"2025-09-09","quantity":1,`+
			`"payment_method":"bank_transfer","special_requests":"late check-in","details":{"room_type_name":"Deluxe"}}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_CreateBooking_PaymentWarning(t *testing.T) {
	svc := new(MockBookingService)
	router := setupTestRouter(svc)

	svc.On("CreateBooking", mock.Anything, mock.Anything).Return(&application.CreateBookingResult{
		Booking:      sampleBooking(),
		PaymentError: domain.NewError(domain.CodePaymentInitiationFailed, "failed to initiate payment", errors.New("502")),
	}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/api/bookings", map[string]any{"userId": "u"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	data := body["data"].(map[string]any)
	assert.Nil(t, data["paymentDetails"])
	assert.Equal(t, "PAYMENT_INITIATION_FAILED", body["warning"].(map[string]any)["code"])
}

func TestHandler_CreateBooking_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"invalid", domain.NewError(domain.CodeInvalidRequest, "quantity must be a positive integer", nil), http.StatusBadRequest, "INVALID_REQUEST"},
		{"insufficient", domain.NewError(domain.CodeInsufficientInventory, "not enough seats", nil), http.StatusConflict, "INSUFFICIENT_INVENTORY"},
		{"reservation lost", domain.NewError(domain.CodeReservationFailed, "lost", nil), http.StatusConflict, "RESERVATION_FAILED"},
		{"inventory down", domain.NewError(domain.CodeInventoryUnavailable, "down", errors.New("dial tcp")), http.StatusBadGateway, "INVENTORY_UNAVAILABLE"},
		{"persistence", domain.NewError(domain.CodePersistenceFailed, "failed to create booking record", errors.New("deadlock")), http.StatusInternalServerError, "PERSISTENCE_FAILED"},
		{"unexpected", errors.New("nil pointer"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			router := setupTestRouter(svc)
			svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := doRequest(router, http.MethodPost, "/api/bookings", map[string]any{"userId": "u"})

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tt.expectedCode, body["code"])
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "Failed to process booking request", body["message"])
				assert.NotEmpty(t, body["details"])
			}
		})
	}
}

func TestHandler_CreateBooking_MalformedBody(t *testing.T) {
	svc := new(MockBookingService)
	rec := doRequest(setupTestRouter(svc), http.MethodPost, "/api/bookings", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestHandler_CancelBooking(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockErr        error
		callService    bool
		expectedStatus int
	}{
		{"cancelled", "/api/bookings/42/cancel", nil, true, http.StatusOK},
		{"already cancelled", "/api/bookings/42/cancel", domain.NewError(domain.CodeNotFound, "booking not found or already cancelled", nil), true, http.StatusNotFound},
		{"bad id", "/api/bookings/abc/cancel", nil, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			if tt.callService {
				svc.On("CancelBooking", mock.Anything, uint64(42)).Return(tt.mockErr).Once()
			}

			rec := doRequest(setupTestRouter(svc), http.MethodPost, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ModifyBookingNotImplemented(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("ModifyBooking", mock.Anything, uint64(7), mock.Anything).
		Return(domain.NewError(domain.CodeNotImplemented, "modify booking functionality not yet implemented", nil)).Once()

	rec := doRequest(setupTestRouter(svc), http.MethodPut, "/api/bookings/7", map[string]any{"quantity": 3})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "NOT_IMPLEMENTED", decode(t, rec)["code"])
}

func TestHandler_ModifyBookingMalformedBody(t *testing.T) {
	svc := new(MockBookingService)

	rec := doRequest(setupTestRouter(svc), http.MethodPut, "/api/bookings/7", `{"quantity":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, rec)["code"])
	svc.AssertNotCalled(t, "ModifyBooking", mock.Anything, mock.Anything, mock.Anything)

	// An empty body is not malformed.
	svc.On("ModifyBooking", mock.Anything, uint64(7), map[string]any(nil)).
		Return(domain.NewError(domain.CodeNotImplemented, "modify booking functionality not yet implemented", nil)).Once()
	rec = doRequest(setupTestRouter(svc), http.MethodPut, "/api/bookings/7", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_GetBooking(t *testing.T) {
	svc := new(MockBookingService)
	router := setupTestRouter(svc)
	svc.On("GetBooking", mock.Anything, uint64(42)).Return(sampleBooking(), nil).Once()
	svc.On("GetBooking", mock.Anything, uint64(43)).Return(nil, domain.ErrBookingNotFound).Once()

	rec := doRequest(router, http.MethodGet, "/api/bookings/42", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BK202508010930150001", decode(t, rec)["data"].(map[string]any)["booking_code"])

	rec = doRequest(router, http.MethodGet, "/api/bookings/43", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_RoutesNotCapturedByID(t *testing.T) {
	svc := new(MockBookingService)
	router := setupTestRouter(svc)
	svc.On("GetUserBookings", mock.Anything, "user-1").Return([]*domain.Booking{sampleBooking()}, nil).Once()
	svc.On("FilterBookings", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.BookingPage{Items: []*domain.Booking{}, Pagination: pagination.NewMeta(pagination.New(1, 10), 0)}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/api/bookings/user/user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = doRequest(router, http.MethodGet, "/api/bookings/filter", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "GetBooking", mock.Anything, mock.Anything)
}

func TestHandler_ListBookings(t *testing.T) {
	svc := new(MockBookingService)
	page := pagination.New(2, 5)
	svc.On("ListBookings", mock.Anything, page).Return(&domain.BookingPage{
		Items:      []*domain.Booking{sampleBooking()},
		Pagination: pagination.NewMeta(page, 11),
	}, nil).Once()

	rec := doRequest(setupTestRouter(svc), http.MethodGet, "/api/bookings?page=2&limit=5", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	meta := body["pagination"].(map[string]any)
	assert.Equal(t, 11.0, meta["total_items"])
	assert.Equal(t, 3.0, meta["total_pages"])
	assert.Equal(t, true, meta["has_next_page"])
	assert.Equal(t, true, meta["has_prev_page"])
	svc.AssertExpectations(t)
}

func TestHandler_FilterBookings_ParsesCriteria(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("FilterBookings", mock.Anything, mock.MatchedBy(func(c domain.FilterCriteria) bool {
		return c.UserID == "user-1" && c.ItemType == domain.KindTrain && c.OriginCity == "Jakarta" &&
			c.MinTotal != nil && *c.MinTotal == 50000 && c.MaxTotal == nil &&
			c.TravelDateFrom == "2025-08-01" && c.SortBy == "total_amount" && c.SortOrder == "asc"
	}), pagination.New(1, 10)).Return(&domain.BookingPage{}, nil).Once()

	rec := doRequest(setupTestRouter(svc), http.MethodGet,
		"/api/bookings/filter?user_id=user-1&item_type=train&origin_city=Jakarta&min_total=50000"+
			"&travel_date_start=2025-08-01&sort_by=total_amount&sort_order=asc", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_FilterBookings_BadNumber(t *testing.T) {
	svc := new(MockBookingService)
	rec := doRequest(setupTestRouter(svc), http.MethodGet, "/api/bookings/filter?max_total=lots", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "FilterBookings", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestIDMiddleware_KeepsIncomingID(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("GetBooking", mock.Anything, uint64(1)).Return(sampleBooking(), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/1", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	setupTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
