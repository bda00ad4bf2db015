package interfaces

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/pagination"
	"travelbooking/internal/service/booking/application"
	"travelbooking/internal/service/booking/domain"
)

const requestIDHeader = "X-Request-ID"

// BookingService is what the HTTP layer needs from the application service.
type BookingService interface {
	CreateBooking(ctx context.Context, req *application.CreateBookingRequest) (*application.CreateBookingResult, error)
	CancelBooking(ctx context.Context, id uint64) error
	ModifyBooking(ctx context.Context, id uint64, changes map[string]any) error
	GetBooking(ctx context.Context, id uint64) (*domain.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error)
	ListBookings(ctx context.Context, page pagination.Params) (*domain.BookingPage, error)
	FilterBookings(ctx context.Context, criteria domain.FilterCriteria, page pagination.Params) (*domain.BookingPage, error)
}

// BookingHandler serves the /api/bookings routes.
type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// RegisterRoutes mounts the booking API on r. /filter and /user/{userId} are
// registered before /{id} so they are not captured by it.
func (h *BookingHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/bookings").Subrouter()
	api.HandleFunc("", h.ListBookings).Methods(http.MethodGet)
	api.HandleFunc("", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/filter", h.FilterBookings).Methods(http.MethodGet)
	api.HandleFunc("/user/{userId}", h.GetUserBookings).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.ModifyBooking).Methods(http.MethodPut)
	api.HandleFunc("/{id}/cancel", h.CancelBooking).Methods(http.MethodPost)
}

// RequestIDMiddleware propagates or assigns X-Request-ID and puts it on the
// request context for logging.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(r.Context(), w, domain.NewError(domain.CodeInvalidRequest, "invalid request body", err))
		return
	}

	result, err := h.svc.CreateBooking(r.Context(), body.toRequest())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	resp := map[string]any{
		"status":  "success",
		"message": "Booking created and payment initiated successfully.",
		"data": createBookingData{
			BookingDetails: toBookingView(result.Booking),
			PaymentDetails: result.Payment,
		},
	}
	if result.PaymentError != nil {
		resp["message"] = "Booking created, but payment could not be initiated."
		resp["warning"] = map[string]string{
			"code":    string(domain.CodeOf(result.PaymentError)),
			"message": result.PaymentError.Error(),
		}
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	if err := h.svc.CancelBooking(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Booking cancelled"})
}

func (h *BookingHandler) ModifyBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	var changes map[string]any
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil && !errors.Is(err, io.EOF) {
		respondError(r.Context(), w, domain.NewError(domain.CodeInvalidRequest, "invalid request body", err))
		return
	}
	if err := h.svc.ModifyBooking(r.Context(), id, changes); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Booking modified"})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	booking, err := h.svc.GetBooking(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "success", "data": toBookingView(booking)})
}

func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.GetUserBookings(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "success", "data": toBookingViews(bookings)})
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.ListBookings(r.Context(), pagination.Parse(q.Get("page"), q.Get("limit")))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondPage(w, page)
}

func (h *BookingHandler) FilterBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, err := parseFilterCriteria(q)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	page, err := h.svc.FilterBookings(r.Context(), criteria, pagination.Parse(q.Get("page"), q.Get("limit")))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondPage(w, page)
}

func parseFilterCriteria(q map[string][]string) (domain.FilterCriteria, error) {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	c := domain.FilterCriteria{
		UserID:              get("user_id"),
		BookingCode:         get("booking_code"),
		Status:              domain.Status(get("status")),
		PaymentStatus:       domain.PaymentStatus(get("payment_status")),
		ItemType:            domain.Kind(get("item_type")),
		CreatedFrom:         get("start_date"),
		CreatedTo:           get("end_date"),
		OriginCity:          get("origin_city"),
		DestinationCity:     get("destination_city"),
		OriginProvince:      get("origin_province"),
		DestinationProvince: get("destination_province"),
		ServiceClass:        get("service_class"),
		Provider:            get("provider"),
		TravelDateFrom:      get("travel_date_start"),
		TravelDateTo:        get("travel_date_end"),
		SortBy:              get("sort_by"),
		SortOrder:           get("sort_order"),
	}
	for key, dst := range map[string]**float64{"min_total": &c.MinTotal, "max_total": &c.MaxTotal} {
		raw := get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, domain.NewError(domain.CodeInvalidRequest, key+" must be a number", err)
		}
		*dst = &v
	}
	return c, nil
}

func bookingID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		respondError(r.Context(), w, domain.NewError(domain.CodeInvalidRequest, "booking id must be a positive integer", nil))
		return 0, false
	}
	return id, true
}

func respondPage(w http.ResponseWriter, page *domain.BookingPage) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"data":       toBookingViews(page.Items),
		"pagination": page.Pagination,
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

type errorBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HTTPStatus maps an error code onto a response status.
func HTTPStatus(code domain.Code) int {
	switch code {
	case domain.CodeInvalidRequest:
		return http.StatusBadRequest
	case domain.CodeInsufficientInventory, domain.CodeReservationFailed:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeNotImplemented:
		return http.StatusNotImplemented
	case domain.CodeInventoryUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)
	status := HTTPStatus(code)
	body := errorBody{Status: "error", Code: string(code), Message: err.Error()}

	if e, ok := domain.AsError(err); ok && e.Message != "" {
		body.Message = e.Message
		if e.Cause != nil {
			body.Details = e.Cause.Error()
		}
	}
	if status == http.StatusInternalServerError {
		body.Message = "Failed to process booking request"
		body.Details = err.Error()
		logger.Ctx(ctx).Error().Err(err).Str("code", string(code)).Msg("Request failed")
	} else {
		logger.Ctx(ctx).Warn().Err(err).Str("code", string(code)).Int("status", status).Msg("Request rejected")
	}
	respondJSON(w, status, body)
}
