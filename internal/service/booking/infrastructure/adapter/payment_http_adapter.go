package adapter

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/service/booking/domain/port"
)

type paymentRequestBody struct {
	BookingID         uint64  `json:"bookingId"`
	UserID            string  `json:"userId"`
	Amount            float64 `json:"amount"`
	PaymentMethodType string  `json:"payment_method_type"`
}

type paymentResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	PaymentID     any    `json:"paymentId"`
	PaymentStatus string `json:"paymentStatus"`
}

// PaymentHTTPAdapter implements port.PaymentService.
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewPaymentHTTPAdapter(client *httpclient.Client, baseURL string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// InitiatePayment creates a pending payment. A reply without a paymentId is
// treated as a failure.
func (a *PaymentHTTPAdapter) InitiatePayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentResult, error) {
	var resp paymentResponse
	err := a.client.PostJSON(ctx, a.baseURL+"/api/payments", paymentRequestBody{
		BookingID:         req.BookingID,
		UserID:            req.UserID,
		Amount:            req.Amount,
		PaymentMethodType: req.Method,
	}, &resp)
	if err != nil {
		return nil, errors.Wrapf(err, "initiate payment for booking %d", req.BookingID)
	}

	paymentID := stringID(resp.PaymentID)
	if paymentID == "" {
		return nil, errors.Errorf("payment service returned no paymentId for booking %d: %s", req.BookingID, resp.Message)
	}
	status := resp.PaymentStatus
	if status == "" {
		status = "pending"
	}
	return &port.PaymentResult{PaymentID: paymentID, Status: status}, nil
}

// stringID renders an id the payment service may send as a number or a string.
func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
