package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/service"
	"go.uber.org/zap"
)

// testPaymentID is used when the payment provider redirects back without a
// session id, which happens with test-mode checkouts.
const testPaymentID = "test_payment"

type OrderCompleter interface {
	Complete(ctx context.Context, paymentID string) (*domain.Order, error)
}

type PaymentHandler struct {
	completer OrderCompleter
	timeout   time.Duration
	logger    *zap.Logger
}

func NewPaymentHandler(completer OrderCompleter, timeout time.Duration, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{completer: completer, timeout: timeout, logger: logger}
}

type PaymentResponse struct {
	Status    string `json:"status"`
	PaymentID string `json:"paymentId,omitempty"`
	OrderID   string `json:"orderId,omitempty"`
	Message   string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	paymentID := r.URL.Query().Get("session_id")
	if paymentID == "" {
		paymentID = testPaymentID
	}

	order, err := h.completer.Complete(ctx, paymentID)
	if err != nil {
		h.logger.Warn("payment completion failed",
			zap.String("payment_id", paymentID),
			zap.String("request_id", getRequestID(r.Context())),
			zap.Error(err))
		respondJSON(w, statusFor(err), PaymentResponse{
			Status:    "fail",
			PaymentID: paymentID,
			Message:   service.Message(err),
		})
		return
	}

	respondJSON(w, http.StatusOK, PaymentResponse{
		Status:    "success",
		PaymentID: paymentID,
		OrderID:   order.ID,
		Message:   "Payment successful, your order has been placed",
	})
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, PaymentResponse{
		Status:  "canceled",
		Message: "Payment was canceled, your cart is unchanged",
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrLoginRequired):
		return http.StatusUnauthorized
	case api.KindOf(err) == api.KindValidation:
		return http.StatusBadRequest
	case api.KindOf(err) == api.KindTransport, api.KindOf(err) == api.KindServer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}
