package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RoyceAzure/lab/shopcenter/internal/constants"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/payment"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubPaymentService records what the webhook handler passes through.
type stubPaymentService struct {
	gotBody   []byte
	gotHeader string
	returnErr error
}

func (s *stubPaymentService) CreateCheckoutSession(ctx context.Context, userID, orderID uuid.UUID) (*payment.Session, error) {
	return nil, errs.New(errs.KindInternal, "not implemented")
}

func (s *stubPaymentService) HandleGatewayEvent(ctx context.Context, rawBody []byte, sigHeader string) error {
	s.gotBody = rawBody
	s.gotHeader = sigHeader
	return s.returnErr
}

func (s *stubPaymentService) GetPaymentStatus(ctx context.Context, userID, orderID uuid.UUID) (*service.PaymentView, error) {
	return nil, errs.New(errs.KindInternal, "not implemented")
}

func TestWebhookPassesRawBody(t *testing.T) {
	stub := &stubPaymentService{}
	h := NewPaymentHandler(stub)

	// whitespace and key order must reach the verifier untouched
	body := []byte(`{ "type":"checkout.session.completed",  "id": "evt_1" }`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set(constants.GatewaySignatureHeader, "t=1,v1=abc")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, body, stub.gotBody)
	require.Equal(t, "t=1,v1=abc", stub.gotHeader)
}

func TestWebhookSignatureFailureIs400(t *testing.T) {
	stub := &stubPaymentService{
		returnErr: errs.New(errs.KindInvalidSignature, "webhook signature verification failed"),
	}
	h := NewPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_SIGNATURE")
}
