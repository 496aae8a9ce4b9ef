package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/RoyceAzure/lab/shopcenter/internal/api/apiutil"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/dto"
	"github.com/RoyceAzure/lab/shopcenter/internal/constants"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
	"github.com/RoyceAzure/lab/shopcenter/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// webhook bodies are small; cap reads so a hostile sender cannot balloon memory
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	paymentService service.IPaymentService
}

func NewPaymentHandler(paymentService service.IPaymentService) *PaymentHandler {
	if paymentService == nil {
		panic("paymentService cannot be nil")
	}
	return &PaymentHandler{paymentService: paymentService}
}

func (p *PaymentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	var createDTO dto.CreateCheckoutSessionDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}
	orderID, err := uuid.Parse(createDTO.OrderID)
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid order id")
		return
	}

	session, err := p.paymentService.CreateCheckoutSession(r.Context(), payload.UserID, orderID)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

// Webhook consumes the raw byte body; the signature covers those exact bytes,
// so nothing may decode the stream before verification.
func (p *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		apiutil.BadRequestJSON(w, "failed to read request body")
		return
	}

	sigHeader := r.Header.Get(constants.GatewaySignatureHeader)
	if err := p.paymentService.HandleGatewayEvent(r.Context(), rawBody, sigHeader); err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (p *PaymentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid order id")
		return
	}

	view, err := p.paymentService.GetPaymentStatus(r.Context(), payload.UserID, orderID)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, view)
}
