package dto

type CreateCheckoutSessionDTO struct {
	OrderID string `json:"orderId"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
