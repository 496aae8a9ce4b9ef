package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/shopcenter/internal/api/apiutil"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/dto"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
	"github.com/RoyceAzure/lab/shopcenter/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

func (c *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	view, err := c.cartService.GetCart(r.Context(), payload.UserID)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, view)
}

func (c *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	var addDTO dto.AddCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&addDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}
	productID, err := uuid.Parse(addDTO.ProductID)
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid product id")
		return
	}

	view, err := c.cartService.AddItem(r.Context(), payload.UserID, productID, addDTO.Quantity)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, view)
}

func (c *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid product id")
		return
	}
	var updateDTO dto.UpdateCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	view, err := c.cartService.UpdateItem(r.Context(), payload.UserID, productID, updateDTO.Quantity)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, view)
}

func (c *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid product id")
		return
	}

	view, err := c.cartService.RemoveItem(r.Context(), payload.UserID, productID)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, view)
}

func (c *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	if err := c.cartService.ClearCart(r.Context(), payload.UserID); err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, nil)
}
