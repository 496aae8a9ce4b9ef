package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shopcenter/internal/api/apiutil"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/dto"
	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
	"github.com/RoyceAzure/lab/shopcenter/internal/util"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService    service.IOrderService
	checkoutService service.ICheckoutService
}

func NewOrderHandler(orderService service.IOrderService, checkoutService service.ICheckoutService) *OrderHandler {
	if orderService == nil || checkoutService == nil {
		panic("order handler dependencies cannot be nil")
	}
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}

// CreateOrder is the checkout endpoint: cart in, pending order out.
func (o *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())

	var createDTO dto.CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	order, err := o.checkoutService.CreateOrder(r.Context(), payload.UserID, createDTO.ShippingAddress, createDTO.Notes)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusCreated, dto.ConvertOrderToDTO(order))
}

func (o *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())
	page, pageSize, status := parseOrderListQuery(r)

	result, err := o.orderService.GetMyOrders(r.Context(), payload.UserID, page, pageSize, status)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.OrderPageDTO{
		Orders:   dto.ConvertOrdersToDTO(result.Orders),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (o *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize, status := parseOrderListQuery(r)

	result, err := o.orderService.GetAllOrders(r.Context(), page, pageSize, status)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.OrderPageDTO{
		Orders:   dto.ConvertOrdersToDTO(result.Orders),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (o *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := o.orderService.GetByOrderNumber(r.Context(), payload.UserID, orderNumber)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

func (o *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	payload := util.GetTokenPayloadFromContext(r.Context())
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := o.orderService.CancelOrder(r.Context(), payload.UserID, orderNumber)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

func (o *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	var updateDTO dto.UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	order, err := o.orderService.UpdateOrderStatus(r.Context(), orderNumber, model.OrderStatus(updateDTO.Status))
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, dto.ConvertOrderToDTO(order))
}

func parseOrderListQuery(r *http.Request) (page, pageSize int, status *model.OrderStatus) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.OrderStatus(raw)
		if s.Valid() {
			status = &s
		}
	}
	return page, pageSize, status
}
