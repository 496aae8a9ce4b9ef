package dto

import (
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/shopspring/decimal"
)

type CreateOrderDTO struct {
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	Notes           string                `json:"notes"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status"`
}

type OrderItemDTO struct {
	ProductID string                   `json:"productId"`
	Quantity  int                      `json:"quantity"`
	UnitPrice decimal.Decimal          `json:"unitPrice"`
	Subtotal  decimal.Decimal          `json:"subtotal"`
	Product   *model.ProductProjection `json:"product,omitempty"`
}

type OrderDTO struct {
	ID              string                `json:"id"`
	OrderNumber     string                `json:"orderNumber"`
	Status          model.OrderStatus     `json:"status"`
	PaymentStatus   model.PaymentStatus   `json:"paymentStatus"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	Notes           string                `json:"notes,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingCost    decimal.Decimal       `json:"shippingCost"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	Items           []OrderItemDTO        `json:"items"`
}

type OrderPageDTO struct {
	Orders   []OrderDTO `json:"orders"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

func ConvertOrderToDTO(order *model.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, it := range order.Items {
		item := OrderItemDTO{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
		if it.Product != nil {
			item.Product = &model.ProductProjection{
				ID:     it.Product.ID,
				Name:   it.Product.Name,
				Slug:   it.Product.Slug,
				Images: it.Product.Images,
			}
		}
		items = append(items, item)
	}
	return OrderDTO{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Tax:             order.Tax,
		Total:           order.Total,
		PaidAt:          order.PaidAt,
		CreatedAt:       order.CreatedAt,
		Items:           items,
	}
}

func ConvertOrdersToDTO(orders []model.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, ConvertOrderToDTO(&orders[i]))
	}
	return out
}
