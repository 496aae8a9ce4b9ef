package dto

import "github.com/shopspring/decimal"

type CreateProductDTO struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	Stock        int              `json:"stock"`
	Images       []string         `json:"images"`
	SKU          *string          `json:"sku"`
	IsFeatured   bool             `json:"isFeatured"`
	CategoryID   string           `json:"categoryId"`
}

type UpdateProductDTO struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	Stock        *int             `json:"stock"`
	Images       []string         `json:"images"`
	IsActive     *bool            `json:"isActive"`
	IsFeatured   *bool            `json:"isFeatured"`
}

type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
