package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shopcenter/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

type CreateProductParams struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	ComparePrice *decimal.Decimal
	Stock        int
	Images       []string
	SKU          *string
	IsFeatured   bool
	CategoryID   uuid.UUID
}

type UpdateProductParams struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	ComparePrice *decimal.Decimal
	Stock        *int
	Images       []string
	IsActive     *bool
	IsFeatured   *bool
}

type IProductService interface {
	ListProducts(ctx context.Context, page, pageSize int, categoryID *uuid.UUID) (*ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
}

type ProductService struct {
	dbDao db.IStore
}

func NewProductService(dbDao db.IStore) IProductService {
	return &ProductService{dbDao: dbDao}
}

func (p *ProductService) ListProducts(ctx context.Context, page, pageSize int, categoryID *uuid.UUID) (*ProductPage, error) {
	page, pageSize = normalizePaging(page, pageSize)
	products, total, err := p.dbDao.GetActiveProducts(ctx, page, pageSize, categoryID)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list products", err)
	}
	return &ProductPage{Products: products, Total: total, Page: page, PageSize: pageSize}, nil
}

func (p *ProductService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := p.dbDao.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "product not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load product", err)
	}
	if !product.IsActive {
		return nil, errs.New(errs.KindNotFound, "product not found")
	}
	return product, nil
}

func (p *ProductService) CreateProduct(ctx context.Context, params CreateProductParams) (*model.Product, error) {
	if params.Name == "" {
		return nil, errs.New(errs.KindInvalidInput, "product name is required")
	}
	if params.Price.IsNegative() || params.Price.IsZero() {
		return nil, errs.New(errs.KindInvalidInput, "price must be positive")
	}
	if params.Stock < 0 {
		return nil, errs.New(errs.KindInvalidInput, "stock cannot be negative")
	}
	if _, err := p.dbDao.GetCategoryByID(ctx, params.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindInvalidInput, "category does not exist")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load category", err)
	}

	product := &model.Product{
		Name:         params.Name,
		Slug:         util.GenerateSlug(params.Name),
		Description:  params.Description,
		Price:        params.Price,
		ComparePrice: params.ComparePrice,
		Stock:        params.Stock,
		Images:       params.Images,
		SKU:          params.SKU,
		IsActive:     true,
		IsFeatured:   params.IsFeatured,
		CategoryID:   params.CategoryID,
	}
	if err := p.dbDao.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.KindConflict, "a product with the same slug or sku already exists")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to create product", err)
	}
	return product, nil
}

func (p *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*model.Product, error) {
	product, err := p.dbDao.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "product not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to load product", err)
	}

	if params.Name != nil {
		product.Name = *params.Name
		product.Slug = util.GenerateSlug(*params.Name)
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Price != nil {
		if params.Price.IsNegative() || params.Price.IsZero() {
			return nil, errs.New(errs.KindInvalidInput, "price must be positive")
		}
		product.Price = *params.Price
	}
	if params.ComparePrice != nil {
		product.ComparePrice = params.ComparePrice
	}
	if params.Stock != nil {
		if *params.Stock < 0 {
			return nil, errs.New(errs.KindInvalidInput, "stock cannot be negative")
		}
		product.Stock = *params.Stock
	}
	if params.Images != nil {
		product.Images = params.Images
	}
	if params.IsActive != nil {
		product.IsActive = *params.IsActive
	}
	if params.IsFeatured != nil {
		product.IsFeatured = *params.IsFeatured
	}

	if err := p.dbDao.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.KindConflict, "a product with the same slug or sku already exists")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to update product", err)
	}
	return product, nil
}

func (p *ProductService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := p.dbDao.GetAllCategories(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to list categories", err)
	}
	return categories, nil
}

func (p *ProductService) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	if name == "" {
		return nil, errs.New(errs.KindInvalidInput, "category name is required")
	}

	category := &model.Category{
		Name:        name,
		Slug:        util.GenerateSlug(name),
		Description: description,
		IsActive:    true,
	}
	if err := p.dbDao.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.KindConflict, "a category with the same slug already exists")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to create category", err)
	}
	return category, nil
}
