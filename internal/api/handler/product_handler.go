package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shopcenter/internal/api/apiutil"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/dto"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{productService: productService}
}

func (p *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			apiutil.BadRequestJSON(w, "invalid category id")
			return
		}
		categoryID = &id
	}

	result, err := p.productService.ListProducts(r.Context(), page, pageSize, categoryID)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, result)
}

func (p *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.productService.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, product)
}

func (p *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}
	categoryID, err := uuid.Parse(createDTO.CategoryID)
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid category id")
		return
	}

	product, err := p.productService.CreateProduct(r.Context(), service.CreateProductParams{
		Name:         createDTO.Name,
		Description:  createDTO.Description,
		Price:        createDTO.Price,
		ComparePrice: createDTO.ComparePrice,
		Stock:        createDTO.Stock,
		Images:       createDTO.Images,
		SKU:          createDTO.SKU,
		IsFeatured:   createDTO.IsFeatured,
		CategoryID:   categoryID,
	})
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusCreated, product)
}

func (p *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apiutil.BadRequestJSON(w, "invalid product id")
		return
	}
	var updateDTO dto.UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	product, err := p.productService.UpdateProduct(r.Context(), productID, service.UpdateProductParams{
		Name:         updateDTO.Name,
		Description:  updateDTO.Description,
		Price:        updateDTO.Price,
		ComparePrice: updateDTO.ComparePrice,
		Stock:        updateDTO.Stock,
		Images:       updateDTO.Images,
		IsActive:     updateDTO.IsActive,
		IsFeatured:   updateDTO.IsFeatured,
	})
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, product)
}

func (p *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.productService.ListCategories(r.Context())
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusOK, categories)
}

func (p *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		apiutil.BadRequestJSON(w, "invalid request body")
		return
	}

	category, err := p.productService.CreateCategory(r.Context(), createDTO.Name, createDTO.Description)
	if err != nil {
		apiutil.ErrorJSON(w, err)
		return
	}
	apiutil.SuccessJSON(w, http.StatusCreated, category)
}
