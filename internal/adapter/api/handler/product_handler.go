package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/usecase"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/response"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Price       float64  `json:"price" validate:"gte=0"`
	ImageURLs   []string `json:"image_urls" validate:"max=5,dive,url"`
	Type        string   `json:"type" validate:"required,oneof=artesanal segundaMano"`
	Category    string   `json:"category" validate:"required"`
	Location    string   `json:"location" validate:"max=120"`
	IsNew       bool     `json:"is_new"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), userID, usecase.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURLs:   req.ImageURLs,
		Type:        req.Type,
		Category:    req.Category,
		Location:    req.Location,
		IsNew:       req.IsNew,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, params.Page, params.PageSize)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	userID := c.Get("uid").(string)

	products, err := h.productUseCase.ListMyProducts(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Listing deleted",
	})
}
