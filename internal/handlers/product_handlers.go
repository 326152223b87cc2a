package handlers

import (
	"net/http"

	"invoptimizer/internal/common"
	"invoptimizer/internal/models"
	"invoptimizer/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers handles product and category HTTP requests
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

func (h *ProductHandlers) RegisterRoutes(g *echo.Group) {
	p := g.Group("/products")
	p.GET("", h.ListProducts)
	p.POST("", h.CreateProduct)
	p.GET("/sku/:sku", h.GetProductBySKU)
	p.GET("/:id", h.GetProduct)
	p.PUT("/:id", h.UpdateProduct)
	p.DELETE("/:id", h.DeleteProduct)

	g.GET("/categories", h.ListCategories)
	g.POST("/categories", h.CreateCategory)
}

// ProductRequest is the create and update payload. Prices accept JSON numbers or strings.
type ProductRequest struct {
	Name         string          `json:"name" validate:"required,max=255"`
	SKU          string          `json:"sku" validate:"required,max=100"`
	Description  *string         `json:"description" validate:"omitempty,max=2000"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ImageURL     *string         `json:"image_url" validate:"omitempty,url"`
}

func (r *ProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:         r.Name,
		SKU:          r.SKU,
		Description:  r.Description,
		CategoryID:   r.CategoryID,
		UnitCost:     r.UnitCost,
		SellingPrice: r.SellingPrice,
		ImageURL:     r.ImageURL,
	}
}

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset, err := common.Pagination(c)
	if err != nil {
		return common.SendError(c, err)
	}

	products, err := h.productService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	product := req.toModel()
	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) GetProductBySKU(c echo.Context) error {
	product, err := h.productService.GetBySKU(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	product := req.toModel()
	product.ID = id
	if err := h.productService.Update(c.Request().Context(), product); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandlers) ListCategories(c echo.Context) error {
	categories, err := h.productService.ListCategories(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

func (h *ProductHandlers) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.productService.CreateCategory(c.Request().Context(), category); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}
