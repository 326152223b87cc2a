package handlers

import (
	"net/http"

	"invoptimizer/internal/common"
	"invoptimizer/internal/models"
	"invoptimizer/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InventoryHandlers handles inventory-related HTTP requests
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

func (h *InventoryHandlers) RegisterRoutes(g *echo.Group) {
	i := g.Group("/inventory")
	i.GET("", h.ListInventory)
	i.POST("", h.CreateInventory)
	i.POST("/bulk-adjust", h.BulkAdjust)
	i.GET("/:id", h.GetInventory)
	i.PUT("/:id", h.UpdateInventory)
	i.DELETE("/:id", h.DeleteInventory)
	i.POST("/:id/adjust", h.AdjustStock)
}

// CreateInventoryRequest represents the inventory creation request payload
type CreateInventoryRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"uuid_required"`
	LocationID   uuid.UUID `json:"location_id" validate:"uuid_required"`
	Quantity     int       `json:"quantity" validate:"gte=0"`
	MinThreshold int       `json:"min_threshold" validate:"gte=0"`
	MaxThreshold int       `json:"max_threshold" validate:"gtefield=MinThreshold"`
}

// UpdateInventoryRequest replaces the quantity and thresholds of an item.
type UpdateInventoryRequest struct {
	Quantity     int `json:"quantity" validate:"gte=0"`
	MinThreshold int `json:"min_threshold" validate:"gte=0"`
	MaxThreshold int `json:"max_threshold" validate:"gtefield=MinThreshold"`
}

type AdjustStockRequest struct {
	QuantityChange int `json:"quantity_change" validate:"ne=0"`
}

// ListInventory filters by location_id, product_id and level (low, normal, over).
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	limit, offset, err := common.Pagination(c)
	if err != nil {
		return common.SendError(c, err)
	}
	filter := models.InventoryFilter{Limit: limit, Offset: offset}

	if filter.LocationID, err = common.OptionalQueryUUID(c, "location_id"); err != nil {
		return common.SendError(c, err)
	}
	if filter.ProductID, err = common.OptionalQueryUUID(c, "product_id"); err != nil {
		return common.SendError(c, err)
	}
	if raw := c.QueryParam("level"); raw != "" {
		level := models.StockLevel(raw)
		if !level.Valid() {
			return common.SendValidationError(c, "level", "level must be one of low, normal, over")
		}
		filter.Level = &level
	}

	items, err := h.inventoryService.List(c.Request().Context(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"inventory": items,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *InventoryHandlers) CreateInventory(c echo.Context) error {
	var req CreateInventoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	item := &models.InventoryItem{
		ProductID:    req.ProductID,
		LocationID:   req.LocationID,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		MaxThreshold: req.MaxThreshold,
	}
	if err := h.inventoryService.Create(c.Request().Context(), item); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandlers) GetInventory(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}

	item, err := h.inventoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandlers) UpdateInventory(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req UpdateInventoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	ctx := c.Request().Context()
	item, err := h.inventoryService.GetByID(ctx, id)
	if err != nil {
		return common.SendError(c, err)
	}
	item.Quantity = req.Quantity
	item.MinThreshold = req.MinThreshold
	item.MaxThreshold = req.MaxThreshold
	if err := h.inventoryService.Update(ctx, item); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandlers) DeleteInventory(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.inventoryService.Delete(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandlers) AdjustStock(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req AdjustStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	item, err := h.inventoryService.AdjustStock(c.Request().Context(), id, req.QuantityChange)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// BulkAdjust answers 200 with per-item errors; a partial failure is not an HTTP error.
func (h *InventoryHandlers) BulkAdjust(c echo.Context) error {
	var req models.InventoryBulkAdjust
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	result, err := h.inventoryService.BulkAdjustStock(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
