package handlers

import (
	"net/http"

	"invoptimizer/internal/common"
	"invoptimizer/internal/models"
	"invoptimizer/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransferHandlers exposes the transfer lifecycle over HTTP.
type TransferHandlers struct {
	transferService services.TransferService
}

func NewTransferHandlers(transferService services.TransferService) *TransferHandlers {
	return &TransferHandlers{transferService: transferService}
}

func (h *TransferHandlers) RegisterRoutes(g *echo.Group) {
	t := g.Group("/transfers")
	t.GET("", h.ListTransfers)
	t.POST("", h.CreateTransfer)
	t.GET("/:id", h.GetTransfer)
	t.PUT("/:id/status", h.UpdateStatus)
}

type CreateTransferRequest struct {
	ProductID      uuid.UUID `json:"product_id" validate:"uuid_required"`
	FromLocationID uuid.UUID `json:"from_location_id" validate:"uuid_required"`
	ToLocationID   uuid.UUID `json:"to_location_id" validate:"uuid_required"`
	Quantity       int       `json:"quantity" validate:"gt=0"`
}

type UpdateTransferStatusRequest struct {
	Status models.TransferStatus `json:"status" validate:"required,oneof=pending in-transit completed cancelled"`
}

// ListTransfers filters by status, product_id and location_id (either end).
func (h *TransferHandlers) ListTransfers(c echo.Context) error {
	limit, offset, err := common.Pagination(c)
	if err != nil {
		return common.SendError(c, err)
	}
	filter := models.TransferFilter{Limit: limit, Offset: offset}

	if raw := c.QueryParam("status"); raw != "" {
		status := models.TransferStatus(raw)
		if !status.Valid() {
			return common.SendValidationError(c, "status", "status must be one of pending, in-transit, completed, cancelled")
		}
		filter.Status = &status
	}
	if filter.ProductID, err = common.OptionalQueryUUID(c, "product_id"); err != nil {
		return common.SendError(c, err)
	}
	if filter.LocationID, err = common.OptionalQueryUUID(c, "location_id"); err != nil {
		return common.SendError(c, err)
	}

	transfers, err := h.transferService.List(c.Request().Context(), filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"transfers": transfers,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *TransferHandlers) CreateTransfer(c echo.Context) error {
	var req CreateTransferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	transfer, err := h.transferService.Create(c.Request().Context(), req.ProductID, req.FromLocationID, req.ToLocationID, req.Quantity)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandlers) GetTransfer(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}

	transfer, err := h.transferService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, transfer)
}

// UpdateStatus applies one lifecycle step. Disallowed steps answer 409 INVALID_TRANSITION.
func (h *TransferHandlers) UpdateStatus(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req UpdateTransferStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	transfer, err := h.transferService.Transition(c.Request().Context(), id, req.Status)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, transfer)
}
