package handlers

import (
	"net/http"

	"invoptimizer/internal/common"
	"invoptimizer/internal/models"
	"invoptimizer/internal/services"

	"github.com/labstack/echo/v4"
)

// LocationHandlers handles location-related HTTP requests
type LocationHandlers struct {
	locationService services.LocationService
}

func NewLocationHandlers(locationService services.LocationService) *LocationHandlers {
	return &LocationHandlers{locationService: locationService}
}

func (h *LocationHandlers) RegisterRoutes(g *echo.Group) {
	l := g.Group("/locations")
	l.GET("", h.ListLocations)
	l.POST("", h.CreateLocation)
	l.GET("/:id", h.GetLocation)
	l.PUT("/:id", h.UpdateLocation)
	l.DELETE("/:id", h.DeleteLocation)
}

// LocationRequest is the create and update payload.
type LocationRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Address       string  `json:"address" validate:"max=500"`
	City          string  `json:"city" validate:"max=100"`
	State         string  `json:"state" validate:"max=100"`
	ZipCode       string  `json:"zip_code" validate:"max=20"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	ContactEmail  *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone  *string `json:"contact_phone" validate:"omitempty,max=50"`
}

func (r *LocationRequest) toModel() *models.Location {
	return &models.Location{
		Name:          r.Name,
		Address:       r.Address,
		City:          r.City,
		State:         r.State,
		ZipCode:       r.ZipCode,
		ContactPerson: r.ContactPerson,
		ContactEmail:  r.ContactEmail,
		ContactPhone:  r.ContactPhone,
	}
}

func (h *LocationHandlers) ListLocations(c echo.Context) error {
	limit, offset, err := common.Pagination(c)
	if err != nil {
		return common.SendError(c, err)
	}

	locations, err := h.locationService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"locations": locations,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *LocationHandlers) CreateLocation(c echo.Context) error {
	var req LocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	location := req.toModel()
	if err := h.locationService.Create(c.Request().Context(), location); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, location)
}

func (h *LocationHandlers) GetLocation(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}

	location, err := h.locationService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, location)
}

func (h *LocationHandlers) UpdateLocation(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req LocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	location := req.toModel()
	location.ID = id
	if err := h.locationService.Update(c.Request().Context(), location); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, location)
}

func (h *LocationHandlers) DeleteLocation(c echo.Context) error {
	id, err := common.ParamUUID(c, "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.locationService.Delete(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
