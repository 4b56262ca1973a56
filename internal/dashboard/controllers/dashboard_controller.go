package controllers

import (
	"net/http"

	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/dashboard/services"
	"github.com/labstack/echo/v4"
)

type DashboardController struct {
	Service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

func (dc *DashboardController) GetStats(c echo.Context) error {
	stats, err := dc.Service.Stats(c.Request().Context())
	if err != nil {
		return response.Fail(c, err, "Error interno del servidor al obtener estadísticas del dashboard.")
	}
	return c.JSON(http.StatusOK, stats)
}
