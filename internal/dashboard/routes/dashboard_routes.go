package routes

import (
	"github.com/c14220110/hospital-backend/internal/dashboard/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterDashboardRoutes(api *echo.Group, dc *controllers.DashboardController) {
	api.GET("/dashboard/stats", dc.GetStats)
}
