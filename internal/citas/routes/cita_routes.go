package routes

import (
	"github.com/c14220110/hospital-backend/internal/citas/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterCitaRoutes(api *echo.Group, cc *controllers.CitaController) {
	citas := api.Group("/citas")
	citas.GET("", cc.ListCitas)
	citas.POST("", cc.CreateCita)
	citas.GET("/:id", cc.GetCita)
	citas.PUT("/:id", cc.UpdateCita)
	citas.DELETE("/:id", cc.DeleteCita)
	citas.PUT("/:id/estado", cc.UpdateEstado)
	citas.PATCH("/:id/estado", cc.UpdateEstado)
	citas.POST("/:id/atencion", cc.PromoteCita)
}
