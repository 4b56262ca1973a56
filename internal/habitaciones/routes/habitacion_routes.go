package routes

import (
	"github.com/c14220110/hospital-backend/internal/habitaciones/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterHabitacionRoutes(api *echo.Group, hc *controllers.HabitacionController) {
	habitaciones := api.Group("/habitaciones")
	habitaciones.GET("/disponibles", hc.ListDisponibles)
	habitaciones.GET("/asignadas", hc.ListAsignadas)
	habitaciones.POST("/asignar", hc.Asignar)
	habitaciones.DELETE("/asignadas/:id", hc.Liberar)
	habitaciones.PATCH("/asignadas/:id/estado", hc.UpdateEstadoPaciente)
}
