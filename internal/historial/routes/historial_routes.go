package routes

import (
	"github.com/c14220110/hospital-backend/internal/historial/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterHistorialRoutes(api *echo.Group, hc *controllers.HistorialController) {
	historial := api.Group("/historial-clinico")
	historial.GET("/paciente/:pacienteId", hc.GetHistorialPaciente)
	historial.GET("/paciente/:pacienteId/ultimo", hc.GetUltimoHistorial)
	historial.GET("/:historialId", hc.GetHistorial)
	historial.POST("", hc.CreateHistorial)
	historial.PUT("/:historialId", hc.UpdateHistorial)
}
