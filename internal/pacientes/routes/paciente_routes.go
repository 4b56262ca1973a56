package routes

import (
	"github.com/c14220110/hospital-backend/internal/pacientes/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterPacienteRoutes(api *echo.Group, pc *controllers.PacienteController) {
	pacientes := api.Group("/pacientes")
	pacientes.GET("", pc.ListPacientes)
	pacientes.GET("/:id", pc.GetPaciente)
	pacientes.POST("", pc.CreatePaciente)
	pacientes.PUT("/:id", pc.UpdatePaciente)
	// Soft delete: pasien tidak pernah dihapus secara fisik
	pacientes.PATCH("/:id/deshabilitar", pc.DisablePaciente)
	pacientes.PATCH("/:id/habilitar", pc.EnablePaciente)
}
