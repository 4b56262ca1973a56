package routes

import (
	"github.com/c14220110/hospital-backend/internal/prediccion/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterPrediccionRoutes(api *echo.Group, pc *controllers.PrediccionController) {
	prediccion := api.Group("/prediccion")
	prediccion.POST("/reingreso", pc.PredecirReingreso)
	prediccion.POST("/paciente/:id", pc.PredecirPaciente)
}
