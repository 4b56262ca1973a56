package routes

import (
	"github.com/c14220110/hospital-backend/internal/personal/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterDoctorRoutes(api *echo.Group, dc *controllers.DoctorController) {
	doctores := api.Group("/doctores")
	doctores.GET("", dc.ListDoctores)
	doctores.GET("/:id", dc.GetDoctor)
	doctores.POST("", dc.CreateDoctor)
	doctores.PUT("/:id", dc.UpdateDoctor)
	doctores.DELETE("/:id", dc.DeleteDoctor)
}
