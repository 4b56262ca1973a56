package routes

import (
	"github.com/c14220110/hospital-backend/internal/atenciones/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterAtencionRoutes(api *echo.Group, ac *controllers.AtencionController) {
	atenciones := api.Group("/atenciones")
	atenciones.GET("", ac.ListAtenciones)
	atenciones.POST("", ac.CreateAtencion)
	atenciones.GET("/:idAtencion", ac.GetAtencion)
	atenciones.PUT("/:idAtencion", ac.UpdateAtencion)
	atenciones.DELETE("/:idAtencion", ac.DeleteAtencion)
}
