package controllers

import (
	"net/http"
	"strconv"

	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/prediccion/models"
	"github.com/c14220110/hospital-backend/internal/prediccion/services"
	"github.com/labstack/echo/v4"
)

type PrediccionController struct {
	Service *services.PrediccionService
}

func NewPrediccionController(service *services.PrediccionService) *PrediccionController {
	return &PrediccionController{Service: service}
}

// PredecirReingreso handles POST /api/prediccion/reingreso with the seven features.
func (pc *PrediccionController) PredecirReingreso(c echo.Context) error {
	var f models.Features
	if err := c.Bind(&f); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	res, err := pc.Service.Reingreso(c.Request().Context(), f)
	if err != nil {
		return response.Fail(c, err, "Error al obtener la predicción de reingreso.")
	}
	return c.JSON(http.StatusOK, res)
}

// PredecirPaciente handles POST /api/prediccion/paciente/:id using the latest clinical history.
func (pc *PrediccionController) PredecirPaciente(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return response.Error(c, http.StatusBadRequest, "ID de paciente inválido")
	}
	res, err := pc.Service.ForPaciente(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error al obtener la predicción de reingreso.")
	}
	return c.JSON(http.StatusOK, res)
}
