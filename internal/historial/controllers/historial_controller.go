package controllers

import (
	"net/http"
	"strconv"

	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/historial/models"
	"github.com/c14220110/hospital-backend/internal/historial/services"
	"github.com/labstack/echo/v4"
)

type HistorialController struct {
	Service *services.HistorialService
}

func NewHistorialController(service *services.HistorialService) *HistorialController {
	return &HistorialController{Service: service}
}

func param(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// GetHistorialPaciente handles GET /api/historial-clinico/paciente/:pacienteId.
func (hc *HistorialController) GetHistorialPaciente(c echo.Context) error {
	id, ok := param(c, "pacienteId")
	if !ok {
		return response.Error(c, http.StatusBadRequest, "El ID del paciente es requerido.")
	}
	h, err := hc.Service.ByPaciente(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error al obtener el historial clínico del paciente.")
	}
	return c.JSON(http.StatusOK, h)
}

func (hc *HistorialController) GetUltimoHistorial(c echo.Context) error {
	id, ok := param(c, "pacienteId")
	if !ok {
		return response.Error(c, http.StatusBadRequest, "El ID del paciente es requerido.")
	}
	h, err := hc.Service.Latest(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error al obtener el historial clínico del paciente.")
	}
	return c.JSON(http.StatusOK, h)
}

// GetHistorial handles GET /api/historial-clinico/:historialId.
func (hc *HistorialController) GetHistorial(c echo.Context) error {
	id, ok := param(c, "historialId")
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de historial inválido")
	}
	h, err := hc.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error al obtener la entrada del historial clínico.")
	}
	return c.JSON(http.StatusOK, h)
}

func (hc *HistorialController) CreateHistorial(c echo.Context) error {
	var in models.HistorialInput
	if err := c.Bind(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	h, err := hc.Service.Create(c.Request().Context(), in)
	if err != nil {
		return response.Fail(c, err, "Error al crear la entrada del historial clínico.")
	}
	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "Entrada de historial creada exitosamente", "historial": h})
}

func (hc *HistorialController) UpdateHistorial(c echo.Context) error {
	id, ok := param(c, "historialId")
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de historial inválido")
	}
	var upd models.HistorialInput
	if err := c.Bind(&upd); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	h, err := hc.Service.Update(c.Request().Context(), id, upd)
	if err != nil {
		return response.Fail(c, err, "Error al actualizar la entrada del historial clínico.")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Entrada de historial actualizada exitosamente", "historial": h})
}
