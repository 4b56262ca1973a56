package controllers

import (
	"net/http"
	"strconv"

	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/habitaciones/models"
	"github.com/c14220110/hospital-backend/internal/habitaciones/services"
	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/labstack/echo/v4"
)

type HabitacionController struct {
	Service *services.HabitacionService
	Events  events.Emitter
}

func NewHabitacionController(service *services.HabitacionService, emitter events.Emitter) *HabitacionController {
	return &HabitacionController{Service: service, Events: emitter}
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// ListDisponibles handles GET /api/habitaciones/disponibles?estado=Disponible|Ocupada.
func (hc *HabitacionController) ListDisponibles(c echo.Context) error {
	var filter *models.RoomStatus
	if v := c.QueryParam("estado"); v != "" {
		estado := models.RoomStatus(v)
		if !estado.Valid() {
			return response.Error(c, http.StatusBadRequest, "Estado de habitación inválido: "+v)
		}
		filter = &estado
	}
	habitaciones, err := hc.Service.ListHabitaciones(c.Request().Context(), filter)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al obtener habitaciones")
	}
	return c.JSON(http.StatusOK, habitaciones)
}

func (hc *HabitacionController) ListAsignadas(c echo.Context) error {
	asignaciones, err := hc.Service.ListAsignaciones(c.Request().Context())
	if err != nil {
		return response.Fail(c, err, "Error del servidor al obtener habitaciones asignadas")
	}
	return c.JSON(http.StatusOK, asignaciones)
}

func (hc *HabitacionController) Asignar(c echo.Context) error {
	var in models.AsignacionInput
	if err := c.Bind(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	ctx := c.Request().Context()
	a, err := hc.Service.Assign(ctx, in)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al asignar la habitación")
	}
	if hc.Events != nil {
		hc.Events.Emit(ctx, events.New(events.HabitacionAsignada, "habitacion", a.HabitacionDisponibleID, echo.Map{
			"asignacion_id": a.ID,
			"numero":        a.HabitacionNumero,
			"paciente_id":   a.PacienteID,
		}))
	}
	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "Habitación asignada exitosamente", "asignacion": a})
}

func (hc *HabitacionController) Liberar(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de asignación inválido")
	}
	ctx := c.Request().Context()
	habitacionID, err := hc.Service.Release(ctx, id)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al liberar la habitación")
	}
	if hc.Events != nil {
		hc.Events.Emit(ctx, events.New(events.HabitacionLiberada, "habitacion", habitacionID, echo.Map{"asignacion_id": id}))
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Habitación liberada exitosamente", "habitacion_disponible_id": habitacionID})
}

// UpdateEstadoPaciente handles PATCH /api/habitaciones/asignadas/:id/estado with {estado_paciente}.
func (hc *HabitacionController) UpdateEstadoPaciente(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de asignación inválido")
	}
	var req struct {
		EstadoPaciente models.PatientCondition `json:"estado_paciente"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	a, err := hc.Service.UpdateCondicion(c.Request().Context(), id, req.EstadoPaciente)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al actualizar el estado del paciente")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Estado del paciente actualizado", "asignacion": a})
}
