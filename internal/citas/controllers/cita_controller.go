package controllers

import (
	"net/http"
	"strconv"

	"github.com/c14220110/hospital-backend/internal/citas/models"
	"github.com/c14220110/hospital-backend/internal/citas/services"
	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/labstack/echo/v4"
)

type CitaController struct {
	Service *services.CitaService
	Events  events.Emitter
}

func NewCitaController(service *services.CitaService, emitter events.Emitter) *CitaController {
	return &CitaController{Service: service, Events: emitter}
}

func (cc *CitaController) emit(c echo.Context, typ string, cita *models.Cita) {
	if cc.Events == nil || cita == nil {
		return
	}
	cc.Events.Emit(c.Request().Context(), events.New(typ, "cita", cita.ID, echo.Map{
		"estado":      cita.Estado,
		"fecha":       cita.Fecha,
		"paciente_id": cita.PacienteID,
		"doctor_id":   cita.DoctorID,
	}))
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt64(c echo.Context, name string) (*int64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// ListCitas handles GET /api/citas?paciente_id=&doctor_id=&estado=.
func (cc *CitaController) ListCitas(c echo.Context) error {
	var f models.Filter
	var ok bool
	if f.PacienteID, ok = queryInt64(c, "paciente_id"); !ok {
		return response.Error(c, http.StatusBadRequest, "paciente_id debe ser numérico")
	}
	if f.DoctorID, ok = queryInt64(c, "doctor_id"); !ok {
		return response.Error(c, http.StatusBadRequest, "doctor_id debe ser numérico")
	}
	if v := c.QueryParam("estado"); v != "" {
		estado := models.AppointmentStatus(v)
		if !estado.Valid() {
			return response.Error(c, http.StatusBadRequest, "Estado de cita inválido: "+v)
		}
		f.Estado = &estado
	}

	citas, err := cc.Service.List(c.Request().Context(), f)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al obtener citas")
	}
	return c.JSON(http.StatusOK, citas)
}

func (cc *CitaController) GetCita(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de cita inválido")
	}
	cita, err := cc.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al obtener la cita")
	}
	return c.JSON(http.StatusOK, cita)
}

func (cc *CitaController) CreateCita(c echo.Context) error {
	var in models.CitaInput
	if err := c.Bind(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	cita, err := cc.Service.Create(c.Request().Context(), in)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al crear la cita")
	}
	cc.emit(c, events.CitaCreada, cita)
	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "Cita creada exitosamente", "cita": cita})
}

func (cc *CitaController) UpdateCita(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de cita inválido")
	}
	var in models.CitaInput
	if err := c.Bind(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	cita, err := cc.Service.Update(c.Request().Context(), id, in)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al actualizar la cita")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Cita actualizada exitosamente", "cita": cita})
}

// UpdateEstado handles PUT and PATCH /api/citas/:id/estado with body {estado}.
func (cc *CitaController) UpdateEstado(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de cita inválido")
	}
	var req struct {
		Estado models.AppointmentStatus `json:"estado"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	if req.Estado == "" {
		return response.Error(c, http.StatusBadRequest, "El estado es requerido.")
	}
	cita, err := cc.Service.UpdateEstado(c.Request().Context(), id, req.Estado)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al actualizar el estado de la cita")
	}
	cc.emit(c, events.CitaEstado, cita)
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Estado de la cita actualizado", "cita": cita})
}

func (cc *CitaController) DeleteCita(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de cita inválido")
	}
	if err := cc.Service.Delete(c.Request().Context(), id); err != nil {
		return response.Fail(c, err, "Error del servidor al eliminar la cita")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Cita eliminada exitosamente"})
}

// PromoteCita handles POST /api/citas/:id/atencion. The body is optional.
func (cc *CitaController) PromoteCita(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de cita inválido")
	}
	var req models.PromotionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		}
	}

	ctx := c.Request().Context()
	res, err := cc.Service.Promote(ctx, id, req)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al crear la atención desde la cita")
	}

	if cc.Events != nil {
		if res.Creada {
			cc.Events.Emit(ctx, events.New(events.AtencionCreada, "atencion", res.Atencion.IDAtencion,
				echo.Map{"id_paciente": res.Atencion.IDPaciente, "cita_id_origen": id}))
		}
		if res.EstadoCambiado {
			cc.Events.Emit(ctx, events.New(events.CitaEstado, "cita", id, echo.Map{"estado": models.EstadoCompletada}))
		}
	}

	status := http.StatusOK
	if res.Creada {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}
