package controllers

import (
	"net/http"
	"strconv"

	"github.com/c14220110/hospital-backend/internal/atenciones/models"
	"github.com/c14220110/hospital-backend/internal/atenciones/services"
	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/labstack/echo/v4"
)

type AtencionController struct {
	Service *services.AtencionService
	Events  events.Emitter
}

func NewAtencionController(service *services.AtencionService, emitter events.Emitter) *AtencionController {
	return &AtencionController{Service: service, Events: emitter}
}

func queryInt64(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("idAtencion"), 10, 64)
	return id, err == nil && id > 0
}

// ListAtenciones handles GET /api/atenciones?id_paciente=&cita_id_origen=&limit=&offset=.
// Looking up by cita_id_origen with no match answers 404 with an empty array, which the
// appointment screen relies on.
func (ac *AtencionController) ListAtenciones(c echo.Context) error {
	var f models.Filter
	var err error
	if f.IDPaciente, err = queryInt64(c, "id_paciente"); err != nil {
		return response.Error(c, http.StatusBadRequest, "id_paciente debe ser numérico")
	}
	if f.CitaIDOrigen, err = queryInt64(c, "cita_id_origen"); err != nil {
		return response.Error(c, http.StatusBadRequest, "cita_id_origen debe ser numérico")
	}
	if v := c.QueryParam("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 0 {
			return response.Error(c, http.StatusBadRequest, "limit debe ser un entero positivo")
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil || f.Offset < 0 {
			return response.Error(c, http.StatusBadRequest, "offset debe ser un entero positivo")
		}
	}

	atenciones, err := ac.Service.List(c.Request().Context(), f)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al obtener atenciones.")
	}
	if len(atenciones) == 0 && f.CitaIDOrigen != nil {
		return c.JSON(http.StatusNotFound, atenciones)
	}
	return c.JSON(http.StatusOK, atenciones)
}

func (ac *AtencionController) GetAtencion(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de atención inválido")
	}
	a, err := ac.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al obtener la atención")
	}
	return c.JSON(http.StatusOK, a)
}

func (ac *AtencionController) CreateAtencion(c echo.Context) error {
	var in models.AtencionInput
	if err := c.Bind(&in); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	ctx := c.Request().Context()
	a, err := ac.Service.Create(ctx, in)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al crear la atención")
	}
	if ac.Events != nil {
		ac.Events.Emit(ctx, events.New(events.AtencionCreada, "atencion", a.IDAtencion,
			echo.Map{"id_paciente": a.IDPaciente, "cita_id_origen": a.CitaIDOrigen}))
	}
	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "Atención creada exitosamente", "atencion": a})
}

func (ac *AtencionController) UpdateAtencion(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de atención inválido")
	}
	var upd models.AtencionUpdate
	if err := c.Bind(&upd); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	a, err := ac.Service.Update(c.Request().Context(), id, upd)
	if err != nil {
		return response.Fail(c, err, "Error del servidor al actualizar la atención")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Atención actualizada exitosamente", "atencion": a})
}

func (ac *AtencionController) DeleteAtencion(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de atención inválido")
	}
	if err := ac.Service.Delete(c.Request().Context(), id); err != nil {
		return response.Fail(c, err, "Error del servidor al eliminar la atención")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Atención eliminada exitosamente"})
}
