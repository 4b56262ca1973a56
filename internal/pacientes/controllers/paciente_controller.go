package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/pacientes/models"
	"github.com/c14220110/hospital-backend/internal/pacientes/services"
	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/c14220110/hospital-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

type PacienteController struct {
	Service       *services.PacienteService
	Events        events.Emitter
	MaxPhotoBytes int64
}

func NewPacienteController(service *services.PacienteService, emitter events.Emitter, maxPhotoBytes int64) *PacienteController {
	return &PacienteController{Service: service, Events: emitter, MaxPhotoBytes: maxPhotoBytes}
}

type pacienteJSON struct {
	UsuarioID       *int64 `json:"usuario_id"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	DNI             string `json:"dni"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Genero          string `json:"genero"`
	Telefono        string `json:"telefono"`
	Direccion       string `json:"direccion"`
	Notas           string `json:"notas"`
	EliminarFoto    bool   `json:"eliminarFoto"`
}

// bindInput reads either a multipart form (with optional fotoPaciente) or a JSON body.
func (pc *PacienteController) bindInput(c echo.Context) (models.PacienteInput, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) && !strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		var req pacienteJSON
		if err := c.Bind(&req); err != nil {
			return models.PacienteInput{}, errors.New("Invalid request payload: " + err.Error())
		}
		return models.PacienteInput{
			UsuarioID: req.UsuarioID, Nombre: req.Nombre, Apellido: req.Apellido, DNI: req.DNI,
			FechaNacimiento: req.FechaNacimiento, Genero: req.Genero, Telefono: req.Telefono,
			Direccion: req.Direccion, Notas: req.Notas, EliminarFoto: req.EliminarFoto,
		}, nil
	}

	in := models.PacienteInput{
		Nombre:          c.FormValue("nombre"),
		Apellido:        c.FormValue("apellido"),
		DNI:             c.FormValue("dni"),
		FechaNacimiento: c.FormValue("fecha_nacimiento"),
		Genero:          c.FormValue("genero"),
		Telefono:        c.FormValue("telefono"),
		Direccion:       c.FormValue("direccion"),
		Notas:           c.FormValue("notas"),
		EliminarFoto:    c.FormValue("eliminarFoto") == "true",
	}
	if v := c.FormValue("usuario_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, errors.New("usuario_id must be a number")
		}
		in.UsuarioID = &id
	}
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		return in, nil
	}
	if fh, err := c.FormFile("fotoPaciente"); err == nil {
		foto, err := utils.ReadPhoto(fh, pc.MaxPhotoBytes)
		if err != nil {
			return in, err
		}
		in.Foto = foto
	} else if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return in, &utils.PhotoSizeError{Max: pc.MaxPhotoBytes}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return in, errors.New("Invalid multipart payload: " + err.Error())
	}
	return in, nil
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// ListPacientes handles GET /api/pacientes?activo=1|0 or ?estado=activo|inactivo.
func (pc *PacienteController) ListPacientes(c echo.Context) error {
	var f models.Filter
	if v := c.QueryParam("estado"); v != "" {
		st := models.PatientStatus(v)
		if !st.Valid() {
			return response.Error(c, http.StatusBadRequest, "estado debe ser 'activo' o 'inactivo'")
		}
		f.Estado = &st
	} else if v := c.QueryParam("activo"); v != "" {
		activo, err := strconv.ParseBool(v)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "activo debe ser 1, 0, true o false")
		}
		st := models.StatusInactivo
		if activo {
			st = models.StatusActivo
		}
		f.Estado = &st
	}

	pacientes, err := pc.Service.List(c.Request().Context(), f)
	if err != nil {
		return response.Fail(c, err, "Error al obtener pacientes")
	}
	return c.JSON(http.StatusOK, pacientes)
}

func (pc *PacienteController) GetPaciente(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de paciente inválido")
	}
	p, err := pc.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error al obtener el paciente")
	}
	return c.JSON(http.StatusOK, p)
}

func (pc *PacienteController) CreatePaciente(c echo.Context) error {
	in, err := pc.bindInput(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	p, err := pc.Service.Create(c.Request().Context(), in)
	if err != nil {
		return response.Fail(c, err, "Error al registrar el paciente.")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"mensaje":  "Paciente registrado exitosamente",
		"paciente": p,
	})
}

func (pc *PacienteController) UpdatePaciente(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de paciente inválido")
	}
	in, err := pc.bindInput(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	p, err := pc.Service.Update(c.Request().Context(), id, in)
	if err != nil {
		return response.Fail(c, err, "Error al actualizar el paciente.")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"mensaje":  "Paciente actualizado exitosamente.",
		"paciente": p,
	})
}

func (pc *PacienteController) DisablePaciente(c echo.Context) error {
	return pc.setStatus(c, models.StatusInactivo, "Paciente deshabilitado exitosamente.", "Error al deshabilitar el paciente.")
}

func (pc *PacienteController) EnablePaciente(c echo.Context) error {
	return pc.setStatus(c, models.StatusActivo, "Paciente habilitado exitosamente.", "Error al habilitar el paciente.")
}

func (pc *PacienteController) setStatus(c echo.Context, st models.PatientStatus, okMsg, failMsg string) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de paciente inválido")
	}
	ctx := c.Request().Context()
	p, err := pc.Service.SetStatus(ctx, id, st)
	if err != nil {
		return response.Fail(c, err, failMsg)
	}
	pc.emit(ctx, events.New(events.PacienteEstado, "paciente", p.ID, echo.Map{"estado": p.Estado}))
	return c.JSON(http.StatusOK, echo.Map{"mensaje": okMsg, "paciente": p})
}

func (pc *PacienteController) emit(ctx context.Context, ev events.Event) {
	if pc.Events != nil {
		pc.Events.Emit(ctx, ev)
	}
}
