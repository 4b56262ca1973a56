package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/personal/models"
	"github.com/c14220110/hospital-backend/internal/personal/services"
	"github.com/c14220110/hospital-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

type DoctorController struct {
	Service       *services.DoctorService
	MaxPhotoBytes int64
}

func NewDoctorController(service *services.DoctorService, maxPhotoBytes int64) *DoctorController {
	return &DoctorController{Service: service, MaxPhotoBytes: maxPhotoBytes}
}

type doctorJSON struct {
	UsuarioID       *int64 `json:"usuario_id"`
	Nombre          string `json:"nombre"`
	Apellidos       string `json:"apellidos"`
	Especialidad    string `json:"especialidad"`
	DNI             string `json:"dni"`
	Telefono        string `json:"telefono"`
	Correo          string `json:"correo"`
	Genero          string `json:"genero"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	EliminarFoto    bool   `json:"eliminarFoto"`
}

func (dc *DoctorController) bindInput(c echo.Context) (models.DoctorInput, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) && !strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		var req doctorJSON
		if err := c.Bind(&req); err != nil {
			return models.DoctorInput{}, errors.New("Invalid request payload: " + err.Error())
		}
		return models.DoctorInput{
			UsuarioID: req.UsuarioID, Nombre: req.Nombre, Apellidos: req.Apellidos, Especialidad: req.Especialidad,
			DNI: req.DNI, Telefono: req.Telefono, Correo: req.Correo, Genero: req.Genero,
			FechaNacimiento: req.FechaNacimiento, EliminarFoto: req.EliminarFoto,
		}, nil
	}

	in := models.DoctorInput{
		Nombre:          c.FormValue("nombre"),
		Apellidos:       c.FormValue("apellidos"),
		Especialidad:    c.FormValue("especialidad"),
		DNI:             c.FormValue("dni"),
		Telefono:        c.FormValue("telefono"),
		Correo:          c.FormValue("correo"),
		Genero:          c.FormValue("genero"),
		FechaNacimiento: c.FormValue("fecha_nacimiento"),
		EliminarFoto:    c.FormValue("eliminarFoto") == "true",
	}
	// the admin form posts usuario_id as "" when no account is linked
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
	if fh, err := c.FormFile("fotoDoctor"); err == nil {
		foto, err := utils.ReadPhoto(fh, dc.MaxPhotoBytes)
		if err != nil {
			return in, err
		}
		in.Foto = foto
	} else if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return in, &utils.PhotoSizeError{Max: dc.MaxPhotoBytes}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return in, errors.New("Invalid multipart payload: " + err.Error())
	}
	return in, nil
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (dc *DoctorController) ListDoctores(c echo.Context) error {
	doctores, err := dc.Service.List(c.Request().Context())
	if err != nil {
		return response.Fail(c, err, "Error al obtener doctores")
	}
	return c.JSON(http.StatusOK, doctores)
}

func (dc *DoctorController) GetDoctor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de doctor inválido")
	}
	d, err := dc.Service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err, "Error al obtener el doctor")
	}
	return c.JSON(http.StatusOK, d)
}

func (dc *DoctorController) CreateDoctor(c echo.Context) error {
	in, err := dc.bindInput(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	d, err := dc.Service.Create(c.Request().Context(), in)
	if err != nil {
		return response.Fail(c, err, "Error al registrar el doctor.")
	}
	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "Doctor agregado exitosamente.", "doctor": d})
}

func (dc *DoctorController) UpdateDoctor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de doctor inválido")
	}
	in, err := dc.bindInput(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	d, err := dc.Service.Update(c.Request().Context(), id, in)
	if err != nil {
		return response.Fail(c, err, "Error al actualizar el doctor.")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Doctor actualizado exitosamente.", "doctor": d})
}

func (dc *DoctorController) DeleteDoctor(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.Error(c, http.StatusBadRequest, "ID de doctor inválido")
	}
	if err := dc.Service.Delete(c.Request().Context(), id); err != nil {
		return response.Fail(c, err, "Error al eliminar el doctor.")
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Doctor eliminado exitosamente."})
}
