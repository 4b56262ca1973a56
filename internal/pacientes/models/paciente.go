package models

import (
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
)

// PatientStatus replaces hard deletes: disabled patients keep their history.
type PatientStatus string

const (
	StatusActivo   PatientStatus = "activo"
	StatusInactivo PatientStatus = "inactivo"
)

func (s PatientStatus) Valid() bool {
	return s == StatusActivo || s == StatusInactivo
}

type Paciente struct {
	ID              int64         `json:"id"`
	UsuarioID       *int64        `json:"usuario_id"`
	Nombre          string        `json:"nombre"`
	Apellido        string        `json:"apellido"`
	DNI             string        `json:"dni"`
	FechaNacimiento common.Date   `json:"fecha_nacimiento"`
	Edad            *int          `json:"edad"`
	Genero          string        `json:"genero"`
	Telefono        *string       `json:"telefono"`
	Direccion       *string       `json:"direccion"`
	Notas           *string       `json:"notas"`
	Foto            []byte        `json:"-"`
	FotoBase64      *string       `json:"fotoBase64"`
	Activo          bool          `json:"activo"`
	Estado          PatientStatus `json:"estado"`
	CreadoEn        *time.Time    `json:"creado_en,omitempty"`
}

// PacienteInput is the create/update payload after form or JSON decoding.
type PacienteInput struct {
	UsuarioID       *int64
	Nombre          string
	Apellido        string
	DNI             string
	FechaNacimiento string
	Genero          string
	Telefono        string
	Direccion       string
	Notas           string
	Foto            []byte
	EliminarFoto    bool
}

// Filter for the list endpoint; nil Estado lists everyone.
type Filter struct {
	Estado *PatientStatus
}
