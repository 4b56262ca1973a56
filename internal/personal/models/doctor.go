package models

import (
	common "github.com/c14220110/hospital-backend/internal/common/models"
)

type Doctor struct {
	ID              int64       `json:"id"`
	UsuarioID       *int64      `json:"usuario_id"`
	Nombre          string      `json:"nombre"`
	Apellidos       string      `json:"apellidos"`
	Especialidad    string      `json:"especialidad"`
	DNI             string      `json:"dni"`
	Telefono        string      `json:"telefono"`
	Correo          string      `json:"correo"`
	Genero          string      `json:"genero"`
	FechaNacimiento common.Date `json:"fecha_nacimiento"`
	Foto            []byte      `json:"-"`
	FotoBase64      *string     `json:"fotoBase64"`
}

type DoctorInput struct {
	UsuarioID       *int64
	Nombre          string
	Apellidos       string
	Especialidad    string
	DNI             string
	Telefono        string
	Correo          string
	Genero          string
	FechaNacimiento string
	Foto            []byte
	EliminarFoto    bool
}
