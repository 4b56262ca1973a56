package models

import (
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
)

// Historial is one clinical-history snapshot. The numeric fields double as the feature vector
// of the readmission model.
type Historial struct {
	IDHistorial                 int64     `json:"id_historial"`
	IDPaciente                  int64     `json:"id_paciente"`
	IDAtencion                  *int64    `json:"id_atencion"`
	FechaRegistroHistorial      time.Time `json:"fecha_registro_historial"`
	Edad                        *int      `json:"edad"`
	Genero                      *string   `json:"genero"`
	Enfermedad                  *string   `json:"enfermedad"`
	MedicamentosActuales        *string   `json:"medicamentos_actuales"`
	Observaciones               *string   `json:"observaciones"`
	TiempoUltimaAtencionDias    *int      `json:"tiempo_ultima_atencion_dias"`
	VisitasUltimos30Dias        *int      `json:"visitas_ultimos_30_dias"`
	VisitasUltimos6Meses        *int      `json:"visitas_ultimos_6_meses"`
	HospitalizacionesUltimoAnio *int      `json:"hospitalizaciones_ultimo_anio"`
}

// HistorialInput creates an entry; nil fields are stored as NULL. In PUT it is a partial
// update where nil keeps the stored value and IDPaciente is ignored.
type HistorialInput struct {
	IDPaciente                  int64   `json:"id_paciente"`
	IDAtencion                  *int64  `json:"id_atencion"`
	Edad                        *int    `json:"edad"`
	Genero                      *string `json:"genero"`
	Enfermedad                  *string `json:"enfermedad"`
	MedicamentosActuales        *string `json:"medicamentos_actuales"`
	Observaciones               *string `json:"observaciones"`
	TiempoUltimaAtencionDias    *int    `json:"tiempo_ultima_atencion_dias"`
	VisitasUltimos30Dias        *int    `json:"visitas_ultimos_30_dias"`
	VisitasUltimos6Meses        *int    `json:"visitas_ultimos_6_meses"`
	HospitalizacionesUltimoAnio *int    `json:"hospitalizaciones_ultimo_anio"`
}

// PacienteCabecera is the patient header shown above the history.
type PacienteCabecera struct {
	ID              int64       `json:"id"`
	Nombre          string      `json:"nombre"`
	Apellido        string      `json:"apellido"`
	DNI             string      `json:"dni"`
	FechaNacimiento common.Date `json:"fecha_nacimiento"`
	Genero          string      `json:"genero"`
	FotoBase64      *string     `json:"fotoBase64"`
}

type HistorialPaciente struct {
	Paciente  PacienteCabecera `json:"paciente"`
	Historial []Historial      `json:"historial"`
}
