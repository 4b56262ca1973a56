package models

import (
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/pkg/utils"
)

// Atencion is one clinical encounter, optionally promoted from an appointment.
type Atencion struct {
	IDAtencion                   int64              `json:"id_atencion"`
	IDPaciente                   int64              `json:"id_paciente"`
	CitaIDOrigen                 *int64             `json:"cita_id_origen"`
	FechaAtencion                time.Time          `json:"fecha_atencion"`
	TipoAtencion                 *string            `json:"tipo_atencion"`
	EdadPacienteAtencion         *int               `json:"edad_paciente_atencion"`
	MotivoSintomasPrincipal      *string            `json:"motivo_sintomas_principal"`
	DiagnosticoPrincipalCIE10    *string            `json:"diagnostico_principal_cie10"`
	DiagnosticoTextoAdicional    *string            `json:"diagnostico_texto_adicional"`
	DatosClinicosAdicionales     utils.JSONDocument `json:"datos_clinicos_adicionales_json"`
	DatosClinicosInvalidos       bool               `json:"datos_clinicos_invalidos,omitempty"`
	ObservacionesPlanTratamiento *string            `json:"observaciones_plan_tratamiento"`
	NumeroReingresos30Dias       int                `json:"numero_reingresos_en_30_dias_posteriores"`
	CreadoEn                     *time.Time         `json:"creado_en"`
	ActualizadoEn                *time.Time         `json:"actualizado_en"`
}

type AtencionInput struct {
	IDPaciente                   int64              `json:"id_paciente"`
	CitaIDOrigen                 *int64             `json:"cita_id_origen"`
	FechaAtencion                string             `json:"fecha_atencion"`
	TipoAtencion                 *string            `json:"tipo_atencion"`
	EdadPacienteAtencion         *int               `json:"edad_paciente_atencion"`
	MotivoSintomasPrincipal      *string            `json:"motivo_sintomas_principal"`
	DiagnosticoPrincipalCIE10    *string            `json:"diagnostico_principal_cie10"`
	DiagnosticoTextoAdicional    *string            `json:"diagnostico_texto_adicional"`
	DatosClinicosAdicionales     utils.JSONDocument `json:"datos_clinicos_adicionales_json"`
	ObservacionesPlanTratamiento *string            `json:"observaciones_plan_tratamiento"`
}

// AtencionUpdate only carries the clinically editable fields; nil leaves the column unchanged.
// Patient, origin appointment, date, age and the readmission counter are not editable here.
type AtencionUpdate struct {
	TipoAtencion                 *string            `json:"tipo_atencion"`
	MotivoSintomasPrincipal      *string            `json:"motivo_sintomas_principal"`
	DiagnosticoPrincipalCIE10    *string            `json:"diagnostico_principal_cie10"`
	DiagnosticoTextoAdicional    *string            `json:"diagnostico_texto_adicional"`
	DatosClinicosAdicionales     utils.JSONDocument `json:"datos_clinicos_adicionales_json"`
	ObservacionesPlanTratamiento *string            `json:"observaciones_plan_tratamiento"`
}

type Filter struct {
	IDPaciente   *int64
	CitaIDOrigen *int64
	common.Page
}
