package models

import (
	"time"

	atencionModels "github.com/c14220110/hospital-backend/internal/atenciones/models"
)

type AppointmentStatus string

const (
	EstadoPendiente    AppointmentStatus = "pendiente"
	EstadoConfirmada   AppointmentStatus = "confirmada"
	EstadoCompletada   AppointmentStatus = "completada"
	EstadoCancelada    AppointmentStatus = "cancelada"
	EstadoReprogramada AppointmentStatus = "reprogramada"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case EstadoPendiente, EstadoConfirmada, EstadoCompletada, EstadoCancelada, EstadoReprogramada:
		return true
	}
	return false
}

// Cita is an appointment joined with the patient and doctor it belongs to.
type Cita struct {
	ID                       int64             `json:"id"`
	PacienteID               int64             `json:"paciente_id"`
	DoctorID                 int64             `json:"doctor_id"`
	Fecha                    time.Time         `json:"fecha"`
	Motivo                   string            `json:"motivo"`
	Estado                   AppointmentStatus `json:"estado"`
	Notas                    *string           `json:"notas"`
	EspecialidadCita         string            `json:"especialidad_cita"`
	CreadoEn                 *time.Time        `json:"creado_en"`
	PacienteNombre           string            `json:"paciente_nombre"`
	PacienteApellido         string            `json:"paciente_apellido"`
	PacienteDNI              string            `json:"paciente_dni"`
	DoctorNombre             string            `json:"doctor_nombre"`
	DoctorApellidos          string            `json:"doctor_apellidos"`
	DoctorEspecialidadActual string            `json:"doctor_especialidad_actual"`
}

type CitaInput struct {
	PacienteID       int64             `json:"paciente_id"`
	DoctorID         int64             `json:"doctor_id"`
	Fecha            string            `json:"fecha"`
	Motivo           string            `json:"motivo"`
	Estado           AppointmentStatus `json:"estado"`
	Notas            *string           `json:"notas"`
	EspecialidadCita string            `json:"especialidad_cita"`
}

type Filter struct {
	PacienteID *int64
	DoctorID   *int64
	Estado     *AppointmentStatus
}

// PromotionRequest is the optional body of POST /citas/:id/atencion. MarcarCompletada
// defaults to true when absent.
type PromotionRequest struct {
	MarcarCompletada *bool   `json:"marcar_completada"`
	TipoAtencion     *string `json:"tipo_atencion"`
}

type PromotionResult struct {
	Creada   bool                     `json:"creada"`
	Atencion *atencionModels.Atencion `json:"atencion"`
	// EstadoCambiado is true when the appointment moved to completada during the promotion.
	EstadoCambiado bool `json:"-"`
}
