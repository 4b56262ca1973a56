package models

import "time"

type RoomType string

const (
	TipoGeneral RoomType = "General"
	TipoPrivada RoomType = "Privada"
)

type RoomStatus string

const (
	EstadoDisponible RoomStatus = "Disponible"
	EstadoOcupada    RoomStatus = "Ocupada"
)

func (s RoomStatus) Valid() bool {
	return s == EstadoDisponible || s == EstadoOcupada
}

type PatientCondition string

const (
	CondicionEstable     PatientCondition = "Estable"
	CondicionObservacion PatientCondition = "Observación"
	CondicionCritico     PatientCondition = "Crítico"
)

func (c PatientCondition) Valid() bool {
	switch c {
	case CondicionEstable, CondicionObservacion, CondicionCritico:
		return true
	}
	return false
}

// Habitacion is a physical room of the pool.
type Habitacion struct {
	ID     int64      `json:"id"`
	Numero string     `json:"numero"`
	Tipo   RoomType   `json:"tipo"`
	Estado RoomStatus `json:"estado"`
}

// Asignacion links a patient, a room and the attending doctor for an inpatient stay.
type Asignacion struct {
	ID                     int64            `json:"id"`
	PacienteID             int64            `json:"paciente_id"`
	DoctorID               int64            `json:"doctor_id"`
	HabitacionDisponibleID int64            `json:"habitacion_disponible_id"`
	FechaIngreso           time.Time        `json:"fecha_ingreso"`
	FechaSalidaEstimada    *time.Time       `json:"fecha_salida_estimada"`
	EstadoPaciente         PatientCondition `json:"estado_paciente"`
	MotivoIngreso          *string          `json:"motivo_ingreso"`
	CreadoEn               *time.Time       `json:"creado_en"`
	HabitacionNumero       string           `json:"habitacion_numero"`
	HabitacionTipo         RoomType         `json:"habitacion_tipo"`
	PacienteNombre         string           `json:"paciente_nombre"`
	PacienteApellido       string           `json:"paciente_apellido"`
	DoctorNombre           string           `json:"doctor_nombre"`
	DoctorApellidos        string           `json:"doctor_apellidos"`
}

type AsignacionInput struct {
	PacienteID             int64            `json:"paciente_id"`
	DoctorID               int64            `json:"doctor_id"`
	HabitacionDisponibleID int64            `json:"habitacion_disponible_id"`
	FechaIngreso           string           `json:"fecha_ingreso"`
	FechaSalidaEstimada    *string          `json:"fecha_salida_estimada"`
	EstadoPaciente         PatientCondition `json:"estado_paciente"`
	MotivoIngreso          *string          `json:"motivo_ingreso"`
}
