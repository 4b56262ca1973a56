package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/internal/habitaciones/models"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
)

const selectAsignacion = `SELECT a.id, a.paciente_id, a.doctor_id, a.habitacion_disponible_id, a.fecha_ingreso,
	a.fecha_salida_estimada, a.estado_paciente, a.motivo_ingreso, a.creado_en, h.numero, h.tipo,
	p.nombre, p.apellido, d.nombre, d.apellidos
	FROM habitaciones_asignadas a
	JOIN habitaciones_disponibles h ON h.id = a.habitacion_disponible_id
	JOIN pacientes p ON p.id = a.paciente_id
	JOIN doctores d ON d.id = a.doctor_id`

type HabitacionService struct {
	DB *sql.DB
}

func NewHabitacionService(db *sql.DB) *HabitacionService {
	return &HabitacionService{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ListHabitaciones returns the room pool ordered by number, optionally only rooms in estado.
func (s *HabitacionService) ListHabitaciones(ctx context.Context, estado *models.RoomStatus) ([]models.Habitacion, error) {
	query := "SELECT id, numero, tipo, estado FROM habitaciones_disponibles"
	var args []any
	if estado != nil {
		query += " WHERE estado = ?"
		args = append(args, string(*estado))
	}
	query += " ORDER BY numero ASC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query habitaciones: %w", err)
	}
	defer rows.Close()

	habitaciones := []models.Habitacion{}
	for rows.Next() {
		var h models.Habitacion
		if err := rows.Scan(&h.ID, &h.Numero, &h.Tipo, &h.Estado); err != nil {
			return nil, fmt.Errorf("scan habitacion: %w", err)
		}
		habitaciones = append(habitaciones, h)
	}
	return habitaciones, rows.Err()
}

func scanAsignacion(row rowScanner) (models.Asignacion, error) {
	var (
		a        models.Asignacion
		salida   sql.NullTime
		motivo   sql.NullString
		creadoEn sql.NullTime
	)
	err := row.Scan(&a.ID, &a.PacienteID, &a.DoctorID, &a.HabitacionDisponibleID, &a.FechaIngreso, &salida,
		&a.EstadoPaciente, &motivo, &creadoEn, &a.HabitacionNumero, &a.HabitacionTipo,
		&a.PacienteNombre, &a.PacienteApellido, &a.DoctorNombre, &a.DoctorApellidos)
	if err != nil {
		return a, err
	}
	if salida.Valid {
		a.FechaSalidaEstimada = &salida.Time
	}
	if motivo.Valid {
		a.MotivoIngreso = &motivo.String
	}
	if creadoEn.Valid {
		a.CreadoEn = &creadoEn.Time
	}
	return a, nil
}

func (s *HabitacionService) ListAsignaciones(ctx context.Context) ([]models.Asignacion, error) {
	rows, err := s.DB.QueryContext(ctx, selectAsignacion+" ORDER BY a.fecha_ingreso DESC")
	if err != nil {
		return nil, fmt.Errorf("query asignaciones: %w", err)
	}
	defer rows.Close()

	asignaciones := []models.Asignacion{}
	for rows.Next() {
		a, err := scanAsignacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asignacion: %w", err)
		}
		asignaciones = append(asignaciones, a)
	}
	return asignaciones, rows.Err()
}

func (s *HabitacionService) GetAsignacion(ctx context.Context, id int64) (*models.Asignacion, error) {
	a, err := scanAsignacion(s.DB.QueryRowContext(ctx, selectAsignacion+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Asignación no encontrada.")
	}
	if err != nil {
		return nil, fmt.Errorf("get asignacion %d: %w", id, err)
	}
	return &a, nil
}

func validateAsignacion(in *models.AsignacionInput) (time.Time, *time.Time, error) {
	if in.PacienteID <= 0 || in.DoctorID <= 0 || in.HabitacionDisponibleID <= 0 || in.FechaIngreso == "" {
		return time.Time{}, nil, common.BadRequest("Paciente, doctor, habitación y fecha de ingreso son requeridos.")
	}
	ingreso, err := common.ParseDateTime(in.FechaIngreso)
	if err != nil {
		return time.Time{}, nil, common.BadRequest("Formato de fecha_ingreso inválido.")
	}
	var salida *time.Time
	if in.FechaSalidaEstimada != nil && *in.FechaSalidaEstimada != "" {
		t, err := common.ParseDateTime(*in.FechaSalidaEstimada)
		if err != nil {
			return time.Time{}, nil, common.BadRequest("Formato de fecha_salida_estimada inválido.")
		}
		if t.Before(ingreso) {
			return time.Time{}, nil, common.BadRequest("La fecha de salida estimada no puede ser anterior al ingreso.")
		}
		salida = &t
	}
	if in.EstadoPaciente == "" {
		in.EstadoPaciente = models.CondicionEstable
	}
	if !in.EstadoPaciente.Valid() {
		return time.Time{}, nil, common.BadRequest("Estado de paciente inválido: %s", in.EstadoPaciente)
	}
	return ingreso, salida, nil
}

// Assign locks the room row, rejects an occupied room, stores the assignment and marks the room
// occupied, all in one transaction.
func (s *HabitacionService) Assign(ctx context.Context, in models.AsignacionInput) (*models.Asignacion, error) {
	ingreso, salida, err := validateAsignacion(&in)
	if err != nil {
		return nil, err
	}

	var id int64
	err = mariadb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var estado models.RoomStatus
		err := tx.QueryRowContext(ctx, "SELECT estado FROM habitaciones_disponibles WHERE id = ? FOR UPDATE",
			in.HabitacionDisponibleID).Scan(&estado)
		if errors.Is(err, sql.ErrNoRows) {
			return common.NotFound("Habitación con ID %d no encontrada.", in.HabitacionDisponibleID)
		}
		if err != nil {
			return fmt.Errorf("lock habitacion %d: %w", in.HabitacionDisponibleID, err)
		}
		if estado == models.EstadoOcupada {
			return common.Conflict("La habitación ya se encuentra ocupada.")
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO habitaciones_asignadas
			(paciente_id, doctor_id, habitacion_disponible_id, fecha_ingreso, fecha_salida_estimada, estado_paciente, motivo_ingreso)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			in.PacienteID, in.DoctorID, in.HabitacionDisponibleID, ingreso, salida, string(in.EstadoPaciente), in.MotivoIngreso)
		if err != nil {
			if mariadb.IsForeignKeyViolation(err) {
				if mariadb.ConstraintName(err) == "fk_asig_doctor" {
					return common.Wrap(http.StatusBadRequest, fmt.Sprintf("El doctor con ID %d no existe.", in.DoctorID), err)
				}
				return common.Wrap(http.StatusBadRequest, fmt.Sprintf("El paciente con ID %d no existe.", in.PacienteID), err)
			}
			return fmt.Errorf("insert asignacion: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert asignacion: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "UPDATE habitaciones_disponibles SET estado = ? WHERE id = ?",
			string(models.EstadoOcupada), in.HabitacionDisponibleID); err != nil {
			return fmt.Errorf("ocupar habitacion %d: %w", in.HabitacionDisponibleID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAsignacion(ctx, id)
}

// Release deletes the assignment and frees its room in one transaction. It returns the freed
// room id.
func (s *HabitacionService) Release(ctx context.Context, id int64) (int64, error) {
	var habitacionID int64
	err := mariadb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, "SELECT habitacion_disponible_id FROM habitaciones_asignadas WHERE id = ? FOR UPDATE", id).
			Scan(&habitacionID)
		if errors.Is(err, sql.ErrNoRows) {
			return common.NotFound("Asignación no encontrada.")
		}
		if err != nil {
			return fmt.Errorf("lock asignacion %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM habitaciones_asignadas WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete asignacion %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE habitaciones_disponibles SET estado = ? WHERE id = ?",
			string(models.EstadoDisponible), habitacionID); err != nil {
			return fmt.Errorf("liberar habitacion %d: %w", habitacionID, err)
		}
		return nil
	})
	return habitacionID, err
}

// UpdateCondicion changes the patient status of an active assignment.
func (s *HabitacionService) UpdateCondicion(ctx context.Context, id int64, estado models.PatientCondition) (*models.Asignacion, error) {
	if !estado.Valid() {
		return nil, common.BadRequest("Estado de paciente inválido: %s", estado)
	}
	res, err := s.DB.ExecContext(ctx, "UPDATE habitaciones_asignadas SET estado_paciente = ? WHERE id = ?", string(estado), id)
	if err != nil {
		return nil, fmt.Errorf("update estado_paciente %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Asignación no encontrada.")
	}
	return s.GetAsignacion(ctx, id)
}
