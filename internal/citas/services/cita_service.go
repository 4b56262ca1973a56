package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	atencionModels "github.com/c14220110/hospital-backend/internal/atenciones/models"
	atencionServices "github.com/c14220110/hospital-backend/internal/atenciones/services"
	"github.com/c14220110/hospital-backend/internal/citas/models"
	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/pkg/utils"
)

const selectCita = `SELECT c.id, c.paciente_id, c.doctor_id, c.fecha, c.motivo, c.estado, c.notas,
	c.especialidad_cita, c.creado_en, p.nombre, p.apellido, p.dni, d.nombre, d.apellidos, d.especialidad
	FROM citas c
	JOIN pacientes p ON p.id = c.paciente_id
	JOIN doctores d ON d.id = c.doctor_id`

// DefaultTipoAtencion is used for attentions promoted from an appointment without an explicit type.
const DefaultTipoAtencion = "Consulta Ambulatoria"

type CitaService struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewCitaService(db *sql.DB) *CitaService {
	return &CitaService{DB: db, Now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCita(row rowScanner) (models.Cita, error) {
	var (
		c        models.Cita
		notas    sql.NullString
		creadoEn sql.NullTime
	)
	err := row.Scan(&c.ID, &c.PacienteID, &c.DoctorID, &c.Fecha, &c.Motivo, &c.Estado, &notas,
		&c.EspecialidadCita, &creadoEn, &c.PacienteNombre, &c.PacienteApellido, &c.PacienteDNI,
		&c.DoctorNombre, &c.DoctorApellidos, &c.DoctorEspecialidadActual)
	if err != nil {
		return c, err
	}
	if notas.Valid {
		c.Notas = &notas.String
	}
	if creadoEn.Valid {
		c.CreadoEn = &creadoEn.Time
	}
	return c, nil
}

// List returns appointments newest first.
func (s *CitaService) List(ctx context.Context, f models.Filter) ([]models.Cita, error) {
	query := selectCita + " WHERE 1=1"
	var args []any
	if f.PacienteID != nil {
		query += " AND c.paciente_id = ?"
		args = append(args, *f.PacienteID)
	}
	if f.DoctorID != nil {
		query += " AND c.doctor_id = ?"
		args = append(args, *f.DoctorID)
	}
	if f.Estado != nil {
		query += " AND c.estado = ?"
		args = append(args, string(*f.Estado))
	}
	query += " ORDER BY c.fecha DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query citas: %w", err)
	}
	defer rows.Close()

	citas := []models.Cita{}
	for rows.Next() {
		c, err := scanCita(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cita: %w", err)
		}
		citas = append(citas, c)
	}
	return citas, rows.Err()
}

func (s *CitaService) Get(ctx context.Context, id int64) (*models.Cita, error) {
	c, err := scanCita(s.DB.QueryRowContext(ctx, selectCita+" WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Cita no encontrada")
	}
	if err != nil {
		return nil, fmt.Errorf("get cita %d: %w", id, err)
	}
	return &c, nil
}

func validate(in *models.CitaInput) (time.Time, error) {
	if in.PacienteID <= 0 || in.DoctorID <= 0 || strings.TrimSpace(in.Fecha) == "" ||
		strings.TrimSpace(in.Motivo) == "" || strings.TrimSpace(in.EspecialidadCita) == "" {
		return time.Time{}, common.BadRequest("Paciente, doctor, fecha, motivo y especialidad de la cita son requeridos.")
	}
	fecha, err := common.ParseDateTime(in.Fecha)
	if err != nil {
		return time.Time{}, common.BadRequest("Formato de fecha inválido.")
	}
	if in.Estado != "" && !in.Estado.Valid() {
		return time.Time{}, common.BadRequest("Estado de cita inválido: %s", in.Estado)
	}
	return fecha, nil
}

func classifyWrite(err error, in models.CitaInput, op string) error {
	if mariadb.IsForeignKeyViolation(err) {
		switch mariadb.ConstraintName(err) {
		case "fk_citas_paciente":
			return common.Wrap(http.StatusBadRequest, fmt.Sprintf("El paciente con ID %d no existe.", in.PacienteID), err)
		case "fk_citas_doctor":
			return common.Wrap(http.StatusBadRequest, fmt.Sprintf("El doctor con ID %d no existe.", in.DoctorID), err)
		}
		return common.Wrap(http.StatusBadRequest, "Paciente o doctor inexistente.", err)
	}
	return fmt.Errorf("%s cita: %w", op, err)
}

func (s *CitaService) Create(ctx context.Context, in models.CitaInput) (*models.Cita, error) {
	fecha, err := validate(&in)
	if err != nil {
		return nil, err
	}
	if in.Estado == "" {
		in.Estado = models.EstadoPendiente
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO citas (paciente_id, doctor_id, fecha, motivo, estado, notas, especialidad_cita)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.PacienteID, in.DoctorID, fecha, in.Motivo, string(in.Estado), in.Notas, in.EspecialidadCita)
	if err != nil {
		return nil, classifyWrite(err, in, "insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert cita: %w", err)
	}
	return s.Get(ctx, id)
}

// Update replaces the appointment fields. An empty estado keeps the stored one.
func (s *CitaService) Update(ctx context.Context, id int64, in models.CitaInput) (*models.Cita, error) {
	fecha, err := validate(&in)
	if err != nil {
		return nil, err
	}
	var estado any
	if in.Estado != "" {
		estado = string(in.Estado)
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE citas SET paciente_id = ?, doctor_id = ?, fecha = ?, motivo = ?, estado = COALESCE(?, estado),
		notas = ?, especialidad_cita = ? WHERE id = ?`,
		in.PacienteID, in.DoctorID, fecha, in.Motivo, estado, in.Notas, in.EspecialidadCita, id)
	if err != nil {
		return nil, classifyWrite(err, in, "update")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Cita no encontrada")
	}
	return s.Get(ctx, id)
}

func (s *CitaService) UpdateEstado(ctx context.Context, id int64, estado models.AppointmentStatus) (*models.Cita, error) {
	if !estado.Valid() {
		return nil, common.BadRequest("Estado de cita inválido: %s", estado)
	}
	res, err := s.DB.ExecContext(ctx, "UPDATE citas SET estado = ? WHERE id = ?", string(estado), id)
	if err != nil {
		return nil, fmt.Errorf("update estado cita %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Cita no encontrada")
	}
	return s.Get(ctx, id)
}

func (s *CitaService) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM citas WHERE id = ?", id)
	if err != nil {
		if mariadb.IsReferenced(err) {
			return common.Wrap(http.StatusConflict, "No se puede eliminar la cita porque ya tiene una atención asociada.", err)
		}
		return fmt.Errorf("delete cita %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFound("Cita no encontrada")
	}
	return nil
}

// Promote turns an appointment into an attention. The insert and the status change share one
// transaction; the unique index on cita_id_origen makes a repeated or concurrent promotion
// return the existing attention with Creada=false.
func (s *CitaService) Promote(ctx context.Context, id int64, req models.PromotionRequest) (*models.PromotionResult, error) {
	var (
		pacienteID int64
		fecha      time.Time
		motivo     string
		estado     models.AppointmentStatus
		notas      sql.NullString
		nacimiento time.Time
	)
	err := s.DB.QueryRowContext(ctx, `SELECT c.paciente_id, c.fecha, c.motivo, c.estado, c.notas, p.fecha_nacimiento
		FROM citas c JOIN pacientes p ON p.id = c.paciente_id WHERE c.id = ?`, id).
		Scan(&pacienteID, &fecha, &motivo, &estado, &notas, &nacimiento)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Cita no encontrada")
	}
	if err != nil {
		return nil, fmt.Errorf("load cita %d: %w", id, err)
	}

	tipo := DefaultTipoAtencion
	if req.TipoAtencion != nil && strings.TrimSpace(*req.TipoAtencion) != "" {
		tipo = strings.TrimSpace(*req.TipoAtencion)
	}
	edad := utils.AgeAt(nacimiento, s.Now())
	diag := fmt.Sprintf("Atención originada de cita ID %d.", id)
	if notas.Valid && strings.TrimSpace(notas.String) != "" {
		diag += " Notas de cita: " + notas.String
	}
	citaID := id
	in := atencionModels.AtencionInput{
		IDPaciente:                pacienteID,
		CitaIDOrigen:              &citaID,
		FechaAtencion:             fecha.Format(time.RFC3339),
		TipoAtencion:              &tipo,
		EdadPacienteAtencion:      &edad,
		MotivoSintomasPrincipal:   &motivo,
		DiagnosticoTextoAdicional: &diag,
	}
	marcar := req.MarcarCompletada == nil || *req.MarcarCompletada

	result := &models.PromotionResult{}
	err = mariadb.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		newID, err := atencionServices.InsertWith(ctx, tx, in)
		switch {
		case err == nil:
			result.Creada = true
			result.Atencion, err = atencionServices.GetWith(ctx, tx, newID)
		case mariadb.IsDuplicate(err):
			result.Atencion, err = atencionServices.FindByCitaWith(ctx, tx, id)
		}
		if err != nil {
			return err
		}

		if marcar && estado != models.EstadoCompletada {
			if _, err := tx.ExecContext(ctx, "UPDATE citas SET estado = ? WHERE id = ?", string(models.EstadoCompletada), id); err != nil {
				return fmt.Errorf("complete cita %d: %w", id, err)
			}
			result.EstadoCambiado = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
