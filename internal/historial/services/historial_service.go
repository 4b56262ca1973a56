package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/internal/historial/models"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/pkg/utils"
)

const selectHistorial = `SELECT id_historial, id_paciente, id_atencion, fecha_registro_historial, edad, genero,
	enfermedad, medicamentos_actuales, observaciones, tiempo_ultima_atencion_dias, visitas_ultimos_30_dias,
	visitas_ultimos_6_meses, hospitalizaciones_ultimo_anio
	FROM historial_clinico`

type HistorialService struct {
	DB *sql.DB
}

func NewHistorialService(db *sql.DB) *HistorialService {
	return &HistorialService{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func scanHistorial(row rowScanner) (models.Historial, error) {
	var (
		h                                     models.Historial
		atencion                              sql.NullInt64
		edad, tiempo, v30, v6m, hosp          sql.NullInt64
		genero, enfermedad, medicamentos, obs sql.NullString
	)
	err := row.Scan(&h.IDHistorial, &h.IDPaciente, &atencion, &h.FechaRegistroHistorial, &edad, &genero,
		&enfermedad, &medicamentos, &obs, &tiempo, &v30, &v6m, &hosp)
	if err != nil {
		return h, err
	}
	if atencion.Valid {
		h.IDAtencion = &atencion.Int64
	}
	h.Edad = intPtr(edad)
	h.Genero = strPtr(genero)
	h.Enfermedad = strPtr(enfermedad)
	h.MedicamentosActuales = strPtr(medicamentos)
	h.Observaciones = strPtr(obs)
	h.TiempoUltimaAtencionDias = intPtr(tiempo)
	h.VisitasUltimos30Dias = intPtr(v30)
	h.VisitasUltimos6Meses = intPtr(v6m)
	h.HospitalizacionesUltimoAnio = intPtr(hosp)
	return h, nil
}

// ByPaciente returns the patient header and the history, newest entry first.
func (s *HistorialService) ByPaciente(ctx context.Context, pacienteID int64) (*models.HistorialPaciente, error) {
	var (
		p        models.PacienteCabecera
		fechaNac time.Time
		foto     []byte
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, nombre, apellido, dni, fecha_nacimiento, genero, foto FROM pacientes WHERE id = ?", pacienteID).
		Scan(&p.ID, &p.Nombre, &p.Apellido, &p.DNI, &fechaNac, &p.Genero, &foto)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Paciente no encontrado.")
	}
	if err != nil {
		return nil, fmt.Errorf("get paciente %d: %w", pacienteID, err)
	}
	p.FechaNacimiento = common.NewDate(fechaNac)
	p.FotoBase64 = utils.PhotoBase64(foto)

	rows, err := s.DB.QueryContext(ctx,
		selectHistorial+" WHERE id_paciente = ? ORDER BY fecha_registro_historial DESC, id_historial DESC", pacienteID)
	if err != nil {
		return nil, fmt.Errorf("query historial: %w", err)
	}
	defer rows.Close()

	out := &models.HistorialPaciente{Paciente: p, Historial: []models.Historial{}}
	for rows.Next() {
		h, err := scanHistorial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		out.Historial = append(out.Historial, h)
	}
	return out, rows.Err()
}

// Latest returns the most recent entry of a patient.
func (s *HistorialService) Latest(ctx context.Context, pacienteID int64) (*models.Historial, error) {
	h, err := scanHistorial(s.DB.QueryRowContext(ctx,
		selectHistorial+" WHERE id_paciente = ? ORDER BY fecha_registro_historial DESC, id_historial DESC LIMIT 1", pacienteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("No hay historial clínico registrado para el paciente %d.", pacienteID)
	}
	if err != nil {
		return nil, fmt.Errorf("latest historial %d: %w", pacienteID, err)
	}
	return &h, nil
}

func (s *HistorialService) Get(ctx context.Context, id int64) (*models.Historial, error) {
	h, err := scanHistorial(s.DB.QueryRowContext(ctx, selectHistorial+" WHERE id_historial = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Entrada de historial no encontrada.")
	}
	if err != nil {
		return nil, fmt.Errorf("get historial %d: %w", id, err)
	}
	return &h, nil
}

func (s *HistorialService) Create(ctx context.Context, in models.HistorialInput) (*models.Historial, error) {
	if in.IDPaciente <= 0 {
		return nil, common.BadRequest("El ID del paciente es requerido.")
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO historial_clinico (
		id_paciente, id_atencion, edad, genero, enfermedad, medicamentos_actuales, observaciones,
		tiempo_ultima_atencion_dias, visitas_ultimos_30_dias, visitas_ultimos_6_meses, hospitalizaciones_ultimo_anio
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.IDPaciente, in.IDAtencion, in.Edad, in.Genero, in.Enfermedad, in.MedicamentosActuales, in.Observaciones,
		in.TiempoUltimaAtencionDias, in.VisitasUltimos30Dias, in.VisitasUltimos6Meses, in.HospitalizacionesUltimoAnio)
	if err != nil {
		if mariadb.IsForeignKeyViolation(err) {
			if mariadb.ConstraintName(err) == "fk_historial_atencion" && in.IDAtencion != nil {
				return nil, common.Wrap(http.StatusBadRequest, fmt.Sprintf("La atención con ID %d no existe.", *in.IDAtencion), err)
			}
			return nil, common.Wrap(http.StatusBadRequest, fmt.Sprintf("El paciente con ID %d no existe.", in.IDPaciente), err)
		}
		return nil, fmt.Errorf("insert historial: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert historial: %w", err)
	}
	return s.Get(ctx, id)
}

// Update changes only the fields present in upd.
func (s *HistorialService) Update(ctx context.Context, id int64, upd models.HistorialInput) (*models.Historial, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE historial_clinico SET
		id_atencion = COALESCE(?, id_atencion),
		edad = COALESCE(?, edad),
		genero = COALESCE(?, genero),
		enfermedad = COALESCE(?, enfermedad),
		medicamentos_actuales = COALESCE(?, medicamentos_actuales),
		observaciones = COALESCE(?, observaciones),
		tiempo_ultima_atencion_dias = COALESCE(?, tiempo_ultima_atencion_dias),
		visitas_ultimos_30_dias = COALESCE(?, visitas_ultimos_30_dias),
		visitas_ultimos_6_meses = COALESCE(?, visitas_ultimos_6_meses),
		hospitalizaciones_ultimo_anio = COALESCE(?, hospitalizaciones_ultimo_anio)
		WHERE id_historial = ?`,
		upd.IDAtencion, upd.Edad, upd.Genero, upd.Enfermedad, upd.MedicamentosActuales, upd.Observaciones,
		upd.TiempoUltimaAtencionDias, upd.VisitasUltimos30Dias, upd.VisitasUltimos6Meses, upd.HospitalizacionesUltimoAnio, id)
	if err != nil {
		if mariadb.IsForeignKeyViolation(err) && upd.IDAtencion != nil {
			return nil, common.Wrap(http.StatusBadRequest, fmt.Sprintf("La atención con ID %d no existe.", *upd.IDAtencion), err)
		}
		return nil, fmt.Errorf("update historial %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Entrada de historial no encontrada.")
	}
	return s.Get(ctx, id)
}
