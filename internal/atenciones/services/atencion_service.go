package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/c14220110/hospital-backend/internal/atenciones/models"
	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/pkg/utils"
	"github.com/rs/zerolog"
)

const selectAtencion = `SELECT id_atencion, id_paciente, cita_id_origen, fecha_atencion, tipo_atencion,
	edad_paciente_atencion, motivo_sintomas_principal, diagnostico_principal_cie10, diagnostico_texto_adicional,
	datos_clinicos_adicionales_json, observaciones_plan_tratamiento, numero_reingresos_en_30_dias_posteriores,
	creado_en, actualizado_en
	FROM atenciones`

type AtencionService struct {
	DB *sql.DB
}

func NewAtencionService(db *sql.DB) *AtencionService {
	return &AtencionService{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func ptrString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// scanAtencion decodes one row. Clinical JSON that does not parse is reported with
// DatosClinicosInvalidos and an error log rather than failing the read.
func scanAtencion(ctx context.Context, row rowScanner) (models.Atencion, error) {
	var (
		a                                   models.Atencion
		citaID, edad                        sql.NullInt64
		tipo, motivo, cie10, diagTexto, obs sql.NullString
		datos                               sql.NullString
		creadoEn, actualizadoEn             sql.NullTime
	)
	err := row.Scan(&a.IDAtencion, &a.IDPaciente, &citaID, &a.FechaAtencion, &tipo, &edad, &motivo, &cie10,
		&diagTexto, &datos, &obs, &a.NumeroReingresos30Dias, &creadoEn, &actualizadoEn)
	if err != nil {
		return a, err
	}

	if citaID.Valid {
		a.CitaIDOrigen = &citaID.Int64
	}
	if edad.Valid {
		e := int(edad.Int64)
		a.EdadPacienteAtencion = &e
	}
	a.TipoAtencion = ptrString(tipo)
	a.MotivoSintomasPrincipal = ptrString(motivo)
	a.DiagnosticoPrincipalCIE10 = ptrString(cie10)
	a.DiagnosticoTextoAdicional = ptrString(diagTexto)
	a.ObservacionesPlanTratamiento = ptrString(obs)
	if creadoEn.Valid {
		a.CreadoEn = &creadoEn.Time
	}
	if actualizadoEn.Valid {
		a.ActualizadoEn = &actualizadoEn.Time
	}

	doc, err := utils.ParseJSONDocument(ptrString(datos))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("id_atencion", a.IDAtencion).
			Msg("datos_clinicos_adicionales_json is not valid JSON")
		a.DatosClinicosInvalidos = true
	} else {
		a.DatosClinicosAdicionales = doc
	}
	return a, nil
}

func (s *AtencionService) List(ctx context.Context, f models.Filter) ([]models.Atencion, error) {
	query := selectAtencion + " WHERE 1=1"
	var args []any
	if f.IDPaciente != nil {
		query += " AND id_paciente = ?"
		args = append(args, *f.IDPaciente)
	}
	if f.CitaIDOrigen != nil {
		query += " AND cita_id_origen = ?"
		args = append(args, *f.CitaIDOrigen)
	}
	query += " ORDER BY fecha_atencion DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query atenciones: %w", err)
	}
	defer rows.Close()

	atenciones := []models.Atencion{}
	for rows.Next() {
		a, err := scanAtencion(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("scan atencion: %w", err)
		}
		atenciones = append(atenciones, a)
	}
	return atenciones, rows.Err()
}

func (s *AtencionService) Get(ctx context.Context, id int64) (*models.Atencion, error) {
	return GetWith(ctx, s.DB, id)
}

// GetWith reads an attention through q, which may be a transaction.
func GetWith(ctx context.Context, q mariadb.DBTX, id int64) (*models.Atencion, error) {
	a, err := scanAtencion(ctx, q.QueryRowContext(ctx, selectAtencion+" WHERE id_atencion = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Atención no encontrada")
	}
	if err != nil {
		return nil, fmt.Errorf("get atencion %d: %w", id, err)
	}
	return &a, nil
}

// FindByCitaWith returns the attention promoted from citaID, or a 404 AppError.
func FindByCitaWith(ctx context.Context, q mariadb.DBTX, citaID int64) (*models.Atencion, error) {
	a, err := scanAtencion(ctx, q.QueryRowContext(ctx, selectAtencion+" WHERE cita_id_origen = ?", citaID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("No existe atención para la cita %d", citaID)
	}
	if err != nil {
		return nil, fmt.Errorf("get atencion for cita %d: %w", citaID, err)
	}
	return &a, nil
}

// InsertWith stores a new attention with the readmission counter at zero and returns its id.
// A second attention for the same origin appointment fails with a 409 AppError that still
// matches mariadb.IsDuplicate.
func InsertWith(ctx context.Context, q mariadb.DBTX, in models.AtencionInput) (int64, error) {
	if in.IDPaciente <= 0 || in.FechaAtencion == "" {
		return 0, common.BadRequest("ID de paciente y fecha de atención son requeridos.")
	}
	fecha, err := common.ParseDateTime(in.FechaAtencion)
	if err != nil {
		return 0, common.BadRequest("Formato de fecha_atencion inválido.")
	}
	datos, err := in.DatosClinicosAdicionales.Stringify()
	if err != nil {
		return 0, common.BadRequest("datos_clinicos_adicionales_json no es un objeto JSON válido.")
	}

	res, err := q.ExecContext(ctx, `INSERT INTO atenciones (
		id_paciente, cita_id_origen, fecha_atencion, tipo_atencion, edad_paciente_atencion,
		motivo_sintomas_principal, diagnostico_principal_cie10, diagnostico_texto_adicional,
		datos_clinicos_adicionales_json, observaciones_plan_tratamiento, numero_reingresos_en_30_dias_posteriores
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		in.IDPaciente, in.CitaIDOrigen, fecha, in.TipoAtencion, in.EdadPacienteAtencion,
		in.MotivoSintomasPrincipal, in.DiagnosticoPrincipalCIE10, in.DiagnosticoTextoAdicional,
		datos, in.ObservacionesPlanTratamiento)
	if err != nil {
		return 0, classifyInsert(err, in)
	}
	return res.LastInsertId()
}

func classifyInsert(err error, in models.AtencionInput) error {
	switch {
	case mariadb.IsForeignKeyViolation(err):
		switch mariadb.ConstraintName(err) {
		case "fk_atenc_cnt_paciente":
			return common.Wrap(http.StatusBadRequest, fmt.Sprintf("El paciente con ID %d no existe.", in.IDPaciente), err)
		case "fk_atenc_cnt_cita_origen":
			var cita int64
			if in.CitaIDOrigen != nil {
				cita = *in.CitaIDOrigen
			}
			return common.Wrap(http.StatusBadRequest, fmt.Sprintf("La cita con ID %d no existe.", cita), err)
		}
		return common.Wrap(http.StatusBadRequest, "Referencia inválida en la atención.", err)
	case mariadb.IsDuplicate(err) && in.CitaIDOrigen != nil:
		return common.Wrap(http.StatusConflict, fmt.Sprintf("Ya existe una atención registrada para la cita %d.", *in.CitaIDOrigen), err)
	}
	return fmt.Errorf("insert atencion: %w", err)
}

func (s *AtencionService) Create(ctx context.Context, in models.AtencionInput) (*models.Atencion, error) {
	id, err := InsertWith(ctx, s.DB, in)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update applies a partial update; absent fields keep their stored value.
func (s *AtencionService) Update(ctx context.Context, id int64, upd models.AtencionUpdate) (*models.Atencion, error) {
	datos, err := upd.DatosClinicosAdicionales.Stringify()
	if err != nil {
		return nil, common.BadRequest("datos_clinicos_adicionales_json no es un objeto JSON válido.")
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE atenciones SET
		tipo_atencion = COALESCE(?, tipo_atencion),
		motivo_sintomas_principal = COALESCE(?, motivo_sintomas_principal),
		diagnostico_principal_cie10 = COALESCE(?, diagnostico_principal_cie10),
		diagnostico_texto_adicional = COALESCE(?, diagnostico_texto_adicional),
		datos_clinicos_adicionales_json = COALESCE(?, datos_clinicos_adicionales_json),
		observaciones_plan_tratamiento = COALESCE(?, observaciones_plan_tratamiento),
		actualizado_en = CURRENT_TIMESTAMP
		WHERE id_atencion = ?`,
		upd.TipoAtencion, upd.MotivoSintomasPrincipal, upd.DiagnosticoPrincipalCIE10,
		upd.DiagnosticoTextoAdicional, datos, upd.ObservacionesPlanTratamiento, id)
	if err != nil {
		return nil, fmt.Errorf("update atencion %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Atención no encontrada para actualizar")
	}
	return s.Get(ctx, id)
}

func (s *AtencionService) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM atenciones WHERE id_atencion = ?", id)
	if err != nil {
		if mariadb.IsReferenced(err) {
			return common.Wrap(http.StatusConflict, "La atención tiene historial clínico asociado y no puede eliminarse.", err)
		}
		return fmt.Errorf("delete atencion %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFound("Atención no encontrada para eliminar")
	}
	return nil
}
