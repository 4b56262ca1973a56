package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/internal/pacientes/models"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/pkg/utils"
)

const selectPaciente = `SELECT id, usuario_id, nombre, apellido, dni, fecha_nacimiento,
	TIMESTAMPDIFF(YEAR, fecha_nacimiento, CURDATE()) AS edad, genero, telefono, direccion, notas,
	foto, activo, creado_en
	FROM pacientes`

type PacienteService struct {
	DB *sql.DB
}

func NewPacienteService(db *sql.DB) *PacienteService {
	return &PacienteService{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaciente(row rowScanner) (models.Paciente, error) {
	var (
		p         models.Paciente
		usuarioID sql.NullInt64
		fechaNac  time.Time
		edad      sql.NullInt64
		telefono  sql.NullString
		direccion sql.NullString
		notas     sql.NullString
		creadoEn  sql.NullTime
	)
	err := row.Scan(&p.ID, &usuarioID, &p.Nombre, &p.Apellido, &p.DNI, &fechaNac, &edad, &p.Genero,
		&telefono, &direccion, &notas, &p.Foto, &p.Activo, &creadoEn)
	if err != nil {
		return p, err
	}

	if usuarioID.Valid {
		p.UsuarioID = &usuarioID.Int64
	}
	p.FechaNacimiento = common.NewDate(fechaNac)
	if edad.Valid {
		e := int(edad.Int64)
		p.Edad = &e
	}
	p.Telefono = nullString(telefono)
	p.Direccion = nullString(direccion)
	p.Notas = nullString(notas)
	if creadoEn.Valid {
		p.CreadoEn = &creadoEn.Time
	}
	p.FotoBase64 = utils.PhotoBase64(p.Foto)
	p.Estado = models.StatusInactivo
	if p.Activo {
		p.Estado = models.StatusActivo
	}
	return p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func emptyToNil(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// List returns patients ordered by surname, then name.
func (s *PacienteService) List(ctx context.Context, f models.Filter) ([]models.Paciente, error) {
	query := selectPaciente
	var args []any
	if f.Estado != nil {
		query += " WHERE activo = ?"
		args = append(args, *f.Estado == models.StatusActivo)
	}
	query += " ORDER BY apellido ASC, nombre ASC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pacientes: %w", err)
	}
	defer rows.Close()

	pacientes := []models.Paciente{}
	for rows.Next() {
		p, err := scanPaciente(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paciente: %w", err)
		}
		pacientes = append(pacientes, p)
	}
	return pacientes, rows.Err()
}

func (s *PacienteService) Get(ctx context.Context, id int64) (*models.Paciente, error) {
	p, err := scanPaciente(s.DB.QueryRowContext(ctx, selectPaciente+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Paciente no encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("get paciente %d: %w", id, err)
	}
	return &p, nil
}

func validate(in models.PacienteInput) (common.Date, error) {
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Apellido) == "" ||
		strings.TrimSpace(in.DNI) == "" || in.FechaNacimiento == "" || strings.TrimSpace(in.Genero) == "" {
		return common.Date{}, common.BadRequest("Nombre, apellido, DNI, fecha de nacimiento y género son requeridos.")
	}
	fecha, err := common.ParseDate(in.FechaNacimiento)
	if err != nil {
		return common.Date{}, common.BadRequest("Formato de fecha_nacimiento inválido (use AAAA-MM-DD).")
	}
	return fecha, nil
}

// Create inserts a patient (active by default) and returns the stored row.
func (s *PacienteService) Create(ctx context.Context, in models.PacienteInput) (*models.Paciente, error) {
	fecha, err := validate(in)
	if err != nil {
		return nil, err
	}

	var foto any
	if len(in.Foto) > 0 {
		foto = in.Foto
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO pacientes (usuario_id, nombre, apellido, dni, fecha_nacimiento, genero, telefono, direccion, notas, foto)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UsuarioID, in.Nombre, in.Apellido, in.DNI, fecha.String(), in.Genero,
		emptyToNil(in.Telefono), emptyToNil(in.Direccion), emptyToNil(in.Notas), foto)
	if err != nil {
		if mariadb.IsDuplicate(err) {
			return nil, common.Wrap(http.StatusConflict, "El DNI ingresado ya está registrado.", err)
		}
		return nil, fmt.Errorf("insert paciente: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert paciente: %w", err)
	}
	return s.Get(ctx, id)
}

// Update replaces the editable fields. A new photo replaces the stored one, EliminarFoto clears
// it, otherwise the photo is left as is.
func (s *PacienteService) Update(ctx context.Context, id int64, in models.PacienteInput) (*models.Paciente, error) {
	fecha, err := validate(in)
	if err != nil {
		return nil, err
	}

	query := `UPDATE pacientes SET usuario_id = ?, nombre = ?, apellido = ?, dni = ?, fecha_nacimiento = ?,
		genero = ?, telefono = ?, direccion = ?, notas = ?`
	args := []any{in.UsuarioID, in.Nombre, in.Apellido, in.DNI, fecha.String(), in.Genero,
		emptyToNil(in.Telefono), emptyToNil(in.Direccion), emptyToNil(in.Notas)}
	switch {
	case len(in.Foto) > 0:
		query += ", foto = ?"
		args = append(args, in.Foto)
	case in.EliminarFoto:
		query += ", foto = NULL"
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if mariadb.IsDuplicate(err) {
			return nil, common.Wrap(http.StatusConflict, "El DNI ingresado ya pertenece a otro paciente.", err)
		}
		return nil, fmt.Errorf("update paciente %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Paciente no encontrado.")
	}
	return s.Get(ctx, id)
}

// SetStatus enables or disables a patient.
func (s *PacienteService) SetStatus(ctx context.Context, id int64, status models.PatientStatus) (*models.Paciente, error) {
	if !status.Valid() {
		return nil, common.BadRequest("Estado de paciente inválido: %s", status)
	}
	res, err := s.DB.ExecContext(ctx, "UPDATE pacientes SET activo = ? WHERE id = ?", status == models.StatusActivo, id)
	if err != nil {
		return nil, fmt.Errorf("update estado paciente %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Paciente no encontrado.")
	}
	return s.Get(ctx, id)
}
