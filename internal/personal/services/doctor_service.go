package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/internal/personal/models"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/pkg/utils"
)

const selectDoctor = `SELECT id, usuario_id, nombre, apellidos, especialidad, dni, telefono, correo, genero,
	fecha_nacimiento, foto FROM doctores`

type DoctorService struct {
	DB *sql.DB
}

func NewDoctorService(db *sql.DB) *DoctorService {
	return &DoctorService{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoctor(row rowScanner) (models.Doctor, error) {
	var (
		d         models.Doctor
		usuarioID sql.NullInt64
		fechaNac  time.Time
	)
	if err := row.Scan(&d.ID, &usuarioID, &d.Nombre, &d.Apellidos, &d.Especialidad, &d.DNI, &d.Telefono,
		&d.Correo, &d.Genero, &fechaNac, &d.Foto); err != nil {
		return d, err
	}
	if usuarioID.Valid {
		d.UsuarioID = &usuarioID.Int64
	}
	d.FechaNacimiento = common.NewDate(fechaNac)
	d.FotoBase64 = utils.PhotoBase64(d.Foto)
	return d, nil
}

// List returns doctors ordered by surnames, then name.
func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	rows, err := s.DB.QueryContext(ctx, selectDoctor+" ORDER BY apellidos ASC, nombre ASC")
	if err != nil {
		return nil, fmt.Errorf("query doctores: %w", err)
	}
	defer rows.Close()

	doctores := []models.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctores = append(doctores, d)
	}
	return doctores, rows.Err()
}

func (s *DoctorService) Get(ctx context.Context, id int64) (*models.Doctor, error) {
	d, err := scanDoctor(s.DB.QueryRowContext(ctx, selectDoctor+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFound("Doctor no encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor %d: %w", id, err)
	}
	return &d, nil
}

func validate(in models.DoctorInput) (common.Date, error) {
	for _, v := range []string{in.Nombre, in.Apellidos, in.DNI, in.Especialidad, in.FechaNacimiento, in.Genero, in.Correo, in.Telefono} {
		if strings.TrimSpace(v) == "" {
			return common.Date{}, common.BadRequest("Todos los campos marcados son requeridos: nombre, apellidos, DNI, especialidad, fecha de nacimiento, género, correo y teléfono.")
		}
	}
	if _, err := mail.ParseAddress(in.Correo); err != nil {
		return common.Date{}, common.BadRequest("El correo electrónico no es válido.")
	}
	fecha, err := common.ParseDate(in.FechaNacimiento)
	if err != nil {
		return common.Date{}, common.BadRequest("Formato de fecha_nacimiento inválido (use AAAA-MM-DD).")
	}
	return fecha, nil
}

func (s *DoctorService) Create(ctx context.Context, in models.DoctorInput) (*models.Doctor, error) {
	fecha, err := validate(in)
	if err != nil {
		return nil, err
	}
	var foto any
	if len(in.Foto) > 0 {
		foto = in.Foto
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO doctores (usuario_id, nombre, apellidos, especialidad, dni, telefono, correo, genero, fecha_nacimiento, foto)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UsuarioID, in.Nombre, in.Apellidos, in.Especialidad, in.DNI, in.Telefono, in.Correo, in.Genero, fecha.String(), foto)
	if err != nil {
		if mariadb.IsDuplicate(err) {
			return nil, common.Wrap(http.StatusConflict, "El DNI ingresado ya está registrado para otro doctor.", err)
		}
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *DoctorService) Update(ctx context.Context, id int64, in models.DoctorInput) (*models.Doctor, error) {
	fecha, err := validate(in)
	if err != nil {
		return nil, err
	}
	query := `UPDATE doctores SET usuario_id = ?, nombre = ?, apellidos = ?, especialidad = ?, dni = ?,
		telefono = ?, correo = ?, genero = ?, fecha_nacimiento = ?`
	args := []any{in.UsuarioID, in.Nombre, in.Apellidos, in.Especialidad, in.DNI, in.Telefono, in.Correo, in.Genero, fecha.String()}
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
			return nil, common.Wrap(http.StatusConflict, "El DNI ingresado ya pertenece a otro doctor.", err)
		}
		return nil, fmt.Errorf("update doctor %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.NotFound("Doctor no encontrado.")
	}
	return s.Get(ctx, id)
}

// Delete removes the doctor. Doctors still referenced by appointments or room assignments
// cannot be deleted.
func (s *DoctorService) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM doctores WHERE id = ?", id)
	if err != nil {
		if mariadb.IsReferenced(err) {
			return common.Wrap(http.StatusConflict, "No se puede eliminar el doctor porque tiene citas o asignaciones asociadas.", err)
		}
		return fmt.Errorf("delete doctor %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NotFound("Doctor no encontrado.")
	}
	return nil
}
