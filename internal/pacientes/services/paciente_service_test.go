package services

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	common "github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/c14220110/hospital-backend/internal/pacientes/models"
	"github.com/go-sql-driver/mysql"
)

var pacienteCols = []string{"id", "usuario_id", "nombre", "apellido", "dni", "fecha_nacimiento", "edad",
	"genero", "telefono", "direccion", "notas", "foto", "activo", "creado_en"}

func pacienteRow(id int64, activo bool) *sqlmock.Rows {
	return sqlmock.NewRows(pacienteCols).AddRow(id, nil, "Ana", "Torres", "12345678",
		time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), 34, "Femenino", "555-0101", nil, nil, nil, activo,
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
}

func newMock(t *testing.T) (*PacienteService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPacienteService(db), mock
}

func validInput() models.PacienteInput {
	return models.PacienteInput{Nombre: "Ana", Apellido: "Torres", DNI: "12345678", FechaNacimiento: "1990-06-15", Genero: "Femenino", Telefono: "555-0101"}
}

func statusOf(err error) int {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func TestCreate_ReturnsStoredRow(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pacientes")).
		WithArgs(nil, "Ana", "Torres", "12345678", "1990-06-15", "Femenino", "555-0101", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pacientes WHERE id = ?")).WithArgs(int64(7)).WillReturnRows(pacienteRow(7, true))

	p, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != 7 || p.DNI != "12345678" || p.FechaNacimiento.String() != "1990-06-15" {
		t.Errorf("unexpected paciente %+v", p)
	}
	if !p.Activo || p.Estado != models.StatusActivo {
		t.Error("new patients must be active")
	}
	if p.Edad == nil || *p.Edad != 34 {
		t.Errorf("expected computed age, got %v", p.Edad)
	}
	if p.FotoBase64 != nil {
		t.Error("expected null photo")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreate_DuplicateDNI(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pacientes")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '12345678' for key 'pacientes.uq_pacientes_dni'"})

	_, err := svc.Create(context.Background(), validInput())
	if statusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	var appErr *common.AppError
	errors.As(err, &appErr)
	if appErr.Message != "El DNI ingresado ya está registrado." {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	// no re-read after a failed insert
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newMock(t)
	in := validInput()
	in.DNI = " "
	if _, err := svc.Create(context.Background(), in); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for missing DNI, got %v", err)
	}
	in = validInput()
	in.FechaNacimiento = "15/06/1990"
	if _, err := svc.Create(context.Background(), in); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %v", err)
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM pacientes WHERE activo = ? ORDER BY apellido ASC, nombre ASC")).
		WithArgs(true).WillReturnRows(pacienteRow(1, true))

	st := models.StatusActivo
	list, err := svc.List(context.Background(), models.Filter{Estado: &st})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 paciente, got %d", len(list))
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY apellido ASC")).WillReturnRows(sqlmock.NewRows(pacienteCols))

	list, err := svc.List(context.Background(), models.Filter{})
	if err != nil || list == nil {
		t.Fatalf("expected empty slice, got %v %v", list, err)
	}
}

func TestUpdate_PhotoHandling(t *testing.T) {
	svc, mock := newMock(t)
	in := validInput()
	in.EliminarFoto = true
	mock.ExpectExec(regexp.QuoteMeta("notas = ?, foto = NULL WHERE id = ?")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).WillReturnRows(pacienteRow(3, true))

	if _, err := svc.Update(context.Background(), 3, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	// no photo and no removal flag: the column is not touched
	in.EliminarFoto = false
	mock.ExpectExec(regexp.QuoteMeta("notas = ? WHERE id = ?")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).WillReturnRows(pacienteRow(3, true))
	if _, err := svc.Update(context.Background(), 3, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdate_DuplicateAndMissing(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pacientes SET")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	_, err := svc.Update(context.Background(), 3, validInput())
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Message != "El DNI ingresado ya pertenece a otro paciente." {
		t.Errorf("unexpected error %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pacientes SET")).WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := svc.Update(context.Background(), 99, validInput()); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pacientes SET activo = ? WHERE id = ?")).WithArgs(false, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).WillReturnRows(pacienteRow(4, false))

	p, err := svc.SetStatus(context.Background(), 4, models.StatusInactivo)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if p.Activo || p.Estado != models.StatusInactivo {
		t.Errorf("expected inactive patient, got %+v", p)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pacientes SET activo")).WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := svc.SetStatus(context.Background(), 404, models.StatusActivo); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), 1, models.PatientStatus("borrado")); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %v", err)
	}
}
