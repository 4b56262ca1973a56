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
	"github.com/c14220110/hospital-backend/internal/habitaciones/models"
	"github.com/go-sql-driver/mysql"
)

var (
	asignacionCols = []string{"id", "paciente_id", "doctor_id", "habitacion_disponible_id", "fecha_ingreso",
		"fecha_salida_estimada", "estado_paciente", "motivo_ingreso", "creado_en", "numero", "tipo",
		"nombre", "apellido", "nombre", "apellidos"}
	ingreso = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*HabitacionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewHabitacionService(db), mock
}

func statusOf(err error) int {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func validInput() models.AsignacionInput {
	return models.AsignacionInput{PacienteID: 7, DoctorID: 3, HabitacionDisponibleID: 2, FechaIngreso: "2024-05-10T14:00"}
}

func TestListHabitaciones_FilterByEstado(t *testing.T) {
	svc, mock := newMock(t)
	estado := models.EstadoDisponible
	mock.ExpectQuery(regexp.QuoteMeta("WHERE estado = ? ORDER BY numero ASC")).WithArgs("Disponible").
		WillReturnRows(sqlmock.NewRows([]string{"id", "numero", "tipo", "estado"}).
			AddRow(1, "101", "General", "Disponible").AddRow(6, "201", "Privada", "Disponible"))

	hs, err := svc.ListHabitaciones(context.Background(), &estado)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hs) != 2 || hs[1].Tipo != models.TipoPrivada {
		t.Errorf("unexpected rooms: %+v", hs)
	}
}

func TestAssign_MarksRoomOccupied(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("Disponible"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO habitaciones_asignadas")).
		WithArgs(int64(7), int64(3), int64(2), sqlmock.AnyArg(), nil, "Estable", nil).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE habitaciones_disponibles SET estado = ?")).
		WithArgs("Ocupada", int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ?")).WithArgs(int64(9)).WillReturnRows(
		sqlmock.NewRows(asignacionCols).AddRow(9, 7, 3, 2, ingreso, nil, "Estable", nil, ingreso, "102", "General",
			"Ana", "Pérez", "Luis", "Gómez"))

	a, err := svc.Assign(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != 9 || a.HabitacionNumero != "102" || a.EstadoPaciente != models.CondicionEstable {
		t.Errorf("unexpected asignacion: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAssign_OccupiedRoomIsConflict(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("Ocupada"))
	mock.ExpectRollback()

	if _, err := svc.Assign(context.Background(), validInput()); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAssign_UnknownDoctor(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("Disponible"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO habitaciones_asignadas")).WillReturnError(&mysql.MySQLError{
		Number:  1452,
		Message: "Cannot add or update a child row: a foreign key constraint fails (CONSTRAINT `fk_asig_doctor` FOREIGN KEY ...)",
	})
	mock.ExpectRollback()

	if _, err := svc.Assign(context.Background(), validInput()); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestAssign_Validation(t *testing.T) {
	svc, _ := newMock(t)
	salida := "2024-05-01"
	cases := map[string]models.AsignacionInput{
		"missing room":   {PacienteID: 7, DoctorID: 3, FechaIngreso: "2024-05-10"},
		"bad condition":  {PacienteID: 7, DoctorID: 3, HabitacionDisponibleID: 2, FechaIngreso: "2024-05-10", EstadoPaciente: "Grave"},
		"exit before in": {PacienteID: 7, DoctorID: 3, HabitacionDisponibleID: 2, FechaIngreso: "2024-05-10", FechaSalidaEstimada: &salida},
	}
	for name, in := range cases {
		if _, err := svc.Assign(context.Background(), in); statusOf(err) != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestRelease_FreesRoom(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM habitaciones_asignadas WHERE id = ? FOR UPDATE")).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"habitacion_disponible_id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM habitaciones_asignadas WHERE id = ?")).WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE habitaciones_disponibles SET estado = ?")).
		WithArgs("Disponible", int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room, err := svc.Release(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room != 2 {
		t.Errorf("expected room 2, got %d", room)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRelease_Missing(t *testing.T) {
	svc, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(sqlmock.NewRows([]string{"habitacion_disponible_id"}))
	mock.ExpectRollback()
	if _, err := svc.Release(context.Background(), 404); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
