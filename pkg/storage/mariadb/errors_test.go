package mariadb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestClassification(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '123' for key 'pacientes.uq_pacientes_dni'"}
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails (`hospital`.`atenciones`, CONSTRAINT `fk_atenc_cnt_paciente` FOREIGN KEY (`id_paciente`) REFERENCES `pacientes` (`id`))"}
	ref := &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}

	wrapped := fmt.Errorf("insert paciente: %w", dup)
	if !IsDuplicate(wrapped) {
		t.Error("expected wrapped 1062 to be classified as duplicate")
	}
	if IsDuplicate(fk) || IsForeignKeyViolation(dup) {
		t.Error("classification crossed error numbers")
	}
	if !IsForeignKeyViolation(fk) {
		t.Error("expected 1452 to be a foreign key violation")
	}
	if !IsReferenced(ref) {
		t.Error("expected 1451 to be a referenced-row error")
	}
	if IsDuplicate(errors.New("boom")) {
		t.Error("plain errors must not classify")
	}
}

func TestConstraintName(t *testing.T) {
	fk := &mysql.MySQLError{Number: 1452, Message: "a foreign key constraint fails (`hospital`.`atenciones`, CONSTRAINT `fk_atenc_cnt_cita_origen` FOREIGN KEY (`cita_id_origen`))"}
	if got := ConstraintName(fmt.Errorf("wrap: %w", fk)); got != "fk_atenc_cnt_cita_origen" {
		t.Errorf("expected fk_atenc_cnt_cita_origen, got %q", got)
	}
	if got := ConstraintName(errors.New("x")); got != "" {
		t.Errorf("expected empty name, got %q", got)
	}
}
