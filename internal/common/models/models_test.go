package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("1990-06-15")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(d)
	if string(b) != `"1990-06-15"` {
		t.Errorf("unexpected JSON %s", b)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"1990-06-15T00:00:00.000Z"`), &back); err != nil {
		t.Fatal(err)
	}
	if back.String() != "1990-06-15" {
		t.Errorf("expected date part kept, got %s", back)
	}

	b, _ = json.Marshal(Date{})
	if string(b) != "null" {
		t.Errorf("expected null for zero date, got %s", b)
	}
	if _, err := ParseDate("15/06/1990"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestParseDateTime(t *testing.T) {
	for _, in := range []string{"2024-05-01T10:30", "2024-05-01 10:30:00", "2024-05-01T10:30:00"} {
		got, err := ParseDateTime(in)
		if err != nil {
			t.Errorf("%s: %v", in, err)
			continue
		}
		if got.Hour() != 10 || got.Minute() != 30 || got.Day() != 1 {
			t.Errorf("%s parsed as %s", in, got)
		}
	}
	utc, err := ParseDateTime("2024-05-01T10:30:00Z")
	if err != nil || !utc.Equal(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected RFC3339 parse %s %v", utc, err)
	}
	if _, err := ParseDateTime("mañana"); err == nil {
		t.Error("expected error")
	}
}

func TestAppError(t *testing.T) {
	cause := errors.New("duplicate")
	err := fmt.Errorf("svc: %w", Wrap(http.StatusConflict, "ya existe", cause))

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict AppError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
	if NotFound("Paciente %d", 3).Message != "Paciente 3" {
		t.Error("unexpected formatting")
	}
}
