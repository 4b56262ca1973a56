package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestFail_AppError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := fmt.Errorf("create: %w", models.Conflict("El DNI ingresado ya está registrado."))
	Fail(c, err, "Error al crear paciente")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["error"] != "El DNI ingresado ya está registrado." {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["details"]; ok {
		t.Error("client errors must not leak details")
	}
}

func TestFail_Internal(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	Fail(c, errors.New("connection refused"), "Error al obtener pacientes")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["error"] != "Error al obtener pacientes" || body["details"] != "connection refused" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	h := HTTPErrorHandler(zerolog.Nop())

	rec := httptest.NewRecorder()
	h(echo.ErrNotFound, e.NewContext(httptest.NewRequest(http.MethodGet, "/nope", nil), rec))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != "Not Found" {
		t.Errorf("unexpected body %v", body)
	}

	rec = httptest.NewRecorder()
	h(errors.New("boom"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_DebugDetails(t *testing.T) {
	e := echo.New()
	h := HTTPErrorHandler(zerolog.Nop())

	rec := httptest.NewRecorder()
	h(errors.New("boom"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	if _, ok := decode(t, rec)["details"]; ok {
		t.Error("details must be hidden outside debug mode")
	}

	e.Debug = true
	rec = httptest.NewRecorder()
	h(errors.New("boom"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	if body := decode(t, rec); body["details"] != "boom" {
		t.Errorf("expected details in debug mode, got %v", body)
	}

	rec = httptest.NewRecorder()
	h(echo.ErrNotFound, e.NewContext(httptest.NewRequest(http.MethodGet, "/nope", nil), rec))
	if _, ok := decode(t, rec)["details"]; ok {
		t.Error("HTTP errors never carry details")
	}
}
