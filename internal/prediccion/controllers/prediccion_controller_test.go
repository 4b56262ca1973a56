package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/c14220110/hospital-backend/internal/prediccion/services"
	"github.com/labstack/echo/v4"
)

func TestPredecirReingreso_UpstreamDownIs502(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	pc := NewPrediccionController(services.NewPrediccionService(services.NewClient(down.URL, "", "", time.Second), nil))
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/prediccion/reingreso", strings.NewReader(
		`{"edad":50,"genero":"masculino","enfermedad":"diabetes","tiempo_ultima_atencion_dias":10,
		"visitas_ultimos_30_dias":1,"visitas_ultimos_6_meses":3,"hospitalizaciones_ultimo_anio":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := pc.PredecirReingreso(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] == "" {
		t.Errorf("expected error message, got %v", body)
	}
}

func TestPredecirReingreso_Success(t *testing.T) {
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediccion":1,"probabilidad":0.7}`))
	}))
	defer model.Close()

	pc := NewPrediccionController(services.NewPrediccionService(services.NewClient(model.URL, "", "", time.Second), nil))
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/prediccion/reingreso", strings.NewReader(
		`{"edad":50,"genero":"masculino","enfermedad":"diabetes","tiempo_ultima_atencion_dias":10,
		"visitas_ultimos_30_dias":1,"visitas_ultimos_6_meses":3,"hospitalizaciones_ultimo_anio":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	pc.PredecirReingreso(e.NewContext(req, rec))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Prediccion  int    `json:"prediccion"`
		Explicacion string `json:"explicacion"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Prediccion != 1 || body.Explicacion != services.ExplanationPlaceholder {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestPredecirPaciente_BadID(t *testing.T) {
	pc := NewPrediccionController(services.NewPrediccionService(services.NewClient("", "", "", time.Second), nil))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/prediccion/paciente/x", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("x")
	pc.PredecirPaciente(c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
