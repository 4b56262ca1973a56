package middlewares

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func photoForm(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("nombre", "Luis")
	part, err := w.CreateFormFile("fotoPaciente", "foto.gif")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(append([]byte("GIF89a"), make([]byte, size)...))
	w.Close()
	return &body, w.FormDataContentType()
}

func TestBodyLimit_OversizedPhotoIs400(t *testing.T) {
	body, ctype := photoForm(t, 8<<20)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/pacientes", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()

	called := false
	h := BodyLimit(5 << 20)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusCreated)
	})
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("handler must not run for an oversized upload")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "El archivo excede el tamaño máximo permitido (5MB)." {
		t.Errorf("unexpected error message %q", resp["error"])
	}
}

func TestBodyLimit_PhotoWithinFormOverheadPasses(t *testing.T) {
	// slightly over the photo limit: the handler sees it and ReadPhoto does the rejecting
	body, ctype := photoForm(t, 5<<20+100)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/pacientes", body)
	req.Header.Set(echo.HeaderContentType, ctype)

	called := false
	h := BodyLimit(5 << 20)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusBadRequest)
	})
	h(e.NewContext(req, httptest.NewRecorder()))
	if !called {
		t.Error("expected handler to run")
	}
}

func TestBodyLimit_OversizedJSONIs413(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/citas", strings.NewReader(strings.Repeat("x", 2<<20)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	err := BodyLimit(512 << 10)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		t.Errorf("expected 413 error, got %v", err)
	}
}

func TestBodyLimit_EnforcedWithoutContentLength(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/citas", strings.NewReader(strings.Repeat("x", 2<<20)))
	req.ContentLength = -1

	var readErr error
	h := BodyLimit(512 << 10)(func(c echo.Context) error {
		_, readErr = io.ReadAll(c.Request().Body)
		return nil
	})
	h(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(readErr, echo.ErrStatusRequestEntityTooLarge) {
		t.Errorf("expected read to fail with 413, got %v", readErr)
	}
}

func TestBodyLimit_SmallBodyUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/citas", strings.NewReader(`{"motivo":"Control"}`))

	var got []byte
	h := BodyLimit(5 << 20)(func(c echo.Context) error {
		got, _ = io.ReadAll(c.Request().Body)
		return nil
	})
	if err := h(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"motivo":"Control"}` {
		t.Errorf("body changed: %q", got)
	}
}
