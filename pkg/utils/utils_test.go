package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"
)

// 1x1 transparent GIF.
var tinyGIF = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func fileHeader(t *testing.T, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="fotoPaciente"; filename="foto"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form.File["fotoPaciente"][0]
}

func TestReadPhoto(t *testing.T) {
	got, err := ReadPhoto(fileHeader(t, "image/gif", tinyGIF), 5<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, tinyGIF) {
		t.Error("photo bytes changed on read")
	}
	decoded, _ := base64.StdEncoding.DecodeString(*PhotoBase64(got))
	if !bytes.Equal(decoded, tinyGIF) {
		t.Error("base64 round trip changed the photo")
	}
}

func TestReadPhoto_Rejects(t *testing.T) {
	if _, err := ReadPhoto(fileHeader(t, "application/pdf", []byte("%PDF-1.4")), 5<<20); !errors.Is(err, ErrPhotoType) {
		t.Errorf("expected type error, got %v", err)
	}
	if _, err := ReadPhoto(fileHeader(t, "image/png", []byte("not really a png")), 5<<20); !errors.Is(err, ErrPhotoType) {
		t.Errorf("expected sniffed type error, got %v", err)
	}
	if _, err := ReadPhoto(fileHeader(t, "image/gif", tinyGIF), 10); !errors.Is(err, ErrPhotoSize) {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestPhotoSizeError_NamesConfiguredLimit(t *testing.T) {
	_, err := ReadPhoto(fileHeader(t, "image/gif", tinyGIF), 10)
	if err == nil || err.Error() != "El archivo excede el tamaño máximo permitido (10 bytes)." {
		t.Errorf("unexpected message: %v", err)
	}
	cases := map[int64]string{
		5 << 20:   "El archivo excede el tamaño máximo permitido (5MB).",
		2 << 20:   "El archivo excede el tamaño máximo permitido (2MB).",
		512 << 10: "El archivo excede el tamaño máximo permitido (512KB).",
	}
	for max, want := range cases {
		if got := (&PhotoSizeError{Max: max}).Error(); got != want {
			t.Errorf("max %d: got %q want %q", max, got, want)
		}
	}
}

func TestPhotoBase64_Empty(t *testing.T) {
	if PhotoBase64(nil) != nil {
		t.Error("expected nil for empty photo")
	}
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 33},
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, c := range cases {
		if got := AgeAt(birth, c.now); got != c.want {
			t.Errorf("AgeAt(%s) = %d, want %d", c.now.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestParseJSONDocument(t *testing.T) {
	doc, err := ParseJSONDocument(nil)
	if err != nil || len(doc) != 0 || doc == nil {
		t.Errorf("expected empty document for NULL, got %v %v", doc, err)
	}

	raw := `{"presion":"120/80","alergias":["penicilina"]}`
	doc, err = ParseJSONDocument(&raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["presion"] != "120/80" {
		t.Errorf("unexpected document %v", doc)
	}

	bad := "{presion: 120"
	if _, err := ParseJSONDocument(&bad); err == nil {
		t.Error("expected parse error for malformed text")
	}
}

func TestStringify(t *testing.T) {
	var nilDoc JSONDocument
	if s, err := nilDoc.Stringify(); err != nil || s != nil {
		t.Errorf("expected NULL for nil document, got %v %v", s, err)
	}
	s, err := JSONDocument{"a": 1}.Stringify()
	if err != nil || *s != `{"a":1}` {
		t.Errorf("unexpected stringify %v %v", s, err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWTToken("s3cret", 7, "admin", "ana", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateJWTToken("s3cret", tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.IDUsuario != 7 || claims.Rol != "admin" || claims.Username != "ana" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if _, err := ValidateJWTToken("other", tok); err == nil {
		t.Error("expected signature mismatch")
	}
	expired, _ := GenerateJWTToken("s3cret", 7, "admin", "ana", time.Now().Add(-time.Minute))
	if _, err := ValidateJWTToken("s3cret", expired); err == nil {
		t.Error("expected expired token to fail")
	}
	if _, err := GenerateJWTToken("", 1, "x", "y", time.Now()); err == nil {
		t.Error("expected missing secret error")
	}
}
