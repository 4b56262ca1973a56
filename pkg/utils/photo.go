package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

var (
	ErrPhotoType = errors.New("Tipo de archivo no permitido (solo JPG, PNG, GIF).")
	// ErrPhotoSize matches every *PhotoSizeError through errors.Is.
	ErrPhotoSize = errors.New("El archivo excede el tamaño máximo permitido.")
)

// PhotoSizeError names the configured limit in its message, e.g. "(5MB)" for MAX_PHOTO_BYTES=5242880.
type PhotoSizeError struct {
	Max int64
}

func (e *PhotoSizeError) Error() string {
	return fmt.Sprintf("El archivo excede el tamaño máximo permitido (%s).", HumanBytes(e.Max))
}

func (e *PhotoSizeError) Is(target error) bool { return target == ErrPhotoSize }

// HumanBytes renders n as whole MB or KB when it divides evenly, bytes otherwise.
func HumanBytes(n int64) string {
	switch {
	case n > 0 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n > 0 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// PhotoBase64 encodes stored image bytes; empty photos encode to nil so JSON renders null.
func PhotoBase64(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(b)
	return &s
}

// ReadPhoto validates and reads an uploaded image. The declared Content-Type must be JPEG, PNG
// or GIF and the sniffed content has to agree; size is capped at maxBytes.
func ReadPhoto(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh.Size > maxBytes {
		return nil, &PhotoSizeError{Max: maxBytes}
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !allowedPhotoTypes[ct] {
		return nil, ErrPhotoType
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n > maxBytes {
		return nil, &PhotoSizeError{Max: maxBytes}
	}
	if !allowedPhotoTypes[http.DetectContentType(buf.Bytes())] {
		return nil, ErrPhotoType
	}
	return buf.Bytes(), nil
}
