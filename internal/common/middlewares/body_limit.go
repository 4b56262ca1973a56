package middlewares

import (
	"io"
	"net/http"
	"strings"

	"github.com/c14220110/hospital-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

// formOverhead is the room left for multipart boundaries and the text fields next to a photo.
const formOverhead = 1 << 20

// BodyLimit caps request bodies at maxPhotoBytes plus form overhead. An oversized multipart
// request can only be an oversized photo, so it is answered 400 with the same message
// utils.ReadPhoto gives; other bodies get 413.
func BodyLimit(maxPhotoBytes int64) echo.MiddlewareFunc {
	limit := maxPhotoBytes + formOverhead

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			// Content-Length dulu, supaya bisa ditolak sebelum dibaca
			if req.ContentLength > limit {
				if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": (&utils.PhotoSizeError{Max: maxPhotoBytes}).Error()})
				}
				return echo.ErrStatusRequestEntityTooLarge
			}

			req.Body = &limitedReadCloser{ReadCloser: req.Body, remaining: limit}
			return next(c)
		}
	}
}

// limitedReadCloser enforces the limit when Content-Length is missing or wrong.
type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
}

func (r *limitedReadCloser) Read(p []byte) (int, error) {
	if r.remaining < 0 {
		return 0, echo.ErrStatusRequestEntityTooLarge
	}
	if int64(len(p)) > r.remaining+1 {
		p = p[:r.remaining+1]
	}
	n, err := r.ReadCloser.Read(p)
	r.remaining -= int64(n)
	if r.remaining < 0 {
		return 0, echo.ErrStatusRequestEntityTooLarge
	}
	return n, err
}
