package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	common "github.com/c14220110/hospital-backend/internal/common/models"
	historialModels "github.com/c14220110/hospital-backend/internal/historial/models"
	"github.com/c14220110/hospital-backend/internal/prediccion/models"
	"github.com/rs/zerolog"
)

// HistorialSource yields the latest clinical-history entry of a patient.
type HistorialSource interface {
	Latest(ctx context.Context, pacienteID int64) (*historialModels.Historial, error)
}

type PrediccionService struct {
	Client    *Client
	Historial HistorialSource
}

func NewPrediccionService(client *Client, historial HistorialSource) *PrediccionService {
	return &PrediccionService{Client: client, Historial: historial}
}

// Reingreso validates the features, asks the model and attaches an explanation.
func (s *PrediccionService) Reingreso(ctx context.Context, f models.Features) (*models.Resultado, error) {
	if missing := f.Missing(); len(missing) > 0 {
		return nil, common.BadRequest("Faltan datos para la predicción: %s.", strings.Join(missing, ", "))
	}

	p, err := s.Client.Predict(ctx, f)
	if err != nil {
		return nil, common.Wrap(http.StatusBadGateway, "El servicio de predicción no está disponible.", err)
	}

	texto, err := s.Client.Explain(ctx, f, p)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("explanation service failed, using placeholder")
	}
	return &models.Resultado{Prediccion: p.Prediccion, Probabilidad: p.Probabilidad, Explicacion: texto, Features: f}, nil
}

// FeaturesFromHistorial maps a history entry onto the model input.
func FeaturesFromHistorial(h *historialModels.Historial) models.Features {
	num := func(v *int) *float64 {
		if v == nil {
			return nil
		}
		f := float64(*v)
		return &f
	}
	return models.Features{
		Edad:                        num(h.Edad),
		Genero:                      h.Genero,
		Enfermedad:                  h.Enfermedad,
		TiempoUltimaAtencionDias:    num(h.TiempoUltimaAtencionDias),
		VisitasUltimos30Dias:        num(h.VisitasUltimos30Dias),
		VisitasUltimos6Meses:        num(h.VisitasUltimos6Meses),
		HospitalizacionesUltimoAnio: num(h.HospitalizacionesUltimoAnio),
	}
}

// ForPaciente predicts from the patient's most recent clinical-history entry.
func (s *PrediccionService) ForPaciente(ctx context.Context, pacienteID int64) (*models.Resultado, error) {
	h, err := s.Historial.Latest(ctx, pacienteID)
	if err != nil {
		return nil, err
	}
	res, err := s.Reingreso(ctx, FeaturesFromHistorial(h))
	var appErr *common.AppError
	if errors.As(err, &appErr) && appErr.Status == http.StatusBadRequest {
		return nil, common.BadRequest("El historial clínico más reciente del paciente está incompleto: %s", appErr.Message)
	}
	return res, err
}
