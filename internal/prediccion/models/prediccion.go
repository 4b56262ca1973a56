package models

// Features is the input vector of the readmission model. Every field is required; pointers
// tell a missing field apart from a zero.
type Features struct {
	Edad                        *float64 `json:"edad"`
	Genero                      *string  `json:"genero"`
	Enfermedad                  *string  `json:"enfermedad"`
	TiempoUltimaAtencionDias    *float64 `json:"tiempo_ultima_atencion_dias"`
	VisitasUltimos30Dias        *float64 `json:"visitas_ultimos_30_dias"`
	VisitasUltimos6Meses        *float64 `json:"visitas_ultimos_6_meses"`
	HospitalizacionesUltimoAnio *float64 `json:"hospitalizaciones_ultimo_anio"`
}

// Missing lists the JSON names of absent fields.
func (f Features) Missing() []string {
	var out []string
	if f.Edad == nil {
		out = append(out, "edad")
	}
	if f.Genero == nil || *f.Genero == "" {
		out = append(out, "genero")
	}
	if f.Enfermedad == nil || *f.Enfermedad == "" {
		out = append(out, "enfermedad")
	}
	if f.TiempoUltimaAtencionDias == nil {
		out = append(out, "tiempo_ultima_atencion_dias")
	}
	if f.VisitasUltimos30Dias == nil {
		out = append(out, "visitas_ultimos_30_dias")
	}
	if f.VisitasUltimos6Meses == nil {
		out = append(out, "visitas_ultimos_6_meses")
	}
	if f.HospitalizacionesUltimoAnio == nil {
		out = append(out, "hospitalizaciones_ultimo_anio")
	}
	return out
}

// Prediccion is what the model service answers.
type Prediccion struct {
	Prediccion   int     `json:"prediccion"`
	Probabilidad float64 `json:"probabilidad"`
}

type Resultado struct {
	Prediccion   int      `json:"prediccion"`
	Probabilidad float64  `json:"probabilidad"`
	Explicacion  string   `json:"explicacion"`
	Features     Features `json:"features"`
}
