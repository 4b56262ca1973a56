package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("production", "info", &buf)
	l.Info().Str("entity", "paciente").Msg("created")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["entity"] != "paciente" {
		t.Errorf("expected entity field, got %v", line["entity"])
	}
	if line["level"] != "info" {
		t.Errorf("expected level info, got %v", line["level"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("production", "warn", &buf)
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Error("expected warn line to be written")
	}
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("production", "verbose", &buf)
	l.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Error("expected debug filtered when level falls back to info")
	}
}
