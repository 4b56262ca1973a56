package utils

import (
	"encoding/json"
	"fmt"
)

// JSONDocument is an opaque clinical document stored as text in the database.
type JSONDocument map[string]any

// ParseJSONDocument decodes stored text. NULL or blank text gives an empty document; text that
// is not a JSON object returns an error so callers can flag it.
func ParseJSONDocument(raw *string) (JSONDocument, error) {
	if raw == nil || *raw == "" {
		return JSONDocument{}, nil
	}
	var doc JSONDocument
	if err := json.Unmarshal([]byte(*raw), &doc); err != nil {
		return nil, fmt.Errorf("parse clinical document: %w", err)
	}
	if doc == nil {
		doc = JSONDocument{}
	}
	return doc, nil
}

// Stringify serializes the document for storage; a nil document stays NULL.
func (d JSONDocument) Stringify() (*string, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
