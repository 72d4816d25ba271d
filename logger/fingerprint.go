package logger

import (
	"encoding/json"

	"github.com/segmentio/fasthash/fnv1a"
)

// fingerprintPayload is the canonical field tuple hashed for request
// deduplication. encoding/json sorts map keys, so two loggers holding equal
// field values hash identically regardless of setter call order.
type fingerprintPayload struct {
	Event       string         `json:"event"`
	Description string         `json:"description"`
	SubjectType string         `json:"subject_type"`
	SubjectID   string         `json:"subject_id"`
	SourceType  string         `json:"source_type"`
	SourceID    string         `json:"source_id"`
	Properties  map[string]any `json:"properties"`
	Log         string         `json:"log"`
	Connection  string         `json:"connection"`
}

// Fingerprint returns the deterministic dedup hash over the staged fields.
func (l *Logger) Fingerprint() uint64 {
	payload := fingerprintPayload{
		Event:       l.event,
		Description: l.description,
		SubjectType: l.subjectRef.Type,
		SubjectID:   l.subjectRef.ID,
		SourceType:  l.source.Type,
		SourceID:    l.source.ID,
		Properties:  l.properties,
		Log:         l.logName,
		Connection:  l.connection,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		// Properties with unmarshalable values fall back to the scalar
		// fields only; dedup degrades to coarser matching instead of failing.
		payload.Properties = nil
		encoded, _ = json.Marshal(payload)
	}
	return fnv1a.HashString64(string(encoded))
}
