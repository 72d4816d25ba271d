package store

import (
	"time"

	"github.com/goliatone/go-activity/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the persisted row in activity_log. The table is append
// only: rows carry created_at but no updated_at, and the store exposes no
// update path.
type LogEntry struct {
	bun.BaseModel `bun:"table:activity_log"`

	ID          uuid.UUID      `bun:",pk,type:uuid"`
	Log         string         `bun:"log"`
	Event       string         `bun:"event"`
	Description string         `bun:"description"`
	SubjectID   string         `bun:"subject_id"`
	SubjectType string         `bun:"subject_type"`
	SourceID    string         `bun:"source_id"`
	SourceType  string         `bun:"source_type"`
	Properties  map[string]any `bun:"properties,type:jsonb"`
	IPAddress   string         `bun:"ip_address"`
	CreatedAt   time.Time      `bun:"created_at"`
}

func toLogEntry(record types.Record) *LogEntry {
	return &LogEntry{
		ID:          record.ID,
		Log:         record.Log,
		Event:       record.Event,
		Description: record.Description,
		SubjectID:   record.Subject.ID,
		SubjectType: record.Subject.Type,
		SourceID:    record.Source.ID,
		SourceType:  record.Source.Type,
		Properties:  cloneProperties(record.Properties),
		IPAddress:   record.IPAddress,
		CreatedAt:   record.CreatedAt,
	}
}

func toRecord(entry *LogEntry) types.Record {
	if entry == nil {
		return types.Record{}
	}
	return types.Record{
		ID:          entry.ID,
		Log:         entry.Log,
		Event:       entry.Event,
		Description: entry.Description,
		Subject:     types.EntityRef{Type: entry.SubjectType, ID: entry.SubjectID},
		Source:      types.EntityRef{Type: entry.SourceType, ID: entry.SourceID},
		Properties:  cloneProperties(entry.Properties),
		IPAddress:   entry.IPAddress,
		CreatedAt:   entry.CreatedAt,
	}
}

// FromRecord converts a domain record into the bun model so transports can
// reuse the conversion without duplicating it.
func FromRecord(record types.Record) *LogEntry {
	return toLogEntry(record)
}

// ToRecord converts the bun model into the domain record.
func ToRecord(entry *LogEntry) types.Record {
	return toRecord(entry)
}

func cloneProperties(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
