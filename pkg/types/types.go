package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is the persisted unit of activity: one named event, optionally tied
// to a subject (the thing it happened to) and a source (who caused it).
// Records are append-only; once persisted they are never mutated.
type Record struct {
	ID          uuid.UUID
	Log         string
	Event       string
	Description string
	Subject     EntityRef
	Source      EntityRef
	Properties  map[string]any
	IPAddress   string
	CreatedAt   time.Time
}

// Clone returns a copy of the record with the properties bag detached so
// callers can mutate safely.
func (r Record) Clone() Record {
	out := r
	out.Properties = cloneMap(r.Properties)
	return out
}

// Change captures a single attribute transition recorded for update events.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Changes maps attribute names to their before/after values. It is stored
// under the "changes" key of the record properties bag.
type Changes map[string]Change

// LogResult distinguishes a persisted activity from the two deliberate soft
// no-ops (dedup suppression, empty change diff). Neither no-op is an error.
type LogResult int

const (
	// ResultLogged means a record was persisted.
	ResultLogged LogResult = iota
	// ResultSuppressed means a pre-commit hook (dedup or veto) cancelled the log.
	ResultSuppressed
	// ResultSkippedNoChanges means change tracking produced an empty diff and
	// the update event was not recorded.
	ResultSkippedNoChanges
)

// Logged reports whether the result corresponds to a persisted record.
func (r LogResult) Logged() bool { return r == ResultLogged }

func (r LogResult) String() string {
	switch r {
	case ResultLogged:
		return "logged"
	case ResultSuppressed:
		return "suppressed"
	case ResultSkippedNoChanges:
		return "skipped_no_changes"
	default:
		return "unknown"
	}
}

// Entity is anything that can be referenced by an activity record. A live
// domain entity exposes its polymorphic reference; EntityRef itself satisfies
// the interface so ad-hoc references can be passed wherever entities are
// accepted.
type Entity interface {
	ActivityRef() EntityRef
}

// ChangeTracker is the lifecycle-hook contract consumed from the host entity
// framework: the tracked entity must enumerate its dirty attributes and
// expose the original pre-change values so update diffs can be computed.
type ChangeTracker interface {
	DirtyAttributes() map[string]any
	OriginalAttribute(name string) (any, bool)
}

// RequestMeta carries per-request metadata (client IP, user agent) that the
// store stamps onto records at insert time when enabled.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaKey struct{}

// WithRequestMeta attaches request metadata to the context so downstream
// inserts can enrich records without a dependency on any HTTP framework.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the request metadata previously attached to
// the context, if any.
func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	if ctx == nil {
		return RequestMeta{}, false
	}
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta, ok
}

// DedupeCache is the request-scoped set of previously logged activity
// fingerprints. The host owns its lifetime: it must be created fresh (or
// cleared) at the start of each logical request. Implementations are not
// required to be safe for concurrent check-then-add; see CheckAndAdder.
type DedupeCache interface {
	Contains(ctx context.Context, fingerprint uint64) bool
	Add(ctx context.Context, fingerprint uint64)
}

// CheckAndAdder is an optional fast path for dedupe backends that can perform
// the membership check and insertion atomically (e.g. redis SETNX). When a
// cache implements it, the logger closes the check-then-set race that exists
// with a plain DedupeCache shared across concurrent handlers.
type CheckAndAdder interface {
	// CheckAndAdd records the fingerprint and reports true when it was not
	// already present.
	CheckAndAdd(ctx context.Context, fingerprint uint64) bool
}

// ActorResolver resolves the current authenticated actor for a request. It
// must prefer the real (non-impersonating) identity when the host auth system
// supports impersonation.
type ActorResolver interface {
	RealActor(ctx context.Context) (EntityRef, bool)
}

// ActorResolverFunc adapts a function to the ActorResolver interface.
type ActorResolverFunc func(ctx context.Context) (EntityRef, bool)

// RealActor implements ActorResolver.
func (f ActorResolverFunc) RealActor(ctx context.Context) (EntityRef, bool) { return f(ctx) }

// Sink is the minimal write contract for the activity store. Insert persists
// the record after enrichment; subject may be nil for ad-hoc records. The
// result distinguishes persisted records from skipped no-op updates.
type Sink interface {
	Insert(ctx context.Context, record *Record, subject Entity) (LogResult, error)
}

// Truncator wipes every record in the store's connection scope. Destructive
// and irreversible; callers gate it behind their own authorization check.
type Truncator interface {
	Truncate(ctx context.Context) error
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used across the module.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
