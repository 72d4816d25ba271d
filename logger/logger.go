package logger

import (
	"context"

	"github.com/goliatone/go-activity/pkg/types"
	goerrors "github.com/goliatone/go-errors"
)

// BeforeHook runs just before a record is persisted. Returning true cancels
// the commit; the logger state is deliberately left dirty in that case.
type BeforeHook func(ctx context.Context, record *types.Record) bool

// AfterHook runs after a record was persisted.
type AfterHook func(ctx context.Context, record types.Record)

// ClearHook observes logger resets so owners (trackers) can re-populate
// subject, log name, and source before the next commit.
type ClearHook func(l *Logger)

// Config wires a Logger instance.
type Config struct {
	// Sink is the default store the logger commits to.
	Sink types.Sink

	// Connections optionally maps connection names (OnConnection) to
	// alternate sinks.
	Connections map[string]types.Sink

	// Actors resolves the real authenticated actor used to default the
	// source at commit time.
	Actors types.ActorResolver

	// Cache is the request-scoped dedup set. Nil disables deduplication
	// regardless of RequestActivityCache.
	Cache types.DedupeCache

	Logger types.Logger
}

// Logger is a builder/session object: it accumulates the fields of one
// pending activity record and commits them atomically through the store.
// A single Logger is not safe for concurrent use; each logical operation
// owns its own instance (or serializes access).
type Logger struct {
	sink        types.Sink
	connections map[string]types.Sink
	actors      types.ActorResolver
	cache       types.DedupeCache
	log         types.Logger

	event       string
	description string
	subject     types.Entity
	subjectRef  types.EntityRef
	source      types.EntityRef
	properties  map[string]any
	logName     string
	connection  string

	cacheEnabled bool

	beforeHooks     []BeforeHook
	afterHooks      []AfterHook
	beforeClear     []ClearHook
	afterClearHooks []ClearHook
}

// New constructs a logger. Long-lived instances are supported: Log clears
// the field state after a successful commit so the same logger can serve
// many events.
func New(cfg Config) *Logger {
	log := cfg.Logger
	if log == nil {
		log = types.NopLogger{}
	}
	return &Logger{
		sink:        cfg.Sink,
		connections: cfg.Connections,
		actors:      cfg.Actors,
		cache:       cfg.Cache,
		log:         log,
	}
}

// Event sets the event name. Required before Log.
func (l *Logger) Event(name string) *Logger {
	l.event = name
	return l
}

// Description sets the human-readable description. It may be a localizable
// key; resolution happens at read time, not here.
func (l *Logger) Description(text string) *Logger {
	l.description = text
	return l
}

// For sets the subject of the event. References that do not point at an
// existing entity (zero type or id) are ignored.
func (l *Logger) For(subject types.Entity) *Logger {
	ref := types.RefOf(subject)
	if ref.IsZero() {
		return l
	}
	l.subject = subject
	l.subjectRef = ref
	return l
}

// By sets the source of the event. Invalid references are ignored; an unset
// source defaults to the current real actor at commit time.
func (l *Logger) By(source types.Entity) *Logger {
	ref := types.RefOf(source)
	if ref.IsZero() {
		return l
	}
	l.source = ref
	return l
}

// WithProperties replaces the properties bag.
func (l *Logger) WithProperties(properties map[string]any) *Logger {
	if len(properties) == 0 {
		return l
	}
	l.properties = make(map[string]any, len(properties))
	for k, v := range properties {
		l.properties[k] = v
	}
	return l
}

// WithProperty sets one key in the properties bag.
func (l *Logger) WithProperty(key string, value any) *Logger {
	if l.properties == nil {
		l.properties = map[string]any{}
	}
	l.properties[key] = value
	return l
}

// InLog sets the log channel name.
func (l *Logger) InLog(name string) *Logger {
	l.logName = name
	return l
}

// OnConnection selects a named sink for the commit.
func (l *Logger) OnConnection(name string) *Logger {
	l.connection = name
	return l
}

// OnBeforeLog registers a cancelable pre-commit hook.
func (l *Logger) OnBeforeLog(hook BeforeHook) *Logger {
	if hook != nil {
		l.beforeHooks = append(l.beforeHooks, hook)
	}
	return l
}

// OnAfterLog registers a post-commit notification hook.
func (l *Logger) OnAfterLog(hook AfterHook) *Logger {
	if hook != nil {
		l.afterHooks = append(l.afterHooks, hook)
	}
	return l
}

// OnBeforeClear registers a hook observing resets before state is dropped.
func (l *Logger) OnBeforeClear(hook ClearHook) *Logger {
	if hook != nil {
		l.beforeClear = append(l.beforeClear, hook)
	}
	return l
}

// OnAfterClear registers a hook observing completed resets.
func (l *Logger) OnAfterClear(hook ClearHook) *Logger {
	if hook != nil {
		l.afterClearHooks = append(l.afterClearHooks, hook)
	}
	return l
}

// RequestActivityCache reports whether this instance participates in
// request-scoped deduplication, optionally toggling it first.
func (l *Logger) RequestActivityCache(enable ...bool) bool {
	if len(enable) > 0 {
		l.cacheEnabled = enable[0]
	}
	return l.cacheEnabled
}

// Subject returns the currently staged subject reference.
func (l *Logger) Subject() types.EntityRef { return l.subjectRef }

// Entry collects every field of one activity in a single value, mirroring the
// all-in-one Log call shape. Zero fields leave previously staged state alone.
type Entry struct {
	Event       string
	Description string
	Subject     types.Entity
	Source      types.Entity
	Properties  map[string]any
	Log         string
	Connection  string
}

// LogEntry merges the non-zero entry fields into the staged state and commits.
func (l *Logger) LogEntry(ctx context.Context, entry Entry) (types.LogResult, error) {
	if entry.Event != "" {
		l.Event(entry.Event)
	}
	if entry.Description != "" {
		l.Description(entry.Description)
	}
	if entry.Subject != nil {
		l.For(entry.Subject)
	}
	if entry.Source != nil {
		l.By(entry.Source)
	}
	if len(entry.Properties) > 0 {
		l.WithProperties(entry.Properties)
	}
	if entry.Log != "" {
		l.InLog(entry.Log)
	}
	if entry.Connection != "" {
		l.OnConnection(entry.Connection)
	}
	return l.Log(ctx)
}

// LogEvent sets the event name and commits.
func (l *Logger) LogEvent(ctx context.Context, event string) (types.LogResult, error) {
	if event != "" {
		l.Event(event)
	}
	return l.Log(ctx)
}

// Log commits the staged activity: validate, default the source to the real
// actor, run pre-commit hooks (dedup included), persist, notify, clear.
// Suppression leaves the field state dirty; call Clear before reusing the
// instance after a suppressed commit.
func (l *Logger) Log(ctx context.Context) (types.LogResult, error) {
	if l.event == "" {
		return types.ResultSuppressed, goerrors.New(
			"the event name for an activity log entry cannot be empty",
			goerrors.CategoryValidation,
		).WithCode(goerrors.CodeBadRequest).WithTextCode(types.TextCodeEventRequired)
	}
	if l.sink == nil && len(l.connections) == 0 {
		return types.ResultSuppressed, types.ErrMissingSink
	}

	if l.source.IsZero() && l.actors != nil {
		if ref, ok := l.actors.RealActor(ctx); ok && !ref.IsZero() {
			l.source = ref
		}
	}

	record := types.Record{
		Log:         l.logName,
		Event:       l.event,
		Description: l.description,
		Subject:     l.subjectRef,
		Source:      l.source,
		Properties:  l.properties,
	}

	for _, hook := range l.beforeHooks {
		if hook(ctx, &record) {
			l.log.Debug("activity log vetoed by pre-commit hook", "event", record.Event)
			return types.ResultSuppressed, nil
		}
	}

	fingerprint, deduped := l.checkDedupe(ctx)
	if deduped {
		l.log.Debug("activity log suppressed by request dedup cache", "event", record.Event)
		return types.ResultSuppressed, nil
	}

	sink, err := l.resolveSink()
	if err != nil {
		return types.ResultSuppressed, err
	}

	result, err := sink.Insert(ctx, &record, l.subject)
	if err != nil {
		return result, err
	}

	if result == types.ResultLogged {
		for _, hook := range l.afterHooks {
			hook(ctx, record)
		}
		l.rememberFingerprint(ctx, fingerprint)
	}

	l.Clear()
	return result, nil
}

// Clear resets the staged fields so the instance can be reused. Hook
// registrations and the cache toggle survive the reset.
func (l *Logger) Clear() *Logger {
	for _, hook := range l.beforeClear {
		hook(l)
	}
	l.event = ""
	l.description = ""
	l.subject = nil
	l.subjectRef = types.EntityRef{}
	l.source = types.EntityRef{}
	l.properties = nil
	l.logName = ""
	l.connection = ""
	for _, hook := range l.afterClearHooks {
		hook(l)
	}
	return l
}

func (l *Logger) resolveSink() (types.Sink, error) {
	if l.connection == "" {
		if l.sink == nil {
			return nil, types.ErrMissingSink
		}
		return l.sink, nil
	}
	sink, ok := l.connections[l.connection]
	if !ok {
		return nil, goerrors.Wrap(types.ErrUnknownConnection, goerrors.CategoryValidation, "connection "+l.connection).
			WithCode(goerrors.CodeBadRequest)
	}
	return sink, nil
}

// checkDedupe consults the request cache. With a plain DedupeCache the check
// and the later Add are two steps: concurrent identical commits within one
// request window may both land. That race is documented and accepted; cache
// backends implementing CheckAndAdder close it, at the cost of burning the
// fingerprint even when the insert itself later fails.
func (l *Logger) checkDedupe(ctx context.Context) (uint64, bool) {
	if !l.cacheEnabled || l.cache == nil {
		return 0, false
	}
	fingerprint := l.Fingerprint()
	if cas, ok := l.cache.(types.CheckAndAdder); ok {
		return 0, !cas.CheckAndAdd(ctx, fingerprint)
	}
	return fingerprint, l.cache.Contains(ctx, fingerprint)
}

func (l *Logger) rememberFingerprint(ctx context.Context, fingerprint uint64) {
	if !l.cacheEnabled || l.cache == nil || fingerprint == 0 {
		return
	}
	l.cache.Add(ctx, fingerprint)
}
