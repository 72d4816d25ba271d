// Package trackable wires an entity's lifecycle events to automatic activity
// logging. It favors composition over mixins: any entity that can expose a
// stable type+id reference, enumerate its dirty attributes, and forward
// lifecycle notifications can be wrapped by a Tracker.
package trackable

import (
	"context"

	"github.com/goliatone/go-activity/logger"
	"github.com/goliatone/go-activity/pkg/types"
	goerrors "github.com/goliatone/go-errors"
)

// Lifecycle hook names the default tracked-event set binds to. Hosts forward
// their own framework's notifications under these names (or any custom name
// they configure).
const (
	EventAfterCreate = "afterCreate"
	EventAfterUpdate = "afterUpdate"
	EventAfterDelete = "afterDelete"
)

func defaultTrackedEvents() map[string]types.TrackedEvent {
	return map[string]types.TrackedEvent{
		EventAfterCreate: {Name: "created", Description: "The record was created"},
		EventAfterUpdate: {Name: "updated", Description: "The record was updated"},
		EventAfterDelete: {Name: "archived", Description: "The record was archived"},
	}
}

// Config wires a Tracker around one entity.
type Config struct {
	// Entity is the tracked subject. It may be attached before the entity is
	// persisted; the tracker stays dormant until the reference resolves.
	Entity types.Entity

	// Logger optionally supplies a prebuilt logger; otherwise one is
	// constructed from Sink/Connections/Actors/Cache.
	Logger *logger.Logger

	Sink        types.Sink
	Connections map[string]types.Sink
	Actors      types.ActorResolver
	Cache       types.DedupeCache

	// Defaults carries the global configuration; the per-entity
	// TrackableConfig is resolved from it by subject type.
	Defaults types.Config

	Log types.Logger
}

// Tracker owns one logger for the lifetime of one entity and turns lifecycle
// notifications into activity records.
type Tracker struct {
	entity   types.Entity
	logger   *logger.Logger
	defaults types.Config
	config   types.TrackableConfig
	tracked  map[string]types.TrackedEvent
	log      types.Logger

	populated bool
}

// New attaches a tracker to the entity. The owned logger participates in
// request deduplication unless the entity config allows duplicates.
func New(cfg Config) (*Tracker, error) {
	if cfg.Entity == nil {
		return nil, goerrors.New("trackable: entity is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	log := cfg.Log
	if log == nil {
		log = types.NopLogger{}
	}

	entityType := cfg.Entity.ActivityRef().Type
	entityCfg := cfg.Defaults.EntityConfig(entityType)

	l := cfg.Logger
	if l == nil {
		l = logger.New(logger.Config{
			Sink:        cfg.Sink,
			Connections: cfg.Connections,
			Actors:      cfg.Actors,
			Cache:       cfg.Cache,
			Logger:      log,
		})
	}
	l.RequestActivityCache(!entityCfg.AllowDuplicates)

	tracked := entityCfg.TrackedEvents
	if len(tracked) == 0 {
		tracked = defaultTrackedEvents()
	}

	t := &Tracker{
		entity:   cfg.Entity,
		logger:   l,
		defaults: cfg.Defaults,
		config:   entityCfg,
		tracked:  tracked,
		log:      log,
	}

	// Re-arm after every reset so the logger is primed before the next
	// lifecycle event fires. Log() clears on success, so without this the
	// second event of a request would commit without subject or channel.
	l.OnAfterClear(func(*logger.Logger) {
		t.populated = false
		t.populate()
	})

	t.populate()
	return t, nil
}

// populate stages subject and log channel on the owned logger, once per
// entity load. It stays a no-op until the entity reference resolves (i.e.
// the entity has been persisted and has an id).
func (t *Tracker) populate() {
	if t.populated {
		return
	}
	ref := types.RefOf(t.entity)
	if ref.IsZero() {
		return
	}

	t.logger.For(t.entity)
	if namer, ok := t.entity.(LogNamer); ok {
		t.logger.InLog(namer.ActivityLogName())
	} else {
		t.logger.InLog(LogName(ref.Type, t.defaults.RecognizedModules))
	}
	// The source is not staged here: the logger defaults it to the real
	// authenticated actor at commit time, which keeps it request-accurate
	// for long-lived trackers.
	t.populated = true
}

// HandleEvent records the activity configured for the lifecycle event. Events
// outside the tracked set, and events fired before the entity is loaded, are
// ignored with a suppressed result.
func (t *Tracker) HandleEvent(ctx context.Context, eventName string) (types.LogResult, error) {
	t.populate()
	if !t.populated {
		return types.ResultSuppressed, nil
	}
	tracked, ok := t.tracked[eventName]
	if !ok {
		return types.ResultSuppressed, nil
	}

	name := tracked.Name
	if name == "" {
		name = eventName
	}
	description := tracked.Description
	if description == "" {
		description = "The " + eventName + " internal event was fired"
	}

	return t.logger.Event(name).Description(description).Log(ctx)
}

// Activity exposes the owned logger for manual entries, optionally staging an
// event name. It fails until the tracked entity has been loaded.
func (t *Tracker) Activity(event string) (*logger.Logger, error) {
	t.populate()
	if !t.populated {
		return nil, goerrors.New(
			"the tracked entity has not been loaded yet, the logger is not initialized",
			goerrors.CategoryInternal,
		).WithTextCode(types.TextCodeTrackerNotPrepared)
	}
	if event != "" {
		t.logger.Event(event)
	}
	return t.logger, nil
}

// TrackedEvents returns the effective tracked-event set.
func (t *Tracker) TrackedEvents() map[string]types.TrackedEvent {
	out := make(map[string]types.TrackedEvent, len(t.tracked))
	for name, event := range t.tracked {
		out[name] = event
	}
	return out
}
