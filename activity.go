// Package activity records who did what, to what, and when: a composable
// activity logger, an append-only bun-backed store with a query layer, and a
// trackable-entity wrapper that turns lifecycle events into log entries.
package activity

import (
	"github.com/goliatone/go-activity/logger"
	"github.com/goliatone/go-activity/pkg/types"
	"github.com/goliatone/go-activity/store"
	"github.com/goliatone/go-activity/trackable"
)

// Re-export the core surface so consumers can wire the module from a single
// import without pulling in the individual packages.
type (
	Record          = types.Record
	EntityRef       = types.EntityRef
	Entity          = types.Entity
	ChangeTracker   = types.ChangeTracker
	Change          = types.Change
	Changes         = types.Changes
	LogResult       = types.LogResult
	Config          = types.Config
	TrackableConfig = types.TrackableConfig
	RequestMeta     = types.RequestMeta

	Logger        = logger.Logger
	LoggerConfig  = logger.Config
	Entry         = logger.Entry
	Store         = store.Store
	StoreConfig   = store.Config
	Filter        = store.Filter
	Tracker       = trackable.Tracker
	TrackerConfig = trackable.Config
)

const (
	ResultLogged           = types.ResultLogged
	ResultSuppressed       = types.ResultSuppressed
	ResultSkippedNoChanges = types.ResultSkippedNoChanges
)

// NewStore constructs the bun-backed activity store.
func NewStore(cfg store.Config) (*store.Store, error) {
	return store.New(cfg)
}

// NewLogger constructs a fluent activity logger.
func NewLogger(cfg logger.Config) *logger.Logger {
	return logger.New(cfg)
}

// NewTracker attaches lifecycle tracking to an entity.
func NewTracker(cfg trackable.Config) (*trackable.Tracker, error) {
	return trackable.New(cfg)
}

// NewEntityRef builds a polymorphic entity reference.
func NewEntityRef(entityType, id string) types.EntityRef {
	return types.NewEntityRef(entityType, id)
}

// DefaultConfig returns the stock global defaults.
func DefaultConfig() types.Config {
	return types.DefaultConfig()
}
