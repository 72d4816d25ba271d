package types

import "strings"

// TrackedEvent overrides the activity name/description recorded for one
// lifecycle event. Zero fields fall back to the tracker defaults.
type TrackedEvent struct {
	Name        string
	Description string
}

// TrackableConfig is the per entity type configuration supplied by the
// integrator. The *bool overrides fall through to the global Config defaults
// when nil, mirroring a three-state on/off/unset toggle.
type TrackableConfig struct {
	// TrackedEvents maps lifecycle event names to activity overrides. An
	// empty map means the tracker default set (created/updated/archived).
	TrackedEvents map[string]TrackedEvent

	// AllowDuplicates disables request-scoped deduplication for this
	// entity's logger.
	AllowDuplicates bool

	// IgnoredAttributes are excluded from change-diff computation.
	IgnoredAttributes []string

	LogIPAddress   *bool
	LogUserAgent   *bool
	TrackChanges   *bool
	InjectUIWidget *bool
}

// TrackEvents builds a tracked-event map from a plain list of lifecycle event
// names, each tracked with default naming.
func TrackEvents(names ...string) map[string]TrackedEvent {
	out := make(map[string]TrackedEvent, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = TrackedEvent{}
	}
	return out
}

// Config carries the global defaults consumed at startup plus the per entity
// type overrides.
type Config struct {
	LogIPAddress   bool
	LogUserAgent   bool
	TrackChanges   bool
	InjectUIWidget bool

	// RecognizedModules are the top-level module names used by log-name
	// derivation: a three-segment type whose first segment is recognized is
	// grouped under "Module.<first>".
	RecognizedModules []string

	// Entities maps entity type identifiers to their trackable configuration.
	Entities map[string]TrackableConfig
}

// DefaultConfig mirrors the stock plugin defaults: everything on, with the
// standard CMS module names recognized.
func DefaultConfig() Config {
	return Config{
		LogIPAddress:      true,
		LogUserAgent:      true,
		TrackChanges:      true,
		InjectUIWidget:    true,
		RecognizedModules: []string{"Backend", "Cms", "System"},
	}
}

// EntityConfig returns the trackable configuration registered for the entity
// type, or a zero config when none was supplied.
func (c Config) EntityConfig(entityType string) TrackableConfig {
	if len(c.Entities) == 0 {
		return TrackableConfig{}
	}
	return c.Entities[entityType]
}

// ResolveLogIPAddress collapses the per-entity override chain for IP logging.
func (c Config) ResolveLogIPAddress(entityType string) bool {
	return resolveOverride(c.EntityConfig(entityType).LogIPAddress, c.LogIPAddress)
}

// ResolveLogUserAgent collapses the per-entity override chain for user-agent
// logging.
func (c Config) ResolveLogUserAgent(entityType string) bool {
	return resolveOverride(c.EntityConfig(entityType).LogUserAgent, c.LogUserAgent)
}

// ResolveTrackChanges collapses the per-entity override chain for change
// tracking. Change tracking always requires a subject; callers handle that.
func (c Config) ResolveTrackChanges(entityType string) bool {
	return resolveOverride(c.EntityConfig(entityType).TrackChanges, c.TrackChanges)
}

// ResolveInjectUIWidget collapses the per-entity override chain for the
// admin-form widget injection flag. The flag is surfaced for hosts; this
// module does not render anything.
func (c Config) ResolveInjectUIWidget(entityType string) bool {
	return resolveOverride(c.EntityConfig(entityType).InjectUIWidget, c.InjectUIWidget)
}

func resolveOverride(override *bool, fallback bool) bool {
	if override != nil {
		return *override
	}
	return fallback
}

// Bool returns a pointer suitable for the TrackableConfig override fields.
func Bool(v bool) *bool { return &v }
