package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_OverrideResolution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Entities = map[string]TrackableConfig{
		"Acme.Shop.Models.Order": {
			LogIPAddress: Bool(false),
			TrackChanges: Bool(false),
		},
	}

	require.False(t, cfg.ResolveLogIPAddress("Acme.Shop.Models.Order"))
	require.False(t, cfg.ResolveTrackChanges("Acme.Shop.Models.Order"))

	// nil overrides fall through to the global default
	require.True(t, cfg.ResolveLogUserAgent("Acme.Shop.Models.Order"))
	require.True(t, cfg.ResolveInjectUIWidget("Acme.Shop.Models.Order"))

	// unregistered entity types get the globals
	require.True(t, cfg.ResolveLogIPAddress("Backend.Models.User"))
}

func TestConfig_EntityConfig(t *testing.T) {
	cfg := Config{}
	require.Empty(t, cfg.EntityConfig("Backend.Models.User").TrackedEvents)

	cfg.Entities = map[string]TrackableConfig{
		"Backend.Models.User": {AllowDuplicates: true},
	}
	require.True(t, cfg.EntityConfig("Backend.Models.User").AllowDuplicates)
	require.False(t, cfg.EntityConfig("Cms.Models.Page").AllowDuplicates)
}

func TestTrackEvents(t *testing.T) {
	events := TrackEvents("afterCreate", " afterDelete ", "")
	require.Len(t, events, 2)
	require.Contains(t, events, "afterCreate")
	require.Contains(t, events, "afterDelete")
}
