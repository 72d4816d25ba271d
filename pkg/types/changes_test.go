package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	dirty     map[string]any
	originals map[string]any
}

func (f fakeTracker) DirtyAttributes() map[string]any {
	return f.dirty
}

func (f fakeTracker) OriginalAttribute(name string) (any, bool) {
	value, ok := f.originals[name]
	return value, ok
}

func TestComputeChanges(t *testing.T) {
	tracker := fakeTracker{
		dirty: map[string]any{
			"status":     "paid",
			"updated_at": "2026-08-30",
		},
		originals: map[string]any{
			"status":     "pending",
			"updated_at": "2026-08-29",
		},
	}

	changes := ComputeChanges(tracker, nil)
	require.Len(t, changes, 1)
	require.Equal(t, Change{From: "pending", To: "paid"}, changes["status"])
}

func TestComputeChanges_IgnoredAttributes(t *testing.T) {
	tracker := fakeTracker{
		dirty:     map[string]any{"counter": 2, "status": "paid"},
		originals: map[string]any{"counter": 1, "status": "pending"},
	}

	changes := ComputeChanges(tracker, []string{"counter"})
	require.Len(t, changes, 1)
	require.Contains(t, changes, "status")
}

func TestComputeChanges_NilToEmptyStringFiltered(t *testing.T) {
	tracker := fakeTracker{
		dirty:     map[string]any{"note": "", "label": "x"},
		originals: map[string]any{},
	}

	changes := ComputeChanges(tracker, nil)
	require.NotContains(t, changes, "note")
	require.Equal(t, Change{From: nil, To: "x"}, changes["label"])
}

func TestComputeChanges_Empty(t *testing.T) {
	require.Nil(t, ComputeChanges(nil, nil))
	require.Nil(t, ComputeChanges(fakeTracker{}, nil))

	onlyIgnored := fakeTracker{
		dirty:     map[string]any{"updated_at": "2026-08-30"},
		originals: map[string]any{"updated_at": "2026-08-29"},
	}
	require.Nil(t, ComputeChanges(onlyIgnored, nil))
}
