package types

// UpdatedAtAttribute is always excluded from change diffs: the activity log
// itself is what records when something changed.
const UpdatedAtAttribute = "updated_at"

// ComputeChanges builds the attribute-level delta for an update event from
// the tracker's dirty set, excluding updated_at and any configured ignored
// attributes. A nil-to-empty-string transition is treated as a non-change to
// avoid default-coercion noise. Values are recorded raw; decrypting or
// masking them for display is a read-side concern.
func ComputeChanges(tracker ChangeTracker, ignored []string) Changes {
	if tracker == nil {
		return nil
	}
	dirty := tracker.DirtyAttributes()
	if len(dirty) == 0 {
		return nil
	}

	skip := make(map[string]struct{}, len(ignored)+1)
	skip[UpdatedAtAttribute] = struct{}{}
	for _, name := range ignored {
		skip[name] = struct{}{}
	}

	changes := make(Changes, len(dirty))
	for name, to := range dirty {
		if _, ignored := skip[name]; ignored {
			continue
		}
		from, _ := tracker.OriginalAttribute(name)
		if from == nil && to == "" {
			continue
		}
		changes[name] = Change{From: from, To: to}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
