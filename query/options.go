package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-activity/pkg/types"
	"github.com/goliatone/go-activity/store"
)

// OptionsQuery builds the value sets that populate filter dropdowns in
// listing UIs: available logs, events, sources, subjects, and subject types.
// Every lookup is bounded (store distinct limit, default 500) because the
// underlying cardinality is unbounded on high-volume logs.
type OptionsQuery struct {
	reader Reader
}

// NewOptionsQuery constructs the filter-options helper.
func NewOptionsQuery(reader Reader) *OptionsQuery {
	return &OptionsQuery{reader: reader}
}

// LogOptions returns the available log channels keyed by themselves.
func (q *OptionsQuery) LogOptions(ctx context.Context, opts store.DistinctOptions) (map[string]string, error) {
	return q.identityOptions(ctx, q.reader.DistinctLogs, opts)
}

// EventOptions returns the available event names keyed by themselves.
func (q *OptionsQuery) EventOptions(ctx context.Context, opts store.DistinctOptions) (map[string]string, error) {
	return q.identityOptions(ctx, q.reader.DistinctEvents, opts)
}

// SourceOptions returns the available sources keyed by their "id|type"
// encoding, labelled for human consumption. When a source narrowing is
// already applied the single known source is returned directly.
func (q *OptionsQuery) SourceOptions(ctx context.Context, opts store.DistinctOptions) (map[string]string, error) {
	if q.reader == nil {
		return nil, types.ErrMissingStore
	}
	if !opts.Source.IsZero() {
		return map[string]string{opts.Source.Key(): RefLabel(opts.Source)}, nil
	}
	refs, err := q.reader.DistinctSources(ctx, opts)
	if err != nil {
		return nil, err
	}
	return refOptions(refs), nil
}

// SubjectOptions returns the available subjects keyed by their "id|type"
// encoding.
func (q *OptionsQuery) SubjectOptions(ctx context.Context, opts store.DistinctOptions) (map[string]string, error) {
	if q.reader == nil {
		return nil, types.ErrMissingStore
	}
	if !opts.Subject.IsZero() {
		return map[string]string{opts.Subject.Key(): RefLabel(opts.Subject)}, nil
	}
	refs, err := q.reader.DistinctSubjects(ctx, opts)
	if err != nil {
		return nil, err
	}
	return refOptions(refs), nil
}

// SubjectTypeOptions returns the available subject types keyed by the raw
// type identifier, labelled by namespace.
func (q *OptionsQuery) SubjectTypeOptions(ctx context.Context, opts store.DistinctOptions) (map[string]string, error) {
	if q.reader == nil {
		return nil, types.ErrMissingStore
	}
	typeIDs, err := q.reader.DistinctSubjectTypes(ctx, opts)
	if err != nil {
		return nil, err
	}
	options := make(map[string]string, len(typeIDs))
	for _, typeID := range typeIDs {
		if typeID == "" {
			continue
		}
		options[typeID] = TypeLabel(typeID)
	}
	return options, nil
}

func (q *OptionsQuery) identityOptions(
	ctx context.Context,
	distinct func(context.Context, store.DistinctOptions) ([]string, error),
	opts store.DistinctOptions,
) (map[string]string, error) {
	if q.reader == nil {
		return nil, types.ErrMissingStore
	}
	values, err := distinct(ctx, opts)
	if err != nil {
		return nil, err
	}
	options := make(map[string]string, len(values))
	for _, value := range values {
		options[value] = value
	}
	return options, nil
}

func refOptions(refs []types.EntityRef) map[string]string {
	options := make(map[string]string, len(refs))
	for _, ref := range refs {
		if ref.IsZero() {
			continue
		}
		options[ref.Key()] = RefLabel(ref)
	}
	return options
}

// RefLabel renders an entity reference for dropdown display: the base type
// name followed by the key.
func RefLabel(ref types.EntityRef) string {
	if ref.IsZero() {
		return ""
	}
	return baseTypeName(ref.Type) + ": " + ref.ID
}

// TypeLabel renders a type identifier for dropdown display: recognized
// module shapes collapse to "Module Type"; vendor namespaces collapse to
// "Vendor.Plugin: Type"; anything else is shown as-is.
func TypeLabel(typeID string) string {
	segments := splitSegments(typeID)
	switch len(segments) {
	case 3:
		return segments[0] + " " + segments[2]
	case 4:
		return segments[0] + "." + segments[1] + ": " + segments[3]
	default:
		return typeID
	}
}

func baseTypeName(typeID string) string {
	segments := splitSegments(typeID)
	if len(segments) == 0 {
		return typeID
	}
	return segments[len(segments)-1]
}

func splitSegments(typeID string) []string {
	return strings.FieldsFunc(typeID, func(r rune) bool {
		return r == '.' || r == '/' || r == '\\'
	})
}
