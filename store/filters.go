package store

import (
	"context"
	"strings"

	"github.com/goliatone/go-activity/pkg/types"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// DefaultDistinctLimit caps distinct-value aggregation; cardinality is
// unbounded on high-volume logs so option lists must stay sized for UI use.
const DefaultDistinctLimit = 500

// Filter narrows activity queries. All predicates compose with AND; the
// Sources predicate itself groups by distinct type, one IN clause per type,
// OR across types.
type Filter struct {
	Logs         []string
	Events       []string
	Subject      types.EntityRef
	Sources      []types.EntityRef
	SubjectTypes []string

	// Ascending flips the default newest-first ordering.
	Ascending bool
	Limit     int
	Offset    int
}

// Query returns the records matching the filter plus the total match count
// for pagination.
func (s *Store) Query(ctx context.Context, filter Filter) ([]types.Record, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	order := "created_at DESC"
	if filter.Ascending {
		order = "created_at ASC"
	}

	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr(order).Limit(limit).Offset(offset)
			return applyFilter(q, filter)
		},
	}

	rows, total, err := s.List(ctx, criteria...)
	if err != nil {
		return nil, 0, goerrors.Wrap(err, goerrors.CategoryInternal, "activity query failed").
			WithTextCode(types.TextCodeStorageFailure)
	}
	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, total, nil
}

func applyFilter(q *bun.SelectQuery, filter Filter) *bun.SelectQuery {
	if len(filter.Logs) > 0 {
		q = q.Where("log IN (?)", bun.In(filter.Logs))
	}
	if len(filter.Events) > 0 {
		q = q.Where("event IN (?)", bun.In(filter.Events))
	}
	if !filter.Subject.IsZero() {
		q = q.Where("subject_type = ? AND subject_id = ?", filter.Subject.Type, filter.Subject.ID)
	}
	if len(filter.SubjectTypes) > 0 {
		q = q.Where("subject_type IN (?)", bun.In(filter.SubjectTypes))
	}
	q = applySourcesFilter(q, filter.Sources)
	return q
}

// applySourcesFilter groups the requested sources by type so the predicate
// stays one equality-in clause per distinct type, combined with OR.
func applySourcesFilter(q *bun.SelectQuery, sources []types.EntityRef) *bun.SelectQuery {
	if len(sources) == 0 {
		return q
	}
	byType := make(map[string][]string)
	order := make([]string, 0, len(sources))
	for _, ref := range sources {
		if ref.IsZero() {
			continue
		}
		if _, seen := byType[ref.Type]; !seen {
			order = append(order, ref.Type)
		}
		byType[ref.Type] = append(byType[ref.Type], ref.ID)
	}
	if len(order) == 0 {
		return q
	}

	conditions := make([]string, 0, len(order))
	args := make([]any, 0, len(order)*2)
	for _, sourceType := range order {
		conditions = append(conditions, "(source_type = ? AND source_id IN (?))")
		args = append(args, sourceType, bun.In(byType[sourceType]))
	}
	return q.Where(strings.Join(conditions, " OR "), args...)
}

// DistinctOptions narrows distinct-value aggregation. Zero refs mean no
// narrowing; Limit defaults to DefaultDistinctLimit.
type DistinctOptions struct {
	Subject types.EntityRef
	Source  types.EntityRef
	Limit   int
}

// DistinctLogs returns the distinct log channel names present in the store.
func (s *Store) DistinctLogs(ctx context.Context, opts DistinctOptions) ([]string, error) {
	return s.distinctColumn(ctx, "log", opts)
}

// DistinctEvents returns the distinct event names present in the store.
func (s *Store) DistinctEvents(ctx context.Context, opts DistinctOptions) ([]string, error) {
	return s.distinctColumn(ctx, "event", opts)
}

// DistinctSubjectTypes returns the distinct subject type identifiers.
func (s *Store) DistinctSubjectTypes(ctx context.Context, opts DistinctOptions) ([]string, error) {
	return s.distinctColumn(ctx, "subject_type", opts)
}

// DistinctSources returns the distinct source references present in the store.
func (s *Store) DistinctSources(ctx context.Context, opts DistinctOptions) ([]types.EntityRef, error) {
	return s.distinctRefs(ctx, "source_id", "source_type", opts)
}

// DistinctSubjects returns the distinct subject references present in the store.
func (s *Store) DistinctSubjects(ctx context.Context, opts DistinctOptions) ([]types.EntityRef, error) {
	return s.distinctRefs(ctx, "subject_id", "subject_type", opts)
}

func (s *Store) distinctColumn(ctx context.Context, column string, opts DistinctOptions) ([]string, error) {
	if s.db == nil {
		return nil, types.ErrMissingDB
	}
	query := s.db.NewSelect().
		Model((*LogEntry)(nil)).
		ColumnExpr("DISTINCT ?", bun.Ident(column)).
		Where("? != ''", bun.Ident(column)).
		OrderExpr("?", bun.Ident(column)).
		Limit(distinctLimit(opts.Limit))
	query = applyDistinctNarrowing(query, opts)

	var values []string
	if err := query.Scan(ctx, &values); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "activity distinct query failed").
			WithTextCode(types.TextCodeStorageFailure)
	}
	return values, nil
}

func (s *Store) distinctRefs(ctx context.Context, idColumn, typeColumn string, opts DistinctOptions) ([]types.EntityRef, error) {
	if s.db == nil {
		return nil, types.ErrMissingDB
	}
	query := s.db.NewSelect().
		Model((*LogEntry)(nil)).
		ColumnExpr("DISTINCT ? AS ref_id, ? AS ref_type", bun.Ident(idColumn), bun.Ident(typeColumn)).
		Where("? != '' AND ? != ''", bun.Ident(idColumn), bun.Ident(typeColumn)).
		OrderExpr("?, ?", bun.Ident(typeColumn), bun.Ident(idColumn)).
		Limit(distinctLimit(opts.Limit))
	query = applyDistinctNarrowing(query, opts)

	type row struct {
		RefID   string `bun:"ref_id"`
		RefType string `bun:"ref_type"`
	}
	var rows []row
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "activity distinct query failed").
			WithTextCode(types.TextCodeStorageFailure)
	}
	refs := make([]types.EntityRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, types.EntityRef{Type: r.RefType, ID: r.RefID})
	}
	return refs, nil
}

func applyDistinctNarrowing(q *bun.SelectQuery, opts DistinctOptions) *bun.SelectQuery {
	if !opts.Subject.IsZero() {
		q = q.Where("subject_type = ? AND subject_id = ?", opts.Subject.Type, opts.Subject.ID)
	}
	if !opts.Source.IsZero() {
		q = q.Where("source_type = ? AND source_id = ?", opts.Source.Type, opts.Source.ID)
	}
	return q
}

func distinctLimit(limit int) int {
	if limit <= 0 {
		return DefaultDistinctLimit
	}
	return limit
}
