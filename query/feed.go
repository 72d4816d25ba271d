package query

import (
	"context"

	"github.com/goliatone/go-activity/pkg/types"
	"github.com/goliatone/go-activity/store"
	gocommand "github.com/goliatone/go-command"
)

// Reader is the read-side store contract consumed by the queries in this
// package. *store.Store satisfies it.
type Reader interface {
	Query(ctx context.Context, filter store.Filter) ([]types.Record, int, error)
	DistinctLogs(ctx context.Context, opts store.DistinctOptions) ([]string, error)
	DistinctEvents(ctx context.Context, opts store.DistinctOptions) ([]string, error)
	DistinctSources(ctx context.Context, opts store.DistinctOptions) ([]types.EntityRef, error)
	DistinctSubjects(ctx context.Context, opts store.DistinctOptions) ([]types.EntityRef, error)
	DistinctSubjectTypes(ctx context.Context, opts store.DistinctOptions) ([]string, error)
}

var _ Reader = (*store.Store)(nil)

// FeedRequest wraps a store filter for the feed query.
type FeedRequest struct {
	Filter store.Filter
}

// Type implements gocommand.Message.
func (FeedRequest) Type() string {
	return "query.activity.feed"
}

// Validate implements gocommand.Message.
func (FeedRequest) Validate() error {
	return nil
}

// FeedPage is a paginated slice of the activity log.
type FeedPage struct {
	Records    []types.Record
	Total      int
	NextOffset int
	HasMore    bool
}

// FeedQuery renders paginated activity feeds for listing UIs.
type FeedQuery struct {
	reader Reader
}

// NewFeedQuery constructs the feed query helper.
func NewFeedQuery(reader Reader) *FeedQuery {
	return &FeedQuery{reader: reader}
}

var _ gocommand.Querier[FeedRequest, FeedPage] = (*FeedQuery)(nil)

// Query fetches a page of activity records via the injected store.
func (q *FeedQuery) Query(ctx context.Context, req FeedRequest) (FeedPage, error) {
	if q.reader == nil {
		return FeedPage{}, types.ErrMissingStore
	}
	limit := req.Filter.Limit
	if limit <= 0 {
		limit = 50
	}
	records, total, err := q.reader.Query(ctx, req.Filter)
	if err != nil {
		return FeedPage{}, err
	}
	return FeedPage{
		Records:    records,
		Total:      total,
		NextOffset: req.Filter.Offset + limit,
		HasMore:    req.Filter.Offset+limit < total,
	}, nil
}
