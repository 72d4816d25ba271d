package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-activity/pkg/types"
	"github.com/goliatone/go-activity/store"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	records      []types.Record
	total        int
	err          error
	lastFilter   store.Filter
	logs, events []string
	subjectTypes []string
	sources      []types.EntityRef
	subjects     []types.EntityRef
}

func (f *fakeReader) Query(_ context.Context, filter store.Filter) ([]types.Record, int, error) {
	f.lastFilter = filter
	return f.records, f.total, f.err
}

func (f *fakeReader) DistinctLogs(context.Context, store.DistinctOptions) ([]string, error) {
	return f.logs, f.err
}

func (f *fakeReader) DistinctEvents(context.Context, store.DistinctOptions) ([]string, error) {
	return f.events, f.err
}

func (f *fakeReader) DistinctSources(context.Context, store.DistinctOptions) ([]types.EntityRef, error) {
	return f.sources, f.err
}

func (f *fakeReader) DistinctSubjects(context.Context, store.DistinctOptions) ([]types.EntityRef, error) {
	return f.subjects, f.err
}

func (f *fakeReader) DistinctSubjectTypes(context.Context, store.DistinctOptions) ([]string, error) {
	return f.subjectTypes, f.err
}

func TestFeedQuery_Pagination(t *testing.T) {
	reader := &fakeReader{
		records: []types.Record{{Event: "created"}, {Event: "updated"}},
		total:   120,
	}
	feed := NewFeedQuery(reader)

	page, err := feed.Query(context.Background(), FeedRequest{
		Filter: store.Filter{Limit: 2, Offset: 0},
	})
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	require.Equal(t, 120, page.Total)
	require.Equal(t, 2, page.NextOffset)
	require.True(t, page.HasMore)
}

func TestFeedQuery_LastPage(t *testing.T) {
	reader := &fakeReader{
		records: []types.Record{{Event: "created"}},
		total:   101,
	}
	feed := NewFeedQuery(reader)

	page, err := feed.Query(context.Background(), FeedRequest{
		Filter: store.Filter{Limit: 50, Offset: 100},
	})
	require.NoError(t, err)
	require.Equal(t, 150, page.NextOffset)
	require.False(t, page.HasMore)
}

func TestFeedQuery_DefaultLimit(t *testing.T) {
	reader := &fakeReader{total: 200}
	feed := NewFeedQuery(reader)

	page, err := feed.Query(context.Background(), FeedRequest{})
	require.NoError(t, err)
	require.Equal(t, 50, page.NextOffset)
	require.True(t, page.HasMore)
}

func TestFeedQuery_PassesFilterThrough(t *testing.T) {
	reader := &fakeReader{}
	feed := NewFeedQuery(reader)

	subject := types.NewEntityRef("Acme.Shop.Models.Order", "42")
	_, err := feed.Query(context.Background(), FeedRequest{
		Filter: store.Filter{Logs: []string{"Acme.Shop"}, Subject: subject},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Acme.Shop"}, reader.lastFilter.Logs)
	require.Equal(t, subject, reader.lastFilter.Subject)
}

func TestFeedQuery_MissingReader(t *testing.T) {
	feed := NewFeedQuery(nil)
	_, err := feed.Query(context.Background(), FeedRequest{})
	require.ErrorIs(t, err, types.ErrMissingStore)
}
