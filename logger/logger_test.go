package logger_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-activity/dedupe"
	"github.com/goliatone/go-activity/logger"
	"github.com/goliatone/go-activity/pkg/types"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	records []types.Record
	result  types.LogResult
	err     error
}

func (s *captureSink) Insert(_ context.Context, record *types.Record, _ types.Entity) (types.LogResult, error) {
	if s.err != nil {
		return types.ResultSuppressed, s.err
	}
	s.records = append(s.records, record.Clone())
	return s.result, nil
}

func TestLogger_RequiresEvent(t *testing.T) {
	l := logger.New(logger.Config{Sink: &captureSink{}})

	result, err := l.Description("no event set").Log(context.Background())
	require.Error(t, err)
	require.Equal(t, types.ResultSuppressed, result)

	var gerr *goerrors.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, goerrors.CategoryValidation, gerr.Category)
	require.Equal(t, types.TextCodeEventRequired, gerr.TextCode)
}

func TestLogger_RequiresSink(t *testing.T) {
	l := logger.New(logger.Config{})

	_, err := l.Event("orphaned").Log(context.Background())
	require.ErrorIs(t, err, types.ErrMissingSink)
}

func TestLogger_CommitAndClear(t *testing.T) {
	sink := &captureSink{}
	l := logger.New(logger.Config{Sink: sink})

	subject := types.NewEntityRef("Acme.Shop.Models.Order", "42")
	result, err := l.Event("order.paid").
		Description("Order 42 was paid").
		For(subject).
		WithProperty("total", 1999).
		InLog("Acme.Shop").
		Log(context.Background())
	require.NoError(t, err)
	require.True(t, result.Logged())
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	require.Equal(t, "order.paid", record.Event)
	require.Equal(t, subject, record.Subject)
	require.Equal(t, "Acme.Shop", record.Log)
	require.Equal(t, 1999, record.Properties["total"])

	// state was cleared: the next commit needs its own event name
	_, err = l.Log(context.Background())
	require.Error(t, err)
	require.True(t, l.Subject().IsZero())
}

func TestLogger_SourceDefaultsToRealActor(t *testing.T) {
	actor := types.NewEntityRef("Backend.Models.User", "7")
	sink := &captureSink{}
	l := logger.New(logger.Config{
		Sink: sink,
		Actors: types.ActorResolverFunc(func(context.Context) (types.EntityRef, bool) {
			return actor, true
		}),
	})

	_, err := l.LogEvent(context.Background(), "user.signed_in")
	require.NoError(t, err)
	require.Equal(t, actor, sink.records[0].Source)
}

func TestLogger_ExplicitSourceWins(t *testing.T) {
	sink := &captureSink{}
	l := logger.New(logger.Config{
		Sink: sink,
		Actors: types.ActorResolverFunc(func(context.Context) (types.EntityRef, bool) {
			return types.NewEntityRef("Backend.Models.User", "7"), true
		}),
	})

	job := types.NewEntityRef("System.Models.Job", "import-9")
	_, err := l.Event("import.finished").By(job).Log(context.Background())
	require.NoError(t, err)
	require.Equal(t, job, sink.records[0].Source)
}

func TestLogger_Dedup(t *testing.T) {
	sink := &captureSink{}
	l := logger.New(logger.Config{Sink: sink, Cache: dedupe.NewMemory()})
	l.RequestActivityCache(true)

	entry := logger.Entry{
		Event:      "order.paid",
		Subject:    types.NewEntityRef("Acme.Shop.Models.Order", "42"),
		Properties: map[string]any{"total": 1999},
	}

	result, err := l.LogEntry(context.Background(), entry)
	require.NoError(t, err)
	require.Equal(t, types.ResultLogged, result)

	result, err = l.LogEntry(context.Background(), entry)
	require.NoError(t, err)
	require.Equal(t, types.ResultSuppressed, result)
	require.Len(t, sink.records, 1)

	// suppression leaves the staged state in place; clear and log something
	// different
	l.Clear()
	result, err = l.LogEntry(context.Background(), logger.Entry{Event: "order.shipped"})
	require.NoError(t, err)
	require.Equal(t, types.ResultLogged, result)
}

func TestLogger_DedupDisabled(t *testing.T) {
	sink := &captureSink{}
	l := logger.New(logger.Config{Sink: sink, Cache: dedupe.NewMemory()})
	require.False(t, l.RequestActivityCache())

	for range 2 {
		result, err := l.LogEntry(context.Background(), logger.Entry{Event: "order.paid"})
		require.NoError(t, err)
		require.Equal(t, types.ResultLogged, result)
	}
	require.Len(t, sink.records, 2)
}

func TestLogger_FingerprintIgnoresPropertyOrder(t *testing.T) {
	a := logger.New(logger.Config{}).
		Event("order.paid").
		WithProperty("total", 1999).
		WithProperty("currency", "usd")
	b := logger.New(logger.Config{}).
		Event("order.paid").
		WithProperty("currency", "usd").
		WithProperty("total", 1999)

	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.WithProperty("total", 2000)
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestLogger_BeforeHookVeto(t *testing.T) {
	sink := &captureSink{}
	l := logger.New(logger.Config{Sink: sink})
	l.OnBeforeLog(func(_ context.Context, record *types.Record) bool {
		return record.Event == "noisy.event"
	})

	subject := types.NewEntityRef("Cms.Models.Page", "home")
	result, err := l.Event("noisy.event").For(subject).Log(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.ResultSuppressed, result)
	require.Empty(t, sink.records)

	// veto does not clear: staged fields survive for inspection
	require.Equal(t, subject, l.Subject())

	// the hook registration survives an explicit reset
	l.Clear()
	result, err = l.Event("noisy.event").Log(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.ResultSuppressed, result)
}

func TestLogger_AfterHookOnlyWhenLogged(t *testing.T) {
	var notified []types.Record
	hook := func(_ context.Context, record types.Record) {
		notified = append(notified, record)
	}

	skipped := &captureSink{result: types.ResultSkippedNoChanges}
	l := logger.New(logger.Config{Sink: skipped}).OnAfterLog(hook)
	result, err := l.LogEvent(context.Background(), "afterUpdate")
	require.NoError(t, err)
	require.Equal(t, types.ResultSkippedNoChanges, result)
	require.Empty(t, notified)

	logged := &captureSink{}
	l = logger.New(logger.Config{Sink: logged}).OnAfterLog(hook)
	_, err = l.LogEvent(context.Background(), "afterUpdate")
	require.NoError(t, err)
	require.Len(t, notified, 1)
	require.Equal(t, "afterUpdate", notified[0].Event)
}

func TestLogger_ClearHooks(t *testing.T) {
	sink := &captureSink{}
	l := logger.New(logger.Config{Sink: sink})

	var repopulated int
	l.OnAfterClear(func(l *logger.Logger) {
		repopulated++
		l.InLog("Acme.Shop")
	})

	_, err := l.LogEvent(context.Background(), "order.paid")
	require.NoError(t, err)
	require.Equal(t, 1, repopulated)

	// the re-populated log name applies to the next commit
	_, err = l.LogEvent(context.Background(), "order.shipped")
	require.NoError(t, err)
	require.Equal(t, "Acme.Shop", sink.records[1].Log)
}

func TestLogger_Connections(t *testing.T) {
	main := &captureSink{}
	audit := &captureSink{}
	l := logger.New(logger.Config{
		Sink:        main,
		Connections: map[string]types.Sink{"audit": audit},
	})

	_, err := l.Event("user.banned").OnConnection("audit").Log(context.Background())
	require.NoError(t, err)
	require.Empty(t, main.records)
	require.Len(t, audit.records, 1)

	_, err = l.Event("user.banned").OnConnection("missing").Log(context.Background())
	require.ErrorIs(t, err, types.ErrUnknownConnection)
}
