package command_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-activity/command"
	"github.com/goliatone/go-activity/dedupe"
	"github.com/goliatone/go-activity/pkg/types"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	records []types.Record
	result  types.LogResult
}

func (s *captureSink) Insert(_ context.Context, record *types.Record, _ types.Entity) (types.LogResult, error) {
	s.records = append(s.records, record.Clone())
	return s.result, nil
}

func TestLogCommand_Execute(t *testing.T) {
	sink := &captureSink{}
	cmd := command.NewLogCommand(command.LogConfig{Sink: sink})

	var result types.LogResult
	err := cmd.Execute(context.Background(), command.LogInput{
		Event:       "order.paid",
		Description: "Order 42 was paid",
		Subject:     types.NewEntityRef("Acme.Shop.Models.Order", "42"),
		Source:      types.NewEntityRef("Backend.Models.User", "7"),
		Properties:  map[string]any{"total": 1999},
		Log:         "Acme.Shop",
		Result:      &result,
	})
	require.NoError(t, err)
	require.Equal(t, types.ResultLogged, result)

	require.Len(t, sink.records, 1)
	record := sink.records[0]
	require.Equal(t, "order.paid", record.Event)
	require.Equal(t, "42", record.Subject.ID)
	require.Equal(t, "7", record.Source.ID)
	require.Equal(t, "Acme.Shop", record.Log)
}

func TestLogCommand_ValidatesEvent(t *testing.T) {
	cmd := command.NewLogCommand(command.LogConfig{Sink: &captureSink{}})

	err := cmd.Execute(context.Background(), command.LogInput{Description: "no event"})
	require.Error(t, err)

	var gerr *goerrors.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, types.TextCodeEventRequired, gerr.TextCode)
}

func TestLogCommand_RequiresSink(t *testing.T) {
	cmd := command.NewLogCommand(command.LogConfig{})
	err := cmd.Execute(context.Background(), command.LogInput{Event: "order.paid"})
	require.ErrorIs(t, err, types.ErrMissingSink)
}

func TestLogCommand_DedupAcrossExecutions(t *testing.T) {
	sink := &captureSink{}
	cmd := command.NewLogCommand(command.LogConfig{
		Sink:  sink,
		Cache: dedupe.NewMemory(),
	})

	input := command.LogInput{Event: "order.paid", Log: "Acme.Shop"}
	var first, second types.LogResult

	input.Result = &first
	require.NoError(t, cmd.Execute(context.Background(), input))
	input.Result = &second
	require.NoError(t, cmd.Execute(context.Background(), input))

	require.Equal(t, types.ResultLogged, first)
	require.Equal(t, types.ResultSuppressed, second)
	require.Len(t, sink.records, 1)
}

func TestLogCommand_ConnectionRouting(t *testing.T) {
	audit := &captureSink{}
	cmd := command.NewLogCommand(command.LogConfig{
		Connections: map[string]types.Sink{"audit": audit},
	})

	err := cmd.Execute(context.Background(), command.LogInput{
		Event:      "user.banned",
		Connection: "audit",
	})
	require.NoError(t, err)
	require.Len(t, audit.records, 1)
}
