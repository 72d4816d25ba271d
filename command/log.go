package command

import (
	"context"

	"github.com/goliatone/go-activity/logger"
	"github.com/goliatone/go-activity/pkg/types"
	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

// LogInput describes one ad-hoc activity to record.
type LogInput struct {
	Event       string
	Description string
	Subject     types.EntityRef
	Source      types.EntityRef
	Properties  map[string]any
	Log         string
	Connection  string

	// Result, when set, receives the log outcome so callers can distinguish
	// persisted records from the soft no-ops.
	Result *types.LogResult
}

// Type implements gocommand.Message.
func (LogInput) Type() string {
	return "command.activity.log"
}

// Validate implements gocommand.Message.
func (input LogInput) Validate() error {
	if input.Event == "" {
		return goerrors.New(
			"the event name for an activity log entry cannot be empty",
			goerrors.CategoryValidation,
		).WithCode(goerrors.CodeBadRequest).WithTextCode(types.TextCodeEventRequired)
	}
	return nil
}

// LogConfig wires dependencies for the log command.
type LogConfig struct {
	Sink        types.Sink
	Connections map[string]types.Sink
	Actors      types.ActorResolver
	Cache       types.DedupeCache
	Logger      types.Logger
}

// LogCommand records arbitrary activities for application code that is not
// backed by a tracker. Every execution runs through a fresh logger so command
// handlers stay safe for concurrent use.
type LogCommand struct {
	cfg LogConfig
}

// NewLogCommand constructs the logging command handler.
func NewLogCommand(cfg LogConfig) *LogCommand {
	return &LogCommand{cfg: cfg}
}

var _ gocommand.Commander[LogInput] = (*LogCommand)(nil)

// Execute validates and persists the supplied activity.
func (c *LogCommand) Execute(ctx context.Context, input LogInput) error {
	if c.cfg.Sink == nil && len(c.cfg.Connections) == 0 {
		return types.ErrMissingSink
	}
	if err := input.Validate(); err != nil {
		return err
	}

	l := logger.New(logger.Config{
		Sink:        c.cfg.Sink,
		Connections: c.cfg.Connections,
		Actors:      c.cfg.Actors,
		Cache:       c.cfg.Cache,
		Logger:      c.cfg.Logger,
	})
	if c.cfg.Cache != nil {
		l.RequestActivityCache(true)
	}

	result, err := l.LogEntry(ctx, logger.Entry{
		Event:       input.Event,
		Description: input.Description,
		Subject:     input.Subject,
		Source:      input.Source,
		Properties:  input.Properties,
		Log:         input.Log,
		Connection:  input.Connection,
	})
	if err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = result
	}
	return nil
}
