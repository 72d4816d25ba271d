package command

import (
	"context"

	"github.com/goliatone/go-activity/logger"
	"github.com/goliatone/go-activity/pkg/types"
	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

// TruncateEvent is the event name recorded for the self-referential audit
// entry written before the log is wiped.
const TruncateEvent = "log.truncated"

// TruncateLog is the channel the self-audit entry lands in.
const TruncateLog = "Activity.Log"

// TruncateInput identifies who requested the wipe.
type TruncateInput struct {
	Actor  types.EntityRef
	Reason string
}

// Type implements gocommand.Message.
func (TruncateInput) Type() string {
	return "command.activity.truncate"
}

// Validate implements gocommand.Message.
func (TruncateInput) Validate() error {
	return nil
}

// TruncateConfig wires the truncate handler.
type TruncateConfig struct {
	// Store performs the destructive delete-all.
	Store types.Truncator

	// Sink receives the self-audit entry. Usually the same store; a
	// different connection keeps the audit entry alive past the wipe.
	Sink types.Sink

	// Authorize gates the operation. The store itself never enforces
	// authorization; a nil hook means the caller already did.
	Authorize func(ctx context.Context, actor types.EntityRef) error

	// SkipAudit disables the self-referential "log.truncated" entry. The
	// audit is written before the wipe, so it is removed along with
	// everything else unless Sink targets another connection.
	SkipAudit bool

	Logger types.Logger
}

// TruncateCommand performs the privileged bulk delete of all activity
// records in the store's connection scope.
type TruncateCommand struct {
	cfg TruncateConfig
	log types.Logger
}

// NewTruncateCommand constructs the truncate handler.
func NewTruncateCommand(cfg TruncateConfig) *TruncateCommand {
	log := cfg.Logger
	if log == nil {
		log = types.NopLogger{}
	}
	return &TruncateCommand{cfg: cfg, log: log}
}

var _ gocommand.Commander[TruncateInput] = (*TruncateCommand)(nil)

// Execute authorizes, audits, and wipes. Irreversible.
func (c *TruncateCommand) Execute(ctx context.Context, input TruncateInput) error {
	if c.cfg.Store == nil {
		return types.ErrMissingStore
	}
	if c.cfg.Authorize != nil {
		if err := c.cfg.Authorize(ctx, input.Actor); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryAuthz, "activity truncate not authorized").
				WithCode(goerrors.CodeForbidden).
				WithTextCode(types.TextCodeTruncateForbidden)
		}
	}

	if !c.cfg.SkipAudit && c.cfg.Sink != nil {
		properties := map[string]any{}
		if input.Reason != "" {
			properties["reason"] = input.Reason
		}
		l := logger.New(logger.Config{Sink: c.cfg.Sink, Logger: c.log})
		if _, err := l.LogEntry(ctx, logger.Entry{
			Event:       TruncateEvent,
			Description: "The activity log was emptied",
			Source:      input.Actor,
			Properties:  properties,
			Log:         TruncateLog,
		}); err != nil {
			// The audit entry is best effort; a failed write must not block
			// an authorized administrative wipe.
			c.log.Error("truncate self-audit failed", err)
		}
	}

	c.log.Info("truncating activity log", "actor", input.Actor.Key())
	return c.cfg.Store.Truncate(ctx)
}
