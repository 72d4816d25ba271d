package store

import (
	"context"

	"github.com/goliatone/go-activity/pkg/types"
	goerrors "github.com/goliatone/go-errors"
	featuregate "github.com/goliatone/go-featuregate/gate"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Feature keys consulted when a FeatureGate is wired. The gate can switch an
// enrichment off at runtime without touching the static config.
const (
	FeatureLogIPAddress = "activity.log_ip_address"
	FeatureLogUserAgent = "activity.log_user_agent"
	FeatureTrackChanges = "activity.track_changes"
)

// UserAgentProperty is the properties key the store writes the request user
// agent under.
const UserAgentProperty = "user_agent"

// ChangesProperty is the properties key the computed change diff is stored
// under.
const ChangesProperty = "changes"

// Config wires the bun-backed activity store.
type Config struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
	Logger     types.Logger

	// Defaults carries the global enrichment flags plus per entity type
	// overrides.
	Defaults types.Config

	// Gate optionally defers the enrichment toggles to a feature gate.
	Gate featuregate.FeatureGate
}

type entryStore interface {
	repository.Repository[*LogEntry]
}

// Store is the append-only persistence and query layer over activity records.
// Inserts are single synchronous writes; reads compose filters over the
// underlying bun query builder.
type Store struct {
	entryStore
	db       *bun.DB
	clock    types.Clock
	idGen    types.IDGenerator
	logger   types.Logger
	defaults types.Config
	gate     featuregate.FeatureGate
}

// New constructs the store. A *bun.DB is required unless a prebuilt
// repository is supplied; distinct-value aggregation and truncation always
// need the DB handle.
func New(cfg Config) (*Store, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, types.ErrMissingDB
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	return &Store{
		entryStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
		logger:     logger,
		defaults:   cfg.Defaults,
		gate:       cfg.Gate,
	}, nil
}

var (
	_ types.Sink      = (*Store)(nil)
	_ types.Truncator = (*Store)(nil)
)

// Insert validates and enriches the record, then persists it. The subject may
// be nil for ad-hoc records. When change tracking applies and the computed
// diff is empty the insert is skipped and ResultSkippedNoChanges is returned;
// nothing is written and no error is raised.
func (s *Store) Insert(ctx context.Context, record *types.Record, subject types.Entity) (types.LogResult, error) {
	if record == nil || record.Event == "" {
		return types.ResultSuppressed, goerrors.New(
			"the event name for an activity log entry cannot be empty",
			goerrors.CategoryValidation,
		).WithCode(goerrors.CodeBadRequest).WithTextCode(types.TextCodeEventRequired)
	}

	entityType := record.Subject.Type
	meta, hasMeta := types.RequestMetaFromContext(ctx)

	if hasMeta && meta.IPAddress != "" && s.enrichmentEnabled(ctx, FeatureLogIPAddress, s.defaults.ResolveLogIPAddress(entityType)) {
		record.IPAddress = meta.IPAddress
	}
	if hasMeta && meta.UserAgent != "" && s.enrichmentEnabled(ctx, FeatureLogUserAgent, s.defaults.ResolveLogUserAgent(entityType)) {
		if record.Properties == nil {
			record.Properties = map[string]any{}
		}
		record.Properties[UserAgentProperty] = meta.UserAgent
	}

	if tracker, ok := subject.(types.ChangeTracker); ok && !record.Subject.IsZero() &&
		s.enrichmentEnabled(ctx, FeatureTrackChanges, s.defaults.ResolveTrackChanges(entityType)) {
		changes := types.ComputeChanges(tracker, s.defaults.EntityConfig(entityType).IgnoredAttributes)
		if len(changes) == 0 {
			s.logger.Debug("activity insert skipped, empty change diff", "event", record.Event, "subject", record.Subject.Key())
			return types.ResultSkippedNoChanges, nil
		}
		if record.Properties == nil {
			record.Properties = map[string]any{}
		}
		record.Properties[ChangesProperty] = changes
	}

	entry := toLogEntry(*record)
	if entry.ID == uuid.Nil {
		entry.ID = s.idGen.UUID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.Now()
	}
	if _, err := s.Create(ctx, entry); err != nil {
		return types.ResultSuppressed, goerrors.Wrap(err, goerrors.CategoryInternal, "activity insert failed").
			WithTextCode(types.TextCodeStorageFailure)
	}

	record.ID = entry.ID
	record.CreatedAt = entry.CreatedAt
	record.IPAddress = entry.IPAddress
	return types.ResultLogged, nil
}

// Truncate removes every record in the store's connection scope. It is
// irreversible and intentionally unguarded here; authorization and the
// optional self-audit belong to the caller (see command.Truncate).
func (s *Store) Truncate(ctx context.Context) error {
	if s.db == nil {
		return types.ErrMissingDB
	}
	if _, err := s.db.NewDelete().Model((*LogEntry)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "activity truncate failed").
			WithTextCode(types.TextCodeStorageFailure)
	}
	return nil
}

// Defaults exposes the configured global defaults so collaborators (trackers,
// commands) resolve per-entity flags against the same source of truth.
func (s *Store) Defaults() types.Config {
	return s.defaults
}

func (s *Store) enrichmentEnabled(ctx context.Context, feature string, configured bool) bool {
	if !configured {
		return false
	}
	if s.gate == nil {
		return true
	}
	enabled, err := s.gate.Enabled(ctx, feature)
	if err != nil {
		s.logger.Error("feature gate lookup failed, using configured default", err, "feature", feature)
		return configured
	}
	return enabled
}
