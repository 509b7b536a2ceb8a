// Package evaluator orchestrates one completion signal into zero or more
// awarded achievements.
package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/laurel/internal/domain/catalog"
	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/internal/domain/stats"
	"github.com/okian/laurel/pkg/logger"
	"github.com/okian/laurel/pkg/metrics"
)

// Directory resolves the entities a signal references. A missing entity is
// (nil, nil), not an error; only infrastructure failures return errors.
type Directory interface {
	FindUserByID(ctx context.Context, id uint) (*model.User, error)
	FindTeamByID(ctx context.Context, id uint) (*model.Team, error)
	FindProjectByID(ctx context.Context, id uint) (*model.Project, error)
}

// Ledger is the award persistence contract the evaluator relies on.
type Ledger interface {
	// OwnedCodes returns the achievement codes the user already holds.
	// Ownership is per user, not per team or project.
	OwnedCodes(ctx context.Context, userID uint) (map[string]struct{}, error)

	// Award persists the unlock if absent. Returns true when a new award row
	// was written, false when the user already held the achievement.
	Award(ctx context.Context, userID, teamID, projectID uint, code string) (bool, error)
}

// CatalogSource supplies the persisted catalog rows to evaluate.
type CatalogSource interface {
	ActiveDefinitions(ctx context.Context) ([]model.Achievement, error)
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithLogger sets a custom logger for the evaluator.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithNow overrides the clock handed to stat engines (for deterministic
// window tests).
func WithNow(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// Evaluator owns the evaluation of completion signals. It is stateless
// across signals and safe for concurrent use; same-user serialization is the
// caller's concern.
type Evaluator struct {
	directory Directory
	ledger    Ledger
	catalog   CatalogSource
	history   stats.History
	registry  *catalog.Registry

	now    func() time.Time
	logger logger.Logger
}

// New constructs an Evaluator.
func New(directory Directory, ledger Ledger, source CatalogSource, history stats.History, registry *catalog.Registry, opts ...Option) *Evaluator {
	e := &Evaluator{
		directory: directory,
		ledger:    ledger,
		catalog:   source,
		history:   history,
		registry:  registry,
		now:       time.Now,
		logger:    logger.Get().Named("evaluator"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate runs one evaluation pass for a signal. A signal referencing a
// missing user, team, or project is dropped without error; read and write
// failures propagate so the transport can redeliver.
func (e *Evaluator) Evaluate(ctx context.Context, sig model.Signal) error {
	start := time.Now()
	defer func() {
		metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	}()

	ok, err := e.resolve(ctx, sig)
	if err != nil {
		metrics.RecordEvaluationError()
		return err
	}
	if !ok {
		metrics.RecordSignalDropped()
		return nil
	}

	owned, err := e.ledger.OwnedCodes(ctx, sig.UserID)
	if err != nil {
		metrics.RecordEvaluationError()
		return fmt.Errorf("owned codes for user %d: %w", sig.UserID, err)
	}

	definitions, err := e.catalog.ActiveDefinitions(ctx)
	if err != nil {
		metrics.RecordEvaluationError()
		return fmt.Errorf("catalog definitions: %w", err)
	}

	engine := stats.NewEngine(e.history, stats.Scope{
		UserID:    sig.UserID,
		TeamID:    sig.TeamID,
		ProjectID: sig.ProjectID,
	}, stats.WithNow(e.now))

	// One approved-count read serves every milestone predicate.
	approvedCount, err := engine.ApprovedCount(ctx)
	if err != nil {
		metrics.RecordEvaluationError()
		return fmt.Errorf("approved count for user %d: %w", sig.UserID, err)
	}

	for _, def := range definitions {
		if _, has := owned[def.Code]; has {
			continue
		}

		metrics.RecordPredicateEvaluated()
		unlocked, err := e.registry.Lookup(def.Code)(ctx, engine, approvedCount)
		if err != nil {
			metrics.RecordEvaluationError()
			return fmt.Errorf("predicate %s: %w", def.Code, err)
		}
		if !unlocked {
			continue
		}

		granted, err := e.ledger.Award(ctx, sig.UserID, sig.TeamID, sig.ProjectID, def.Code)
		if err != nil {
			metrics.RecordEvaluationError()
			return fmt.Errorf("award %s to user %d: %w", def.Code, sig.UserID, err)
		}
		if granted {
			metrics.RecordAwardGranted(def.Code)
			e.logger.Info(ctx, "achievement awarded",
				logger.Uint("userID", sig.UserID),
				logger.String("achievement", def.Code),
				logger.Uint("teamID", sig.TeamID),
				logger.Uint("projectID", sig.ProjectID),
			)
		} else {
			// Lost a race to a concurrent evaluation; the ledger kept the
			// earlier row and this attempt is a no-op.
			metrics.RecordAwardConflict()
			e.logger.Debug(ctx, "achievement already held",
				logger.Uint("userID", sig.UserID),
				logger.String("achievement", def.Code),
			)
		}
	}

	return nil
}

// resolve checks the signal's entity references. Returns false (no error)
// when any of them does not exist.
func (e *Evaluator) resolve(ctx context.Context, sig model.Signal) (bool, error) {
	user, err := e.directory.FindUserByID(ctx, sig.UserID)
	if err != nil {
		return false, fmt.Errorf("find user %d: %w", sig.UserID, err)
	}
	team, err := e.directory.FindTeamByID(ctx, sig.TeamID)
	if err != nil {
		return false, fmt.Errorf("find team %d: %w", sig.TeamID, err)
	}
	project, err := e.directory.FindProjectByID(ctx, sig.ProjectID)
	if err != nil {
		return false, fmt.Errorf("find project %d: %w", sig.ProjectID, err)
	}

	if user == nil || team == nil || project == nil {
		e.logger.Warn(ctx, "dropping signal referencing missing entity",
			logger.String("signalID", sig.SignalID),
			logger.Uint("userID", sig.UserID),
			logger.Uint("teamID", sig.TeamID),
			logger.Uint("projectID", sig.ProjectID),
			logger.Any("userFound", user != nil),
			logger.Any("teamFound", team != nil),
			logger.Any("projectFound", project != nil),
		)
		return false, nil
	}

	return true, nil
}
