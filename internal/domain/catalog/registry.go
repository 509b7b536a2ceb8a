package catalog

import (
	"context"

	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/internal/domain/stats"
)

// Predicate decides whether one achievement unlocks for the user the engine
// is scoped to. approvedCount is the precomputed approved-task count, shared
// by the milestone predicates so the same query is not repeated per tier.
type Predicate func(ctx context.Context, engine *stats.Engine, approvedCount int64) (bool, error)

// Registry maps achievement codes to their unlock predicates.
type Registry struct {
	predicates map[string]Predicate
}

// inert is returned for codes with no registered predicate.
func inert(_ context.Context, _ *stats.Engine, _ int64) (bool, error) {
	return false, nil
}

// milestone builds a predicate over the precomputed approved-task count.
func milestone(threshold int64) Predicate {
	return func(_ context.Context, _ *stats.Engine, approvedCount int64) (bool, error) {
		return approvedCount >= threshold, nil
	}
}

// NewRegistry builds the full predicate registry. Build once at startup and
// share; lookups are read-only afterwards.
func NewRegistry() *Registry {
	r := &Registry{predicates: make(map[string]Predicate)}

	r.predicates[CodeApproved10] = milestone(thresholdApproved10)
	r.predicates[CodeApproved100] = milestone(thresholdApproved100)
	r.predicates[CodeApproved500] = milestone(thresholdApproved500)
	r.predicates[CodeApproved1000] = milestone(thresholdApproved1000)
	r.predicates[CodeApproved2000] = milestone(thresholdApproved2000)

	r.predicates[CodeRolling30] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedWithinDays(ctx, rollingWindowDays)
		return n >= thresholdRolling30, err
	}
	r.predicates[CodeHighPriority20] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedWithPriority(ctx, model.PriorityHigh)
		return n >= thresholdHighPriority, err
	}
	r.predicates[CodeCriticalPriority40] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedWithPriority(ctx, model.PriorityCritical)
		return n >= thresholdCriticalPriority, err
	}
	r.predicates[CodeDailyBurst5] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.MaxApprovedInOneDay(ctx)
		return n >= thresholdDailyBurst, err
	}
	r.predicates[CodeComeback10] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedAfterRejection(ctx)
		return n >= thresholdComeback, err
	}

	r.predicates[CodeCriticalMonth20] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.MaxApprovedInOneMonth(ctx, model.PriorityCritical)
		return n >= thresholdCriticalMonth, err
	}
	r.predicates[CodeBugFixes100] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedWithComments(ctx)
		return n >= thresholdBugFixes, err
	}
	r.predicates[CodeReportedBugs25] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedWithCommentsAndPriority(ctx, model.PriorityCritical)
		return n >= thresholdReportedBugs, err
	}
	r.predicates[CodeReviewResolved30] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedWithComments(ctx)
		return n >= thresholdReviewResolved, err
	}

	r.predicates[CodeDeadline20] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedBeforeDeadline(ctx)
		return n >= thresholdDeadline20, err
	}
	r.predicates[CodeDeadline50] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedBeforeDeadline(ctx)
		return n >= thresholdDeadline50, err
	}
	r.predicates[CodeEarlyBird20] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedBetweenHours(ctx, earlyBirdFromHour, earlyBirdToHour)
		return n >= thresholdEarlyBird, err
	}
	r.predicates[CodeNightOwl20] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedBetweenHours(ctx, nightOwlFromHour, nightOwlToHour)
		return n >= thresholdNightOwl, err
	}
	r.predicates[CodeWeekend15] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.ApprovedOnWeekends(ctx)
		return n >= thresholdWeekend, err
	}
	r.predicates[CodeStreak7] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.LongestDailyStreak(ctx)
		return n >= thresholdStreak7, err
	}
	r.predicates[CodeStreak30] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.LongestDailyStreak(ctx)
		return n >= thresholdStreak30, err
	}

	r.predicates[CodeMultiProject3] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		n, err := e.DistinctProjectsWithApproval(ctx)
		return n >= thresholdMultiProject, err
	}
	r.predicates[CodeTeamShare25] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		userCount, teamCount, err := e.TeamShare(ctx)
		if err != nil {
			return false, err
		}
		if teamCount < teamShareMinTeamVolume {
			return false, nil
		}
		return userCount*teamShareDenominator >= teamCount*teamShareNumerator, nil
	}
	r.predicates[CodeTeamFirst] = func(ctx context.Context, e *stats.Engine, _ int64) (bool, error) {
		return e.FirstApprovedInTeam(ctx)
	}

	return r
}

// Lookup returns the predicate for a code. Unknown codes get an inert
// predicate that always evaluates false, never an error.
func (r *Registry) Lookup(code string) Predicate {
	if p, ok := r.predicates[code]; ok {
		return p
	}
	return inert
}

// Known reports whether a predicate is registered for the code.
func (r *Registry) Known(code string) bool {
	_, ok := r.predicates[code]
	return ok
}

// Size returns the number of registered predicates.
func (r *Registry) Size() int {
	return len(r.predicates)
}
