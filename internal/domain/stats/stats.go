// Package stats computes aggregate facts about a user's task history.
//
// Each fact is an independent read against the history store; nothing is
// precomputed or cached across calls, so every predicate sees the store's
// current content.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/laurel/internal/domain/model"
)

// Scope identifies whose history is being measured and where.
type Scope struct {
	UserID    uint
	TeamID    uint
	ProjectID uint
}

// History is the read-only contract the engine queries. Implementations live
// with the persistence adapters; failures propagate to the caller untouched.
type History interface {
	// ApprovedCount counts APPROVED tasks assigned to the user in scope.
	ApprovedCount(ctx context.Context, scope Scope) (int64, error)

	// ApprovedCountSince counts approvals with ApprovedAt >= since.
	ApprovedCountSince(ctx context.Context, scope Scope, since time.Time) (int64, error)

	// ApprovedCountBeforeDeadline counts approvals with ApprovedAt <= ExpirationDate.
	ApprovedCountBeforeDeadline(ctx context.Context, scope Scope) (int64, error)

	// ApprovedCountWithPriority counts approvals filtered by priority.
	ApprovedCountWithPriority(ctx context.Context, scope Scope, priority model.PriorityLevel) (int64, error)

	// MaxApprovedPerDay returns the largest number of approvals that share a
	// calendar day (by ApprovedAt), or 0 with no approvals.
	MaxApprovedPerDay(ctx context.Context, scope Scope) (int64, error)

	// ApprovedCountAfterRejection counts approvals of tasks that carry an
	// earlier cancellation/rejection mark.
	ApprovedCountAfterRejection(ctx context.Context, scope Scope) (int64, error)

	// MaxApprovedPerMonthWithPriority returns the largest number of
	// priority-filtered approvals that share a calendar month.
	MaxApprovedPerMonthWithPriority(ctx context.Context, scope Scope, priority model.PriorityLevel) (int64, error)

	// ApprovedCountWithComments counts approvals whose task has at least one
	// comment record. Comment presence doubles as the bug-activity marker.
	ApprovedCountWithComments(ctx context.Context, scope Scope) (int64, error)

	// ApprovedCountWithCommentsAndPriority adds a priority filter to the above.
	ApprovedCountWithCommentsAndPriority(ctx context.Context, scope Scope, priority model.PriorityLevel) (int64, error)

	// ApprovedCountInHours counts approvals whose ApprovedAt hour-of-day is in
	// [fromHour, toHour).
	ApprovedCountInHours(ctx context.Context, scope Scope, fromHour, toHour int) (int64, error)

	// ApprovedCountOnWeekends counts approvals on Saturdays and Sundays.
	ApprovedCountOnWeekends(ctx context.Context, scope Scope) (int64, error)

	// ApprovalDays returns the distinct calendar days (midnight-truncated,
	// ascending) on which the user had at least one approval in scope.
	ApprovalDays(ctx context.Context, scope Scope) ([]time.Time, error)

	// DistinctProjectsWithApproval counts the team's projects in which the
	// user has at least one approval.
	DistinctProjectsWithApproval(ctx context.Context, userID, teamID uint) (int64, error)

	// ApprovedCountInTeam counts the user's approvals across all of the
	// team's projects.
	ApprovedCountInTeam(ctx context.Context, userID, teamID uint) (int64, error)

	// TeamApprovedCount counts all approvals in the team, any assignee.
	TeamApprovedCount(ctx context.Context, teamID uint) (int64, error)

	// FirstTeamApprovalBy returns the assignee of the team's earliest
	// approval, or 0 if the team has none.
	FirstTeamApprovalBy(ctx context.Context, teamID uint) (uint, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithNow overrides the clock used for time-windowed facts.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine answers fact queries for one (user, team, project) scope. It holds
// no state beyond the scope and is safe for concurrent use.
type Engine struct {
	history History
	scope   Scope
	now     func() time.Time
}

// NewEngine creates an engine bound to a history store and scope.
func NewEngine(history History, scope Scope, opts ...Option) *Engine {
	e := &Engine{
		history: history,
		scope:   scope,
		now:     time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Scope returns the scope the engine is bound to.
func (e *Engine) Scope() Scope {
	return e.scope
}

// ApprovedCount returns the approved-task count for the scope.
func (e *Engine) ApprovedCount(ctx context.Context) (int64, error) {
	n, err := e.history.ApprovedCount(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("approved count: %w", err)
	}
	return n, nil
}

// ApprovedWithinDays returns approvals in the trailing window of the given
// number of days, measured from the engine's clock at call time.
func (e *Engine) ApprovedWithinDays(ctx context.Context, days int) (int64, error) {
	since := e.now().AddDate(0, 0, -days)
	n, err := e.history.ApprovedCountSince(ctx, e.scope, since)
	if err != nil {
		return 0, fmt.Errorf("approved within %d days: %w", days, err)
	}
	return n, nil
}

// ApprovedBeforeDeadline returns approvals completed no later than their
// expiration date.
func (e *Engine) ApprovedBeforeDeadline(ctx context.Context) (int64, error) {
	n, err := e.history.ApprovedCountBeforeDeadline(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("approved before deadline: %w", err)
	}
	return n, nil
}

// ApprovedWithPriority returns approvals filtered to one priority level.
func (e *Engine) ApprovedWithPriority(ctx context.Context, priority model.PriorityLevel) (int64, error) {
	n, err := e.history.ApprovedCountWithPriority(ctx, e.scope, priority)
	if err != nil {
		return 0, fmt.Errorf("approved with priority %s: %w", priority, err)
	}
	return n, nil
}

// MaxApprovedInOneDay returns the busiest calendar day's approval count.
func (e *Engine) MaxApprovedInOneDay(ctx context.Context) (int64, error) {
	n, err := e.history.MaxApprovedPerDay(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("max approved in one day: %w", err)
	}
	return n, nil
}

// ApprovedAfterRejection returns approvals of previously rejected tasks.
func (e *Engine) ApprovedAfterRejection(ctx context.Context) (int64, error) {
	n, err := e.history.ApprovedCountAfterRejection(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("approved after rejection: %w", err)
	}
	return n, nil
}

// MaxApprovedInOneMonth returns the busiest calendar month's approval count
// at the given priority.
func (e *Engine) MaxApprovedInOneMonth(ctx context.Context, priority model.PriorityLevel) (int64, error) {
	n, err := e.history.MaxApprovedPerMonthWithPriority(ctx, e.scope, priority)
	if err != nil {
		return 0, fmt.Errorf("max approved in one month: %w", err)
	}
	return n, nil
}

// ApprovedWithComments returns approvals whose task has a comment record.
func (e *Engine) ApprovedWithComments(ctx context.Context) (int64, error) {
	n, err := e.history.ApprovedCountWithComments(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("approved with comments: %w", err)
	}
	return n, nil
}

// ApprovedWithCommentsAndPriority adds a priority filter to ApprovedWithComments.
func (e *Engine) ApprovedWithCommentsAndPriority(ctx context.Context, priority model.PriorityLevel) (int64, error) {
	n, err := e.history.ApprovedCountWithCommentsAndPriority(ctx, e.scope, priority)
	if err != nil {
		return 0, fmt.Errorf("approved with comments and priority %s: %w", priority, err)
	}
	return n, nil
}

// ApprovedBetweenHours returns approvals whose hour-of-day falls in
// [fromHour, toHour).
func (e *Engine) ApprovedBetweenHours(ctx context.Context, fromHour, toHour int) (int64, error) {
	n, err := e.history.ApprovedCountInHours(ctx, e.scope, fromHour, toHour)
	if err != nil {
		return 0, fmt.Errorf("approved between hours %d-%d: %w", fromHour, toHour, err)
	}
	return n, nil
}

// ApprovedOnWeekends returns Saturday/Sunday approvals.
func (e *Engine) ApprovedOnWeekends(ctx context.Context) (int64, error) {
	n, err := e.history.ApprovedCountOnWeekends(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("approved on weekends: %w", err)
	}
	return n, nil
}

// LongestDailyStreak returns the longest run of consecutive calendar days
// that each contain at least one approval.
func (e *Engine) LongestDailyStreak(ctx context.Context) (int64, error) {
	days, err := e.history.ApprovalDays(ctx, e.scope)
	if err != nil {
		return 0, fmt.Errorf("approval days: %w", err)
	}
	if len(days) == 0 {
		return 0, nil
	}

	var best, run int64 = 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best, nil
}

// DistinctProjectsWithApproval returns how many of the team's projects hold
// at least one of the user's approvals. The project scope does not apply.
func (e *Engine) DistinctProjectsWithApproval(ctx context.Context) (int64, error) {
	n, err := e.history.DistinctProjectsWithApproval(ctx, e.scope.UserID, e.scope.TeamID)
	if err != nil {
		return 0, fmt.Errorf("distinct projects with approval: %w", err)
	}
	return n, nil
}

// TeamShare returns the user's team-wide approval count and the team's total.
func (e *Engine) TeamShare(ctx context.Context) (userCount, teamCount int64, err error) {
	userCount, err = e.history.ApprovedCountInTeam(ctx, e.scope.UserID, e.scope.TeamID)
	if err != nil {
		return 0, 0, fmt.Errorf("approved count in team: %w", err)
	}
	teamCount, err = e.history.TeamApprovedCount(ctx, e.scope.TeamID)
	if err != nil {
		return 0, 0, fmt.Errorf("team approved count: %w", err)
	}
	return userCount, teamCount, nil
}

// FirstApprovedInTeam reports whether the user authored the team's earliest
// approval.
func (e *Engine) FirstApprovedInTeam(ctx context.Context) (bool, error) {
	first, err := e.history.FirstTeamApprovalBy(ctx, e.scope.TeamID)
	if err != nil {
		return false, fmt.Errorf("first team approval: %w", err)
	}
	return first != 0 && first == e.scope.UserID, nil
}
