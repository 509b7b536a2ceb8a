package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/internal/domain/stats"
)

// commentExists is the EXISTS subquery marking bug activity. Comment
// presence is the only bug signal the schema carries.
const commentExists = "EXISTS (SELECT 1 FROM comments WHERE comments.task_id = tasks.id AND comments.deleted_at IS NULL)"

// TaskHistory implements stats.History with sqlite aggregate queries.
// Purely read-only; every method is one query.
type TaskHistory struct {
	db *gorm.DB
}

// NewTaskHistory creates a task history reader over the given database.
func NewTaskHistory(db *gorm.DB) *TaskHistory {
	return &TaskHistory{db: db}
}

// scoped returns the base query for approved tasks of a user in scope.
func (h *TaskHistory) scoped(ctx context.Context, scope stats.Scope) *gorm.DB {
	return h.db.WithContext(ctx).Model(&model.Task{}).
		Where("assignee_id = ? AND team_id = ? AND project_id = ? AND status = ?",
			scope.UserID, scope.TeamID, scope.ProjectID, model.StatusApproved)
}

// ApprovedCount counts APPROVED tasks assigned to the user in scope.
func (h *TaskHistory) ApprovedCount(ctx context.Context, scope stats.Scope) (int64, error) {
	var n int64
	if err := h.scoped(ctx, scope).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count approved: %w", err)
	}
	return n, nil
}

// ApprovedCountSince counts approvals with ApprovedAt >= since.
func (h *TaskHistory) ApprovedCountSince(ctx context.Context, scope stats.Scope, since time.Time) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("approved_at IS NOT NULL AND approved_at >= ?", since).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved since %s: %w", since, err)
	}
	return n, nil
}

// ApprovedCountBeforeDeadline counts approvals with ApprovedAt <= ExpirationDate.
func (h *TaskHistory) ApprovedCountBeforeDeadline(ctx context.Context, scope stats.Scope) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("approved_at IS NOT NULL AND expiration_date IS NOT NULL AND approved_at <= expiration_date").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved before deadline: %w", err)
	}
	return n, nil
}

// ApprovedCountWithPriority counts approvals filtered by priority.
func (h *TaskHistory) ApprovedCountWithPriority(ctx context.Context, scope stats.Scope, priority model.PriorityLevel) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("priority = ?", priority).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved with priority %s: %w", priority, err)
	}
	return n, nil
}

// MaxApprovedPerDay returns the largest approval count sharing one calendar day.
func (h *TaskHistory) MaxApprovedPerDay(ctx context.Context, scope stats.Scope) (int64, error) {
	var row struct{ N int64 }
	err := h.scoped(ctx, scope).
		Select("COUNT(*) AS n").
		Where("approved_at IS NOT NULL").
		Group("strftime('%Y-%m-%d', approved_at)").
		Order("n DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("max approved per day: %w", err)
	}
	return row.N, nil
}

// ApprovedCountAfterRejection counts approvals of tasks marked rejected before.
func (h *TaskHistory) ApprovedCountAfterRejection(ctx context.Context, scope stats.Scope) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("rejected_at IS NOT NULL").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved after rejection: %w", err)
	}
	return n, nil
}

// MaxApprovedPerMonthWithPriority returns the largest priority-filtered
// approval count sharing one calendar month.
func (h *TaskHistory) MaxApprovedPerMonthWithPriority(ctx context.Context, scope stats.Scope, priority model.PriorityLevel) (int64, error) {
	var row struct{ N int64 }
	err := h.scoped(ctx, scope).
		Select("COUNT(*) AS n").
		Where("approved_at IS NOT NULL AND priority = ?", priority).
		Group("strftime('%Y-%m', approved_at)").
		Order("n DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("max approved per month: %w", err)
	}
	return row.N, nil
}

// ApprovedCountWithComments counts approvals whose task has a comment record.
func (h *TaskHistory) ApprovedCountWithComments(ctx context.Context, scope stats.Scope) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where(commentExists).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved with comments: %w", err)
	}
	return n, nil
}

// ApprovedCountWithCommentsAndPriority adds a priority filter to the above.
func (h *TaskHistory) ApprovedCountWithCommentsAndPriority(ctx context.Context, scope stats.Scope, priority model.PriorityLevel) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("priority = ?", priority).
		Where(commentExists).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved with comments and priority %s: %w", priority, err)
	}
	return n, nil
}

// ApprovedCountInHours counts approvals whose hour-of-day is in [fromHour, toHour).
func (h *TaskHistory) ApprovedCountInHours(ctx context.Context, scope stats.Scope, fromHour, toHour int) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("approved_at IS NOT NULL").
		Where("CAST(strftime('%H', approved_at) AS INTEGER) >= ? AND CAST(strftime('%H', approved_at) AS INTEGER) < ?", fromHour, toHour).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved in hours %d-%d: %w", fromHour, toHour, err)
	}
	return n, nil
}

// ApprovedCountOnWeekends counts Saturday/Sunday approvals.
func (h *TaskHistory) ApprovedCountOnWeekends(ctx context.Context, scope stats.Scope) (int64, error) {
	var n int64
	err := h.scoped(ctx, scope).
		Where("approved_at IS NOT NULL AND strftime('%w', approved_at) IN ('0', '6')").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved on weekends: %w", err)
	}
	return n, nil
}

// ApprovalDays returns the distinct approval days, ascending, as UTC midnights.
func (h *TaskHistory) ApprovalDays(ctx context.Context, scope stats.Scope) ([]time.Time, error) {
	var rows []string
	err := h.scoped(ctx, scope).
		Where("approved_at IS NOT NULL").
		Distinct("strftime('%Y-%m-%d', approved_at)").
		Order("strftime('%Y-%m-%d', approved_at) ASC").
		Pluck("strftime('%Y-%m-%d', approved_at)", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("approval days: %w", err)
	}

	days := make([]time.Time, 0, len(rows))
	for _, raw := range rows {
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse approval day %q: %w", raw, err)
		}
		days = append(days, day)
	}
	return days, nil
}

// DistinctProjectsWithApproval counts the team's projects holding at least
// one approval by the user.
func (h *TaskHistory) DistinctProjectsWithApproval(ctx context.Context, userID, teamID uint) (int64, error) {
	var n int64
	err := h.db.WithContext(ctx).Model(&model.Task{}).
		Where("assignee_id = ? AND team_id = ? AND status = ?", userID, teamID, model.StatusApproved).
		Distinct("project_id").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("distinct projects with approval: %w", err)
	}
	return n, nil
}

// ApprovedCountInTeam counts the user's approvals across the whole team.
func (h *TaskHistory) ApprovedCountInTeam(ctx context.Context, userID, teamID uint) (int64, error) {
	var n int64
	err := h.db.WithContext(ctx).Model(&model.Task{}).
		Where("assignee_id = ? AND team_id = ? AND status = ?", userID, teamID, model.StatusApproved).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count approved in team: %w", err)
	}
	return n, nil
}

// TeamApprovedCount counts all approvals in the team, any assignee.
func (h *TaskHistory) TeamApprovedCount(ctx context.Context, teamID uint) (int64, error) {
	var n int64
	err := h.db.WithContext(ctx).Model(&model.Task{}).
		Where("team_id = ? AND status = ?", teamID, model.StatusApproved).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("team approved count: %w", err)
	}
	return n, nil
}

// FirstTeamApprovalBy returns the assignee of the team's earliest approval,
// or 0 when the team has none.
func (h *TaskHistory) FirstTeamApprovalBy(ctx context.Context, teamID uint) (uint, error) {
	var row struct{ AssigneeID uint }
	err := h.db.WithContext(ctx).Model(&model.Task{}).
		Select("assignee_id").
		Where("team_id = ? AND status = ? AND approved_at IS NOT NULL", teamID, model.StatusApproved).
		Order("approved_at ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("first team approval: %w", err)
	}
	return row.AssigneeID, nil
}
