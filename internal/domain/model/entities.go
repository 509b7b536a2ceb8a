package model

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

// PriorityLevel enumerates task priorities.
type PriorityLevel string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCancelled  TaskStatus = "CANCELLED"
	StatusApproved   TaskStatus = "APPROVED"

	PriorityLow      PriorityLevel = "LOW"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityCritical PriorityLevel = "CRITICAL"
)

// User is a registered task assignee.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex"`
	FullName string
}

// Team groups users working on shared projects.
type Team struct {
	gorm.Model
	Name string `gorm:"uniqueIndex"`
}

// Project is a unit of work owned by a team.
type Project struct {
	gorm.Model
	Name   string
	TeamID uint `gorm:"index"`
}

// Task is a single assignable work item. ApprovedAt is set when the task
// reaches APPROVED; RejectedAt records the most recent cancellation or
// rejection before that, if any.
type Task struct {
	gorm.Model
	Title          string
	AssigneeID     uint `gorm:"index"`
	TeamID         uint `gorm:"index"`
	ProjectID      uint `gorm:"index"`
	Status         TaskStatus    `gorm:"type:varchar(16);index"`
	Priority       PriorityLevel `gorm:"type:varchar(16)"`
	ApprovedAt     *time.Time
	ExpirationDate *time.Time
	RejectedAt     *time.Time
}

// Comment is a discussion record attached to a task. Its mere existence is
// used as the bug-activity marker; there is no dedicated bug flag.
type Comment struct {
	gorm.Model
	TaskID   uint `gorm:"index"`
	AuthorID uint
	Body     string
}

// Achievement is a catalog entry for an unlockable badge. Rows are seeded at
// setup time and read-only during evaluation; Code is the stable identifier
// predicates are registered under.
type Achievement struct {
	gorm.Model
	Code        string `gorm:"uniqueIndex"`
	Title       string
	Description string
	Icon        string
}

// Award is the persisted fact that a user has unlocked an achievement.
// Team and project are contextual attributes of the unlocking event; the
// uniqueness key is (user, achievement) so a badge is earned once per user.
type Award struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex:idx_awards_user_achievement"`
	AchievementCode string `gorm:"uniqueIndex:idx_awards_user_achievement;type:varchar(64)"`
	TeamID          uint
	ProjectID       uint
	AwardedAt       time.Time
}
