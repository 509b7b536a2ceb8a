// Package catalog defines the achievement catalog and the predicate registry
// that decides when each entry unlocks.
//
// Catalog rows and predicates are both keyed by a stable code. A row whose
// code has no registered predicate is inert: it evaluates to false and never
// errors, so rows can be added to storage before code catches up.
package catalog

import "github.com/okian/laurel/internal/domain/model"

// Stable achievement codes. These are persisted in award rows; never rename.
const (
	// Task-completion milestones (approved-task count)
	CodeApproved10   = "approved-10"
	CodeApproved100  = "approved-100"
	CodeApproved500  = "approved-500"
	CodeApproved1000 = "approved-1000"
	CodeApproved2000 = "approved-2000"

	// Task-completion behavior
	CodeRolling30        = "rolling-30-in-30"
	CodeHighPriority20   = "high-priority-20"
	CodeCriticalPriority40 = "critical-priority-40"
	CodeDailyBurst5      = "daily-burst-5"
	CodeComeback10       = "comeback-10"

	// Bug and review resolution
	CodeCriticalMonth20 = "critical-month-20"
	CodeBugFixes100     = "bug-fixes-100"
	CodeReportedBugs25  = "reported-bugs-25"
	CodeReviewResolved30 = "review-resolved-30"

	// Time management
	CodeDeadline20  = "deadline-20"
	CodeDeadline50  = "deadline-50"
	CodeEarlyBird20 = "early-bird-20"
	CodeNightOwl20  = "night-owl-20"
	CodeWeekend15   = "weekend-15"
	CodeStreak7     = "streak-7"
	CodeStreak30    = "streak-30"

	// Teamwork
	CodeMultiProject3 = "multi-project-3"
	CodeTeamShare25   = "team-share-25"
	CodeTeamFirst     = "team-first"
)

// Unlock thresholds. All comparisons are exact >= against these values.
const (
	thresholdApproved10   = 10
	thresholdApproved100  = 100
	thresholdApproved500  = 500
	thresholdApproved1000 = 1000
	thresholdApproved2000 = 2000

	rollingWindowDays  = 30
	thresholdRolling30 = 30

	thresholdHighPriority     = 20
	thresholdCriticalPriority = 40
	thresholdDailyBurst       = 5
	thresholdComeback         = 10
	thresholdCriticalMonth    = 20
	thresholdBugFixes         = 100
	thresholdReportedBugs     = 25
	thresholdReviewResolved   = 30

	thresholdDeadline20 = 20
	thresholdDeadline50 = 50
	thresholdEarlyBird  = 20
	thresholdNightOwl   = 20
	thresholdWeekend    = 15
	thresholdStreak7    = 7
	thresholdStreak30   = 30

	earlyBirdFromHour = 5
	earlyBirdToHour   = 9
	nightOwlFromHour  = 21
	nightOwlToHour    = 24

	thresholdMultiProject  = 3
	teamShareNumerator     = 1 // user share >= 1/4 of the team's approvals
	teamShareDenominator   = 4
	teamShareMinTeamVolume = 100
)

// Definitions returns the catalog rows seeded at setup time. Evaluation only
// reads these; it never mutates or deletes them.
func Definitions() []model.Achievement {
	return []model.Achievement{
		{Code: CodeApproved10, Title: "First Steps", Description: "Complete 10 approved tasks", Icon: "badge-first-steps"},
		{Code: CodeApproved100, Title: "Centurion", Description: "Complete 100 approved tasks", Icon: "badge-centurion"},
		{Code: CodeApproved500, Title: "Workhorse", Description: "Complete 500 approved tasks", Icon: "badge-workhorse"},
		{Code: CodeApproved1000, Title: "Machine", Description: "Complete 1000 approved tasks", Icon: "badge-machine"},
		{Code: CodeApproved2000, Title: "Legend", Description: "Complete 2000 approved tasks", Icon: "badge-legend"},

		{Code: CodeRolling30, Title: "Marathon", Description: "30 approvals in the last 30 days", Icon: "badge-marathon"},
		{Code: CodeHighPriority20, Title: "Firefighter", Description: "20 high-priority approvals", Icon: "badge-firefighter"},
		{Code: CodeCriticalPriority40, Title: "Crisis Manager", Description: "40 critical-priority approvals", Icon: "badge-crisis"},
		{Code: CodeDailyBurst5, Title: "Power Day", Description: "5 approvals in a single day", Icon: "badge-power-day"},
		{Code: CodeComeback10, Title: "Comeback", Description: "10 approvals of previously rejected tasks", Icon: "badge-comeback"},

		{Code: CodeCriticalMonth20, Title: "Fire Season", Description: "20 critical approvals in one month", Icon: "badge-fire-season"},
		{Code: CodeBugFixes100, Title: "Bug Squasher", Description: "100 approved tasks with bug activity", Icon: "badge-bug-squasher"},
		{Code: CodeReportedBugs25, Title: "Bug Hunter", Description: "25 critical approvals with bug activity", Icon: "badge-bug-hunter"},
		{Code: CodeReviewResolved30, Title: "Review Resolver", Description: "30 approvals with resolved review comments", Icon: "badge-review-resolver"},

		{Code: CodeDeadline20, Title: "On Time", Description: "20 approvals before the deadline", Icon: "badge-on-time"},
		{Code: CodeDeadline50, Title: "Clockwork", Description: "50 approvals before the deadline", Icon: "badge-clockwork"},
		{Code: CodeEarlyBird20, Title: "Early Bird", Description: "20 approvals between 05:00 and 09:00", Icon: "badge-early-bird"},
		{Code: CodeNightOwl20, Title: "Night Owl", Description: "20 approvals between 21:00 and 24:00", Icon: "badge-night-owl"},
		{Code: CodeWeekend15, Title: "Weekend Warrior", Description: "15 approvals on weekends", Icon: "badge-weekend"},
		{Code: CodeStreak7, Title: "Streak Week", Description: "Approvals on 7 consecutive days", Icon: "badge-streak-week"},
		{Code: CodeStreak30, Title: "Streak Month", Description: "Approvals on 30 consecutive days", Icon: "badge-streak-month"},

		{Code: CodeMultiProject3, Title: "Explorer", Description: "Approvals in 3 of the team's projects", Icon: "badge-explorer"},
		{Code: CodeTeamShare25, Title: "Team Pillar", Description: "A quarter of the team's approvals", Icon: "badge-team-pillar"},
		{Code: CodeTeamFirst, Title: "Trailblazer", Description: "The team's first approval", Icon: "badge-trailblazer"},
	}
}
