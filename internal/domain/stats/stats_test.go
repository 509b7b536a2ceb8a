package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/laurel/internal/domain/model"
	"github.com/okian/laurel/internal/domain/stats"
)

// fakeHistory returns canned values; unset fields read as zero.
type fakeHistory struct {
	approved         int64
	approvedSince    map[string]int64 // keyed by since date (2006-01-02)
	beforeDeadline   int64
	byPriority       map[model.PriorityLevel]int64
	maxPerDay        int64
	afterRejection   int64
	maxPerMonth      map[model.PriorityLevel]int64
	withComments     int64
	commentsPriority map[model.PriorityLevel]int64
	inHours          map[[2]int]int64
	onWeekends       int64
	approvalDays     []time.Time
	distinctProjects int64
	userTeamCount    int64
	teamCount        int64
	firstApprover    uint

	err error
}

func (f *fakeHistory) ApprovedCount(ctx context.Context, scope stats.Scope) (int64, error) {
	return f.approved, f.err
}

func (f *fakeHistory) ApprovedCountSince(ctx context.Context, scope stats.Scope, since time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.approvedSince[since.UTC().Format("2006-01-02")], nil
}

func (f *fakeHistory) ApprovedCountBeforeDeadline(ctx context.Context, scope stats.Scope) (int64, error) {
	return f.beforeDeadline, f.err
}

func (f *fakeHistory) ApprovedCountWithPriority(ctx context.Context, scope stats.Scope, priority model.PriorityLevel) (int64, error) {
	return f.byPriority[priority], f.err
}

func (f *fakeHistory) MaxApprovedPerDay(ctx context.Context, scope stats.Scope) (int64, error) {
	return f.maxPerDay, f.err
}

func (f *fakeHistory) ApprovedCountAfterRejection(ctx context.Context, scope stats.Scope) (int64, error) {
	return f.afterRejection, f.err
}

func (f *fakeHistory) MaxApprovedPerMonthWithPriority(ctx context.Context, scope stats.Scope, priority model.PriorityLevel) (int64, error) {
	return f.maxPerMonth[priority], f.err
}

func (f *fakeHistory) ApprovedCountWithComments(ctx context.Context, scope stats.Scope) (int64, error) {
	return f.withComments, f.err
}

func (f *fakeHistory) ApprovedCountWithCommentsAndPriority(ctx context.Context, scope stats.Scope, priority model.PriorityLevel) (int64, error) {
	return f.commentsPriority[priority], f.err
}

func (f *fakeHistory) ApprovedCountInHours(ctx context.Context, scope stats.Scope, fromHour, toHour int) (int64, error) {
	return f.inHours[[2]int{fromHour, toHour}], f.err
}

func (f *fakeHistory) ApprovedCountOnWeekends(ctx context.Context, scope stats.Scope) (int64, error) {
	return f.onWeekends, f.err
}

func (f *fakeHistory) ApprovalDays(ctx context.Context, scope stats.Scope) ([]time.Time, error) {
	return f.approvalDays, f.err
}

func (f *fakeHistory) DistinctProjectsWithApproval(ctx context.Context, userID, teamID uint) (int64, error) {
	return f.distinctProjects, f.err
}

func (f *fakeHistory) ApprovedCountInTeam(ctx context.Context, userID, teamID uint) (int64, error) {
	return f.userTeamCount, f.err
}

func (f *fakeHistory) TeamApprovedCount(ctx context.Context, teamID uint) (int64, error) {
	return f.teamCount, f.err
}

func (f *fakeHistory) FirstTeamApprovalBy(ctx context.Context, teamID uint) (uint, error) {
	return f.firstApprover, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEngine(t *testing.T) {
	Convey("Given a stats engine over a fake history", t, func() {
		ctx := context.Background()
		scope := stats.Scope{UserID: 1, TeamID: 10, ProjectID: 100}

		Convey("When reading the approved count", func() {
			engine := stats.NewEngine(&fakeHistory{approved: 42}, scope)

			n, err := engine.ApprovedCount(ctx)

			Convey("Then the history value is returned", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 42)
			})
		})

		Convey("When reading a trailing window", func() {
			now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
			history := &fakeHistory{approvedSince: map[string]int64{
				"2024-03-01": 30,
			}}
			engine := stats.NewEngine(history, scope, stats.WithNow(func() time.Time { return now }))

			n, err := engine.ApprovedWithinDays(ctx, 30)

			Convey("Then the window is anchored at the injected clock", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 30)
			})
		})

		Convey("When the history store fails", func() {
			engine := stats.NewEngine(&fakeHistory{err: errors.New("db gone")}, scope)

			_, err := engine.ApprovedCount(ctx)

			Convey("Then the failure propagates wrapped", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "approved count")
			})
		})

		Convey("When reading the team share", func() {
			engine := stats.NewEngine(&fakeHistory{userTeamCount: 30, teamCount: 120}, scope)

			userCount, teamCount, err := engine.TeamShare(ctx)

			Convey("Then both counts are returned", func() {
				So(err, ShouldBeNil)
				So(userCount, ShouldEqual, 30)
				So(teamCount, ShouldEqual, 120)
			})
		})

		Convey("When checking the team's first approval", func() {
			Convey("And the user authored it", func() {
				engine := stats.NewEngine(&fakeHistory{firstApprover: 1}, scope)
				first, err := engine.FirstApprovedInTeam(ctx)
				So(err, ShouldBeNil)
				So(first, ShouldBeTrue)
			})

			Convey("And someone else authored it", func() {
				engine := stats.NewEngine(&fakeHistory{firstApprover: 2}, scope)
				first, err := engine.FirstApprovedInTeam(ctx)
				So(err, ShouldBeNil)
				So(first, ShouldBeFalse)
			})

			Convey("And the team has no approvals", func() {
				engine := stats.NewEngine(&fakeHistory{firstApprover: 0}, scope)
				first, err := engine.FirstApprovedInTeam(ctx)
				So(err, ShouldBeNil)
				So(first, ShouldBeFalse)
			})
		})
	})
}

func TestLongestDailyStreak(t *testing.T) {
	Convey("Given approval day sequences", t, func() {
		ctx := context.Background()
		scope := stats.Scope{UserID: 1, TeamID: 10, ProjectID: 100}

		streakOf := func(days []time.Time) int64 {
			engine := stats.NewEngine(&fakeHistory{approvalDays: days}, scope)
			n, err := engine.LongestDailyStreak(ctx)
			So(err, ShouldBeNil)
			return n
		}

		Convey("When there are no approval days", func() {
			So(streakOf(nil), ShouldEqual, 0)
		})

		Convey("When there is a single day", func() {
			So(streakOf([]time.Time{day(2024, 3, 4)}), ShouldEqual, 1)
		})

		Convey("When days are consecutive", func() {
			days := []time.Time{
				day(2024, 3, 4), day(2024, 3, 5), day(2024, 3, 6),
				day(2024, 3, 7), day(2024, 3, 8), day(2024, 3, 9), day(2024, 3, 10),
			}
			So(streakOf(days), ShouldEqual, 7)
		})

		Convey("When a gap splits the run", func() {
			days := []time.Time{
				day(2024, 3, 4), day(2024, 3, 5),
				day(2024, 3, 7), day(2024, 3, 8), day(2024, 3, 9),
			}
			So(streakOf(days), ShouldEqual, 3)
		})

		Convey("When the longest run comes first", func() {
			days := []time.Time{
				day(2024, 3, 1), day(2024, 3, 2), day(2024, 3, 3), day(2024, 3, 4),
				day(2024, 3, 10), day(2024, 3, 11),
			}
			So(streakOf(days), ShouldEqual, 4)
		})
	})
}
