package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/laurel/internal/domain/model"
)

// AwardLedger persists unlocked achievements. The unique index on
// (user_id, achievement_code) is authoritative for idempotency; the insert
// ignores conflicts so a lost race surfaces as "not granted", never as an
// error or a duplicate row.
type AwardLedger struct {
	db *gorm.DB
}

// NewAwardLedger creates a ledger over the given database.
func NewAwardLedger(db *gorm.DB) *AwardLedger {
	return &AwardLedger{db: db}
}

// OwnedCodes returns the achievement codes the user already holds.
func (l *AwardLedger) OwnedCodes(ctx context.Context, userID uint) (map[string]struct{}, error) {
	var codes []string
	err := l.db.WithContext(ctx).Model(&model.Award{}).
		Where("user_id = ?", userID).
		Pluck("achievement_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("owned codes for user %d: %w", userID, err)
	}

	owned := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		owned[code] = struct{}{}
	}
	return owned, nil
}

// AwardExists reports whether an award row exists for the full
// (user, team, project, achievement) combination.
func (l *AwardLedger) AwardExists(ctx context.Context, userID, teamID, projectID uint, code string) (bool, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&model.Award{}).
		Where("user_id = ? AND team_id = ? AND project_id = ? AND achievement_code = ?",
			userID, teamID, projectID, code).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("award exists: %w", err)
	}
	return n > 0, nil
}

// Award inserts the unlock if absent. Returns true when a new row was
// written, false when the user already held the achievement (including a
// concurrent insert winning the race between check and write).
func (l *AwardLedger) Award(ctx context.Context, userID, teamID, projectID uint, code string) (bool, error) {
	exists, err := l.AwardExists(ctx, userID, teamID, projectID, code)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	award := model.Award{
		UserID:          userID,
		AchievementCode: code,
		TeamID:          teamID,
		ProjectID:       projectID,
		AwardedAt:       time.Now(),
	}
	result := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_code"}},
		DoNothing: true,
	}).Create(&award)
	if result.Error != nil {
		return false, fmt.Errorf("insert award %s for user %d: %w", code, userID, result.Error)
	}

	return result.RowsAffected == 1, nil
}

// AwardsForUser returns the user's award rows, oldest first. Used by the
// operational stats surface; the reporting subsystem reads the table directly.
func (l *AwardLedger) AwardsForUser(ctx context.Context, userID uint) ([]model.Award, error) {
	var awards []model.Award
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&awards).Error
	if err != nil {
		return nil, fmt.Errorf("awards for user %d: %w", userID, err)
	}
	return awards, nil
}

// Count returns the total number of award rows.
func (l *AwardLedger) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.WithContext(ctx).Model(&model.Award{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count awards: %w", err)
	}
	return n, nil
}
