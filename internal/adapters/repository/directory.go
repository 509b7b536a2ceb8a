package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/okian/laurel/internal/domain/model"
)

// Directory resolves users, teams, and projects by id. A missing entity is
// reported as (nil, nil); callers decide whether that is a problem.
type Directory struct {
	db *gorm.DB
}

// NewDirectory creates a directory over the given database.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// FindUserByID returns the user or nil when absent.
func (d *Directory) FindUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// FindTeamByID returns the team or nil when absent.
func (d *Directory) FindTeamByID(ctx context.Context, id uint) (*model.Team, error) {
	var team model.Team
	err := d.db.WithContext(ctx).First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team %d: %w", id, err)
	}
	return &team, nil
}

// FindProjectByID returns the project or nil when absent.
func (d *Directory) FindProjectByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := d.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project %d: %w", id, err)
	}
	return &project, nil
}
