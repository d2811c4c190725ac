package members

import (
	"context"
	"time"

	"github.com/angelmondragon/articles-api/internal/repo"
	"github.com/angelmondragon/articles-api/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes member persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a members repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new member.
func (r *Repository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if err := r.DB(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// FindByUsername retrieves the member with the exact username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Member, error) {
	var member models.Member
	if err := r.DB(ctx).Where("username = ?", username).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByID loads a member by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Member, error) {
	var member models.Member
	if err := r.DB(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateLastLogin refreshes the member's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Member{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
