package articles

import (
	"context"

	"github.com/angelmondragon/articles-api/internal/repo"
	"github.com/angelmondragon/articles-api/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists articles.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the article and fills its generated fields.
func (r *Repository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	if err := r.DB(ctx).Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// FindByID loads one article. gorm.ErrRecordNotFound is returned when missing.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	var article models.Article
	if err := r.DB(ctx).First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns articles ordered by id descending. A zero limit returns every
// row; beforeID > 0 restricts the scan to ids below it.
func (r *Repository) List(ctx context.Context, beforeID int64, limit int) ([]models.Article, error) {
	q := r.DB(ctx).Model(&models.Article{}).Order("id DESC")
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Article
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save writes every column of an existing article.
func (r *Repository) Save(ctx context.Context, article *models.Article) (*models.Article, error) {
	if err := r.DB(ctx).Save(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// Delete hard-deletes the article and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.DB(ctx).Delete(&models.Article{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of stored articles.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB(ctx).Model(&models.Article{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
