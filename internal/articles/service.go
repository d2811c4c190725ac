package articles

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/articles-api/pkg/db"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
	"github.com/angelmondragon/articles-api/pkg/pagination"
	"gorm.io/gorm"
)

const (
	MaxSubjectLength = 200
	MaxContentLength = 10000
)

// Service exposes article CRUD.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id int64) (*ArticleDTO, error)
	Create(ctx context.Context, authorID int64, input CreateInput) (*ArticleDTO, error)
	Update(ctx context.Context, actorID, id int64, input UpdateInput) (*ArticleDTO, error)
	Delete(ctx context.Context, actorID, id int64) (*ArticleDTO, error)
}

// CreateInput holds the fields of a new article.
type CreateInput struct {
	Subject string
	Content string
}

// UpdateInput holds optional replacements; nil fields are left untouched.
type UpdateInput struct {
	Subject *string
	Content *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the article service collaborators.
type ServiceParams struct {
	Repo      *Repository
	Tx        txRunner
	Publisher EventPublisher
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	repo      *Repository
	tx        txRunner
	publisher EventPublisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs the article service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("article repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Publisher == nil {
		params.Publisher = NoopPublisher{}
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		publisher: params.Publisher,
		logg:      params.Logger,
		now:       params.Now,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	if !params.Paged() {
		rows, err := s.repo.List(ctx, 0, 0)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list articles")
		}
		return &ListResult{Articles: toDTOs(rows)}, nil
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	var beforeID int64
	if cursor != nil {
		beforeID = cursor.ID
	}

	rows, err := s.repo.List(ctx, beforeID, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list articles")
	}
	page, more := pagination.Trim(rows, params.Limit)

	result := &ListResult{Articles: toDTOs(page)}
	if more {
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{ID: page[len(page)-1].ID})
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id int64) (*ArticleDTO, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	dto := NewArticleDTO(article)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, authorID int64, input CreateInput) (*ArticleDTO, error) {
	if authorID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "author required")
	}
	subject, err := normalizeField("subject", input.Subject, MaxSubjectLength)
	if err != nil {
		return nil, err
	}
	content, err := normalizeField("content", input.Content, MaxContentLength)
	if err != nil {
		return nil, err
	}

	var created ArticleDTO
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		article, err := s.repo.WithTx(tx).Create(ctx, newArticleModel(authorID, subject, content))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert article")
		}
		created = NewArticleDTO(article)
		return nil
	}); err != nil {
		return nil, err
	}

	s.emit(ctx, EventArticleCreated, authorID, created)
	return &created, nil
}

func (s *service) Update(ctx context.Context, actorID, id int64, input UpdateInput) (*ArticleDTO, error) {
	if input.Subject == nil && input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject or content is required")
	}

	var subject, content *string
	if input.Subject != nil {
		v, err := normalizeField("subject", *input.Subject, MaxSubjectLength)
		if err != nil {
			return nil, err
		}
		subject = &v
	}
	if input.Content != nil {
		v, err := normalizeField("content", *input.Content, MaxContentLength)
		if err != nil {
			return nil, err
		}
		content = &v
	}

	var updated ArticleDTO
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		article, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if subject != nil {
			article.Subject = *subject
		}
		if content != nil {
			article.Content = *content
		}
		saved, err := txRepo.Save(ctx, article)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update article")
		}
		updated = NewArticleDTO(saved)
		return nil
	}); err != nil {
		return nil, err
	}

	s.emit(ctx, EventArticleUpdated, actorID, updated)
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, actorID, id int64) (*ArticleDTO, error) {
	var deleted ArticleDTO
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		article, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		removed, err := txRepo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete article")
		}
		if !removed {
			return pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		deleted = NewArticleDTO(article)
		return nil
	}); err != nil {
		return nil, err
	}

	s.emit(ctx, EventArticleDeleted, actorID, deleted)
	return &deleted, nil
}

func (s *service) emit(ctx context.Context, t EventType, actorID int64, article ArticleDTO) {
	event := NewArticleEvent(t, actorID, article, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"event_type": t,
			"article_id": article.ID,
			"error":      err.Error(),
		}), "article event publish failed")
	}
}

func normalizeField(name, value string, max int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	if utf8.RuneCountInString(v) > max {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be at most %d characters", name, max))
	}
	return v, nil
}

func mapLookupError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load article")
}
