package seed

import (
	"context"
	"fmt"

	"github.com/angelmondragon/articles-api/pkg/db"
	"github.com/angelmondragon/articles-api/pkg/db/models"
	"github.com/angelmondragon/articles-api/pkg/enums"
	"github.com/angelmondragon/articles-api/pkg/logger"
	"github.com/angelmondragon/articles-api/pkg/security"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to every fixture member.
const DefaultPassword = "1234"

type fixtureMember struct {
	Username string
	Role     enums.MemberRole
}

var fixtureMembers = []fixtureMember{
	{Username: "user1", Role: enums.MemberRoleUser},
	{Username: "admin", Role: enums.MemberRoleAdmin},
}

var fixtureArticles = []struct {
	Subject string
	Content string
}{
	{"제목 1", "내용 1"},
	{"제목 2", "내용 2"},
	{"제목 3", "내용 3"},
}

// Seeder inserts development fixtures: two members and a handful of articles.
type Seeder struct {
	conn   *gorm.DB
	hasher security.PasswordHasher
	logg   *logger.Logger
}

// New constructs a seeder.
func New(conn *gorm.DB, hasher security.PasswordHasher, logg *logger.Logger) *Seeder {
	return &Seeder{conn: conn, hasher: hasher, logg: logg}
}

// Run inserts missing fixture members and, when the articles table is empty,
// the sample articles authored by user1. It is safe to call repeatedly.
func (s *Seeder) Run(ctx context.Context) error {
	members := make(map[string]*models.Member, len(fixtureMembers))
	var errs error
	for _, fm := range fixtureMembers {
		m, err := s.ensureMember(ctx, fm)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seed member %s: %w", fm.Username, err))
			continue
		}
		members[fm.Username] = m
	}
	if errs != nil {
		return errs
	}

	created, err := s.ensureArticles(ctx, members["user1"].ID)
	if err != nil {
		return fmt.Errorf("seed articles: %w", err)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"members":  len(members),
			"articles": created,
		}), "seed data ready")
	}
	return nil
}

func (s *Seeder) ensureMember(ctx context.Context, fm fixtureMember) (*models.Member, error) {
	var existing models.Member
	err := s.conn.WithContext(ctx).Where("username = ?", fm.Username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, err
	}
	m := &models.Member{Username: fm.Username, PasswordHash: hash, Role: fm.Role}
	if err := s.conn.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Seeder) ensureArticles(ctx context.Context, authorID int64) (int, error) {
	var count int64
	if err := s.conn.WithContext(ctx).Model(&models.Article{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	rows := make([]models.Article, 0, len(fixtureArticles))
	for _, fa := range fixtureArticles {
		rows = append(rows, models.Article{AuthorID: authorID, Subject: fa.Subject, Content: fa.Content})
	}
	if err := s.conn.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}
