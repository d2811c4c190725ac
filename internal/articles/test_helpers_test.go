package articles

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/articles-api/pkg/config"
	pkgdb "github.com/angelmondragon/articles-api/pkg/db"
	"github.com/angelmondragon/articles-api/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := pkgdb.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())))
	require.NoError(t, err)
	require.NoError(t, pkgdb.AutoMigrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func seedArticles(t *testing.T, conn *gorm.DB, n int) []models.Article {
	t.Helper()
	out := make([]models.Article, 0, n)
	for i := 1; i <= n; i++ {
		a := models.Article{AuthorID: 1, Subject: fmt.Sprintf("subject %d", i), Content: fmt.Sprintf("content %d", i)}
		require.NoError(t, conn.Create(&a).Error)
		out = append(out, a)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ArticleEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event ArticleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestService(t *testing.T, conn *gorm.DB, pub EventPublisher) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(conn),
		Tx:        pkgdb.NewFromConn(conn, config.DriverSQLite),
		Publisher: pub,
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

var errPublish = errors.New("broker down")
