package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/articles-api/pkg/config"
	pkgdb "github.com/angelmondragon/articles-api/pkg/db"
	"github.com/angelmondragon/articles-api/pkg/db/models"
	"github.com/angelmondragon/articles-api/pkg/enums"
	"github.com/angelmondragon/articles-api/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := pkgdb.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())))
	require.NoError(t, err)
	require.NoError(t, pkgdb.AutoMigrate(conn))
	return conn
}

func cheapHasher() *security.Argon2id {
	return security.NewArgon2id(config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
}

func TestRunSeedsMembersAndArticles(t *testing.T) {
	conn := openTestDB(t)
	hasher := cheapHasher()
	require.NoError(t, New(conn, hasher, nil).Run(context.Background()))

	var members []models.Member
	require.NoError(t, conn.Order("id").Find(&members).Error)
	require.Len(t, members, 2)
	assert.Equal(t, "user1", members[0].Username)
	assert.Equal(t, enums.MemberRoleUser, members[0].Role)
	assert.Equal(t, "admin", members[1].Username)
	assert.Equal(t, enums.MemberRoleAdmin, members[1].Role)

	ok, err := hasher.Verify(DefaultPassword, members[1].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	var articles []models.Article
	require.NoError(t, conn.Order("id").Find(&articles).Error)
	require.Len(t, articles, 3)
	assert.Equal(t, int64(1), articles[0].ID)
	assert.Equal(t, members[0].ID, articles[0].AuthorID)
}

func TestRunIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	seeder := New(conn, cheapHasher(), nil)
	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))

	var members, articles int64
	require.NoError(t, conn.Model(&models.Member{}).Count(&members).Error)
	require.NoError(t, conn.Model(&models.Article{}).Count(&articles).Error)
	assert.Equal(t, int64(2), members)
	assert.Equal(t, int64(3), articles)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error)         { return "", errors.New("no entropy") }
func (failingHasher) Verify(string, string) (bool, error) { return false, nil }

func TestRunCombinesMemberErrors(t *testing.T) {
	conn := openTestDB(t)
	err := New(conn, failingHasher{}, nil).Run(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "user1")
	assert.Contains(t, err.Error(), "admin")
}
