package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propline/sms-dashboard/internal/repository"
)

func TestRepository_SubRepositories(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewRepository(db)

	assert.NotNil(t, repo.Contact())
	assert.NotNil(t, repo.Message())
	assert.NotNil(t, repo.Notification())
}

func TestRepository_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewRepository(db)

	err := repo.Ping()
	require.NoError(t, err)
}

func TestRepository_Ping_ClosedConnection(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewRepository(db)

	require.NoError(t, db.Close())

	err := repo.Ping()
	assert.Error(t, err)
}
