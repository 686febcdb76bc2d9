package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"peerlink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteCustomerRepository {
	t.Helper()
	repo, err := NewSQLiteCustomerRepository(filepath.Join(t.TempDir(), "customers.db"))
	require.NoError(t, err)
	return repo.(*SQLiteCustomerRepository)
}

func TestSQLiteSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := &domain.Customer{
		LastName:  "Schmidt",
		FirstName: "Anna",
		Email:     "anna@example.com",
		City:      "Berlin",
		Country:   "Germany",
	}
	require.NoError(t, repo.Save(ctx, c))
	assert.NotZero(t, c.ID)

	got, err := repo.GetByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", got.City)
	assert.Equal(t, c.ID, got.ID)
}

func TestSQLiteGetMissingReturnsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestSQLiteUpdateKeepsRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := &domain.Customer{
		LastName:  "Schmidt",
		FirstName: "Anna",
		Email:     "anna@example.com",
		City:      "Berlin",
		Country:   "Germany",
	}
	require.NoError(t, repo.Save(ctx, c))

	c.City = "Hamburg"
	require.NoError(t, repo.Save(ctx, c))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hamburg", list[0].City)
}
