package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecrew/internal/database"
	"homecrew/internal/domain"
	"homecrew/internal/repository"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db, err := database.ConnectInMemory()
	require.NoError(t, err)
	repo := repository.NewUserRepository(db, time.Second)
	ctx := context.Background()

	u := &domain.User{Name: "Priya", Email: " Priya@Example.com ", PasswordHash: "x", Role: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "priya@example.com", u.Email)

	byEmail, err := repo.GetByEmail(ctx, "PRIYA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.False(t, byEmail.EmailVerified)

	require.NoError(t, repo.MarkVerified(ctx, u.ID))
	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, byID.EmailVerified)

	dup := &domain.User{Name: "Other", Email: "priya@example.com", PasswordHash: "y", Role: domain.RoleCustomer}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
