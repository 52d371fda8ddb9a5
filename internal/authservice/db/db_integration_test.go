//go:build integration

package db

import (
	"context"
	"testing"

	"restaurant-site/internal/pgtest"
	"restaurant-site/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDB(t *testing.T) {
	ctx := context.Background()
	users := NewUserDB(pgtest.Start(t))

	_, err := users.FindByUsername(ctx, "admin")
	assert.ErrorIs(t, err, models.ErrNotFound)

	id, err := users.CreateUser(ctx, "admin", "$2a$10$hash")
	require.NoError(t, err)

	user, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: id, Username: "admin", Password: "$2a$10$hash"}, user)

	_, err = users.CreateUser(ctx, "admin", "$2a$10$other")
	assert.ErrorIs(t, err, ErrUserExists)
}
