package cmd

import (
	"testing"

	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetUserPassword(t *testing.T) {
	t.Parallel()

	users := memory.NewUserRepository()
	u := &model.User{Email: "admin@example.com", Name: "Admin"}
	require.NoError(t, u.SetPassword("old-secret"))
	require.NoError(t, users.Create(u))

	require.NoError(t, resetUserPassword(users, "admin@example.com", "new-secret"))

	stored, err := users.FindByEmail("admin@example.com")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("new-secret"))
	assert.False(t, stored.CheckPassword("old-secret"))
}

func TestResetUserPasswordErrors(t *testing.T) {
	t.Parallel()

	users := memory.NewUserRepository()
	err := resetUserPassword(users, "ghost@example.com", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = resetUserPassword(users, "ghost@example.com", "")
	assert.EqualError(t, err, "password must not be empty")
}

func TestServeCommandsRegistered(t *testing.T) {
	t.Parallel()

	var names []string
	for _, c := range serveCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"identity", "catalog", "orders", "delivery"}, names)

	for _, name := range []string{"serve", "migrate", "reset-password"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}
