package service

import (
	"testing"
	"time"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/repository/memory"
	"go-shop-ms/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (AuthService, *memory.UserRepository, *jwt.Manager) {
	t.Helper()
	repo := memory.NewUserRepository()
	tokens := jwt.NewManager("test-secret", 24*time.Hour, "test")
	return NewAuthService(repo, tokens, zap.NewNop()), repo, tokens
}

func TestRegister(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{Email: "ada@example.com", Password: "lovelace", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)

	stored, err := repo.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "lovelace", stored.Password)
	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRegisterMissingField(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthService(t)

	for _, req := range []*RegisterRequest{
		{Password: "p", Name: "n"},
		{Email: "e@x.io", Name: "n"},
		{Email: "e@x.io", Password: "p"},
	} {
		_, err := svc.Register(req)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{Email: "ada@example.com", Password: "one", Name: "Ada"})
	require.NoError(t, err)
	before, _ := repo.Count()

	_, err = svc.Register(&RegisterRequest{Email: "ada@example.com", Password: "two", Name: "Other"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	after, _ := repo.Count()
	assert.Equal(t, before, after)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	svc, repo, tokens := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{Email: "ada@example.com", Password: "lovelace", Name: "Ada"})
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Email: "ada@example.com", Password: "lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.User.Name)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	stored, _ := repo.FindByEmail("ada@example.com")
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{Email: "ada@example.com", Password: "lovelace", Name: "Ada"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(&LoginRequest{Email: "ada@example.com", Password: "babbage"})
	_, unknownEmail := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "lovelace"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(wrongPassword))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestProfile(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newAuthService(t)

	_, err := svc.Register(&RegisterRequest{Email: "ada@example.com", Password: "lovelace", Name: "Ada"})
	require.NoError(t, err)
	stored, _ := repo.FindByEmail("ada@example.com")

	profile, err := svc.Profile(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, profile.ID)
	assert.Equal(t, "Ada", profile.Name)

	_, err = svc.Profile(uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
