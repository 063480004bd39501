package services

import (
	"testing"

	"restro_backend/pkg/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *fakeAuthRepo) {
	repo := newFakeAuthRepo()
	return NewAuthService(&fakeTxManager{}, repo), repo
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthFixture()

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"empty username", RegisterRequest{Username: "", Password: "longenough", RoleName: "Staff"}},
		{"whitespace username", RegisterRequest{Username: "   ", Password: "longenough", RoleName: "Staff"}},
		{"short password", RegisterRequest{Username: "cashier1", Password: "short", RoleName: "Staff"}},
		{"malformed email", RegisterRequest{Username: "cashier1", Password: "longenough", Email: "not-an-email", RoleName: "Staff"}},
		{"unknown role", RegisterRequest{Username: "cashier1", Password: "longenough", RoleName: "Owner"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_CreatesUser(t *testing.T) {
	svc, repo := newAuthFixture()

	user, err := svc.Register(RegisterRequest{
		Username: "manager1",
		Password: "longenough",
		Email:    "manager@example.com",
		FullName: "Aigerim S",
		RoleName: "Manager",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.True(t, user.IsActive)
	require.NotNil(t, user.Role)
	require.Equal(t, "Manager", user.Role.Name)

	require.NotNil(t, user.Email)
	require.Equal(t, "manager@example.com", *user.Email)
	require.NotNil(t, user.FullName)

	// The stored hash must verify against the original password.
	stored, err := repo.GetUserByUsername("manager1")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
	require.NotEqual(t, "longenough", stored.PasswordHash)
}

func TestRegister_EmptyOptionalFieldsStoredAsNull(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(RegisterRequest{
		Username: "cashier1",
		Password: "longenough",
		RoleName: "Staff",
	})
	require.NoError(t, err)
	require.Nil(t, user.Email)
	require.Nil(t, user.FullName)
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(RegisterRequest{Username: "cashier1", Password: "longenough", RoleName: "Staff"})
	require.NoError(t, err)

	user, pair, err := svc.Login(LoginRequest{Username: "cashier1", Password: "longenough"})
	require.NoError(t, err)
	require.Equal(t, "cashier1", user.Username)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := utils.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, utils.Int64ToStr(user.ID), claims.Subject)
}

func TestLogin_RejectsBadCredentialsAndDisabledAccount(t *testing.T) {
	svc, repo := newAuthFixture()
	user, err := svc.Register(RegisterRequest{Username: "cashier1", Password: "longenough", RoleName: "Staff"})
	require.NoError(t, err)

	_, _, err = svc.Login(LoginRequest{Username: "cashier1", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login(LoginRequest{Username: "nobody", Password: "longenough"})
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, repo.SetUserActive(nil, user.ID, false))
	_, _, err = svc.Login(LoginRequest{Username: "cashier1", Password: "longenough"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshTokens_RoundTrip(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(RegisterRequest{Username: "cashier1", Password: "longenough", RoleName: "Staff"})
	require.NoError(t, err)

	_, pair, err := svc.Login(LoginRequest{Username: "cashier1", Password: "longenough"})
	require.NoError(t, err)

	fresh, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.AccessToken)

	_, err = svc.RefreshTokens("not-a-token")
	require.ErrorIs(t, err, ErrUnauthorized)
}
