package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/auth"
	"github.com/agrifarma/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "agrifarma-test",
		MaxRefreshCount:        2,
	})
}

func setupAuthService() (*AuthService, *MockUserRepository, *MockEventPublisher, *auth.InMemoryTokenBlacklist) {
	users := new(MockUserRepository)
	events := new(MockEventPublisher)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(users, newTestJWTService(), blacklist, events, zap.NewNop())
	return svc, users, events, blacklist
}

func newTestUser(t *testing.T, email string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "password123", role, identity.Profile{Name: "Test User"})
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to member and publishes registration", func(t *testing.T) {
		svc, users, events, _ := setupAuthService()
		users.On("ExistsByEmail", mock.Anything, "farmer@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
		events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		view, err := svc.Register(ctx, RegisterInput{
			Name:       "Farmer Joe",
			Email:      " Farmer@Example.com ",
			Password:   "password123",
			Profession: "Farmer",
		})

		require.NoError(t, err)
		assert.Equal(t, identity.RoleMember, view.Role)
		assert.Equal(t, "farmer@example.com", view.Email)
		users.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("consultant role is allowed", func(t *testing.T) {
		svc, users, events, _ := setupAuthService()
		users.On("ExistsByEmail", mock.Anything, "c@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(nil)
		events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		view, err := svc.Register(ctx, RegisterInput{Name: "C", Email: "c@example.com", Password: "password123", Role: "consultant"})

		require.NoError(t, err)
		assert.Equal(t, identity.RoleConsultant, view.Role)
	})

	t.Run("admin role is rejected", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()

		_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "password123", Role: "admin"})

		assert.True(t, shared.IsValidation(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		users.On("ExistsByEmail", mock.Anything, "dup@example.com").Return(true, nil)

		_, err := svc.Register(ctx, RegisterInput{Name: "D", Email: "dup@example.com", Password: "password123"})

		assert.ErrorIs(t, err, identity.ErrDuplicateEmail)
	})

	t.Run("short password", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		users.On("ExistsByEmail", mock.Anything, "p@example.com").Return(false, nil)

		_, err := svc.Register(ctx, RegisterInput{Name: "P", Email: "p@example.com", Password: "123"})

		assert.True(t, shared.IsValidation(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials start a session", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		users.On("FindByEmail", mock.Anything, "farmer@example.com").Return(user, nil)
		users.On("Update", mock.Anything, user).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Email: "FARMER@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		users.On("FindByEmail", mock.Anything, "farmer@example.com").Return(user, nil)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.NewNotFoundError("User"))

		_, errWrong := svc.Login(ctx, LoginInput{Email: "farmer@example.com", Password: "wrong-password"})
		_, errUnknown := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "password123"})

		assert.ErrorIs(t, errWrong, identity.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, identity.ErrInvalidCredentials)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("login timestamp is re-applied to a user changed meanwhile", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "expert@example.com", identity.RoleConsultant)
		approved := *user
		approved.IsConsultant = true
		approved.IsConsultantApproved = true
		approved.Version = user.Version + 1
		users.On("FindByEmail", mock.Anything, "expert@example.com").Return(user, nil)
		users.On("Update", mock.Anything, user).Return(shared.ErrConcurrencyConflict).Once()
		users.On("FindByID", mock.Anything, user.ID).Return(&approved, nil).Once()
		users.On("Update", mock.Anything, &approved).Return(nil).Once()

		result, err := svc.Login(ctx, LoginInput{Email: "expert@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotNil(t, approved.LastLoginAt)
		assert.True(t, approved.IsConsultantApproved)
		users.AssertNumberOfCalls(t, "Update", 2)
	})

	t.Run("failing to record login does not fail the login", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		users.On("FindByEmail", mock.Anything, "farmer@example.com").Return(user, nil)
		users.On("Update", mock.Anything, user).Return(errors.New("db down"))

		result, err := svc.Login(ctx, LoginInput{Email: "farmer@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})
}

func TestAuthService_EndSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _, blacklist := setupAuthService()
	user := newTestUser(t, "farmer@example.com", identity.RoleMember)

	session, err := svc.StartSession(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, session.AccessToken))

	claims, err := newTestJWTService().ValidateAccessToken(session.AccessToken)
	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = svc.EndSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestAuthService_RefreshSession(t *testing.T) {
	ctx := context.Background()

	t.Run("re-reads the role", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		session, err := svc.StartSession(ctx, user)
		require.NoError(t, err)

		promoted := *user
		promoted.Role = identity.RoleConsultant
		users.On("FindByID", mock.Anything, user.ID).Return(&promoted, nil)

		refreshed, err := svc.RefreshSession(ctx, session.RefreshToken)

		require.NoError(t, err)
		claims, err := newTestJWTService().ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleConsultant, claims.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		svc, _, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		session, err := svc.StartSession(ctx, user)
		require.NoError(t, err)

		_, err = svc.RefreshSession(ctx, session.AccessToken)

		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("refresh count is capped", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		session, err := svc.StartSession(ctx, user)
		require.NoError(t, err)

		token := session.RefreshToken
		for i := 0; i < 2; i++ {
			next, err := svc.RefreshSession(ctx, token)
			require.NoError(t, err)
			token = next.RefreshToken
		}
		_, err = svc.RefreshSession(ctx, token)

		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, users, _, _ := setupAuthService()
		user := newTestUser(t, "farmer@example.com", identity.RoleMember)
		users.On("FindByID", mock.Anything, user.ID).Return(nil, shared.NewNotFoundError("User"))
		session, err := svc.StartSession(ctx, user)
		require.NoError(t, err)

		_, err = svc.RefreshSession(ctx, session.RefreshToken)

		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})
}
