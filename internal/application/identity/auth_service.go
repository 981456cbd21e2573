// Package identity implements registration, sessions and consultant
// management on top of the identity domain.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/auth"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Session errors
var (
	ErrInvalidSessionToken = shared.NewDomainError(shared.CodeUnauthorized, "Invalid or expired token")
	ErrSessionExpired      = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrMaxRefreshExceeded  = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
)

// AuthService handles registration, credential checks and sessions
type AuthService struct {
	users     identity.UserRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		events:    events,
		logger:    logger.Named("auth"),
	}
}

// Register creates a member or consultant account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "register")
	defer span.End()

	role, err := identity.ParseSelfServiceRole(input.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, identity.ErrDuplicateEmail
	}

	user, err := identity.NewUser(input.Email, input.Password, role, identity.Profile{
		Name:           input.Name,
		Profession:     input.Profession,
		ExpertiseLevel: input.ExpertiseLevel,
	})
	if err != nil {
		return nil, err
	}

	// The unique index still rejects a concurrent registration of the same email.
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, identity.ErrDuplicateEmail) {
			telemetry.RecordError(span, err)
		}
		return nil, err
	}
	publishEvents(ctx, s.events, user)

	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, user.ID.String(), telemetry.SpanAttrRole, string(role))
	logger.L(ctx).Info("User registered", zap.String("user_id", user.ID.String()), zap.String("role", role.String()))

	view := ToUserView(user, user.Actor())
	return &view, nil
}

// Authenticate checks credentials. Unknown email and wrong password both
// fail with ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*identity.User, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "authenticate")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		if shared.IsNotFound(err) {
			logger.L(ctx).Warn("Login attempt for unknown email")
			return nil, identity.ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.VerifyPassword(password) {
		logger.L(ctx).Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	err = shared.RetryOnConflict(func(attempt int) error {
		if attempt > 0 {
			fresh, err := s.users.FindByID(ctx, user.ID)
			if err != nil {
				return err
			}
			user = fresh
		}
		user.RecordLogin()
		return s.users.Update(ctx, user)
	})
	if err != nil {
		// The login itself succeeded; only the timestamp is lost.
		logger.L(ctx).Error("Failed to record login", zap.Error(err))
	}

	return user, nil
}

// StartSession issues an access/refresh token pair for user
func (s *AuthService) StartSession(ctx context.Context, user *identity.User) (*SessionResult, error) {
	pair, err := s.tokens.GenerateTokenPair(tokenInput(user))
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	logger.L(ctx).Info("Session started", zap.String("user_id", user.ID.String()))
	return sessionResult(pair, user), nil
}

// Login authenticates and starts a session
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*SessionResult, error) {
	user, err := s.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	return s.StartSession(ctx, user)
}

// EndSession revokes the access token until it expires
func (s *AuthService) EndSession(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return mapTokenError(err)
	}
	if claims.ID == "" {
		return ErrInvalidSessionToken
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	logger.L(ctx).Info("Session ended", zap.String("user_id", claims.UserID))
	return nil
}

// RefreshSession exchanges a refresh token for a new pair. The role is
// re-read from the store so it cannot be carried over stale.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*SessionResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrInvalidSessionToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrInvalidSessionToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	pair, err := s.tokens.RefreshTokenPair(claims, tokenInput(user))
	if err != nil {
		return nil, mapTokenError(err)
	}
	return sessionResult(pair, user), nil
}

func tokenInput(user *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func sessionResult(pair *auth.TokenPair, user *identity.User) *SessionResult {
	return &SessionResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserView(user, user.Actor()),
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrSessionExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrMaxRefreshExceeded
	default:
		return ErrInvalidSessionToken
	}
}

// publishEvents hands the aggregate's pending events to the bus and clears them
func publishEvents(ctx context.Context, events shared.EventPublisher, agg shared.AggregateRoot) {
	pending := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if events == nil || len(pending) == 0 {
		return
	}
	if err := events.Publish(ctx, pending...); err != nil {
		logger.L(ctx).Warn("Failed to publish domain events", zap.Error(err))
	}
}
