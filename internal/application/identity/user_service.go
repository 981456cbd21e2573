package identity

import (
	"context"
	"fmt"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles profiles and consultant applications
type UserService struct {
	users  identity.UserRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users identity.UserRepository, events shared.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{users: users, events: events, logger: logger.Named("users")}
}

// GetProfile returns a user's public profile. Email is only shown to the
// user themselves and to admins.
func (s *UserService) GetProfile(ctx context.Context, viewer identity.Actor, id uuid.UUID) (*UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := ToUserView(user, viewer)
	return &view, nil
}

// ApplyForConsultancy records the caller's consultant application
func (s *UserService) ApplyForConsultancy(ctx context.Context, actor identity.Actor, input ConsultantApplicationInput) (*UserView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "apply_consultancy")
	defer span.End()

	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	var user *identity.User
	err := shared.RetryOnConflict(func(int) error {
		var err error
		if user, err = s.users.FindByID(ctx, actor.UserID); err != nil {
			return err
		}
		if err := user.ApplyForConsultancy(identity.ConsultantApplication{
			Category:  input.Category,
			Expertise: input.Expertise,
			Contact:   input.Contact,
		}); err != nil {
			return err
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		if shared.IsDomainError(err) {
			return nil, err
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save application: %w", err)
	}
	publishEvents(ctx, s.events, user)

	logger.L(ctx).Info("Consultant application submitted", zap.String("user_id", user.ID.String()))
	view := ToUserView(user, actor)
	return &view, nil
}

// ApproveConsultant approves a pending application. Admin only.
func (s *UserService) ApproveConsultant(ctx context.Context, admin identity.Actor, userID uuid.UUID) (*UserView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "approve_consultant")
	defer span.End()

	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	var (
		user    *identity.User
		changed bool
	)
	err := shared.RetryOnConflict(func(int) error {
		var err error
		if user, err = s.users.FindByID(ctx, userID); err != nil {
			return err
		}
		changed = user.IsPendingConsultant()
		if err := user.ApproveConsultancy(); err != nil || !changed {
			return err
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		if shared.IsDomainError(err) {
			return nil, err
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("approve consultant: %w", err)
	}
	if changed {
		publishEvents(ctx, s.events, user)
		logger.L(ctx).Info("Consultant approved", zap.String("user_id", user.ID.String()))
	}

	view := ToUserView(user, admin)
	return &view, nil
}

// ListConsultants lists approved consultants by name. Public.
func (s *UserService) ListConsultants(ctx context.Context, viewer identity.Actor, page shared.Page) (*shared.Paginated[UserView], error) {
	filter := identity.NewUserFilter().WithConsultantState(identity.ConsultantStateApproved)
	filter.Page = page.Normalize()
	filter.SortBy, filter.SortOrder = "name", "asc"
	return s.list(ctx, viewer, filter)
}

// ListPendingConsultants lists applications awaiting approval. Admin only.
func (s *UserService) ListPendingConsultants(ctx context.Context, admin identity.Actor, page shared.Page) (*shared.Paginated[UserView], error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	filter := identity.NewUserFilter().WithConsultantState(identity.ConsultantStatePending)
	filter.Page = page.Normalize()
	filter.SortOrder = "asc"
	return s.list(ctx, admin, filter)
}

// ListUsers lists all users, newest first. Admin only.
func (s *UserService) ListUsers(ctx context.Context, admin identity.Actor, page shared.Page) (*shared.Paginated[UserView], error) {
	if err := admin.RequireAdmin(); err != nil {
		return nil, err
	}
	filter := identity.NewUserFilter()
	filter.Page = page.Normalize()
	return s.list(ctx, admin, filter)
}

func (s *UserService) list(ctx context.Context, viewer identity.Actor, filter identity.UserFilter) (*shared.Paginated[UserView], error) {
	users, total, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	result := shared.NewPaginated(ToUserViews(users, viewer), total, filter.Page.Page, filter.PageSize)
	return &result, nil
}

// SeedAdmin creates the bootstrap administrator if the email is free.
// Returns true when an account was created.
func (s *UserService) SeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	admin, err := identity.NewUser(email, password, identity.RoleAdmin, identity.Profile{
		Name:       name,
		Profession: "Administrator",
	})
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	admin.ClearDomainEvents()

	s.logger.Info("Seeded admin account", zap.String("email", admin.Email))
	return true, nil
}
