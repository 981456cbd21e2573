package identity

import (
	"strings"

	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the coarse-grained authorization role of a user
type Role string

const (
	RoleMember     Role = "member"
	RoleConsultant Role = "consultant"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleConsultant, RoleAdmin:
		return true
	}
	return false
}

// String returns the role as a string
func (r Role) String() string {
	return string(r)
}

// ParseSelfServiceRole parses a role chosen at registration.
// An empty value defaults to member; admin cannot be self-assigned.
func ParseSelfServiceRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if role == "" {
		return RoleMember, nil
	}
	switch role {
	case RoleMember, RoleConsultant:
		return role, nil
	case RoleAdmin:
		return "", shared.NewValidationError("Admin role cannot be chosen at registration")
	}
	return "", shared.NewValidationError("Role must be one of: member, consultant")
}

// Actor is the resolved caller identity an operation executes on behalf of.
// The zero value is the anonymous caller.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Anonymous returns the unauthenticated actor
func Anonymous() Actor {
	return Actor{}
}

// NewActor creates an actor for an authenticated user
func NewActor(userID uuid.UUID, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// IsAnonymous reports whether the actor is unauthenticated
func (a Actor) IsAnonymous() bool {
	return a.UserID == uuid.Nil
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return !a.IsAnonymous() && a.Role == RoleAdmin
}

// Owns reports whether the actor is the given owner
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return !a.IsAnonymous() && a.UserID == ownerID
}

// RequireAuthenticated fails with FORBIDDEN for anonymous actors
func (a Actor) RequireAuthenticated() error {
	if a.IsAnonymous() {
		return shared.NewForbiddenError("Authentication required")
	}
	return nil
}

// RequireAdmin fails with FORBIDDEN unless the actor is an admin
func (a Actor) RequireAdmin() error {
	if !a.IsAdmin() {
		return shared.NewForbiddenError("Admin role required")
	}
	return nil
}
