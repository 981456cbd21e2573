package identity

import (
	"github.com/agrifarma/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered     = "UserRegistered"
	EventTypeConsultantApplied  = "ConsultantApplied"
	EventTypeConsultantApproved = "ConsultantApproved"
)

// UserRegisteredEvent is published when a user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID, user.ID),
		Email:           user.Email,
		Role:            user.Role,
	}
}

// ConsultantAppliedEvent is published when a user applies for consultancy
type ConsultantAppliedEvent struct {
	shared.BaseDomainEvent
	Category string `json:"category"`
}

// NewConsultantAppliedEvent creates a new ConsultantAppliedEvent
func NewConsultantAppliedEvent(user *User) *ConsultantAppliedEvent {
	return &ConsultantAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsultantApplied, AggregateTypeUser, user.ID, user.ID),
		Category:        user.ConsultantCategory,
	}
}

// ConsultantApprovedEvent is published when an admin approves a consultant
type ConsultantApprovedEvent struct {
	shared.BaseDomainEvent
	Category string `json:"category"`
}

// NewConsultantApprovedEvent creates a new ConsultantApprovedEvent
func NewConsultantApprovedEvent(user *User) *ConsultantApprovedEvent {
	return &ConsultantApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsultantApproved, AggregateTypeUser, user.ID, user.ID),
		Category:        user.ConsultantCategory,
	}
}
