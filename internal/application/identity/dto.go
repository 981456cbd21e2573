package identity

import (
	"time"

	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput holds the self-registration form
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Profession     string
	ExpertiseLevel string
	// Role is member or consultant; empty means member
	Role string
}

// LoginInput holds login credentials
type LoginInput struct {
	Email    string
	Password string
}

// ConsultantApplicationInput holds the consultant application form
type ConsultantApplicationInput struct {
	Category  string
	Expertise string
	Contact   string
}

// UserView is the user as shown to other users. Email and last login are
// only filled for the user themselves and admins.
type UserView struct {
	ID                   uuid.UUID     `json:"id"`
	Name                 string        `json:"name"`
	Email                string        `json:"email,omitempty"`
	Profession           string        `json:"profession"`
	ExpertiseLevel       string        `json:"expertise_level"`
	Role                 identity.Role `json:"role"`
	JoinDate             time.Time     `json:"join_date"`
	IsConsultant         bool          `json:"is_consultant"`
	IsConsultantApproved bool          `json:"is_consultant_approved"`
	ConsultantCategory   string        `json:"consultant_category,omitempty"`
	ConsultantExpertise  string        `json:"consultant_expertise,omitempty"`
	ConsultantContact    string        `json:"consultant_contact,omitempty"`
	LastLoginAt          *time.Time    `json:"last_login_at,omitempty"`
}

// ToUserView builds the view of user as seen by viewer
func ToUserView(user *identity.User, viewer identity.Actor) UserView {
	v := UserView{
		ID:                   user.ID,
		Name:                 user.Name,
		Profession:           user.Profession,
		ExpertiseLevel:       user.ExpertiseLevel,
		Role:                 user.Role,
		JoinDate:             user.JoinDate,
		IsConsultant:         user.IsConsultant,
		IsConsultantApproved: user.IsConsultantApproved,
		ConsultantCategory:   user.ConsultantCategory,
		ConsultantExpertise:  user.ConsultantExpertise,
		ConsultantContact:    user.ConsultantContact,
	}
	if viewer.Owns(user.ID) || viewer.IsAdmin() {
		v.Email = user.Email
		v.LastLoginAt = user.LastLoginAt
	}
	return v
}

// ToUserViews converts users for one viewer
func ToUserViews(users []*identity.User, viewer identity.Actor) []UserView {
	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = ToUserView(u, viewer)
	}
	return views
}

// SessionResult is a started session: a token pair and its user
type SessionResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserView  `json:"user"`
}
