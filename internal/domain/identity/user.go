package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/agrifarma/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterExpr = regexp.MustCompile(`[a-zA-Z]`)
	hasNumberExpr = regexp.MustCompile(`[0-9]`)
)

// Identity-specific errors
var (
	ErrDuplicateEmail     = shared.NewDomainError("DUPLICATE_EMAIL", "Email already registered")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrNotConsultant      = shared.NewDomainError(shared.CodeInvalidState, "User has not applied for consultancy")
)

// Profile holds the self-described profile fields of a user
type Profile struct {
	Name           string
	Profession     string
	ExpertiseLevel string
}

// ConsultantApplication holds the fields a user submits to become a consultant
type ConsultantApplication struct {
	Category  string
	Expertise string
	Contact   string
}

// User represents a community member, consultant or administrator.
// It is the aggregate root for identity operations.
type User struct {
	shared.BaseAggregateRoot
	Name                 string
	Email                string
	PasswordHash         string
	Profession           string
	ExpertiseLevel       string
	Role                 Role
	JoinDate             time.Time
	IsConsultant         bool
	IsConsultantApproved bool
	ConsultantCategory   string
	ConsultantExpertise  string
	ConsultantContact    string
	LastLoginAt          *time.Time
}

// NewUser creates a new user with a hashed password
func NewUser(email, password string, role Role, profile Profile) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		return nil, shared.NewValidationError("Name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("Name cannot exceed 100 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Invalid role")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		Profession:        strings.TrimSpace(profile.Profession),
		ExpertiseLevel:    strings.TrimSpace(profile.ExpertiseLevel),
		Role:              role,
	}
	user.JoinDate = user.CreatedAt

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLogin records a successful authentication
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// ApplyForConsultancy marks the user as a consultant applicant.
// Re-applying overwrites the pending fields and resets approval.
func (u *User) ApplyForConsultancy(app ConsultantApplication) error {
	app.Category = strings.TrimSpace(app.Category)
	app.Expertise = strings.TrimSpace(app.Expertise)
	app.Contact = strings.TrimSpace(app.Contact)
	if app.Category == "" || app.Expertise == "" || app.Contact == "" {
		return shared.NewValidationError("Category, expertise and contact are required")
	}

	u.IsConsultant = true
	u.IsConsultantApproved = false
	u.ConsultantCategory = app.Category
	u.ConsultantExpertise = app.Expertise
	u.ConsultantContact = app.Contact
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewConsultantAppliedEvent(u))

	return nil
}

// ApproveConsultancy approves a pending consultant application.
// Approving an already approved consultant is a no-op.
func (u *User) ApproveConsultancy() error {
	if !u.IsConsultant {
		return ErrNotConsultant
	}
	if u.IsConsultantApproved {
		return nil
	}

	u.IsConsultantApproved = true
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewConsultantApprovedEvent(u))

	return nil
}

// IsPendingConsultant reports whether the user awaits consultant approval
func (u *User) IsPendingConsultant() bool {
	return u.IsConsultant && !u.IsConsultantApproved
}

// IsAdmin returns true for administrators
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the caller identity for this user
func (u *User) Actor() Actor {
	return NewActor(u.ID, u.Role)
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewValidationError("Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("Password cannot exceed 72 characters")
	}
	if !hasLetterExpr.MatchString(password) || !hasNumberExpr.MatchString(password) {
		return shared.NewValidationError("Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
