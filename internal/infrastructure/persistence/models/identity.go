package models

import (
	"time"

	"github.com/agrifarma/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Name                 string        `gorm:"type:varchar(100);not null"`
	Email                string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	PasswordHash         string        `gorm:"type:varchar(255);not null"`
	Profession           string        `gorm:"type:varchar(100)"`
	ExpertiseLevel       string        `gorm:"type:varchar(50)"`
	Role                 identity.Role `gorm:"type:varchar(20);not null;default:'member';index"`
	JoinDate             time.Time     `gorm:"not null;index"`
	IsConsultant         bool          `gorm:"not null;default:false"`
	IsConsultantApproved bool          `gorm:"not null;default:false"`
	ConsultantCategory   string        `gorm:"type:varchar(100)"`
	ConsultantExpertise  string        `gorm:"type:text"`
	ConsultantContact    string        `gorm:"type:varchar(200)"`
	LastLoginAt          *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Name:                 m.Name,
		Email:                m.Email,
		PasswordHash:         m.PasswordHash,
		Profession:           m.Profession,
		ExpertiseLevel:       m.ExpertiseLevel,
		Role:                 m.Role,
		JoinDate:             m.JoinDate,
		IsConsultant:         m.IsConsultant,
		IsConsultantApproved: m.IsConsultantApproved,
		ConsultantCategory:   m.ConsultantCategory,
		ConsultantExpertise:  m.ConsultantExpertise,
		ConsultantContact:    m.ConsultantContact,
		LastLoginAt:          m.LastLoginAt,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Profession = u.Profession
	m.ExpertiseLevel = u.ExpertiseLevel
	m.Role = u.Role
	m.JoinDate = u.JoinDate
	m.IsConsultant = u.IsConsultant
	m.IsConsultantApproved = u.IsConsultantApproved
	m.ConsultantCategory = u.ConsultantCategory
	m.ConsultantExpertise = u.ConsultantExpertise
	m.ConsultantContact = u.ConsultantContact
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
