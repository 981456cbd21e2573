package handler

// RegisterRequest is the self-registration form
type RegisterRequest struct {
	Name           string `json:"name" binding:"required,notblank,max=100"`
	Email          string `json:"email" binding:"required,email,max=255"`
	Password       string `json:"password" binding:"required,min=8,max=72"`
	Profession     string `json:"profession" binding:"max=100"`
	ExpertiseLevel string `json:"expertise_level" binding:"max=50"`
	Role           string `json:"role" binding:"omitempty,oneof=member consultant"`
}

// LoginRequest holds login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ConsultantApplicationRequest is the consultant application form
type ConsultantApplicationRequest struct {
	Category  string `json:"category" binding:"required,notblank,max=100"`
	Expertise string `json:"expertise" binding:"required,notblank,max=1000"`
	Contact   string `json:"contact" binding:"required,notblank,max=255"`
}
