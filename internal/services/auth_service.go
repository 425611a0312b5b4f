package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DevKano98/Web24kanban/internal/constants"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrNameRequired         = errors.New("name is required")
	ErrDomainNotAllowed     = errors.New("email domain is not allowed")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// SignupGate decides which role an email may sign up as.
type SignupGate struct {
	AdminEmails   []string
	ClientDomains []string
}

// RoleFor returns the role granted to the email, or an error when the
// domain is gated out.
func (g SignupGate) RoleFor(email string) (models.Role, error) {
	for _, admin := range g.AdminEmails {
		if strings.EqualFold(admin, email) {
			return models.RoleAdmin, nil
		}
	}

	domain := emailDomain(email)
	for _, allowed := range g.ClientDomains {
		if strings.EqualFold(allowed, domain) {
			return models.RoleClient, nil
		}
	}

	return "", ErrDomainNotAllowed
}

// AuthService handles credential issuance and verification.
type AuthService struct {
	credRepo repository.CredentialRepository
	userRepo repository.UserRepository
	gate     SignupGate
}

// NewAuthService creates a new AuthService.
func NewAuthService(credRepo repository.CredentialRepository, userRepo repository.UserRepository, gate SignupGate) *AuthService {
	return &AuthService{
		credRepo: credRepo,
		userRepo: userRepo,
		gate:     gate,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers an admin or client, creating the credential and the
// profile in one transaction. Partners enroll through EnrollmentService.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	if name == "" {
		return nil, ErrNameRequired
	}
	if !PlausibleEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role, err := s.gate.RoleFor(email)
	if err != nil {
		return nil, err
	}

	if _, err := s.credRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	cred := &models.Credential{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	user := &models.User{
		Name:  name,
		Email: email,
		Role:  role,
	}

	if err := s.userRepo.CreateWithCredential(cred, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user profile.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)

	cred, err := s.credRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Credential without a profile: a partially failed legacy
			// registration. Refuse the login rather than invent a role.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PlausibleEmail applies the same shallow shape check the signup forms
// use; real verification belongs to a mail round-trip, not here.
func PlausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
