package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/DevKano98/Web24kanban/internal/constants"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrProjectIdentifierRequired = errors.New("project name or code is required")
	ErrProjectNotFound           = errors.New("project not found")
	ErrRegistrationIncomplete    = errors.New("registration could not be completed")

	// ErrAuthorizationPending signals that a just-created credential's
	// grants have not propagated to the access-control layer yet. The
	// enrollment flow retries this case transparently; directories that
	// never race simply never return it.
	ErrAuthorizationPending = errors.New("authorization not yet propagated")
)

// ProjectDirectory is the lookup the enrollment flow performs on behalf
// of a freshly created credential. repository.ProjectRepository
// satisfies it directly.
type ProjectDirectory interface {
	FindByIdentifier(identifier string) (*models.Project, error)
}

// EnrollmentService runs the partner create-validate-finalize sequence
// with compensating deletion of the credential on any terminal failure.
type EnrollmentService struct {
	credRepo  repository.CredentialRepository
	userRepo  repository.UserRepository
	directory ProjectDirectory

	partnerDomain string
	attempts      int
	backoff       time.Duration
	sleep         func(time.Duration)
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	credRepo repository.CredentialRepository,
	userRepo repository.UserRepository,
	directory ProjectDirectory,
	partnerDomain string,
) *EnrollmentService {
	return &EnrollmentService{
		credRepo:      credRepo,
		userRepo:      userRepo,
		directory:     directory,
		partnerDomain: partnerDomain,
		attempts:      constants.EnrollmentLookupAttempts,
		backoff:       constants.EnrollmentRetryBackoff,
		sleep:         time.Sleep,
	}
}

// SetRetryPolicy overrides attempts and backoff (used by tests to avoid
// real sleeps).
func (s *EnrollmentService) SetRetryPolicy(attempts int, backoff time.Duration, sleep func(time.Duration)) {
	s.attempts = attempts
	s.backoff = backoff
	s.sleep = sleep
}

// EnrollInput is the partner signup form.
type EnrollInput struct {
	Name              string
	Email             string
	Password          string
	ProjectIdentifier string
}

// Enroll registers a partner. On success the user document carries
// role=partner and the resolved project; no session is established, the
// partner logs in explicitly afterwards.
func (s *EnrollmentService) Enroll(input EnrollInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	identifier := strings.TrimSpace(input.ProjectIdentifier)

	// Local validation happens before any remote call.
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !PlausibleEmail(email) {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if identifier == "" {
		return nil, ErrProjectIdentifierRequired
	}
	if !strings.EqualFold(emailDomain(email), s.partnerDomain) {
		return nil, ErrDomainNotAllowed
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

	// Step 1: the credential exists before the project is validated, so
	// every failure from here on must delete it again.
	cred := &models.Credential{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.credRepo.Create(cred); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistrationIncomplete, err)
	}

	// Step 2: resolve the project, retrying only the authorization
	// propagation race.
	project, err := s.lookupProject(identifier)
	if err != nil {
		s.compensate(cred)
		return nil, err
	}

	// Step 3: finalize the profile with the project link.
	user := &models.User{
		Name:              name,
		Email:             email,
		Role:              models.RolePartner,
		AssignedProjectID: &project.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		s.compensate(cred)
		return nil, fmt.Errorf("%w: %v", ErrRegistrationIncomplete, err)
	}

	return user, nil
}

func (s *EnrollmentService) lookupProject(identifier string) (*models.Project, error) {
	for attempt := 1; ; attempt++ {
		project, err := s.directory.FindByIdentifier(identifier)
		if err == nil {
			return project, nil
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}

		if errors.Is(err, ErrAuthorizationPending) && attempt < s.attempts {
			log.Printf("enrollment: project lookup attempt %d pending authorization, retrying", attempt)
			s.sleep(s.backoff)
			continue
		}

		return nil, fmt.Errorf("%w: %v", ErrRegistrationIncomplete, err)
	}
}

// compensate deletes the credential created in step 1. A failed delete
// is logged: an orphaned credential with no profile cannot log in (the
// auth service refuses credentials without a profile), but it should not
// linger.
func (s *EnrollmentService) compensate(cred *models.Credential) {
	if err := s.credRepo.Delete(cred.ID); err != nil {
		log.Printf("enrollment: failed to delete credential %d after aborted registration: %v", cred.ID, err)
	}
}
