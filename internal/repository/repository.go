package repository

import (
	"github.com/DevKano98/Web24kanban/internal/models"
)

// CredentialRepository defines the interface for the auth provider's
// credential records.
type CredentialRepository interface {
	// Create creates a new credential
	Create(cred *models.Credential) error

	// FindByEmail finds a credential by email
	FindByEmail(email string) (*models.Credential, error)

	// Delete removes a credential (the enrollment compensating action)
	Delete(id uint64) error
}

// UserRepository defines the interface for user profile data access
type UserRepository interface {
	// Create creates a new user profile
	Create(user *models.User) error

	// CreateWithCredential creates the credential and the profile within
	// a single transaction (general signup path).
	CreateWithCredential(cred *models.Credential, user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users, optionally filtered by role, with pagination
	List(role *models.Role, page, pageSize int) ([]models.User, int64, error)

	// Update updates a user profile
	Update(user *models.User) error

	// Delete removes the profile and its credential
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByIdentifier finds a project by exact name or partner code
	FindByIdentifier(identifier string) (*models.Project, error)

	// List retrieves all projects
	List() ([]models.Project, error)

	// Delete removes a project and cascades to its tasks and reviews,
	// clearing partner assignments that pointed at it.
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  *uint64
	AssignedTo *uint64
	Status     *models.TaskStatus
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks ordered by board rank (todo, inprogress,
	// done) then creation time.
	List(filter TaskFilter) ([]models.Task, error)

	// UpdateStatus updates the status column and nothing else
	UpdateStatus(id uint64, status models.TaskStatus) error

	// Delete removes a task
	Delete(id uint64) error

	// HasTaskInProject reports whether the user holds at least one task
	// in the project (the review-visibility fact).
	HasTaskInProject(userID, projectID uint64) (bool, error)

	// ProjectIDsForUser lists the distinct projects the user has tasks in
	ProjectIDsForUser(userID uint64) ([]uint64, error)
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(note *models.Note) error
	FindByID(id uint64) (*models.Note, error)
	ListByUser(userID uint64) ([]models.Note, error)
	Update(note *models.Note) error
	Delete(id uint64) error
}

// TargetRepository defines the interface for target data access
type TargetRepository interface {
	Create(target *models.Target) error
	FindByID(id uint64) (*models.Target, error)
	ListByUser(userID uint64) ([]models.Target, error)
	Update(target *models.Target) error
	Delete(id uint64) error
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create creates a new review
	Create(review *models.Review) error

	// FindByID finds a review by ID
	FindByID(id uint64) (*models.Review, error)

	// ListByProject lists a project's reviews newest-first
	ListByProject(projectID uint64) ([]models.Review, error)

	// List lists all reviews newest-first with pagination (admin console)
	List(page, pageSize int) ([]models.Review, int64, error)

	// Delete removes a review
	Delete(id uint64) error
}
