package live

import (
	"errors"
	"fmt"
	"sort"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// ErrQueryDenied is returned when the identity may not open the query at
// all (as opposed to a query that merely returns nothing).
var ErrQueryDenied = errors.New("live: query not permitted for this identity")

// Source produces full result sets for live queries. Snapshot applies the
// same role scoping as the REST layer; Authorize is the open-time check
// that is re-evaluated on every push because visibility facts (a client
// gaining their first task in a project) change underneath open
// subscriptions.
type Source interface {
	Authorize(id policy.Identity, q Query) error
	Snapshot(id policy.Identity, q Query) (any, error)
}

// ServiceSource implements Source on top of the role-scoped services so
// REST reads and live pushes cannot diverge.
type ServiceSource struct {
	tasks    *services.TaskService
	projects *services.ProjectService
	notes    *services.NoteService
	targets  *services.TargetService
	reviews  *services.ReviewService
	users    *services.UserService
}

// NewServiceSource creates a ServiceSource.
func NewServiceSource(
	tasks *services.TaskService,
	projects *services.ProjectService,
	notes *services.NoteService,
	targets *services.TargetService,
	reviews *services.ReviewService,
	users *services.UserService,
) *ServiceSource {
	return &ServiceSource{
		tasks:    tasks,
		projects: projects,
		notes:    notes,
		targets:  targets,
		reviews:  reviews,
		users:    users,
	}
}

// Authorize checks whether the identity may hold the query open.
func (s *ServiceSource) Authorize(id policy.Identity, q Query) error {
	switch q.Collection {
	case services.CollectionTasks, services.CollectionProjects,
		services.CollectionNotes, services.CollectionTargets:
		return nil
	case services.CollectionUsers:
		// Role-filtered listings are an admin console view; the plain
		// directory is open to every authenticated role.
		if q.Params.Role != nil && !id.IsAdmin() {
			return ErrQueryDenied
		}
		return nil
	case services.CollectionReviews:
		if q.Params.ProjectID == nil {
			if id.IsAdmin() {
				return nil
			}
			return ErrQueryDenied
		}
		ok, err := s.reviews.CanView(id, *q.Params.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrQueryDenied
		}
		return nil
	default:
		return fmt.Errorf("live: unknown collection %q", q.Collection)
	}
}

// Snapshot runs the query and returns the full current result set.
func (s *ServiceSource) Snapshot(id policy.Identity, q Query) (any, error) {
	switch q.Collection {
	case services.CollectionTasks:
		tasks, err := s.tasks.ListTasks(id, q.Params.ProjectID)
		if err != nil {
			return nil, err
		}
		if q.Params.Status != nil {
			filtered := tasks[:0]
			for _, t := range tasks {
				if t.Status == *q.Params.Status {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}
		return tasks, nil

	case services.CollectionProjects:
		return s.projects.ListProjects(id)

	case services.CollectionNotes:
		return s.notes.ListNotes(id)

	case services.CollectionTargets:
		return s.targets.ListTargets(id)

	case services.CollectionReviews:
		if q.Params.ProjectID != nil {
			return s.reviews.ListByProject(id, *q.Params.ProjectID)
		}
		reviews, _, err := s.reviews.ListAll(id, 0, 0)
		return reviews, err

	case services.CollectionUsers:
		users, err := s.users.Directory()
		if err != nil {
			return nil, err
		}
		if q.Params.Role != nil {
			filtered := users[:0]
			for _, u := range users {
				if u.Role == *q.Params.Role {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}
		if id.IsAdmin() {
			return users, nil
		}
		return directoryProjection(users), nil

	default:
		return nil, fmt.Errorf("live: unknown collection %q", q.Collection)
	}
}

// DirectoryEntry is the reduced user record non-admins receive for name
// lookup on the boards.
type DirectoryEntry struct {
	ID   uint64      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

func directoryProjection(users []models.User) []DirectoryEntry {
	entries := make([]DirectoryEntry, len(users))
	for i, u := range users {
		entries[i] = DirectoryEntry{ID: u.ID, Name: u.Name, Role: u.Role}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
