// Package policy is the role-scoped view composer: pure decisions over
// (identity, task, project) with no I/O, so the same table drives both
// server-side enforcement and the permission payload sent to clients.
package policy

import "github.com/DevKano98/Web24kanban/internal/models"

// Identity is the resolved caller: role plus, for partners, the single
// project they are linked to.
type Identity struct {
	UserID            uint64
	Role              models.Role
	AssignedProjectID *uint64
}

// IsAdmin reports whether the identity holds the admin role.
func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

// AssignedTo reports whether a partner identity is linked to projectID.
func (id Identity) AssignedTo(projectID uint64) bool {
	return id.Role == models.RolePartner &&
		id.AssignedProjectID != nil &&
		*id.AssignedProjectID == projectID
}

// CanCreateTask: admins may create tasks for any assignee, clients only
// for themselves, partners never.
func CanCreateTask(id Identity, assigneeID uint64) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return assigneeID == id.UserID
	default:
		return false
	}
}

// CanMoveTask: the mover must be admin or the task's assignee; partners
// are read-only even on their own project's board.
func CanMoveTask(id Identity, task models.Task) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return task.AssignedTo == id.UserID
	default:
		return false
	}
}

// CanDeleteTask: admin only.
func CanDeleteTask(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanViewTask: admins see everything, clients their own tasks, partners
// any task in their assigned project (read-only).
func CanViewTask(id Identity, task models.Task) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return task.AssignedTo == id.UserID
	case models.RolePartner:
		return id.AssignedTo(task.ProjectID)
	default:
		return false
	}
}

// CanAddReview: partners only, and only against their assigned project.
func CanAddReview(id Identity, projectID uint64) bool {
	return id.AssignedTo(projectID)
}

// CanDeleteReview: admin only.
func CanDeleteReview(id Identity) bool {
	return id.Role == models.RoleAdmin
}

// CanViewReviews: admins always; partners for their assigned project;
// clients only when they hold at least one task in the project. The
// hasTaskInProject fact is supplied by the caller because deriving it
// requires a query.
func CanViewReviews(id Identity, projectID uint64, hasTaskInProject bool) bool {
	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RolePartner:
		return id.AssignedTo(projectID)
	case models.RoleClient:
		return hasTaskInProject
	default:
		return false
	}
}

// Permissions is the composed affordance set for one (identity, task,
// project) context, shipped to clients so views never have to guess.
type Permissions struct {
	CreateTask   bool `json:"create_task"`
	MoveTask     bool `json:"move_task"`
	DeleteTask   bool `json:"delete_task"`
	ViewTask     bool `json:"view_task"`
	AddReview    bool `json:"add_review"`
	DeleteReview bool `json:"delete_review"`
	ViewReviews  bool `json:"view_reviews"`
}

// Compose evaluates the full table for one context.
func Compose(id Identity, task models.Task, projectID uint64, hasTaskInProject bool) Permissions {
	return Permissions{
		CreateTask:   CanCreateTask(id, id.UserID) || id.IsAdmin(),
		MoveTask:     CanMoveTask(id, task),
		DeleteTask:   CanDeleteTask(id),
		ViewTask:     CanViewTask(id, task),
		AddReview:    CanAddReview(id, projectID),
		DeleteReview: CanDeleteReview(id),
		ViewReviews:  CanViewReviews(id, projectID, hasTaskInProject),
	}
}
