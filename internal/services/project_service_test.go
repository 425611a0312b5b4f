package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
)

type projectTestEnv struct {
	db       *gorm.DB
	service  *ProjectService
	notifier *recordingNotifier
	admin    policy.Identity
}

func setupProjectTest(t *testing.T) *projectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Project{}, &models.Task{}, &models.Review{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	notifier := &recordingNotifier{}
	service := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		notifier,
	)

	return &projectTestEnv{
		db:       db,
		service:  service,
		notifier: notifier,
		admin:    policy.Identity{UserID: 1, Role: models.RoleAdmin},
	}
}

func TestCreateProjectGeneratesCode(t *testing.T) {
	env := setupProjectTest(t)

	project, err := env.service.CreateProject(env.admin, "  Shop Redesign  ")
	require.NoError(t, err)
	require.Equal(t, "Shop Redesign", project.Name)
	require.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`), project.Code)
	require.Equal(t, []string{CollectionProjects}, env.notifier.invalidated)

	_, err = env.service.CreateProject(env.admin, "Shop Redesign")
	require.ErrorIs(t, err, ErrProjectNameTaken)

	client := policy.Identity{UserID: 2, Role: models.RoleClient}
	_, err = env.service.CreateProject(client, "Another")
	require.ErrorIs(t, err, ErrProjectPermissionDenied)

	_, err = env.service.CreateProject(env.admin, "   ")
	require.ErrorIs(t, err, ErrProjectNameRequired)
}

func TestListProjectsScopedToClientMembership(t *testing.T) {
	env := setupProjectTest(t)

	p1, err := env.service.CreateProject(env.admin, "Visible")
	require.NoError(t, err)
	_, err = env.service.CreateProject(env.admin, "Hidden")
	require.NoError(t, err)

	clientUser := models.User{Name: "Casey", Email: "casey@gmail.com", Role: models.RoleClient}
	require.NoError(t, env.db.Create(&clientUser).Error)
	require.NoError(t, env.db.Create(&models.Task{
		Title: "t", Status: models.TaskStatusTodo, AssignedTo: clientUser.ID, ProjectID: p1.ID,
	}).Error)

	all, err := env.service.ListProjects(env.admin)
	require.NoError(t, err)
	require.Len(t, all, 2)

	client := policy.Identity{UserID: clientUser.ID, Role: models.RoleClient}
	visible, err := env.service.ListProjects(client)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "Visible", visible[0].Name)

	// Partners see the full directory for name lookup.
	partner := policy.Identity{UserID: 99, Role: models.RolePartner, AssignedProjectID: &p1.ID}
	dir, err := env.service.ListProjects(partner)
	require.NoError(t, err)
	require.Len(t, dir, 2)
}

// Deleting a project takes its tasks and reviews with it and unlinks the
// assigned partner, leaving no dangling references behind.
func TestDeleteProjectCascades(t *testing.T) {
	env := setupProjectTest(t)

	project, err := env.service.CreateProject(env.admin, "Doomed")
	require.NoError(t, err)
	survivor, err := env.service.CreateProject(env.admin, "Survivor")
	require.NoError(t, err)

	partnerUser := models.User{Name: "Pat", Email: "pat@web24partner.com", Role: models.RolePartner, AssignedProjectID: &project.ID}
	require.NoError(t, env.db.Create(&partnerUser).Error)

	require.NoError(t, env.db.Create(&models.Task{Title: "t1", Status: models.TaskStatusTodo, AssignedTo: 50, ProjectID: project.ID}).Error)
	require.NoError(t, env.db.Create(&models.Task{Title: "t2", Status: models.TaskStatusTodo, AssignedTo: 50, ProjectID: survivor.ID}).Error)
	require.NoError(t, env.db.Create(&models.Review{ProjectID: project.ID, Text: "r", AuthorID: partnerUser.ID, AuthorRole: models.RolePartner}).Error)

	env.notifier.invalidated = nil
	require.NoError(t, env.service.DeleteProject(env.admin, project.ID))
	require.ElementsMatch(t,
		[]string{CollectionProjects, CollectionTasks, CollectionReviews, CollectionUsers},
		env.notifier.invalidated)

	var tasks, reviews int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&tasks).Error)
	require.NoError(t, env.db.Model(&models.Review{}).Where("project_id = ?", project.ID).Count(&reviews).Error)
	require.Zero(t, tasks)
	require.Zero(t, reviews)

	var remaining int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)

	var pat models.User
	require.NoError(t, env.db.First(&pat, partnerUser.ID).Error)
	require.Nil(t, pat.AssignedProjectID)
}

func TestDeleteProjectGuards(t *testing.T) {
	env := setupProjectTest(t)

	project, err := env.service.CreateProject(env.admin, "Kept")
	require.NoError(t, err)

	client := policy.Identity{UserID: 2, Role: models.RoleClient}
	require.ErrorIs(t, env.service.DeleteProject(client, project.ID), ErrProjectPermissionDenied)
	require.ErrorIs(t, env.service.DeleteProject(env.admin, 9999), ErrProjectNotFound)
}
