package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
)

// recordingTaskRepo counts status writes on top of the real repository.
type recordingTaskRepo struct {
	repository.TaskRepository
	statusWrites int
}

func (r *recordingTaskRepo) UpdateStatus(id uint64, status models.TaskStatus) error {
	r.statusWrites++
	return r.TaskRepository.UpdateStatus(id, status)
}

// recordingNotifier collects invalidated collections in order.
type recordingNotifier struct {
	invalidated []string
}

func (n *recordingNotifier) Invalidate(collection string) {
	n.invalidated = append(n.invalidated, collection)
}

type boardTestEnv struct {
	db       *gorm.DB
	repo     *recordingTaskRepo
	notifier *recordingNotifier
	service  *BoardService
	client   models.User
	task     models.Task
}

func setupBoardTest(t *testing.T) *boardTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	client := models.User{Name: "Client", Email: "client@web24.com", Role: models.RoleClient}
	require.NoError(t, db.Create(&client).Error)
	project := models.Project{Name: "Site", Code: "AAAA-BBBB-CCCC"}
	require.NoError(t, db.Create(&project).Error)
	task := models.Task{
		Title:       "Build landing page",
		Description: "Hero, pricing, footer",
		Status:      models.TaskStatusTodo,
		AssignedTo:  client.ID,
		ProjectID:   project.ID,
	}
	require.NoError(t, db.Create(&task).Error)

	repo := &recordingTaskRepo{TaskRepository: repository.NewTaskRepository(db)}
	notifier := &recordingNotifier{}

	return &boardTestEnv{
		db:       db,
		repo:     repo,
		notifier: notifier,
		service:  NewBoardService(repo, notifier),
		client:   client,
		task:     task,
	}
}

func TestMoveRejectsUnknownColumn(t *testing.T) {
	env := setupBoardTest(t)
	id := policy.Identity{UserID: env.client.ID, Role: models.RoleClient}

	_, err := env.service.Move(id, env.task.ID, "archived")
	require.ErrorIs(t, err, ErrInvalidColumn)
	require.Zero(t, env.repo.statusWrites)
	require.Empty(t, env.notifier.invalidated)
}

func TestMoveSameColumnIssuesNoWrites(t *testing.T) {
	env := setupBoardTest(t)
	id := policy.Identity{UserID: env.client.ID, Role: models.RoleClient}

	task, err := env.service.Move(id, env.task.ID, models.TaskStatusTodo)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Zero(t, env.repo.statusWrites)
	require.Empty(t, env.notifier.invalidated)
}

func TestMoveChangesStatusAndNothingElse(t *testing.T) {
	env := setupBoardTest(t)
	id := policy.Identity{UserID: env.client.ID, Role: models.RoleClient}

	moved, err := env.service.Move(id, env.task.ID, models.TaskStatusInProgress)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, moved.Status)
	require.Equal(t, 1, env.repo.statusWrites)
	require.Equal(t, []string{CollectionTasks}, env.notifier.invalidated)

	var stored models.Task
	require.NoError(t, env.db.First(&stored, env.task.ID).Error)
	require.Equal(t, models.TaskStatusInProgress, stored.Status)
	require.Equal(t, env.task.Title, stored.Title)
	require.Equal(t, env.task.Description, stored.Description)
	require.Equal(t, env.task.AssignedTo, stored.AssignedTo)
	require.Equal(t, env.task.ProjectID, stored.ProjectID)
	require.Nil(t, stored.Deadline)
}

func TestMoveDeniedForNonAssignee(t *testing.T) {
	env := setupBoardTest(t)

	other := policy.Identity{UserID: env.client.ID + 100, Role: models.RoleClient}
	_, err := env.service.Move(other, env.task.ID, models.TaskStatusDone)
	require.ErrorIs(t, err, ErrTaskPermissionDenied)

	pid := env.task.ProjectID
	partner := policy.Identity{UserID: 99, Role: models.RolePartner, AssignedProjectID: &pid}
	_, err = env.service.Move(partner, env.task.ID, models.TaskStatusDone)
	require.ErrorIs(t, err, ErrTaskPermissionDenied)

	require.Zero(t, env.repo.statusWrites)

	var stored models.Task
	require.NoError(t, env.db.First(&stored, env.task.ID).Error)
	require.Equal(t, models.TaskStatusTodo, stored.Status)
}

func TestMoveAdminOverridesAssignee(t *testing.T) {
	env := setupBoardTest(t)
	admin := policy.Identity{UserID: 1000, Role: models.RoleAdmin}

	moved, err := env.service.Move(admin, env.task.ID, models.TaskStatusDone)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusDone, moved.Status)
}

func TestMoveUnknownTask(t *testing.T) {
	env := setupBoardTest(t)
	id := policy.Identity{UserID: env.client.ID, Role: models.RoleClient}

	_, err := env.service.Move(id, 9999, models.TaskStatusDone)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
