package live

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"github.com/DevKano98/Web24kanban/internal/services"
)

type sourceTestEnv struct {
	db     *gorm.DB
	source *ServiceSource

	project models.Project
	other   models.Project
	admin   policy.Identity
	client  policy.Identity
	partner policy.Identity
}

func setupSourceTest(t *testing.T) *sourceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Project{}, &models.Task{},
		&models.Note{}, &models.Target{}, &models.Review{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	project := models.Project{Name: "Shop", Code: "AAAA-BBBB-CCCC"}
	other := models.Project{Name: "Blog", Code: "DDDD-EEEE-FFFF"}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&other).Error)

	adminUser := models.User{Name: "Boss", Email: "boss@web24.com", Role: models.RoleAdmin}
	clientUser := models.User{Name: "Casey", Email: "casey@gmail.com", Role: models.RoleClient}
	partnerUser := models.User{Name: "Pat", Email: "pat@web24partner.com", Role: models.RolePartner, AssignedProjectID: &project.ID}
	require.NoError(t, db.Create(&adminUser).Error)
	require.NoError(t, db.Create(&clientUser).Error)
	require.NoError(t, db.Create(&partnerUser).Error)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	notifier := services.NopNotifier{}
	source := NewServiceSource(
		services.NewTaskService(taskRepo, projectRepo, userRepo, notifier),
		services.NewProjectService(projectRepo, taskRepo, notifier),
		services.NewNoteService(noteRepo, notifier),
		services.NewTargetService(targetRepo, notifier),
		services.NewReviewService(reviewRepo, projectRepo, taskRepo, notifier),
		services.NewUserService(userRepo, notifier),
	)

	return &sourceTestEnv{
		db:      db,
		source:  source,
		project: project,
		other:   other,
		admin:   policy.Identity{UserID: adminUser.ID, Role: models.RoleAdmin},
		client:  policy.Identity{UserID: clientUser.ID, Role: models.RoleClient},
		partner: policy.Identity{UserID: partnerUser.ID, Role: models.RolePartner, AssignedProjectID: &project.ID},
	}
}

func (env *sourceTestEnv) addTask(t *testing.T, assignee uint64, projectID uint64, status models.TaskStatus) {
	t.Helper()
	require.NoError(t, env.db.Create(&models.Task{
		Title: "task", Status: status, AssignedTo: assignee, ProjectID: projectID,
	}).Error)
}

func TestAuthorizeOpenCollections(t *testing.T) {
	env := setupSourceTest(t)

	for _, collection := range []string{
		services.CollectionTasks,
		services.CollectionProjects,
		services.CollectionNotes,
		services.CollectionTargets,
	} {
		require.NoError(t, env.source.Authorize(env.client, Query{Collection: collection}))
	}

	require.Error(t, env.source.Authorize(env.client, Query{Collection: "mailboxes"}))
}

func TestAuthorizeRoleFilteredUsers(t *testing.T) {
	env := setupSourceTest(t)

	role := models.RoleClient
	q := Query{Collection: services.CollectionUsers, Params: QueryParams{Role: &role}}

	require.NoError(t, env.source.Authorize(env.admin, q))
	require.ErrorIs(t, env.source.Authorize(env.client, q), ErrQueryDenied)
	require.ErrorIs(t, env.source.Authorize(env.partner, q), ErrQueryDenied)

	// The plain directory is open to everyone.
	require.NoError(t, env.source.Authorize(env.client, Query{Collection: services.CollectionUsers}))
}

// The live review feed applies the same visibility rule as the REST
// surface: a client earns it with their first task in the project and
// loses it when that fact goes away.
func TestAuthorizeReviews(t *testing.T) {
	env := setupSourceTest(t)

	q := Query{Collection: services.CollectionReviews, Params: QueryParams{ProjectID: &env.project.ID}}

	require.NoError(t, env.source.Authorize(env.admin, q))
	require.NoError(t, env.source.Authorize(env.partner, q))
	require.ErrorIs(t, env.source.Authorize(env.client, q), ErrQueryDenied)

	env.addTask(t, env.client.UserID, env.project.ID, models.TaskStatusTodo)
	require.NoError(t, env.source.Authorize(env.client, q))

	foreign := Query{Collection: services.CollectionReviews, Params: QueryParams{ProjectID: &env.other.ID}}
	require.ErrorIs(t, env.source.Authorize(env.client, foreign), ErrQueryDenied)
	require.ErrorIs(t, env.source.Authorize(env.partner, foreign), ErrQueryDenied)

	// The unscoped feed is the admin console's.
	all := Query{Collection: services.CollectionReviews}
	require.NoError(t, env.source.Authorize(env.admin, all))
	require.ErrorIs(t, env.source.Authorize(env.client, all), ErrQueryDenied)
}

func TestSnapshotTasksRoleScoped(t *testing.T) {
	env := setupSourceTest(t)

	env.addTask(t, env.client.UserID, env.project.ID, models.TaskStatusTodo)
	env.addTask(t, env.client.UserID, env.project.ID, models.TaskStatusDone)
	env.addTask(t, 9999, env.other.ID, models.TaskStatusTodo)

	snap, err := env.source.Snapshot(env.admin, Query{Collection: services.CollectionTasks})
	require.NoError(t, err)
	require.Len(t, snap.([]models.Task), 3)

	snap, err = env.source.Snapshot(env.client, Query{Collection: services.CollectionTasks})
	require.NoError(t, err)
	require.Len(t, snap.([]models.Task), 2)

	snap, err = env.source.Snapshot(env.partner, Query{Collection: services.CollectionTasks})
	require.NoError(t, err)
	require.Len(t, snap.([]models.Task), 2)

	// Params narrow a view, never widen it.
	done := models.TaskStatusDone
	snap, err = env.source.Snapshot(env.client, Query{
		Collection: services.CollectionTasks,
		Params:     QueryParams{Status: &done},
	})
	require.NoError(t, err)
	tasks := snap.([]models.Task)
	require.Len(t, tasks, 1)
	require.Equal(t, models.TaskStatusDone, tasks[0].Status)

	snap, err = env.source.Snapshot(env.partner, Query{
		Collection: services.CollectionTasks,
		Params:     QueryParams{ProjectID: &env.other.ID},
	})
	require.NoError(t, err)
	require.Empty(t, snap.([]models.Task))
}

func TestSnapshotUsersProjection(t *testing.T) {
	env := setupSourceTest(t)

	snap, err := env.source.Snapshot(env.admin, Query{Collection: services.CollectionUsers})
	require.NoError(t, err)
	users := snap.([]models.User)
	require.Len(t, users, 3)
	require.NotEmpty(t, users[0].Email)

	snap, err = env.source.Snapshot(env.client, Query{Collection: services.CollectionUsers})
	require.NoError(t, err)
	entries := snap.([]DirectoryEntry)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.NotZero(t, e.ID)
		require.NotEmpty(t, e.Name)
	}
}

func TestSnapshotNotesOwnerScoped(t *testing.T) {
	env := setupSourceTest(t)

	require.NoError(t, env.db.Create(&models.Note{Title: "mine", UserID: env.client.UserID}).Error)
	require.NoError(t, env.db.Create(&models.Note{Title: "theirs", UserID: env.partner.UserID}).Error)

	snap, err := env.source.Snapshot(env.client, Query{Collection: services.CollectionNotes})
	require.NoError(t, err)
	notes := snap.([]models.Note)
	require.Len(t, notes, 1)
	require.Equal(t, "mine", notes[0].Title)

	// Owner scoping holds for admins too.
	snap, err = env.source.Snapshot(env.admin, Query{Collection: services.CollectionNotes})
	require.NoError(t, err)
	require.Empty(t, snap.([]models.Note))
}
