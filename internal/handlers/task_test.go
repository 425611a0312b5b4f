package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DevKano98/Web24kanban/internal/constants"
	"github.com/DevKano98/Web24kanban/internal/dto"
	"github.com/DevKano98/Web24kanban/internal/models"
	"github.com/DevKano98/Web24kanban/internal/policy"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"github.com/DevKano98/Web24kanban/internal/services"
)

// TaskHandlerTestSuite drives the board handlers end to end over an
// in-memory database.
type TaskHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	handler        *TaskHandler
	projectHandler *ProjectHandler
	reviewHandler  *ReviewHandler

	admin   models.User
	client  models.User
	partner models.User
	project models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Credential{}, &models.User{}, &models.Project{},
		&models.Task{}, &models.Review{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	reviewRepo := repository.NewReviewRepository(suite.db)

	notifier := services.NopNotifier{}
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, notifier)
	boardService := services.NewBoardService(taskRepo, notifier)
	projectService := services.NewProjectService(projectRepo, taskRepo, notifier)
	reviewService := services.NewReviewService(reviewRepo, projectRepo, taskRepo, notifier)

	suite.handler = NewTaskHandler(taskService, boardService)
	suite.projectHandler = NewProjectHandler(projectService)
	suite.reviewHandler = NewReviewHandler(reviewService)

	suite.admin = models.User{Name: "Boss", Email: "boss@web24.com", Role: models.RoleAdmin}
	suite.client = models.User{Name: "Casey", Email: "casey@gmail.com", Role: models.RoleClient}
	suite.Require().NoError(suite.db.Create(&suite.admin).Error)
	suite.Require().NoError(suite.db.Create(&suite.client).Error)

	suite.project = models.Project{Name: "Shop", Code: "AAAA-BBBB-CCCC"}
	suite.Require().NoError(suite.db.Create(&suite.project).Error)

	// The partner is deliberately assigned to a different project.
	other := models.Project{Name: "Blog", Code: "DDDD-EEEE-FFFF"}
	suite.Require().NoError(suite.db.Create(&other).Error)
	suite.partner = models.User{Name: "Pat", Email: "pat@web24partner.com", Role: models.RolePartner, AssignedProjectID: &other.ID}
	suite.Require().NoError(suite.db.Create(&suite.partner).Error)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) identityFor(user models.User) policy.Identity {
	id := policy.Identity{UserID: user.ID, Role: user.Role}
	if user.Role == models.RolePartner {
		id.AssignedProjectID = user.AssignedProjectID
	}
	return id
}

// createContext builds an authenticated request context the way the
// session middleware would have.
func (suite *TaskHandlerTestSuite) createContext(method, url string, body []byte, user models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyIdentity, suite.identityFor(user))

	return c, w
}

func (suite *TaskHandlerTestSuite) createTask(assignee uint64, status models.TaskStatus) models.Task {
	task := models.Task{
		Title:       "Build landing page",
		Description: "Hero, pricing, footer",
		Status:      status,
		AssignedTo:  assignee,
		ProjectID:   suite.project.ID,
	}
	suite.Require().NoError(suite.db.Create(&task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) TestAdminCreatesTaskForClient() {
	body, _ := json.Marshal(map[string]any{
		"title":      "Wire up checkout",
		"project_id": suite.project.ID,
		"assigned_to": suite.client.ID,
	})
	c, w := suite.createContext("POST", "/api/tasks", body, suite.admin)

	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code)
	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(suite.T(), models.TaskStatusTodo, created.Status)
	assert.Equal(suite.T(), suite.client.ID, created.AssignedTo)
	suite.Require().NotNil(created.Assignee)
	assert.Equal(suite.T(), "Casey", created.Assignee.Name)
}

func (suite *TaskHandlerTestSuite) TestClientSelfAssignsRegardlessOfPayload() {
	body, _ := json.Marshal(map[string]any{
		"title":       "My own item",
		"project_id":  suite.project.ID,
		"assigned_to": suite.admin.ID, // ignored for clients
	})
	c, w := suite.createContext("POST", "/api/tasks", body, suite.client)

	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code)
	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(suite.T(), suite.client.ID, created.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestPartnerCannotCreateTask() {
	body, _ := json.Marshal(map[string]any{
		"title":      "Sneaky",
		"project_id": suite.project.ID,
	})
	c, w := suite.createContext("POST", "/api/tasks", body, suite.partner)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestMoveUpdatesOnlyStatus() {
	task := suite.createTask(suite.client.ID, models.TaskStatusTodo)

	body, _ := json.Marshal(map[string]string{"status": "inprogress"})
	c, w := suite.createContext("PATCH", "/api/tasks/1/move", body, suite.client)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.MoveTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Equal(suite.T(), models.TaskStatusInProgress, stored.Status)
	assert.Equal(suite.T(), task.Title, stored.Title)
	assert.Equal(suite.T(), task.Description, stored.Description)
	assert.Equal(suite.T(), task.AssignedTo, stored.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestMoveRejectsUnknownColumn() {
	suite.createTask(suite.client.ID, models.TaskStatusTodo)

	body, _ := json.Marshal(map[string]string{"status": "blocked"})
	c, w := suite.createContext("PATCH", "/api/tasks/1/move", body, suite.client)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.MoveTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListScopedByRole() {
	suite.createTask(suite.client.ID, models.TaskStatusTodo)
	suite.createTask(9999, models.TaskStatusTodo)

	c, w := suite.createContext("GET", "/api/tasks", nil, suite.admin)
	suite.handler.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(suite.T(), resp.Tasks, 2)

	c, w = suite.createContext("GET", "/api/tasks", nil, suite.client)
	suite.handler.ListTasks(c)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(suite.T(), resp.Tasks, 1)

	// The partner's assigned project has no tasks.
	c, w = suite.createContext("GET", "/api/tasks", nil, suite.partner)
	suite.handler.ListTasks(c)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(suite.T(), resp.Tasks)
}

func (suite *TaskHandlerTestSuite) TestDeleteTaskAdminOnly() {
	task := suite.createTask(suite.client.ID, models.TaskStatusTodo)

	c, w := suite.createContext("DELETE", "/api/tasks/1", nil, suite.client)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = suite.createContext("DELETE", "/api/tasks/1", nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.DeleteTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

// The unassigned partner attacking another project's review feed gets a
// permission error and leaves zero rows behind.
func (suite *TaskHandlerTestSuite) TestForeignPartnerReviewRejected() {
	body, _ := json.Marshal(map[string]string{"text": "unsolicited"})
	c, w := suite.createContext("POST", "/api/projects/1/reviews", body, suite.partner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.reviewHandler.AddReview(c)

	suite.Require().Equal(http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Review{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *TaskHandlerTestSuite) TestMoveDeniedForPartner() {
	suite.createTask(suite.client.ID, models.TaskStatusTodo)

	body, _ := json.Marshal(map[string]string{"status": "done"})
	c, w := suite.createContext("PATCH", "/api/tasks/1/move", body, suite.partner)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.MoveTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, 1).Error)
	assert.Equal(suite.T(), models.TaskStatusTodo, stored.Status)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
