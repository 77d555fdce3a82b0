package controller

import (
	"net/http"
	"strconv"

	"taskman/database/model"
	"taskman/web/entity"
	"taskman/web/middleware"
	"taskman/web/service"

	"github.com/gin-gonic/gin"
)

const contextTaskKey = "task"

// TaskController handles task CRUD and task images. Every lookup and
// mutation is filtered by the acting user's id, so foreign tasks answer
// with 404.
type TaskController struct {
	taskService service.TaskService
	authService *service.AuthService
}

// NewTaskController creates a TaskController and registers its routes.
func NewTaskController(g *gin.RouterGroup, authService *service.AuthService) *TaskController {
	a := &TaskController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *TaskController) initRouter(g *gin.RouterGroup) {
	// Task images are public once the task id is known, like avatars.
	g.GET("/tasks/:id/image", a.getImage)

	auth := g.Group("/tasks", middleware.TokenAuth(a.authService))

	auth.POST("", a.createTask)
	auth.GET("", a.getTasks)
	auth.GET("/:id", a.loadTask, a.getTask)
	auth.PATCH("/:id", a.updateTask)
	auth.DELETE("/:id", a.deleteTask)
	auth.POST("/:id/image", a.uploadImage)
	auth.DELETE("/:id/image", a.deleteImage)
}

// loadTask resolves the addressed task for the acting user before the
// handler runs, so read handlers do not query again.
func (a *TaskController) loadTask(c *gin.Context) {
	user := middleware.GetAuthUser(c)

	task, err := a.taskService.GetTask(c.Param("id"), user.Id)
	if err != nil {
		serviceError(c, err)
		c.Abort()
		return
	}
	c.Set(contextTaskKey, task)
	c.Next()
}

func contextTask(c *gin.Context) *model.Task {
	v, _ := c.Get(contextTaskKey)
	task, _ := v.(*model.Task)
	return task
}

// createTask stores a new task owned by the caller.
func (a *TaskController) createTask(c *gin.Context) {
	form := &entity.TaskForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetAuthUser(c)
	task, err := a.taskService.CreateTask(user.Id, form.Description, form.Completed)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// getTasks lists the caller's tasks.
// GET /tasks?completed=true&sortBy=createdAt:desc&limit=10&skip=20
func (a *TaskController) getTasks(c *gin.Context) {
	user := middleware.GetAuthUser(c)

	query := service.TaskQuery{
		SortBy: c.Query("sortBy"),
	}
	if raw := c.Query("completed"); raw != "" {
		completed := raw == "true"
		query.Completed = &completed
	}
	// Unparsable limit/skip values are ignored, like the absent ones.
	query.Limit, _ = strconv.Atoi(c.Query("limit"))
	query.Skip, _ = strconv.Atoi(c.Query("skip"))

	tasks, err := a.taskService.GetTasks(user.Id, query)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// getTask returns the task preloaded by loadTask.
func (a *TaskController) getTask(c *gin.Context) {
	c.JSON(http.StatusOK, contextTask(c))
}

// updateTask applies an allow-listed update to the caller's task.
func (a *TaskController) updateTask(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetAuthUser(c)
	task, err := a.taskService.UpdateTask(c.Param("id"), user.Id, updates)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// deleteTask removes the caller's task and returns it.
func (a *TaskController) deleteTask(c *gin.Context) {
	user := middleware.GetAuthUser(c)

	task, err := a.taskService.DeleteTask(c.Param("id"), user.Id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// uploadImage attaches a picture to the caller's task.
func (a *TaskController) uploadImage(c *gin.Context) {
	image, ok := readImageUpload(c, "image")
	if !ok {
		return
	}

	user := middleware.GetAuthUser(c)
	if err := a.taskService.SetImage(c.Param("id"), user.Id, image); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// deleteImage clears the image of the caller's task.
func (a *TaskController) deleteImage(c *gin.Context) {
	user := middleware.GetAuthUser(c)

	if err := a.taskService.ClearImage(c.Param("id"), user.Id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// getImage serves any task's image publicly by task id.
func (a *TaskController) getImage(c *gin.Context) {
	image, err := a.taskService.GetImage(c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}
