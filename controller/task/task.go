package task

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasktracker/middleware"
	"tasktracker/model"
	"tasktracker/services"
)

const (
	IndexPath   = "/index/"
	AddTaskPath = "/index/add_task/"
)

func TaskController(router *gin.Engine, taskService *services.TaskService, session *middleware.Session) {
	routes := router.Group("/", session.RequireIdentity())
	{
		routes.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, IndexPath)
		})
		routes.GET(IndexPath, func(c *gin.Context) {
			ListTasks(c, taskService)
		})
		routes.GET("/task/:id/", func(c *gin.Context) {
			GetTask(c, taskService)
		})
		routes.POST("/task/:id/", func(c *gin.Context) {
			PostComment(c, taskService)
		})
		routes.GET(AddTaskPath, func(c *gin.Context) {
			AddTaskForm(c)
		})
		routes.POST(AddTaskPath, func(c *gin.Context) {
			CreateTask(c, taskService)
		})
		routes.GET("/index/task/edit_task/:id/", func(c *gin.Context) {
			EditTaskForm(c, taskService)
		})
		routes.POST("/index/task/edit_task/:id/", func(c *gin.Context) {
			EditTask(c, taskService)
		})
		routes.POST("/index/task/delete_task/:id/", func(c *gin.Context) {
			DeleteTask(c, taskService)
		})
	}
}

func TaskPath(id int64) string {
	return fmt.Sprintf("/task/%d/", id)
}

func EditTaskPath(id int64) string {
	return fmt.Sprintf("/index/task/edit_task/%d/", id)
}

func parseTaskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: task id must be a positive integer", model.ErrValidation)
	}
	return id, nil
}

var taskFields = []string{"name", "category", "description", "priority", "status"}
