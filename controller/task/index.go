package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/dto"
	"tasktracker/middleware"
	"tasktracker/model"
	"tasktracker/services"
)

func ListTasks(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)

	var query dto.TaskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	tasks, err := taskService.ListTasks(c.Request.Context(), identity, query.SortBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = string(model.DefaultSort)
	}
	c.JSON(http.StatusOK, dto.TaskListResponse{SortBy: sortBy, Tasks: tasks})
}
