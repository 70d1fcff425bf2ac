package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/dto"
	"tasktracker/middleware"
	"tasktracker/services"
)

func EditTaskForm(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)
	taskID, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	task, err := taskService.TaskForEdit(c.Request.Context(), identity, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FormResponse{
		Form:   "edit_task",
		Action: EditTaskPath(taskID),
		Fields: taskFields,
		Task:   task,
	})
}

func EditTask(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)
	taskID, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var form dto.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		response.BindError(c, err)
		return
	}

	if _, err := taskService.UpdateTask(c.Request.Context(), identity, taskID, taskInput(form)); err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, TaskPath(taskID))
}
