package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/dto"
	"tasktracker/middleware"
	"tasktracker/services"
)

func AddTaskForm(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FormResponse{
		Form:   "add_task",
		Action: AddTaskPath,
		Fields: taskFields,
	})
}

func CreateTask(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)

	var form dto.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		response.BindError(c, err)
		return
	}

	if _, err := taskService.CreateTask(c.Request.Context(), identity, taskInput(form)); err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, IndexPath)
}

func taskInput(form dto.TaskForm) services.TaskInput {
	return services.TaskInput{
		Name:        form.Name,
		Category:    form.Category,
		Description: form.Description,
		Priority:    form.Priority.String(),
		Status:      form.Status,
	}
}
