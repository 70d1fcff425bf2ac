package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/middleware"
	"tasktracker/services"
)

func DeleteTask(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)
	taskID, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := taskService.DeleteTask(c.Request.Context(), identity, taskID); err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, IndexPath)
}
