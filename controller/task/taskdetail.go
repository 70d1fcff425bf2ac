package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/dto"
	"tasktracker/middleware"
	"tasktracker/services"
)

func GetTask(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)
	taskID, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	task, comments, err := taskService.TaskDetail(c.Request.Context(), identity, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskDetailResponse{Task: *task, Comments: comments})
}

// PostComment adds a comment and redirects back to the task. Blank comments
// are ignored.
func PostComment(c *gin.Context, taskService *services.TaskService) {
	identity := middleware.MustIdentity(c)
	taskID, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		response.BindError(c, err)
		return
	}

	if _, err := taskService.AddComment(c.Request.Context(), identity, taskID, form.Comment); err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, TaskPath(taskID))
}
