package dto

import (
	"encoding/json"

	"tasktracker/model"
)

// TaskForm is shared by add_task and edit_task. Priority accepts a JSON
// number or a form string and is validated by the task service.
type TaskForm struct {
	Name        string      `form:"name" json:"name"`
	Category    string      `form:"category" json:"category"`
	Description string      `form:"description" json:"description"`
	Priority    json.Number `form:"priority" json:"priority"`
	Status      string      `form:"status" json:"status"`
}

type CommentForm struct {
	Comment string `form:"comment" json:"comment"`
}

type TaskListQuery struct {
	SortBy string `form:"sort_by"`
}

type TaskListResponse struct {
	SortBy string       `json:"sort_by"`
	Tasks  []model.Task `json:"tasks"`
}

type TaskDetailResponse struct {
	Task     model.Task      `json:"task"`
	Comments []model.Comment `json:"comments"`
}

type FormResponse struct {
	Form   string      `json:"form"`
	Action string      `json:"action"`
	Fields []string    `json:"fields"`
	Task   *model.Task `json:"task,omitempty"`
}
