package services

import (
	"fmt"

	"tasktracker/model"
)

type Action string

const (
	ActionView    Action = "view"
	ActionComment Action = "comment"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
)

// CanAccess decides whether identity may perform action on task. Any
// authenticated user may view and comment; only the owner may edit or delete.
func CanAccess(identity Identity, task *model.Task, action Action) bool {
	if identity.UserID == 0 || task == nil {
		return false
	}
	switch action {
	case ActionView, ActionComment:
		return true
	case ActionEdit, ActionDelete:
		return task.UserID == identity.UserID
	}
	return false
}

func Authorize(identity Identity, task *model.Task, action Action) error {
	if !CanAccess(identity, task, action) {
		return fmt.Errorf("%w: only the owner may %s this task", model.ErrAuthorization, action)
	}
	return nil
}
