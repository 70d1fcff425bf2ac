package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tasktracker/database"
	"tasktracker/model"
)

// TaskInput carries the submitted task fields. Priority is the raw form value
// and is coerced to an integer; empty means unset.
type TaskInput struct {
	Name        string
	Category    string
	Description string
	Priority    string
	Status      string
}

// apply validates the input and copies it onto task.
func (in TaskInput) apply(task *model.Task) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}

	var priority *int
	if raw := strings.TrimSpace(in.Priority); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: priority must be an integer, got %q", model.ErrValidation, raw)
		}
		priority = &p
	}

	task.Name = name
	task.Category = strings.TrimSpace(in.Category)
	task.Description = in.Description
	task.Priority = priority
	task.Status = strings.TrimSpace(in.Status)
	return nil
}

type TaskService struct {
	store database.Store
}

func NewTaskService(store database.Store) *TaskService {
	return &TaskService{store: store}
}

// ListTasks returns the identity's own tasks ordered by sortBy, which must be
// one of the allow-listed columns (empty selects priority).
func (s *TaskService) ListTasks(ctx context.Context, identity Identity, sortBy string) ([]model.Task, error) {
	col, err := model.ParseSortColumn(sortBy)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	err = s.store.WithSession(ctx, func(session database.Session) error {
		var err error
		tasks, err = session.ListTasks(identity.UserID, col)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskDetail loads a task and its comments in insertion order.
func (s *TaskService) TaskDetail(ctx context.Context, identity Identity, taskID int64) (*model.Task, []model.Comment, error) {
	var (
		task     *model.Task
		comments []model.Comment
	)
	err := s.store.WithSession(ctx, func(session database.Session) error {
		var err error
		if task, err = session.TaskByID(taskID); err != nil {
			return err
		}
		if err := Authorize(identity, task, ActionView); err != nil {
			return err
		}
		comments, err = session.CommentsByTask(taskID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return task, comments, nil
}

// AddComment posts content on the task as identity. Blank content is a no-op
// and returns a nil comment.
func (s *TaskService) AddComment(ctx context.Context, identity Identity, taskID int64, content string) (*model.Comment, error) {
	var comment *model.Comment
	err := s.store.WithSession(ctx, func(session database.Session) error {
		task, err := session.TaskByID(taskID)
		if err != nil {
			return err
		}
		if err := Authorize(identity, task, ActionComment); err != nil {
			return err
		}
		if strings.TrimSpace(content) == "" {
			return nil
		}
		comment = &model.Comment{TaskID: task.ID, UserID: identity.UserID, Content: content}
		return session.CreateComment(comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *TaskService) CreateTask(ctx context.Context, identity Identity, input TaskInput) (*model.Task, error) {
	task := &model.Task{UserID: identity.UserID}
	if err := input.apply(task); err != nil {
		return nil, err
	}

	err := s.store.WithSession(ctx, func(session database.Session) error {
		return session.CreateTask(task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// TaskForEdit loads a task for the edit form. Only the owner may see it.
func (s *TaskService) TaskForEdit(ctx context.Context, identity Identity, taskID int64) (*model.Task, error) {
	var task *model.Task
	err := s.store.WithSession(ctx, func(session database.Session) error {
		var err error
		if task, err = session.TaskByID(taskID); err != nil {
			return err
		}
		return Authorize(identity, task, ActionEdit)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask overwrites every mutable field of an owned task.
func (s *TaskService) UpdateTask(ctx context.Context, identity Identity, taskID int64, input TaskInput) (*model.Task, error) {
	var task *model.Task
	err := s.store.WithSession(ctx, func(session database.Session) error {
		var err error
		if task, err = session.TaskByID(taskID); err != nil {
			return err
		}
		if err := Authorize(identity, task, ActionEdit); err != nil {
			return err
		}
		if err := input.apply(task); err != nil {
			return err
		}
		return session.UpdateTask(task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes an owned task together with all of its comments.
func (s *TaskService) DeleteTask(ctx context.Context, identity Identity, taskID int64) error {
	return s.store.WithSession(ctx, func(session database.Session) error {
		task, err := session.TaskByID(taskID)
		if err != nil {
			return err
		}
		if err := Authorize(identity, task, ActionDelete); err != nil {
			return err
		}
		return session.DeleteTask(task.ID)
	})
}
