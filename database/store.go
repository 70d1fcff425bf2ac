// Package database holds the unit of work used by every request: a Store opens
// one transactional Session, runs the caller's body against it and commits or
// rolls back as a whole.
package database

import (
	"context"

	"tasktracker/model"
)

// Store hands out transactional sessions.
//
// WithSession commits when body returns nil and rolls back otherwise,
// returning body's error unchanged. A panic in body rolls back and keeps
// unwinding. The session is released on every path and must not be retained
// after body returns.
type Store interface {
	WithSession(ctx context.Context, body func(Session) error) error
	Close() error
}

// Session is the repository surface visible inside one unit of work. Lookups
// by id that miss return an error wrapping model.ErrNotFound.
type Session interface {
	CreateUser(user *model.User) error
	UserByID(id int64) (*model.User, error)
	UserByUsername(username string) (*model.User, error)
	UsernameTaken(username string) (bool, error)
	// DeleteUser removes the user, their tasks, every comment on those tasks
	// and every comment they wrote.
	DeleteUser(id int64) error

	CreateTask(task *model.Task) error
	TaskByID(id int64) (*model.Task, error)
	ListTasks(userID int64, sortBy model.SortColumn) ([]model.Task, error)
	UpdateTask(task *model.Task) error
	// DeleteTask removes the task and all of its comments.
	DeleteTask(id int64) error

	CreateComment(comment *model.Comment) error
	CommentsByTask(taskID int64) ([]model.Comment, error)
	CountCommentsByTask(taskID int64) (int64, error)
}
