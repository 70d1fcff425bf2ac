package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tasktracker/model"
)

// OpenGorm opens a gorm handle on the given dialector with the app's logger
// settings. Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey.
func OpenGorm(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	gLogger := logger.New(
		log.New(os.Stdout, "[DB] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gLogger,
		TranslateError: true,
	})
}

// Migrate creates or updates the users, tasks and comments tables, including
// the ON DELETE CASCADE foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Task{}, &model.Comment{})
}

type gormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormStore returns a Store backed by a relational database. timeout bounds
// each unit of work; zero disables it.
func NewGormStore(db *gorm.DB, timeout time.Duration) Store {
	return &gormStore{db: db, timeout: timeout}
}

func (s *gormStore) WithSession(ctx context.Context, body func(Session) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: begin transaction: %v", model.ErrStorage, tx.Error)
	}

	done := false
	defer func() {
		if done {
			return
		}
		// reached on error returns and panics
		if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("[DB] rollback failed: %v", err)
		}
	}()

	if err := body(&gormSession{tx: tx}); err != nil {
		return err
	}

	done = true
	if err := tx.Commit().Error; err != nil {
		return translateGormError(err, "commit transaction")
	}
	return nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormSession struct {
	tx *gorm.DB
}

func translateGormError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", model.ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: duplicate key", model.ErrConflict, op)
	default:
		return fmt.Errorf("%w: %s: %v", model.ErrStorage, op, err)
	}
}

func (s *gormSession) CreateUser(user *model.User) error {
	if err := s.tx.Omit(clause.Associations).Create(user).Error; err != nil {
		return translateGormError(err, "create user")
	}
	return nil
}

func (s *gormSession) UserByID(id int64) (*model.User, error) {
	var user model.User
	if err := s.tx.First(&user, id).Error; err != nil {
		return nil, translateGormError(err, fmt.Sprintf("user %d", id))
	}
	return &user, nil
}

func (s *gormSession) UserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.tx.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateGormError(err, "user by username")
	}
	return &user, nil
}

func (s *gormSession) UsernameTaken(username string) (bool, error) {
	var count int64
	if err := s.tx.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, translateGormError(err, "count users")
	}
	return count > 0, nil
}

func (s *gormSession) DeleteUser(id int64) error {
	if _, err := s.UserByID(id); err != nil {
		return err
	}

	ownedTasks := s.tx.Model(&model.Task{}).Select("id").Where("user_id = ?", id)
	if err := s.tx.Where("task_id IN (?) OR user_id = ?", ownedTasks, id).Delete(&model.Comment{}).Error; err != nil {
		return translateGormError(err, "delete user comments")
	}
	if err := s.tx.Where("user_id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return translateGormError(err, "delete user tasks")
	}
	if err := s.tx.Delete(&model.User{}, id).Error; err != nil {
		return translateGormError(err, "delete user")
	}
	return nil
}

func (s *gormSession) CreateTask(task *model.Task) error {
	if err := s.tx.Omit(clause.Associations).Create(task).Error; err != nil {
		return translateGormError(err, "create task")
	}
	return nil
}

func (s *gormSession) TaskByID(id int64) (*model.Task, error) {
	var task model.Task
	if err := s.tx.First(&task, id).Error; err != nil {
		return nil, translateGormError(err, fmt.Sprintf("task %d", id))
	}
	return &task, nil
}

func (s *gormSession) ListTasks(userID int64, sortBy model.SortColumn) ([]model.Task, error) {
	name, err := sortColumnName(sortBy)
	if err != nil {
		return nil, err
	}
	column := clause.Column{Name: name}
	order := clause.OrderBy{Expression: clause.Expr{
		SQL:  "CASE WHEN ? IS NULL THEN 1 ELSE 0 END, ?, ?",
		Vars: []interface{}{column, column, clause.Column{Name: "id"}},
	}}

	tasks := []model.Task{}
	if err := s.tx.Where("user_id = ?", userID).Order(order).Find(&tasks).Error; err != nil {
		return nil, translateGormError(err, "list tasks")
	}
	return tasks, nil
}

func (s *gormSession) UpdateTask(task *model.Task) error {
	err := s.tx.Model(&model.Task{ID: task.ID}).Updates(map[string]interface{}{
		"name":        task.Name,
		"category":    task.Category,
		"description": task.Description,
		"priority":    task.Priority,
		"status":      task.Status,
	}).Error
	if err != nil {
		return translateGormError(err, "update task")
	}
	return nil
}

func (s *gormSession) DeleteTask(id int64) error {
	if err := s.tx.Where("task_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return translateGormError(err, "delete task comments")
	}
	result := s.tx.Delete(&model.Task{}, id)
	if result.Error != nil {
		return translateGormError(result.Error, "delete task")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: task %d", model.ErrNotFound, id)
	}
	return nil
}

func (s *gormSession) CreateComment(comment *model.Comment) error {
	if err := s.tx.Create(comment).Error; err != nil {
		return translateGormError(err, "create comment")
	}
	return nil
}

func (s *gormSession) CommentsByTask(taskID int64) ([]model.Comment, error) {
	comments := []model.Comment{}
	if err := s.tx.Where("task_id = ?", taskID).Order("id").Find(&comments).Error; err != nil {
		return nil, translateGormError(err, "list comments")
	}
	return comments, nil
}

func (s *gormSession) CountCommentsByTask(taskID int64) (int64, error) {
	var count int64
	if err := s.tx.Model(&model.Comment{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		return 0, translateGormError(err, "count comments")
	}
	return count, nil
}
