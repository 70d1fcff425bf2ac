package database

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tasktracker/model"
)

const (
	usersCollection     = "Users"
	usernamesCollection = "Usernames"
	tasksCollection     = "Tasks"
	commentsCollection  = "Comments"
	countersCollection  = "Counters"
)

var errSessionPanicked = errors.New("session panicked")

type firestoreStore struct {
	client  *firestore.Client
	timeout time.Duration
}

// NewFirestoreStore returns a Store whose sessions are Firestore transactions.
// Transactions are attempted once; contention surfaces as model.ErrStorage.
// Firestore rejects reads issued after a write in the same transaction, so
// callers read everything they need before their first write.
func NewFirestoreStore(client *firestore.Client, timeout time.Duration) Store {
	return &firestoreStore{client: client, timeout: timeout}
}

func (s *firestoreStore) WithSession(ctx context.Context, body func(Session) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		bodyErr   error
		recovered interface{}
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		defer func() {
			if r := recover(); r != nil {
				recovered = r
				bodyErr = errSessionPanicked
			}
		}()
		bodyErr = body(&firestoreSession{client: s.client, tx: tx})
		return bodyErr
	}, firestore.MaxAttempts(1))

	if recovered != nil {
		panic(recovered)
	}
	if bodyErr != nil {
		return bodyErr
	}
	if err != nil {
		return translateFirestoreError(err, "commit transaction")
	}
	return nil
}

func (s *firestoreStore) Close() error {
	return s.client.Close()
}

type firestoreSession struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func translateFirestoreError(err error, op string) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", model.ErrNotFound, op)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s: already exists", model.ErrConflict, op)
	default:
		return fmt.Errorf("%w: %s: %v", model.ErrStorage, op, err)
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// usernameKey turns a username into a valid document id.
func usernameKey(username string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(username))
}

// nextID reads and advances the counter for kind. It reads before it writes,
// so it must run ahead of any other write in the transaction.
func (s *firestoreSession) nextID(kind string) (int64, error) {
	ref := s.client.Collection(countersCollection).Doc(kind)
	next := int64(1)

	snap, err := s.tx.Get(ref)
	switch {
	case status.Code(err) == codes.NotFound:
	case err != nil:
		return 0, translateFirestoreError(err, "read counter "+kind)
	default:
		current, err := snap.DataAt("value")
		if err != nil {
			return 0, translateFirestoreError(err, "decode counter "+kind)
		}
		value, ok := current.(int64)
		if !ok {
			return 0, fmt.Errorf("%w: counter %s holds %T", model.ErrStorage, kind, current)
		}
		next = value + 1
	}

	if err := s.tx.Set(ref, map[string]interface{}{"value": next}); err != nil {
		return 0, translateFirestoreError(err, "advance counter "+kind)
	}
	return next, nil
}

func (s *firestoreSession) getAll(q firestore.Query, op string) ([]*firestore.DocumentSnapshot, error) {
	docs, err := s.tx.Documents(q).GetAll()
	if err != nil {
		return nil, translateFirestoreError(err, op)
	}
	return docs, nil
}

func (s *firestoreSession) CreateUser(user *model.User) error {
	id, err := s.nextID(usersCollection)
	if err != nil {
		return err
	}
	user.ID = id

	if err := s.tx.Create(s.client.Collection(usernamesCollection).Doc(usernameKey(user.Username)), map[string]interface{}{
		"user_id": id,
	}); err != nil {
		return translateFirestoreError(err, "reserve username")
	}
	if err := s.tx.Create(s.client.Collection(usersCollection).Doc(docID(id)), user); err != nil {
		return translateFirestoreError(err, "create user")
	}
	return nil
}

func (s *firestoreSession) UserByID(id int64) (*model.User, error) {
	snap, err := s.tx.Get(s.client.Collection(usersCollection).Doc(docID(id)))
	if err != nil {
		return nil, translateFirestoreError(err, fmt.Sprintf("user %d", id))
	}
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, translateFirestoreError(err, "decode user")
	}
	return &user, nil
}

func (s *firestoreSession) UserByUsername(username string) (*model.User, error) {
	q := s.client.Collection(usersCollection).Where("username", "==", username)
	docs, err := s.getAll(q, "user by username")
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: user by username", model.ErrNotFound)
	}

	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		var user model.User
		if err := doc.DataTo(&user); err != nil {
			return nil, translateFirestoreError(err, "decode user")
		}
		users = append(users, user)
	}
	// first match by id, as the SQL backends return it
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return &users[0], nil
}

func (s *firestoreSession) UsernameTaken(username string) (bool, error) {
	_, err := s.tx.Get(s.client.Collection(usernamesCollection).Doc(usernameKey(username)))
	switch {
	case status.Code(err) == codes.NotFound:
		return false, nil
	case err != nil:
		return false, translateFirestoreError(err, "check username")
	}
	return true, nil
}

func (s *firestoreSession) DeleteUser(id int64) error {
	user, err := s.UserByID(id)
	if err != nil {
		return err
	}

	taskDocs, err := s.getAll(s.client.Collection(tasksCollection).Where("user_id", "==", id), "user tasks")
	if err != nil {
		return err
	}
	doomed := map[string]*firestore.DocumentRef{}
	for _, taskDoc := range taskDocs {
		var task model.Task
		if err := taskDoc.DataTo(&task); err != nil {
			return translateFirestoreError(err, "decode task")
		}
		comments, err := s.getAll(s.client.Collection(commentsCollection).Where("task_id", "==", task.ID), "task comments")
		if err != nil {
			return err
		}
		for _, c := range comments {
			doomed[c.Ref.Path] = c.Ref
		}
	}
	authored, err := s.getAll(s.client.Collection(commentsCollection).Where("user_id", "==", id), "user comments")
	if err != nil {
		return err
	}
	for _, c := range authored {
		doomed[c.Ref.Path] = c.Ref
	}

	// all reads done, writes from here on
	for _, ref := range doomed {
		if err := s.tx.Delete(ref); err != nil {
			return translateFirestoreError(err, "delete comment")
		}
	}
	for _, taskDoc := range taskDocs {
		if err := s.tx.Delete(taskDoc.Ref); err != nil {
			return translateFirestoreError(err, "delete task")
		}
	}
	if err := s.tx.Delete(s.client.Collection(usernamesCollection).Doc(usernameKey(user.Username))); err != nil {
		return translateFirestoreError(err, "release username")
	}
	if err := s.tx.Delete(s.client.Collection(usersCollection).Doc(docID(id))); err != nil {
		return translateFirestoreError(err, "delete user")
	}
	return nil
}

func (s *firestoreSession) CreateTask(task *model.Task) error {
	id, err := s.nextID(tasksCollection)
	if err != nil {
		return err
	}
	task.ID = id
	if err := s.tx.Create(s.client.Collection(tasksCollection).Doc(docID(id)), task); err != nil {
		return translateFirestoreError(err, "create task")
	}
	return nil
}

func (s *firestoreSession) TaskByID(id int64) (*model.Task, error) {
	snap, err := s.tx.Get(s.client.Collection(tasksCollection).Doc(docID(id)))
	if err != nil {
		return nil, translateFirestoreError(err, fmt.Sprintf("task %d", id))
	}
	var task model.Task
	if err := snap.DataTo(&task); err != nil {
		return nil, translateFirestoreError(err, "decode task")
	}
	return &task, nil
}

func (s *firestoreSession) ListTasks(userID int64, sortBy model.SortColumn) ([]model.Task, error) {
	if _, err := sortColumnName(sortBy); err != nil {
		return nil, err
	}
	docs, err := s.getAll(s.client.Collection(tasksCollection).Where("user_id", "==", userID), "list tasks")
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, translateFirestoreError(err, "decode task")
		}
		tasks = append(tasks, task)
	}
	sortTasks(tasks, sortBy)
	return tasks, nil
}

func (s *firestoreSession) UpdateTask(task *model.Task) error {
	var priority interface{}
	if task.Priority != nil {
		priority = *task.Priority
	}
	err := s.tx.Update(s.client.Collection(tasksCollection).Doc(docID(task.ID)), []firestore.Update{
		{Path: "name", Value: task.Name},
		{Path: "category", Value: task.Category},
		{Path: "description", Value: task.Description},
		{Path: "priority", Value: priority},
		{Path: "status", Value: task.Status},
	})
	if err != nil {
		return translateFirestoreError(err, "update task")
	}
	return nil
}

func (s *firestoreSession) DeleteTask(id int64) error {
	ref := s.client.Collection(tasksCollection).Doc(docID(id))
	if _, err := s.tx.Get(ref); err != nil {
		return translateFirestoreError(err, fmt.Sprintf("task %d", id))
	}
	comments, err := s.getAll(s.client.Collection(commentsCollection).Where("task_id", "==", id), "task comments")
	if err != nil {
		return err
	}

	for _, c := range comments {
		if err := s.tx.Delete(c.Ref); err != nil {
			return translateFirestoreError(err, "delete comment")
		}
	}
	if err := s.tx.Delete(ref); err != nil {
		return translateFirestoreError(err, "delete task")
	}
	return nil
}

func (s *firestoreSession) CreateComment(comment *model.Comment) error {
	id, err := s.nextID(commentsCollection)
	if err != nil {
		return err
	}
	comment.ID = id
	if err := s.tx.Create(s.client.Collection(commentsCollection).Doc(docID(id)), comment); err != nil {
		return translateFirestoreError(err, "create comment")
	}
	return nil
}

func (s *firestoreSession) CommentsByTask(taskID int64) ([]model.Comment, error) {
	docs, err := s.getAll(s.client.Collection(commentsCollection).Where("task_id", "==", taskID), "list comments")
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0, len(docs))
	for _, doc := range docs {
		var comment model.Comment
		if err := doc.DataTo(&comment); err != nil {
			return nil, translateFirestoreError(err, "decode comment")
		}
		comments = append(comments, comment)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (s *firestoreSession) CountCommentsByTask(taskID int64) (int64, error) {
	docs, err := s.getAll(s.client.Collection(commentsCollection).Where("task_id", "==", taskID), "count comments")
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}
