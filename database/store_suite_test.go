package database

import (
	"context"
	"errors"
	"testing"

	"tasktracker/model"
)

var errBoom = errors.New("boom")

func intPtr(v int) *int { return &v }

// runStoreSuite exercises the unit-of-work contract and the cascade rules
// against any Store implementation.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CommitOnSuccess", func(t *testing.T) { testCommitOnSuccess(t, newStore(t)) })
	t.Run("RollbackOnError", func(t *testing.T) { testRollbackOnError(t, newStore(t)) })
	t.Run("RollbackOnPanic", func(t *testing.T) { testRollbackOnPanic(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("ListScopedAndSorted", func(t *testing.T) { testListScopedAndSorted(t, newStore(t)) })
	t.Run("DeleteTaskCascades", func(t *testing.T) { testDeleteTaskCascades(t, newStore(t)) })
	t.Run("DeleteUserCascades", func(t *testing.T) { testDeleteUserCascades(t, newStore(t)) })
	t.Run("UpdateTask", func(t *testing.T) { testUpdateTask(t, newStore(t)) })
}

func mustSession(t *testing.T, store Store, body func(Session) error) {
	t.Helper()
	if err := store.WithSession(context.Background(), body); err != nil {
		t.Fatalf("WithSession failed: %v", err)
	}
}

func createUser(t *testing.T, store Store, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Password: "digest"}
	mustSession(t, store, func(s Session) error { return s.CreateUser(user) })
	if user.ID == 0 {
		t.Fatalf("CreateUser(%q) left id unset", username)
	}
	return user
}

func createTask(t *testing.T, store Store, task *model.Task) *model.Task {
	t.Helper()
	mustSession(t, store, func(s Session) error { return s.CreateTask(task) })
	return task
}

func createComment(t *testing.T, store Store, taskID, userID int64, content string) *model.Comment {
	t.Helper()
	c := &model.Comment{TaskID: taskID, UserID: userID, Content: content}
	mustSession(t, store, func(s Session) error { return s.CreateComment(c) })
	return c
}

func countComments(t *testing.T, store Store, taskID int64) int64 {
	t.Helper()
	var n int64
	mustSession(t, store, func(s Session) error {
		var err error
		n, err = s.CountCommentsByTask(taskID)
		return err
	})
	return n
}

func testCommitOnSuccess(t *testing.T, store Store) {
	user := createUser(t, store, "alice")

	var got *model.User
	mustSession(t, store, func(s Session) error {
		var err error
		got, err = s.UserByUsername("alice")
		return err
	})
	if got.ID != user.ID {
		t.Errorf("UserByUsername id = %d, want %d", got.ID, user.ID)
	}

	var taken bool
	mustSession(t, store, func(s Session) error {
		var err error
		taken, err = s.UsernameTaken("alice")
		return err
	})
	if !taken {
		t.Error("UsernameTaken(alice) = false after commit")
	}
}

func testRollbackOnError(t *testing.T, store Store) {
	err := store.WithSession(context.Background(), func(s Session) error {
		if err := s.CreateUser(&model.User{Username: "ghost", Password: "digest"}); err != nil {
			return err
		}
		return errBoom
	})
	if err != errBoom {
		t.Fatalf("WithSession error = %v, want body error unchanged", err)
	}

	mustSession(t, store, func(s Session) error {
		taken, err := s.UsernameTaken("ghost")
		if err != nil {
			return err
		}
		if taken {
			t.Error("user from failed session was committed")
		}
		return nil
	})
}

func testRollbackOnPanic(t *testing.T, store Store) {
	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Errorf("recovered %v, want the original panic value", r)
			}
		}()
		_ = store.WithSession(context.Background(), func(s Session) error {
			if err := s.CreateUser(&model.User{Username: "panicky", Password: "digest"}); err != nil {
				return err
			}
			panic("kaboom")
		})
	}()

	mustSession(t, store, func(s Session) error {
		taken, err := s.UsernameTaken("panicky")
		if err != nil {
			return err
		}
		if taken {
			t.Error("user from panicking session was committed")
		}
		return nil
	})
}

func testNotFound(t *testing.T, store Store) {
	err := store.WithSession(context.Background(), func(s Session) error {
		_, err := s.TaskByID(4242)
		return err
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("TaskByID(missing) error = %v, want ErrNotFound", err)
	}

	err = store.WithSession(context.Background(), func(s Session) error {
		_, err := s.UserByUsername("nobody")
		return err
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("UserByUsername(missing) error = %v, want ErrNotFound", err)
	}

	err = store.WithSession(context.Background(), func(s Session) error {
		return s.DeleteTask(4242)
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeleteTask(missing) error = %v, want ErrNotFound", err)
	}
}

func testListScopedAndSorted(t *testing.T, store Store) {
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	noPriority := createTask(t, store, &model.Task{Name: "c-unranked", Category: "home", Status: "todo", UserID: alice.ID})
	first := createTask(t, store, &model.Task{Name: "b-first", Category: "work", Priority: intPtr(1), Status: "done", UserID: alice.ID})
	tie := createTask(t, store, &model.Task{Name: "a-tie", Category: "errands", Priority: intPtr(1), Status: "doing", UserID: alice.ID})
	last := createTask(t, store, &model.Task{Name: "d-last", Category: "admin", Priority: intPtr(3), Status: "todo", UserID: alice.ID})
	sameCategory := createTask(t, store, &model.Task{Name: "e-admin", Category: "admin", UserID: alice.ID})
	createTask(t, store, &model.Task{Name: "bobs", Category: "aaa", Priority: intPtr(0), UserID: bob.ID})

	list := func(col model.SortColumn) []int64 {
		var ids []int64
		mustSession(t, store, func(s Session) error {
			tasks, err := s.ListTasks(alice.ID, col)
			if err != nil {
				return err
			}
			for _, task := range tasks {
				if task.UserID != alice.ID {
					t.Errorf("ListTasks returned task %d owned by %d", task.ID, task.UserID)
				}
				ids = append(ids, task.ID)
			}
			return nil
		})
		return ids
	}

	assertOrder(t, "priority", list(model.SortByPriority), []int64{first.ID, tie.ID, last.ID, noPriority.ID, sameCategory.ID})
	assertOrder(t, "name", list(model.SortByName), []int64{tie.ID, first.ID, noPriority.ID, last.ID, sameCategory.ID})
	assertOrder(t, "status", list(model.SortByStatus), []int64{sameCategory.ID, tie.ID, first.ID, noPriority.ID, last.ID})
	assertOrder(t, "category", list(model.SortByCategory), []int64{last.ID, sameCategory.ID, tie.ID, noPriority.ID, first.ID})

	err := store.WithSession(context.Background(), func(s Session) error {
		_, err := s.ListTasks(alice.ID, model.SortColumn("id; DROP TABLE tasks"))
		return err
	})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("ListTasks(bad column) error = %v, want ErrValidation", err)
	}
}

func assertOrder(t *testing.T, label string, got, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s order: got %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s order: got %v, want %v", label, got, want)
		}
	}
}

func testDeleteTaskCascades(t *testing.T, store Store) {
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	task := createTask(t, store, &model.Task{Name: "Ship release", UserID: alice.ID})
	other := createTask(t, store, &model.Task{Name: "Keep me", UserID: alice.ID})
	createComment(t, store, task.ID, alice.ID, "mine")
	createComment(t, store, task.ID, bob.ID, "theirs")
	createComment(t, store, other.ID, bob.ID, "elsewhere")

	mustSession(t, store, func(s Session) error { return s.DeleteTask(task.ID) })

	if n := countComments(t, store, task.ID); n != 0 {
		t.Errorf("comments left on deleted task: %d", n)
	}
	if n := countComments(t, store, other.ID); n != 1 {
		t.Errorf("comments on untouched task = %d, want 1", n)
	}
}

func testDeleteUserCascades(t *testing.T, store Store) {
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	aliceTask := createTask(t, store, &model.Task{Name: "alice task", UserID: alice.ID})
	bobTask := createTask(t, store, &model.Task{Name: "bob task", UserID: bob.ID})
	createComment(t, store, aliceTask.ID, bob.ID, "bob on alice")
	createComment(t, store, bobTask.ID, alice.ID, "alice on bob")
	keep := createComment(t, store, bobTask.ID, bob.ID, "bob on bob")

	mustSession(t, store, func(s Session) error { return s.DeleteUser(alice.ID) })

	mustSession(t, store, func(s Session) error {
		if _, err := s.UserByID(alice.ID); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("UserByID(deleted) error = %v, want ErrNotFound", err)
		}
		if _, err := s.TaskByID(aliceTask.ID); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("TaskByID(cascaded) error = %v, want ErrNotFound", err)
		}
		if n, err := s.CountCommentsByTask(aliceTask.ID); err != nil || n != 0 {
			t.Errorf("comments on deleted user's task = %d (%v), want 0", n, err)
		}
		comments, err := s.CommentsByTask(bobTask.ID)
		if err != nil {
			return err
		}
		if len(comments) != 1 || comments[0].ID != keep.ID {
			t.Errorf("comments on bob's task = %+v, want only %d", comments, keep.ID)
		}
		taken, err := s.UsernameTaken("alice")
		if err != nil {
			return err
		}
		if taken {
			t.Error("username of deleted user still taken")
		}
		return nil
	})
}

func testUpdateTask(t *testing.T, store Store) {
	alice := createUser(t, store, "alice")
	task := createTask(t, store, &model.Task{Name: "draft", Priority: intPtr(2), UserID: alice.ID})

	mustSession(t, store, func(s Session) error {
		loaded, err := s.TaskByID(task.ID)
		if err != nil {
			return err
		}
		loaded.Name = "final"
		loaded.Priority = nil
		loaded.Status = "done"
		return s.UpdateTask(loaded)
	})

	mustSession(t, store, func(s Session) error {
		loaded, err := s.TaskByID(task.ID)
		if err != nil {
			return err
		}
		if loaded.Name != "final" || loaded.Status != "done" || loaded.Priority != nil {
			t.Errorf("task after update = %+v", loaded)
		}
		if loaded.UserID != alice.ID {
			t.Errorf("owner changed to %d", loaded.UserID)
		}
		return nil
	})
}
