// internal/repo/todo_test.go
package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pawe2l37/todo-api/internal/model"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := Migrate(dbURL); err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}

	// Очистка
	pool.Exec(context.Background(), "TRUNCATE todos, users RESTART IDENTITY CASCADE")

	return pool
}

func seedOwner(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (username, email, password_hash)
		VALUES ('owner', 'owner@example.com', 'x')
		RETURNING id
	`).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestTodoRepo_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ownerID := seedOwner(t, pool)
	repo := NewTodoRepo(pool)

	created, err := repo.Create(context.Background(), model.Todo{Title: "Buy milk", OwnerID: ownerID})
	if err != nil {
		t.Fatal(err)
	}

	if created.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected server-set created_at")
	}
	if created.Completed {
		t.Error("expected completed=false by default")
	}
	if created.Description != nil {
		t.Errorf("expected nil description, got %v", *created.Description)
	}

	got, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Buy milk" || got.OwnerID != ownerID {
		t.Errorf("unexpected todo: %+v", got)
	}
}

func TestTodoRepo_GetMissing(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTodoRepo(pool)
	_, err := repo.Get(context.Background(), 9999)
	if !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}

func TestTodoRepo_ListOrderAndPaging(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ownerID := seedOwner(t, pool)
	repo := NewTodoRepo(pool)

	for i := 0; i < 5; i++ {
		if _, err := repo.Create(context.Background(), model.Todo{Title: "t", OwnerID: ownerID}); err != nil {
			t.Fatal(err)
		}
	}

	todos, err := repo.List(context.Background(), model.TodoFilter{OwnerID: &ownerID}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 5 {
		t.Fatalf("expected 5 todos, got %d", len(todos))
	}
	for i := 1; i < len(todos); i++ {
		if todos[i].ID <= todos[i-1].ID {
			t.Errorf("expected ascending id order, got %d before %d", todos[i-1].ID, todos[i].ID)
		}
	}

	page, err := repo.List(context.Background(), model.TodoFilter{OwnerID: &ownerID}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != todos[2].ID {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestTodoRepo_PartialUpdate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ownerID := seedOwner(t, pool)
	repo := NewTodoRepo(pool)

	desc := "two liters"
	due := time.Now().Add(24 * time.Hour)
	created, err := repo.Create(context.Background(), model.Todo{
		Title:       "Buy milk",
		Description: &desc,
		DueDate:     &due,
		OwnerID:     ownerID,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Меняется только completed
	updated, err := repo.Update(context.Background(), created.ID, model.TodoUpdate{
		Completed: model.Some(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Completed {
		t.Error("expected completed=true")
	}
	if updated.Title != "Buy milk" || updated.Description == nil || *updated.Description != "two liters" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("created_at must never change")
	}

	// null очищает description
	updated, err = repo.Update(context.Background(), created.ID, model.TodoUpdate{
		Description: model.Null[string](),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Description != nil {
		t.Errorf("expected cleared description, got %v", *updated.Description)
	}

	// Пустой update возвращает текущее состояние
	same, err := repo.Update(context.Background(), created.ID, model.TodoUpdate{})
	if err != nil {
		t.Fatal(err)
	}
	if same.ID != created.ID || !same.Completed {
		t.Errorf("unexpected todo: %+v", same)
	}

	_, err = repo.Update(context.Background(), 9999, model.TodoUpdate{Completed: model.Some(true)})
	if !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}

func TestTodoRepo_UpdateClearsOverdue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ownerID := seedOwner(t, pool)
	repo := NewTodoRepo(pool)

	past := time.Now().Add(-time.Hour)
	created, err := repo.Create(context.Background(), model.Todo{Title: "late", DueDate: &past, OwnerID: ownerID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Exec(context.Background(), "UPDATE todos SET overdue = TRUE WHERE id = $1", created.ID); err != nil {
		t.Fatal(err)
	}

	updated, err := repo.Update(context.Background(), created.ID, model.TodoUpdate{
		Completed: model.Some(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Overdue {
		t.Error("completing a todo must clear the overdue flag")
	}
}

func TestTodoRepo_Delete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ownerID := seedOwner(t, pool)
	repo := NewTodoRepo(pool)

	created, err := repo.Create(context.Background(), model.Todo{Title: "gone soon", OwnerID: ownerID})
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(context.Background(), created.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Get(context.Background(), created.ID); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound after delete, got %v", err)
	}

	if err := repo.Delete(context.Background(), created.ID); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound on double delete, got %v", err)
	}
}

func TestTodoRepo_Stats(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ownerID := seedOwner(t, pool)
	repo := NewTodoRepo(pool)

	for i := 0; i < 3; i++ {
		if _, err := repo.Create(context.Background(), model.Todo{Title: "t", OwnerID: ownerID}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := pool.Exec(context.Background(), "UPDATE todos SET completed = TRUE WHERE id = 1"); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.Stats(context.Background(), ownerID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.Overdue != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestUserRepo_Conflict(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewUserRepo(pool)
	u := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", IsActive: true}

	created, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero ID")
	}

	if _, err := repo.Create(context.Background(), u); !errors.Is(err, ErrorConflict) {
		t.Errorf("expected ErrorConflict on duplicate username, got %v", err)
	}

	u2 := model.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x", IsActive: true}
	if _, err := repo.Create(context.Background(), u2); !errors.Is(err, ErrorConflict) {
		t.Errorf("expected ErrorConflict on duplicate email, got %v", err)
	}

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID {
		t.Errorf("expected id %d, got %d", created.ID, got.ID)
	}

	if _, err := repo.GetByUsername(context.Background(), "nobody"); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
}
