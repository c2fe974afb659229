package repo

import (
	"context"

	"github.com/Pawe2l37/todo-api/internal/model"
)

// TodoRepository определяет интерфейс для работы с задачами
type TodoRepository interface {
	Create(ctx context.Context, t model.Todo) (model.Todo, error)
	Get(ctx context.Context, id int64) (model.Todo, error)
	List(ctx context.Context, filter model.TodoFilter, skip, limit int) ([]model.Todo, error)
	Update(ctx context.Context, id int64, upd model.TodoUpdate) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, ownerID int64) (Stats, error)
}

// UserRepository определяет интерфейс для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}
