package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Pawe2l37/todo-api/internal/model"
	"github.com/Pawe2l37/todo-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
)

type TodoService struct {
	repo repo.TodoRepository
}

func NewTodoService(repo repo.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) Create(ctx context.Context, ownerID int64, t model.Todo) (model.Todo, error) {
	if strings.TrimSpace(t.Title) == "" {
		return t, ErrValidation
	}

	t.OwnerID = ownerID
	return s.repo.Create(ctx, t)
}

func (s *TodoService) Get(ctx context.Context, callerID, id int64) (model.Todo, error) {
	return s.fetchOwned(ctx, callerID, id)
}

func (s *TodoService) List(ctx context.Context, callerID int64, skip, limit int) ([]model.Todo, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, model.TodoFilter{OwnerID: &callerID}, skip, limit)
}

func (s *TodoService) Update(ctx context.Context, callerID, id int64, upd model.TodoUpdate) (model.Todo, error) {
	if err := validateUpdate(upd); err != nil {
		return model.Todo{}, err
	}

	if _, err := s.fetchOwned(ctx, callerID, id); err != nil {
		return model.Todo{}, err
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *TodoService) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.fetchOwned(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TodoService) Stats(ctx context.Context, callerID int64) (repo.Stats, error) {
	return s.repo.Stats(ctx, callerID)
}

// fetchOwned: отсутствующий id остаётся not found, чужой id - forbidden
func (s *TodoService) fetchOwned(ctx context.Context, callerID, id int64) (model.Todo, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if t.OwnerID != callerID {
		return model.Todo{}, ErrForbidden
	}
	return t, nil
}

func validateUpdate(upd model.TodoUpdate) error {
	// title не может стать пустым или null
	if upd.Title.Set {
		if upd.Title.Value == nil || strings.TrimSpace(*upd.Title.Value) == "" {
			return ErrValidation
		}
	}
	if upd.Completed.Set && upd.Completed.Value == nil {
		return ErrValidation
	}
	return nil
}
