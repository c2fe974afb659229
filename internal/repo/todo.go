package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pawe2l37/todo-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

const todoColumns = "id, title, description, completed, overdue, due_date, owner_id, created_at"

type TodoRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTodoRepo(pool *pgxpool.Pool) *TodoRepo { // Конструктор
	return &TodoRepo{
		pool: pool,
	}
}

func (r *TodoRepo) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO todos (title, description, completed, due_date, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+todoColumns+`
	`, t.Title, t.Description, t.Completed, t.DueDate, t.OwnerID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed, &t.Overdue, &t.DueDate, &t.OwnerID, &t.CreatedAt,
	)
	return t, mapError(err)
}

func (r *TodoRepo) Get(ctx context.Context, id int64) (model.Todo, error) {
	var t model.Todo
	err := r.pool.QueryRow(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed, &t.Overdue, &t.DueDate, &t.OwnerID, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TodoRepo) List(ctx context.Context, filter model.TodoFilter, skip, limit int) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE ($1::bigint IS NULL OR owner_id = $1)
		ORDER BY id
		OFFSET $2
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, filter.OwnerID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]model.Todo, 0, limit)
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.Overdue, &t.DueDate, &t.OwnerID, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Update собирает SET только из присланных полей; один оператор, одна строка
func (r *TodoRepo) Update(ctx context.Context, id int64, upd model.TodoUpdate) (model.Todo, error) {
	if upd.Empty() {
		return r.Get(ctx, id)
	}

	set := make([]string, 0, 5)
	args := []any{id}
	add := func(column string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title.Set {
		add("title", upd.Title.Value)
	}
	if upd.Description.Set {
		add("description", upd.Description.Value)
	}
	if upd.Completed.Set {
		add("completed", upd.Completed.Value)
	}
	if upd.DueDate.Set {
		add("due_date", upd.DueDate.Value)
	}
	// Смена срока или завершение снимают флаг просрочки; sweeper выставит заново
	if upd.DueDate.Set || (upd.Completed.Set && upd.Completed.Value != nil && *upd.Completed.Value) {
		set = append(set, "overdue = FALSE")
	}

	query := fmt.Sprintf(`
		UPDATE todos
		SET %s
		WHERE id = $1
		RETURNING %s
	`, strings.Join(set, ", "), todoColumns)

	var t model.Todo
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed, &t.Overdue, &t.DueDate, &t.OwnerID, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TodoRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TodoRepo) Stats(ctx context.Context, ownerID int64) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE completed),
		       count(*) FILTER (WHERE overdue)
		FROM todos
		WHERE owner_id = $1
	`, ownerID).Scan(&s.Total, &s.Completed, &s.Overdue)
	return s, err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
	}
	return err
}
