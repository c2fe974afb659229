package model

import "time"

type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Overdue     bool       `json:"overdue"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

type TodoFilter struct {
	OwnerID *int64
}

// TodoUpdate carries partial update fields. A field left unset keeps the
// stored value; a field sent as JSON null clears it (nullable columns only).
type TodoUpdate struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	Completed   Optional[bool]      `json:"completed"`
	DueDate     Optional[time.Time] `json:"due_date"`
}

func (u TodoUpdate) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Completed.Set && !u.DueDate.Set
}
