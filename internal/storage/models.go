package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Todo is one item on the list.
type Todo struct {
	ID        int64
	Title     string
	Done      bool
	CreatedAt time.Time
}
