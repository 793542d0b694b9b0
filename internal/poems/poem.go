package poems

import (
	"errors"
	"time"
)

var (
	ErrPoemNotFound            = errors.New("poem not found")
	ErrPoemTitleOrContentEmpty = errors.New("poem title or content empty")
)

type Poem struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
