package comments

import (
	"errors"
	"time"
)

var ErrCommentNotFound = errors.New("comment not found")

// Comment is a visitor-submitted note on a poem. It starts unapproved
// and shows up publicly only after an administrator approves it.
type Comment struct {
	ID        int       `json:"id"`
	PoemID    int       `json:"poemId"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Approved  bool      `json:"approved"`
}
