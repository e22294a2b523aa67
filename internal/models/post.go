package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	AuthorID       uuid.UUID   `json:"authorId"`
	AuthorUsername string      `json:"authorUsername"`
	Likes          []uuid.UUID `json:"likes"`
	Bookmarks      []uuid.UUID `json:"bookmarks"`
	Tags           []string    `json:"tags"`
	Views          int         `json:"views"`
	CreatedAt      time.Time   `json:"createdAt"`
}
