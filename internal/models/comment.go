package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a comment on a post. A nil ParentID marks a top-level
// comment; a non-nil ParentID marks a reply to another comment.
type Comment struct {
	ID             uuid.UUID   `json:"id"`
	Content        string      `json:"content"`
	AuthorID       uuid.UUID   `json:"authorId"`
	AuthorUsername string      `json:"authorUsername"`
	PostID         uuid.UUID   `json:"postId"`
	ParentID       *uuid.UUID  `json:"parentId,omitempty"`
	Likes          []uuid.UUID `json:"likes"`
	CreatedAt      time.Time   `json:"createdAt"`
}
