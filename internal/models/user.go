package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultProfilePicture is used until a user sets their own.
const DefaultProfilePicture = "https://via.placeholder.com/150"

type User struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"-"`
	Bio            string      `json:"bio"`
	ProfilePicture string      `json:"profilePicture"`
	Followers      []uuid.UUID `json:"followers"`
	Following      []uuid.UUID `json:"following"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// ProfileSummary is the trimmed view returned by follower/following lists.
type ProfileSummary struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
}

// PublicProfile is a user as seen by other users: no email, no password,
// with the user's posts bundled in.
type PublicProfile struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Bio            string      `json:"bio"`
	ProfilePicture string      `json:"profilePicture"`
	Followers      []uuid.UUID `json:"followers"`
	Following      []uuid.UUID `json:"following"`
	CreatedAt      time.Time   `json:"createdAt"`
	Posts          []*Post     `json:"posts"`
}
