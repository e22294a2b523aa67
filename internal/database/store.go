package database

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Store defines the common interface for storage operations. MongoDB is the
// production backend; MockStore backs the handler tests.
type Store interface {
	// Connection
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio string) (*models.User, error)
	SetProfilePicture(ctx context.Context, id uuid.UUID, url string) (*models.User, error)
	FollowUser(ctx context.Context, actorID, targetID uuid.UUID) error
	UnfollowUser(ctx context.Context, actorID, targetID uuid.UUID) error
	GetProfileSummaries(ctx context.Context, ids []uuid.UUID) ([]models.ProfileSummary, error)

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPostAndCountView(ctx context.Context, id uuid.UUID) (*models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, title, content string, tags []string) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, page, limit int) ([]*models.Post, int64, error)
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error)
	GetPostsByTag(ctx context.Context, tag string) ([]*models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]*models.Post, error)
	TogglePostLike(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error)
	TogglePostBookmark(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	GetCommentReplies(ctx context.Context, commentID uuid.UUID) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error)
	DeleteCommentTree(ctx context.Context, id uuid.UUID) error
	ToggleCommentLike(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error)
}
