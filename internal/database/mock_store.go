package database

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/utils"
)

// MockStore is an in-memory Store used by handler tests.
type MockStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*models.User
	posts      map[uuid.UUID]*models.Post
	comments   map[uuid.UUID]*models.Comment
	postOrder  []uuid.UUID
	ShouldFail bool // flag to simulate store failures
}

// NewMock initializes a new mock store
func NewMock() *MockStore {
	return &MockStore{
		users:    make(map[uuid.UUID]*models.User),
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
	}
}

func (m *MockStore) Close(ctx context.Context) error { return nil }

func (m *MockStore) fail() error {
	if m.ShouldFail {
		return errors.New("mock: store failure")
	}
	return nil
}

// --- User methods ---

func (m *MockStore) SaveUser(ctx context.Context, user *models.User) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *MockStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getUserLocked(id)
}

func (m *MockStore) getUserLocked(id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	u := *user
	u.Followers = append([]uuid.UUID{}, user.Followers...)
	u.Following = append([]uuid.UUID{}, user.Following...)
	return &u, nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, user := range m.users {
		if user.Email == email {
			return m.getUserLocked(id)
		}
	}
	return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
}

func (m *MockStore) UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio string) (*models.User, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	if username != "" {
		user.Username = username
	}
	if bio != "" {
		user.Bio = bio
	}
	return m.getUserLocked(id)
}

func (m *MockStore) SetProfilePicture(ctx context.Context, id uuid.UUID, url string) (*models.User, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	user.ProfilePicture = url
	return m.getUserLocked(id)
}

func (m *MockStore) FollowUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, ok := m.users[actorID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	target, ok := m.users[targetID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	for _, id := range actor.Following {
		if id == targetID {
			return utils.NewAppError(utils.ErrAlreadyFollowing, "You are already following this user", nil)
		}
	}
	actor.Following = append(actor.Following, targetID)
	target.Followers = append(target.Followers, actorID)
	return nil
}

func (m *MockStore) UnfollowUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, ok := m.users[actorID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	target, ok := m.users[targetID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	following := false
	for _, id := range actor.Following {
		if id == targetID {
			following = true
			break
		}
	}
	if !following {
		return utils.NewAppError(utils.ErrNotFollowing, "You are not following this user", nil)
	}
	actor.Following = removeID(actor.Following, targetID)
	target.Followers = removeID(target.Followers, actorID)
	return nil
}

func (m *MockStore) GetProfileSummaries(ctx context.Context, ids []uuid.UUID) ([]models.ProfileSummary, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	summaries := make([]models.ProfileSummary, 0, len(ids))
	for _, id := range ids {
		user, ok := m.users[id]
		if !ok {
			continue
		}
		summaries = append(summaries, models.ProfileSummary{
			ID:             user.ID,
			Username:       user.Username,
			Bio:            user.Bio,
			ProfilePicture: user.ProfilePicture,
		})
	}
	return summaries, nil
}

// --- Post methods ---

func (m *MockStore) SavePost(ctx context.Context, post *models.Post) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.posts[post.ID]; !exists {
		m.postOrder = append(m.postOrder, post.ID)
	}
	p := *post
	m.posts[post.ID] = &p
	return nil
}

func (m *MockStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getPostLocked(id)
}

func (m *MockStore) getPostLocked(id uuid.UUID) (*models.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	p := *post
	p.Likes = append([]uuid.UUID{}, post.Likes...)
	p.Bookmarks = append([]uuid.UUID{}, post.Bookmarks...)
	p.Tags = append([]string{}, post.Tags...)
	return &p, nil
}

func (m *MockStore) GetPostAndCountView(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	post.Views++
	return m.getPostLocked(id)
}

func (m *MockStore) UpdatePost(ctx context.Context, id uuid.UUID, title, content string, tags []string) (*models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	if tags == nil {
		tags = []string{}
	}
	post.Title = title
	post.Content = content
	post.Tags = tags
	return m.getPostLocked(id)
}

func (m *MockStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	delete(m.posts, id)
	for i, pid := range m.postOrder {
		if pid == id {
			m.postOrder = append(m.postOrder[:i], m.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockStore) ListPosts(ctx context.Context, page, limit int) ([]*models.Post, int64, error) {
	if err := m.fail(); err != nil {
		return nil, 0, err
	}
	all, err := m.sortedPosts(func(*models.Post) bool { return true })
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []*models.Post{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *MockStore) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.sortedPosts(func(p *models.Post) bool { return p.AuthorID == authorID })
}

func (m *MockStore) GetPostsByTag(ctx context.Context, tag string) ([]*models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.sortedPosts(func(p *models.Post) bool {
		for _, t := range p.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

func (m *MockStore) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	return m.sortedPosts(func(p *models.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q)
	})
}

// sortedPosts returns matching posts newest first. Ties keep reverse
// insertion order, mirroring the createdAt-descending sort of the real store.
func (m *MockStore) sortedPosts(match func(*models.Post) bool) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := []*models.Post{}
	for i := len(m.postOrder) - 1; i >= 0; i-- {
		post := m.posts[m.postOrder[i]]
		if match(post) {
			p, err := m.getPostLocked(post.ID)
			if err != nil {
				return nil, err
			}
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (m *MockStore) TogglePostLike(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	post.Likes = toggleID(post.Likes, userID)
	return append([]uuid.UUID{}, post.Likes...), nil
}

func (m *MockStore) TogglePostBookmark(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	post.Bookmarks = toggleID(post.Bookmarks, userID)
	return append([]uuid.UUID{}, post.Bookmarks...), nil
}

// --- Comment methods ---

func (m *MockStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *comment
	m.comments[comment.ID] = &c
	return nil
}

func (m *MockStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCommentLocked(id)
}

func (m *MockStore) getCommentLocked(id uuid.UUID) (*models.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	c := *comment
	c.Likes = append([]uuid.UUID{}, comment.Likes...)
	return &c, nil
}

func (m *MockStore) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.sortedComments(func(c *models.Comment) bool {
		return c.PostID == postID && c.ParentID == nil
	})
}

func (m *MockStore) GetCommentReplies(ctx context.Context, commentID uuid.UUID) ([]*models.Comment, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.sortedComments(func(c *models.Comment) bool {
		return c.ParentID != nil && *c.ParentID == commentID
	})
}

func (m *MockStore) sortedComments(match func(*models.Comment) bool) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comments := []*models.Comment{}
	for id, comment := range m.comments {
		if match(comment) {
			c, err := m.getCommentLocked(id)
			if err != nil {
				return nil, err
			}
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (m *MockStore) UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	comment.Content = content
	return m.getCommentLocked(id)
}

func (m *MockStore) DeleteCommentTree(ctx context.Context, id uuid.UUID) error {
	if err := m.fail(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	// Direct replies only; grandchildren are left orphaned.
	for cid, comment := range m.comments {
		if comment.ParentID != nil && *comment.ParentID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.comments, id)
	return nil
}

func (m *MockStore) ToggleCommentLike(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	comment.Likes = toggleID(comment.Likes, userID)
	return append([]uuid.UUID{}, comment.Likes...), nil
}

// toggleID removes id when present, otherwise prepends it.
func toggleID(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range set {
		if existing == id {
			return removeID(set, id)
		}
	}
	return append([]uuid.UUID{id}, set...)
}

func removeID(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
