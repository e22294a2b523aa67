package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"
)

const defaultPageSize = 10

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// UpdatePostRequest overwrites title, content and tags; omitted fields
// become empty.
type UpdatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// PostListResponse is the paginated post listing
type PostListResponse struct {
	Posts       []*models.Post `json:"posts"`
	TotalPages  int64          `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// HandleCreatePost handles requests to create a new post
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		var req CreatePostRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		if req.Title == "" || req.Content == "" {
			s.respondError(w, utils.NewValidationError("Title and content are required"))
			return
		}

		author, err := s.Store.GetUser(r.Context(), authorID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		tags := req.Tags
		if tags == nil {
			tags = []string{}
		}

		post := &models.Post{
			ID:             uuid.New(),
			Title:          req.Title,
			Content:        req.Content,
			AuthorID:       authorID,
			AuthorUsername: author.Username,
			Likes:          []uuid.UUID{},
			Bookmarks:      []uuid.UUID{},
			Tags:           tags,
			Views:          0,
			CreatedAt:      time.Now(),
		}

		if err := s.Store.SavePost(r.Context(), post); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, post)
	}
}

// HandleUpdatePost overwrites a post's title, content and tags. Author only.
func (s *Server) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		post, err := s.Store.GetPost(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		if post.AuthorID != actorID {
			s.respondError(w, utils.NewUnauthorizedError("User not authorized"))
			return
		}

		var req UpdatePostRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		updated, err := s.Store.UpdatePost(r.Context(), id, req.Title, req.Content, req.Tags)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, updated)
	}
}

// HandleDeletePost deletes a post. Author only. Comments referencing the
// post are left in place.
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		post, err := s.Store.GetPost(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		if post.AuthorID != actorID {
			s.respondError(w, utils.NewUnauthorizedError("User not authorized"))
			return
		}

		if err := s.Store.DeletePost(r.Context(), id); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]string{"msg": "Post removed"})
	}
}

// HandleGetPost fetches a post by ID, incrementing its view counter
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		post, err := s.Store.GetPostAndCountView(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, post)
	}
}

// HandleListPosts returns one page of posts, newest first
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", defaultPageSize)

		posts, total, err := s.Store.ListPosts(r.Context(), page, limit)
		if err != nil {
			s.respondError(w, err)
			return
		}

		totalPages := (total + int64(limit) - 1) / int64(limit)

		s.respondJSON(w, http.StatusOK, PostListResponse{
			Posts:       posts,
			TotalPages:  totalPages,
			CurrentPage: page,
		})
	}
}

// HandlePostsByUser returns all posts by an author, newest first
func (s *Server) HandlePostsByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := pathID(r, "userId")
		if err != nil {
			s.respondError(w, err)
			return
		}

		posts, err := s.Store.GetPostsByAuthor(r.Context(), authorID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, posts)
	}
}

// HandlePostsByTag returns posts carrying a tag, newest first
func (s *Server) HandlePostsByTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := r.PathValue("tag")
		if tag == "" {
			s.respondError(w, utils.NewValidationError("Tag is required"))
			return
		}

		posts, err := s.Store.GetPostsByTag(r.Context(), tag)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, posts)
	}
}

// HandleSearchPosts performs a case-insensitive substring search over
// titles and content
func (s *Server) HandleSearchPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			s.respondError(w, utils.NewValidationError("Search query is required"))
			return
		}

		posts, err := s.Store.SearchPosts(r.Context(), query)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, posts)
	}
}

// HandleTogglePostLike flips the caller's like on a post and returns the
// resulting like set
func (s *Server) HandleTogglePostLike() http.HandlerFunc {
	return s.handlePostToggle(func(s *Server, r *http.Request, postID, userID uuid.UUID) ([]uuid.UUID, error) {
		return s.Store.TogglePostLike(r.Context(), postID, userID)
	})
}

// HandleTogglePostBookmark flips the caller's bookmark on a post and returns
// the resulting bookmark set
func (s *Server) HandleTogglePostBookmark() http.HandlerFunc {
	return s.handlePostToggle(func(s *Server, r *http.Request, postID, userID uuid.UUID) ([]uuid.UUID, error) {
		return s.Store.TogglePostBookmark(r.Context(), postID, userID)
	})
}

func (s *Server) handlePostToggle(toggle func(*Server, *http.Request, uuid.UUID, uuid.UUID) ([]uuid.UUID, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		postID, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		set, err := toggle(s, r, postID, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, set)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
