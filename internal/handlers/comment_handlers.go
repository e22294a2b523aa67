package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"
)

// AddCommentRequest represents a request to comment on a post. ParentID is
// set when the comment is a reply.
type AddCommentRequest struct {
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// EditCommentRequest replaces a comment's content
type EditCommentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment adds a comment to a post. A parentId in the body makes it
// a reply to an existing comment on the same post.
func (s *Server) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		postID, err := pathID(r, "postId")
		if err != nil {
			s.respondError(w, err)
			return
		}

		var req AddCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		if req.Content == "" {
			s.respondError(w, utils.NewValidationError("Content is required"))
			return
		}

		if _, err := s.Store.GetPost(r.Context(), postID); err != nil {
			s.respondError(w, err)
			return
		}

		if req.ParentID != nil {
			if _, err := s.Store.GetComment(r.Context(), *req.ParentID); err != nil {
				s.respondError(w, err)
				return
			}
		}

		comment, err := s.createComment(r, authorID, postID, req.Content, req.ParentID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, comment)
	}
}

// HandleAddReply adds a reply to an existing comment. The reply lands on the
// parent's post. Nothing prevents the parent from itself being a reply; such
// depth>1 nodes stay invisible to both list endpoints.
func (s *Server) HandleAddReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		parentID, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		var req EditCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		if req.Content == "" {
			s.respondError(w, utils.NewValidationError("Content is required"))
			return
		}

		parent, err := s.Store.GetComment(r.Context(), parentID)
		if err != nil {
			s.respondError(w, utils.NewNotFoundError("Parent comment not found"))
			return
		}

		comment, err := s.createComment(r, authorID, parent.PostID, req.Content, &parentID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, comment)
	}
}

func (s *Server) createComment(r *http.Request, authorID, postID uuid.UUID, content string, parentID *uuid.UUID) (*models.Comment, error) {
	author, err := s.Store.GetUser(r.Context(), authorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:             uuid.New(),
		Content:        content,
		AuthorID:       authorID,
		AuthorUsername: author.Username,
		PostID:         postID,
		ParentID:       parentID,
		Likes:          []uuid.UUID{},
		CreatedAt:      time.Now(),
	}

	if err := s.Store.SaveComment(r.Context(), comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// HandleGetPostComments lists a post's top-level comments, newest first
func (s *Server) HandleGetPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "postId")
		if err != nil {
			s.respondError(w, err)
			return
		}

		comments, err := s.Store.GetPostComments(r.Context(), postID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, comments)
	}
}

// HandleGetReplies lists a comment's direct replies, newest first
func (s *Server) HandleGetReplies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		replies, err := s.Store.GetCommentReplies(r.Context(), commentID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, replies)
	}
}

// HandleEditComment replaces a comment's content. Author only.
func (s *Server) HandleEditComment() http.HandlerFunc {
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

		var req EditCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		if req.Content == "" {
			s.respondError(w, utils.NewValidationError("Content is required"))
			return
		}

		comment, err := s.Store.GetComment(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		if comment.AuthorID != actorID {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized to edit this comment"))
			return
		}

		updated, err := s.Store.UpdateComment(r.Context(), id, req.Content)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, updated)
	}
}

// HandleDeleteComment deletes a comment and its direct replies. Author only.
func (s *Server) HandleDeleteComment() http.HandlerFunc {
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

		comment, err := s.Store.GetComment(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		if comment.AuthorID != actorID {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized to delete this comment"))
			return
		}

		if err := s.Store.DeleteCommentTree(r.Context(), id); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]string{"msg": "Comment and its replies deleted"})
	}
}

// HandleToggleCommentLike flips the caller's like on a comment and returns
// the resulting like set
func (s *Server) HandleToggleCommentLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		set, err := s.Store.ToggleCommentLike(r.Context(), id, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, set)
	}
}
