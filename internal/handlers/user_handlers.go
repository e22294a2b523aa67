package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Bio      string    `json:"bio"`
	Token    string    `json:"token"`
}

// UpdateProfileRequest carries the optional profile fields; empty fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

// ProfilePictureRequest carries the new picture URL
type ProfilePictureRequest struct {
	PictureURL string `json:"pictureUrl"`
}

// HandleRegister handles requests to register a new user
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			s.respondError(w, utils.NewValidationError("Username, email and password are required"))
			return
		}

		// Pre-check for the friendly duplicate message; the unique index on
		// email backs this up against races.
		if existing, _ := s.Store.GetUserByEmail(r.Context(), req.Email); existing != nil {
			s.respondError(w, utils.NewAppError(utils.ErrDuplicateUser, "User already exists", nil))
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.respondError(w, err)
			return
		}

		user := &models.User{
			ID:             uuid.New(),
			Username:       req.Username,
			Email:          req.Email,
			HashedPassword: string(hashed),
			Bio:            req.Bio,
			ProfilePicture: models.DefaultProfilePicture,
			Followers:      []uuid.UUID{},
			Following:      []uuid.UUID{},
			CreatedAt:      time.Now(),
		}

		if err := s.Store.SaveUser(r.Context(), user); err != nil {
			s.respondError(w, err)
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, AuthResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Bio:      user.Bio,
			Token:    token,
		})
	}
}

// HandleLogin handles requests to log in a user
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		user, err := s.Store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			s.respondError(w, utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
			s.respondError(w, utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, AuthResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Bio:      user.Bio,
			Token:    token,
		})
	}
}

// HandleCurrentUser returns the authenticated user's own profile
func (s *Server) HandleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		user, err := s.Store.GetUser(r.Context(), userID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, user)
	}
}

// HandleGetUser returns a public profile by ID, with the user's posts
// bundled in. Email and password are never exposed.
func (s *Server) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		user, err := s.Store.GetUser(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		posts, err := s.Store.GetPostsByAuthor(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, models.PublicProfile{
			ID:             user.ID,
			Username:       user.Username,
			Bio:            user.Bio,
			ProfilePicture: user.ProfilePicture,
			Followers:      user.Followers,
			Following:      user.Following,
			CreatedAt:      user.CreatedAt,
			Posts:          posts,
		})
	}
}

// HandleUpdateProfile applies a partial update to the authenticated user's
// username and bio
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		var req UpdateProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		user, err := s.Store.UpdateUserProfile(r.Context(), userID, req.Username, req.Bio)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, user)
	}
}

// HandleSetProfilePicture stores a new profile picture URL
func (s *Server) HandleSetProfilePicture() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		var req ProfilePictureRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondError(w, err)
			return
		}

		if req.PictureURL == "" {
			s.respondError(w, utils.NewValidationError("Picture URL is required"))
			return
		}

		user, err := s.Store.SetProfilePicture(r.Context(), userID, req.PictureURL)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]string{
			"profilePicture": user.ProfilePicture,
		})
	}
}

// HandleFollow adds the target to the actor's following set and mirrors the
// relationship on the target's followers set
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		targetID, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		if actorID == targetID {
			s.respondError(w, utils.NewAppError(utils.ErrSelfFollow, "You cannot follow yourself", nil))
			return
		}

		if err := s.Store.FollowUser(r.Context(), actorID, targetID); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]string{"msg": "User followed successfully"})
	}
}

// HandleUnfollow removes the mirrored follow relationship
func (s *Server) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			s.respondError(w, utils.NewUnauthorizedError("Not authorized"))
			return
		}

		targetID, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		if err := s.Store.UnfollowUser(r.Context(), actorID, targetID); err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]string{"msg": "User unfollowed successfully"})
	}
}

// HandleFollowers lists the profiles following a user, in stored order
func (s *Server) HandleFollowers() http.HandlerFunc {
	return s.handleRelationList(func(user *models.User) []uuid.UUID {
		return user.Followers
	})
}

// HandleFollowing lists the profiles a user follows, in stored order
func (s *Server) HandleFollowing() http.HandlerFunc {
	return s.handleRelationList(func(user *models.User) []uuid.UUID {
		return user.Following
	})
}

func (s *Server) handleRelationList(pick func(*models.User) []uuid.UUID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			s.respondError(w, err)
			return
		}

		user, err := s.Store.GetUser(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		summaries, err := s.Store.GetProfileSummaries(r.Context(), pick(user))
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, summaries)
	}
}
