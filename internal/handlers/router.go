package handlers

import (
	"net/http"

	"inkwell/internal/middleware"
)

// Routes wires every endpoint onto a ServeMux. Protected routes go through
// RequireAuth; every handler is instrumented for the metrics collector.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	public := func(op string, h http.HandlerFunc) http.HandlerFunc {
		return s.Instrument(op, h)
	}
	protected := func(op string, h http.HandlerFunc) http.HandlerFunc {
		return s.Instrument(op, middleware.RequireAuth(h))
	}

	// System
	mux.HandleFunc("GET /health", public("health", s.HandleHealth()))
	mux.HandleFunc("GET /stats", public("stats", s.HandleStats()))

	// Users
	mux.HandleFunc("POST /users/register", public("user.register", s.HandleRegister()))
	mux.HandleFunc("POST /users/login", public("user.login", s.HandleLogin()))
	mux.HandleFunc("GET /users/me", protected("user.me", s.HandleCurrentUser()))
	mux.HandleFunc("PUT /users/me", protected("user.update", s.HandleUpdateProfile()))
	mux.HandleFunc("POST /users/profile-picture", protected("user.picture", s.HandleSetProfilePicture()))
	mux.HandleFunc("PUT /users/follow/{id}", protected("user.follow", s.HandleFollow()))
	mux.HandleFunc("PUT /users/unfollow/{id}", protected("user.unfollow", s.HandleUnfollow()))
	mux.HandleFunc("GET /users/{id}/followers", public("user.followers", s.HandleFollowers()))
	mux.HandleFunc("GET /users/{id}/following", public("user.following", s.HandleFollowing()))
	mux.HandleFunc("GET /users/{id}", public("user.get", s.HandleGetUser()))

	// Posts
	mux.HandleFunc("POST /posts", protected("post.create", s.HandleCreatePost()))
	mux.HandleFunc("GET /posts", public("post.list", s.HandleListPosts()))
	mux.HandleFunc("PUT /posts/posts/{id}", protected("post.update", s.HandleUpdatePost()))
	mux.HandleFunc("DELETE /posts/posts/{id}", protected("post.delete", s.HandleDeletePost()))
	mux.HandleFunc("PUT /posts/like/{id}", protected("post.like", s.HandleTogglePostLike()))
	mux.HandleFunc("PUT /posts/bookmark/{id}", protected("post.bookmark", s.HandleTogglePostBookmark()))
	mux.HandleFunc("GET /posts/search", public("post.search", s.HandleSearchPosts()))
	mux.HandleFunc("GET /posts/tag/{tag}", public("post.by_tag", s.HandlePostsByTag()))
	mux.HandleFunc("GET /posts/user/{userId}", public("post.by_user", s.HandlePostsByUser()))
	mux.HandleFunc("GET /posts/{id}", public("post.get", s.HandleGetPost()))

	// Comments
	mux.HandleFunc("POST /comments/reply/{id}", protected("comment.reply", s.HandleAddReply()))
	mux.HandleFunc("GET /comments/replies/{id}", public("comment.replies", s.HandleGetReplies()))
	mux.HandleFunc("PUT /comments/like/{id}", protected("comment.like", s.HandleToggleCommentLike()))
	mux.HandleFunc("POST /comments/{postId}", protected("comment.add", s.HandleAddComment()))
	mux.HandleFunc("GET /comments/{postId}", public("comment.list", s.HandleGetPostComments()))
	mux.HandleFunc("PUT /comments/{id}", protected("comment.edit", s.HandleEditComment()))
	mux.HandleFunc("DELETE /comments/{id}", protected("comment.delete", s.HandleDeleteComment()))

	// Everything else serves the client application shell
	mux.HandleFunc("/", public("client", s.HandleClientApp()))

	return mux
}
