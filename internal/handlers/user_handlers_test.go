package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	mux, _ := newTestServer()

	id, token := registerUser(t, mux, "alice", "alice@example.com")
	assert.NotEmpty(t, token)

	w := doJSON(t, mux, "POST", "/users/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "alice", resp.Username)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginInvalidCredentials(t *testing.T) {
	mux, _ := newTestServer()
	registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "POST", "/users/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", errorMsg(t, w))

	w = doJSON(t, mux, "POST", "/users/login", "", LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", errorMsg(t, w))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mux, _ := newTestServer()
	registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "POST", "/users/register", "", RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "different-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", errorMsg(t, w))

	// The first account is unaffected
	w = doJSON(t, mux, "POST", "/users/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	mux, _ := newTestServer()

	w := doJSON(t, mux, "POST", "/users/register", "", RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentUserRequiresAuth(t *testing.T) {
	mux, _ := newTestServer()

	w := doJSON(t, mux, "GET", "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, mux, "GET", "/users/me", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUserProfile(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "GET", "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	// The password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password")
}

func TestPublicProfileExcludesEmail(t *testing.T) {
	mux, _ := newTestServer()
	id, token := registerUser(t, mux, "alice", "alice@example.com")
	createPost(t, mux, token, "Post A", "content", nil)

	w := doJSON(t, mux, "GET", "/users/"+id.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "alice@example.com"))

	var profile models.PublicProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile.Username)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, "Post A", profile.Posts[0].Title)
}

func TestGetUnknownUser(t *testing.T) {
	mux, _ := newTestServer()

	w := doJSON(t, mux, "GET", "/users/6a1b4f6e-2a1a-4a64-9d29-1c6a43a1bb10", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfilePartial(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "PUT", "/users/me", token, UpdateProfileRequest{Bio: "new bio"})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username, "omitted username stays unchanged")
	assert.Equal(t, "new bio", user.Bio)
}

func TestSetProfilePicture(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "POST", "/users/profile-picture", token, ProfilePictureRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Picture URL is required", errorMsg(t, w))

	w = doJSON(t, mux, "POST", "/users/profile-picture", token, ProfilePictureRequest{
		PictureURL: "https://example.com/me.png",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://example.com/me.png", resp["profilePicture"])
}

func TestFollowAndListRelations(t *testing.T) {
	mux, _ := newTestServer()
	u1, token1 := registerUser(t, mux, "alice", "alice@example.com")
	u2, _ := registerUser(t, mux, "bob", "bob@example.com")

	w := doJSON(t, mux, "PUT", "/users/follow/"+u2.String(), token1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, "GET", "/users/"+u2.String()+"/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var followers []models.ProfileSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &followers))
	require.Len(t, followers, 1)
	assert.Equal(t, u1, followers[0].ID)

	w = doJSON(t, mux, "GET", "/users/"+u1.String()+"/following", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var following []models.ProfileSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &following))
	require.Len(t, following, 1)
	assert.Equal(t, u2, following[0].ID)
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	mux, _ := newTestServer()
	u1, token1 := registerUser(t, mux, "alice", "alice@example.com")
	u2, _ := registerUser(t, mux, "bob", "bob@example.com")

	w := doJSON(t, mux, "PUT", "/users/follow/"+u2.String(), token1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, "PUT", "/users/unfollow/"+u2.String(), token1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Both sides of the graph return to their pre-follow state
	w = doJSON(t, mux, "GET", "/users/"+u1.String()+"/following", "", nil)
	var following []models.ProfileSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &following))
	assert.Empty(t, following)

	w = doJSON(t, mux, "GET", "/users/"+u2.String()+"/followers", "", nil)
	var followers []models.ProfileSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &followers))
	assert.Empty(t, followers)
}

func TestSelfFollowRejected(t *testing.T) {
	mux, _ := newTestServer()
	u1, token1 := registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "PUT", "/users/follow/"+u1.String(), token1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot follow yourself", errorMsg(t, w))
}

func TestDoubleFollowRejected(t *testing.T) {
	mux, _ := newTestServer()
	_, token1 := registerUser(t, mux, "alice", "alice@example.com")
	u2, _ := registerUser(t, mux, "bob", "bob@example.com")

	w := doJSON(t, mux, "PUT", "/users/follow/"+u2.String(), token1, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, "PUT", "/users/follow/"+u2.String(), token1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You are already following this user", errorMsg(t, w))
}

func TestUnfollowWithoutFollowing(t *testing.T) {
	mux, _ := newTestServer()
	_, token1 := registerUser(t, mux, "alice", "alice@example.com")
	u2, _ := registerUser(t, mux, "bob", "bob@example.com")

	w := doJSON(t, mux, "PUT", "/users/unfollow/"+u2.String(), token1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You are not following this user", errorMsg(t, w))
}
