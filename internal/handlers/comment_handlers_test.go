package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestAddCommentValidation(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)

	w := doJSON(t, mux, "POST", "/comments/"+postID.String(), token, AddCommentRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Content is required", errorMsg(t, w))

	w = doJSON(t, mux, "POST", "/comments/"+uuid.New().String(), token, AddCommentRequest{Content: "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, mux, "POST", "/comments/"+postID.String(), "", AddCommentRequest{Content: "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCommentCarriesAuthorUsername(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)

	w := doJSON(t, mux, "POST", "/comments/"+postID.String(), token, AddCommentRequest{Content: "first!"})
	require.Equal(t, http.StatusOK, w.Code)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.Equal(t, "alice", comment.AuthorUsername)
	assert.Equal(t, postID, comment.PostID)
	assert.Nil(t, comment.ParentID)
}

func TestTopLevelAndReplyListings(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)

	top := addComment(t, mux, token, postID, "top level")
	reply := addReply(t, mux, token, top, "a reply")

	// The post listing holds only the top-level comment
	w := doJSON(t, mux, "GET", "/comments/"+postID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []*models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, top, comments[0].ID)

	// The reply listing holds the reply, bound to the parent's post
	w = doJSON(t, mux, "GET", "/comments/replies/"+top.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var replies []*models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replies))
	require.Len(t, replies, 1)
	assert.Equal(t, reply, replies[0].ID)
	assert.Equal(t, postID, replies[0].PostID)
	require.NotNil(t, replies[0].ParentID)
	assert.Equal(t, top, *replies[0].ParentID)
}

func TestReplyToMissingParent(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")

	w := doJSON(t, mux, "POST", "/comments/reply/"+uuid.New().String(), token, EditCommentRequest{Content: "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parent comment not found", errorMsg(t, w))
}

func TestEditCommentAuthorOnly(t *testing.T) {
	mux, _ := newTestServer()
	_, token1 := registerUser(t, mux, "alice", "alice@example.com")
	_, token2 := registerUser(t, mux, "bob", "bob@example.com")
	postID := createPost(t, mux, token1, "Post", "content", nil)
	commentID := addComment(t, mux, token1, postID, "original")

	w := doJSON(t, mux, "PUT", "/comments/"+commentID.String(), token2, EditCommentRequest{Content: "hacked"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized to edit this comment", errorMsg(t, w))

	w = doJSON(t, mux, "PUT", "/comments/"+commentID.String(), token1, EditCommentRequest{Content: "revised"})
	require.Equal(t, http.StatusOK, w.Code)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.Equal(t, "revised", comment.Content)
}

func TestDeleteCommentCascades(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)

	parent := addComment(t, mux, token, postID, "parent")
	addReply(t, mux, token, parent, "child one")
	addReply(t, mux, token, parent, "child two")

	w := doJSON(t, mux, "DELETE", "/comments/"+parent.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Comment and its replies deleted", resp["msg"])

	w = doJSON(t, mux, "GET", "/comments/"+postID.String(), "", nil)
	var comments []*models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Empty(t, comments)

	w = doJSON(t, mux, "GET", "/comments/replies/"+parent.String(), "", nil)
	var replies []*models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replies))
	assert.Empty(t, replies)
}

func TestDeleteCommentOrphansGrandchildren(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)

	parent := addComment(t, mux, token, postID, "parent")
	child := addReply(t, mux, token, parent, "child")
	grandchild := addReply(t, mux, token, child, "grandchild")

	w := doJSON(t, mux, "DELETE", "/comments/"+parent.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Only direct replies go with the parent; the grandchild survives,
	// now pointing at a deleted comment.
	w = doJSON(t, mux, "GET", "/comments/replies/"+child.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var replies []*models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replies))
	require.Len(t, replies, 1)
	assert.Equal(t, grandchild, replies[0].ID)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	mux, _ := newTestServer()
	_, token1 := registerUser(t, mux, "alice", "alice@example.com")
	_, token2 := registerUser(t, mux, "bob", "bob@example.com")
	postID := createPost(t, mux, token1, "Post", "content", nil)
	commentID := addComment(t, mux, token1, postID, "keep me")

	w := doJSON(t, mux, "DELETE", "/comments/"+commentID.String(), token2, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized to delete this comment", errorMsg(t, w))

	w = doJSON(t, mux, "GET", "/comments/"+postID.String(), "", nil)
	var comments []*models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Len(t, comments, 1)
}

func TestToggleCommentLike(t *testing.T) {
	mux, _ := newTestServer()
	u1, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)
	commentID := addComment(t, mux, token, postID, "like me")

	w := doJSON(t, mux, "PUT", "/comments/like/"+commentID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var likes []uuid.UUID
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	assert.Equal(t, []uuid.UUID{u1}, likes)

	w = doJSON(t, mux, "PUT", "/comments/like/"+commentID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	assert.Empty(t, likes)
}

func TestCommentWithParentInBody(t *testing.T) {
	mux, _ := newTestServer()
	_, token := registerUser(t, mux, "alice", "alice@example.com")
	postID := createPost(t, mux, token, "Post", "content", nil)
	parent := addComment(t, mux, token, postID, "parent")

	w := doJSON(t, mux, "POST", "/comments/"+postID.String(), token, AddCommentRequest{
		Content:  "inline reply",
		ParentID: &parent,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	require.NotNil(t, comment.ParentID)
	assert.Equal(t, parent, *comment.ParentID)

	missing := uuid.New()
	w = doJSON(t, mux, "POST", "/comments/"+postID.String(), token, AddCommentRequest{
		Content:  "dangling",
		ParentID: &missing,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
