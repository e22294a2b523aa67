package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/utils"
)

// newTestServer wires a Server against the in-memory mock store.
func newTestServer() (*http.ServeMux, *database.MockStore) {
	store := database.NewMock()
	server := NewServer(store, utils.NewMetricsCollector(), "")
	return server.Routes(), store
}

// doJSON performs a request through the router, optionally authenticated
// and with a JSON body.
func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// registerUser creates an account through the API and returns its identity
// and bearer token.
func registerUser(t *testing.T, mux *http.ServeMux, username, email string) (uuid.UUID, string) {
	t.Helper()

	w := doJSON(t, mux, "POST", "/users/register", "", RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
		Bio:      "test bio",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.ID, resp.Token
}

// createPost creates a post through the API and returns its ID.
func createPost(t *testing.T, mux *http.ServeMux, token, title, content string, tags []string) uuid.UUID {
	t.Helper()

	w := doJSON(t, mux, "POST", "/posts", token, CreatePostRequest{
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var post struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	return post.ID
}

// addComment posts a comment and returns its ID.
func addComment(t *testing.T, mux *http.ServeMux, token string, postID uuid.UUID, content string) uuid.UUID {
	t.Helper()

	w := doJSON(t, mux, "POST", "/comments/"+postID.String(), token, AddCommentRequest{Content: content})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var comment struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	return comment.ID
}

// addReply replies to a comment and returns the reply's ID.
func addReply(t *testing.T, mux *http.ServeMux, token string, parentID uuid.UUID, content string) uuid.UUID {
	t.Helper()

	w := doJSON(t, mux, "POST", "/comments/reply/"+parentID.String(), token, EditCommentRequest{Content: content})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var comment struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	return comment.ID
}

func errorMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Msg
}
