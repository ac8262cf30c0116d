// ABOUTME: End-to-end tests for the HTTP API against a real SQLite store
// ABOUTME: Covers registration, sessions, posts, likes, comments and profiles

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"

	"github.com/jgrassis/devconnect/internal/auth"
	"github.com/jgrassis/devconnect/internal/store"
)

var testSecret = []byte("api-test-secret-of-sufficient-len!!")

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	verifier, err := auth.NewJWTVerifier(testSecret)
	require.NoError(t, err)

	return New(st, verifier, auth.DefaultTokenTTL, nil).Handler()
}

// register creates an account and returns its session token.
func register(t *testing.T, handler http.Handler, name, email string) string {
	t.Helper()

	result := apitest.New().
		Handler(handler).
		Post("/identities").
		JSON(map[string]string{"name": name, "email": email, "password": "secret123"}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		End()

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(result.Response.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

// createPost posts as the token holder and returns the new post id.
func createPost(t *testing.T, handler http.Handler, token, text string) string {
	t.Helper()

	result := apitest.New().
		Handler(handler).
		Post("/posts").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"text": text}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.text", text)).
		End()

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(result.Response.Body).Decode(&body))
	require.NotEmpty(t, body.ID)
	return body.ID
}

func TestHealth(t *testing.T) {
	apitest.New().
		Handler(newTestHandler(t)).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "ok")).
		End()
}

func TestRegister_Validation(t *testing.T) {
	apitest.New().
		Handler(newTestHandler(t)).
		Post("/identities").
		JSON(map[string]string{"name": "", "email": "not-an-email", "password": "123"}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Name is required")).
		Assert(jsonpath.Equal("$.errors[1].msg", "Please include a valid email")).
		Assert(jsonpath.Equal("$.errors[2].msg", "Please enter a password with 6 or more characters")).
		End()
}

func TestRegister_DuplicateEmail(t *testing.T) {
	handler := newTestHandler(t)
	register(t, handler, "Alice", "alice@example.com")

	apitest.New().
		Handler(handler).
		Post("/identities").
		JSON(map[string]string{"name": "Also Alice", "email": "Alice@Example.com", "password": "secret123"}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "User already exists")).
		End()
}

func TestLogin(t *testing.T) {
	handler := newTestHandler(t)
	register(t, handler, "Alice", "alice@example.com")

	apitest.New().
		Handler(handler).
		Post("/sessions").
		JSON(map[string]string{"email": "alice@example.com", "password": "secret123"}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		End()

	// Wrong password and unknown email produce the same body.
	apitest.New().
		Handler(handler).
		Post("/sessions").
		JSON(map[string]string{"email": "alice@example.com", "password": "wrong-password"}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Credentials are invalid")).
		End()

	apitest.New().
		Handler(handler).
		Post("/sessions").
		JSON(map[string]string{"email": "nobody@example.com", "password": "secret123"}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Credentials are invalid")).
		End()
}

func TestSessionsMe(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")

	apitest.New().
		Handler(handler).
		Get("/sessions/me").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.name", "Alice")).
		Assert(jsonpath.Equal("$.email", "alice@example.com")).
		Assert(jsonpath.NotPresent("$.password")).
		Assert(jsonpath.NotPresent("$.password_hash")).
		End()
}

func TestAuthGate(t *testing.T) {
	handler := newTestHandler(t)

	apitest.New().
		Handler(handler).
		Get("/sessions/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "no token, authorization denied")).
		End()

	apitest.New().
		Handler(handler).
		Get("/sessions/me").
		Header("Authorization", "Bearer not.a.token").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "token is not valid")).
		End()
}

func TestPosts_CreateListGet(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")

	postID := createPost(t, handler, token, "first post")
	createPost(t, handler, token, "second post")

	// Newest first.
	apitest.New().
		Handler(handler).
		Get("/posts").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 2)).
		Assert(jsonpath.Equal("$[0].text", "second post")).
		Assert(jsonpath.Equal("$[1].text", "first post")).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/"+postID).
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.text", "first post")).
		Assert(jsonpath.Equal("$.author_name", "Alice")).
		Assert(jsonpath.Len("$.likes", 0)).
		Assert(jsonpath.Len("$.comments", 0)).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/no-such-post").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "Post not found")).
		End()
}

func TestPosts_CreateValidation(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")

	apitest.New().
		Handler(handler).
		Post("/posts").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"text": "   "}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Text is required")).
		End()
}

func TestPosts_DeleteOwnership(t *testing.T) {
	handler := newTestHandler(t)
	aliceToken := register(t, handler, "Alice", "alice@example.com")
	bobToken := register(t, handler, "Bob", "bob@example.com")

	postID := createPost(t, handler, aliceToken, "alice's post")

	// Bob cannot delete Alice's post.
	apitest.New().
		Handler(handler).
		Delete("/posts/"+postID).
		Header("Authorization", "Bearer "+bobToken).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "User is not authorized to delete this post")).
		End()

	// The post survives the failed attempt.
	apitest.New().
		Handler(handler).
		Get("/posts/"+postID).
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Delete("/posts/"+postID).
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.msg")).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/"+postID).
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestPosts_LikeToggle(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")
	postID := createPost(t, handler, token, "likeable")

	apitest.New().
		Handler(handler).
		Put("/posts/"+postID+"/like").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		End()

	// Liking again removes the like.
	apitest.New().
		Handler(handler).
		Put("/posts/"+postID+"/like").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 0)).
		End()

	apitest.New().
		Handler(handler).
		Put("/posts/no-such-post/like").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "Post not found")).
		End()
}

func TestPosts_Comments(t *testing.T) {
	handler := newTestHandler(t)
	aliceToken := register(t, handler, "Alice", "alice@example.com")
	bobToken := register(t, handler, "Bob", "bob@example.com")
	carolToken := register(t, handler, "Carol", "carol@example.com")

	postID := createPost(t, handler, aliceToken, "discuss")

	result := apitest.New().
		Handler(handler).
		Post("/posts/"+postID+"/comments").
		Header("Authorization", "Bearer "+bobToken).
		JSON(map[string]string{"text": "nice post"}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].text", "nice post")).
		Assert(jsonpath.Equal("$[0].author_name", "Bob")).
		End()

	var comments []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(result.Response.Body).Decode(&comments))
	require.Len(t, comments, 1)
	commentID := comments[0].ID

	apitest.New().
		Handler(handler).
		Post("/posts/"+postID+"/comments").
		Header("Authorization", "Bearer "+bobToken).
		JSON(map[string]string{"text": ""}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Comment text is required")).
		End()

	// Carol is neither the comment author nor the post owner.
	apitest.New().
		Handler(handler).
		Delete("/posts/"+postID+"/comments/"+commentID).
		Header("Authorization", "Bearer "+carolToken).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "Unauthorized to delete this comment")).
		End()

	// The post owner may remove any comment on the post.
	apitest.New().
		Handler(handler).
		Delete("/posts/"+postID+"/comments/"+commentID).
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 0)).
		End()

	apitest.New().
		Handler(handler).
		Delete("/posts/"+postID+"/comments/"+commentID).
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "Comment not found")).
		End()
}

func TestProfiles_Upsert(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")

	apitest.New().
		Handler(handler).
		Get("/profiles/me").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "There's no profile for this user")).
		End()

	apitest.New().
		Handler(handler).
		Post("/profiles").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"status": "", "skills": ""}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Status is required")).
		Assert(jsonpath.Equal("$.errors[1].msg", "Skills is required")).
		End()

	apitest.New().
		Handler(handler).
		Post("/profiles").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{
			"status":   "Developer",
			"skills":   "Go, SQL , HTTP",
			"company":  "Acme",
			"twitter":  "https://twitter.com/alice",
			"linkedin": "https://linkedin.com/in/alice",
		}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "Developer")).
		Assert(jsonpath.Len("$.skills", 3)).
		Assert(jsonpath.Equal("$.skills[1]", "SQL")).
		Assert(jsonpath.Equal("$.social.twitter", "https://twitter.com/alice")).
		End()

	// A second upsert replaces mutable fields on the same profile.
	apitest.New().
		Handler(handler).
		Post("/profiles").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"status": "Senior Developer", "skills": "Go"}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "Senior Developer")).
		Assert(jsonpath.Len("$.skills", 1)).
		End()

	apitest.New().
		Handler(handler).
		Get("/profiles").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].owner_name", "Alice")).
		End()
}

func TestProfiles_GetByUser(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")

	result := apitest.New().
		Handler(handler).
		Post("/profiles").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"status": "Developer", "skills": "Go"}).
		Expect(t).
		Status(http.StatusOK).
		End()

	var profile struct {
		OwnerID string `json:"owner_id"`
	}
	require.NoError(t, json.NewDecoder(result.Response.Body).Decode(&profile))

	apitest.New().
		Handler(handler).
		Get("/profiles/user/"+profile.OwnerID).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.owner_name", "Alice")).
		End()

	apitest.New().
		Handler(handler).
		Get("/profiles/user/no-such-user").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "Profile not found")).
		End()
}

func TestProfiles_Experience(t *testing.T) {
	handler := newTestHandler(t)
	token := register(t, handler, "Alice", "alice@example.com")

	apitest.New().
		Handler(handler).
		Post("/profiles").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"status": "Developer", "skills": "Go"}).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Put("/profiles/experience").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]string{"title": "", "company": "", "from": ""}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Title is required")).
		Assert(jsonpath.Equal("$.errors[1].msg", "Company is required")).
		Assert(jsonpath.Equal("$.errors[2].msg", "From Date is required")).
		End()

	result := apitest.New().
		Handler(handler).
		Put("/profiles/experience").
		Header("Authorization", "Bearer "+token).
		JSON(map[string]any{
			"title":   "Engineer",
			"company": "Acme",
			"from":    "2020-01-01",
			"current": true,
		}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$.experience", 1)).
		Assert(jsonpath.Equal("$.experience[0].title", "Engineer")).
		End()

	var profile struct {
		Experience []struct {
			ID string `json:"id"`
		} `json:"experience"`
	}
	require.NoError(t, json.NewDecoder(result.Response.Body).Decode(&profile))
	require.Len(t, profile.Experience, 1)

	apitest.New().
		Handler(handler).
		Delete("/profiles/experience/"+profile.Experience[0].ID).
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$.experience", 0)).
		End()
}

func TestDeleteAccount_Cascades(t *testing.T) {
	handler := newTestHandler(t)
	aliceToken := register(t, handler, "Alice", "alice@example.com")
	bobToken := register(t, handler, "Bob", "bob@example.com")

	createPost(t, handler, aliceToken, "alice's post")
	bobPostID := createPost(t, handler, bobToken, "bob's post")

	apitest.New().
		Handler(handler).
		Post("/profiles").
		Header("Authorization", "Bearer "+aliceToken).
		JSON(map[string]string{"status": "Developer", "skills": "Go"}).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Delete("/profiles").
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.msg", "User deleted")).
		End()

	// The signature still verifies but the identity row is gone.
	apitest.New().
		Handler(handler).
		Get("/sessions/me").
		Header("Authorization", "Bearer "+aliceToken).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error", "token is not valid")).
		End()

	apitest.New().
		Handler(handler).
		Post("/sessions").
		JSON(map[string]string{"email": "alice@example.com", "password": "secret123"}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.errors[0].msg", "Credentials are invalid")).
		End()

	// Alice's post and profile are gone; Bob's post survives.
	apitest.New().
		Handler(handler).
		Get("/posts").
		Header("Authorization", "Bearer "+bobToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].id", bobPostID)).
		End()

	apitest.New().
		Handler(handler).
		Get("/profiles").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 0)).
		End()
}

func TestUnknownRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
