// ABOUTME: Post handlers: create, list, get, delete, like toggle, comments
// ABOUTME: Every mutation checks the ownership policy before touching the store

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jgrassis/devconnect/internal/auth"
	"github.com/jgrassis/devconnect/internal/store"
)

// CreatePostRequest is the JSON request body for POST /posts.
type CreatePostRequest struct {
	Text string `json:"text"`
}

// CommentRequest is the JSON request body for POST /posts/:post_id/comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// LikeResponse is the JSON shape of a single like.
type LikeResponse struct {
	IdentityID string `json:"identity_id"`
	CreatedAt  string `json:"created_at"`
}

// CommentResponse is the JSON shape of a comment within a post.
type CommentResponse struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	Text         string `json:"text"`
	CreatedAt    string `json:"created_at"`
}

// PostResponse is the JSON shape of a post with likes and comments.
type PostResponse struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	AuthorName   string            `json:"author_name"`
	AuthorAvatar string            `json:"author_avatar"`
	Text         string            `json:"text"`
	Likes        []LikeResponse    `json:"likes"`
	Comments     []CommentResponse `json:"comments"`
	CreatedAt    string            `json:"created_at"`
}

func likeResponses(likes []store.Like) []LikeResponse {
	out := make([]LikeResponse, len(likes))
	for i, like := range likes {
		out[i] = LikeResponse{
			IdentityID: like.IdentityID,
			CreatedAt:  like.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}

func commentResponses(comments []store.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		out[i] = CommentResponse{
			ID:           comment.ID,
			OwnerID:      comment.OwnerID,
			AuthorName:   comment.AuthorName,
			AuthorAvatar: comment.AuthorAvatar,
			Text:         comment.Body,
			CreatedAt:    comment.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}

func postResponse(post *store.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		OwnerID:      post.OwnerID,
		AuthorName:   post.AuthorName,
		AuthorAvatar: post.AuthorAvatar,
		Text:         post.Body,
		Likes:        likeResponses(post.Likes),
		Comments:     commentResponses(post.Comments),
		CreatedAt:    post.CreatedAt.Format(time.RFC3339),
	}
}

// loadActor loads the acting identity's row for denormalized author
// fields, translating a deleted identity into a 401.
func (s *Server) loadActor(w http.ResponseWriter, r *http.Request) (*store.Identity, bool) {
	identityID := auth.MustIdentityFromContext(r.Context())
	identity, err := s.store.GetIdentity(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "token is not valid")
			return nil, false
		}
		s.internalError(w, "failed to load identity", err)
		return nil, false
	}
	return identity, true
}

// handleCreatePost handles POST /posts.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		s.sendValidationErrors(w, []string{"Text is required"})
		return
	}

	actor, ok := s.loadActor(w, r)
	if !ok {
		return
	}

	post := &store.Post{
		ID:           uuid.New().String(),
		OwnerID:      actor.ID,
		AuthorName:   actor.Name,
		AuthorAvatar: actor.Avatar,
		Body:         req.Text,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreatePost(r.Context(), post); err != nil {
		s.internalError(w, "failed to create post", err)
		return
	}

	s.sendJSON(w, http.StatusOK, postResponse(post))
}

// handleListPosts handles GET /posts, newest-first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		s.internalError(w, "failed to list posts", err)
		return
	}

	out := make([]PostResponse, len(posts))
	for i, post := range posts {
		out[i] = postResponse(post)
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleGetPost handles GET /posts/:post_id.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.GetPost(r.Context(), param(r, "post_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, "failed to get post", err)
		return
	}

	s.sendJSON(w, http.StatusOK, postResponse(post))
}

// handleDeletePost handles DELETE /posts/:post_id.
// Only the post owner may delete; the store predicate repeats the
// checked owner id so the check and the delete hit the same row.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())
	postID := param(r, "post_id")

	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, "failed to get post", err)
		return
	}

	if !auth.Authorize(identityID, post.OwnerID) {
		s.logger.Warn("unauthorized post deletion attempt", "post", postID, "actor", identityID)
		s.sendJSONError(w, http.StatusUnauthorized, "User is not authorized to delete this post")
		return
	}

	if err := s.store.DeletePost(r.Context(), postID, post.OwnerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, "failed to delete post", err)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]string{"msg": fmt.Sprintf("Post %s deleted", postID)})
}

// handleToggleLike handles PUT /posts/:post_id/like.
// Liking an already-liked post removes the like.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())

	likes, err := s.store.ToggleLike(r.Context(), param(r, "post_id"), identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, "failed to toggle like", err)
		return
	}

	s.sendJSON(w, http.StatusOK, likeResponses(likes))
}

// handleAddComment handles POST /posts/:post_id/comments.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		s.sendValidationErrors(w, []string{"Comment text is required"})
		return
	}

	actor, ok := s.loadActor(w, r)
	if !ok {
		return
	}

	postID := param(r, "post_id")
	comment := &store.Comment{
		ID:           uuid.New().String(),
		PostID:       postID,
		OwnerID:      actor.ID,
		AuthorName:   actor.Name,
		AuthorAvatar: actor.Avatar,
		Body:         req.Text,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.AddComment(r.Context(), comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, "failed to add comment", err)
		return
	}

	comments, err := s.store.ListComments(r.Context(), postID)
	if err != nil {
		s.internalError(w, "failed to list comments", err)
		return
	}

	s.sendJSON(w, http.StatusOK, commentResponses(comments))
}

// handleDeleteComment handles DELETE /posts/:post_id/comments/:comment_id.
// A comment may be removed by its author or by the post owner; it is
// located strictly by its own id.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())
	postID := param(r, "post_id")
	commentID := param(r, "comment_id")

	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, "failed to get post", err)
		return
	}

	var comment *store.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		s.sendJSONError(w, http.StatusNotFound, "Comment not found")
		return
	}

	if !auth.Authorize(identityID, comment.OwnerID) && !auth.Authorize(identityID, post.OwnerID) {
		s.logger.Warn("unauthorized comment deletion attempt",
			"post", postID, "comment", commentID, "actor", identityID)
		s.sendJSONError(w, http.StatusUnauthorized, "Unauthorized to delete this comment")
		return
	}

	if err := s.store.DeleteComment(r.Context(), postID, commentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "Comment not found")
			return
		}
		s.internalError(w, "failed to delete comment", err)
		return
	}

	comments, err := s.store.ListComments(r.Context(), postID)
	if err != nil {
		s.internalError(w, "failed to list comments", err)
		return
	}

	s.sendJSON(w, http.StatusOK, commentResponses(comments))
}
