package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/markdown"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/service"
	"github.com/ca27people/backend/internal/transport/http/middleware"
)

// PostHandler handles the posts feed.
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// postDetailResponse bundles a post with its comment thread for the detail
// page, saving the client a second round trip.
type postDetailResponse struct {
	*model.Post
	Comments []model.PostComment `json:"comments"`
}

// List handles GET /api/posts with an optional ?type= filter.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	var postType *string
	if t := r.URL.Query().Get("type"); t != "" {
		postType = &t
	}

	posts, err := h.postService.List(r.Context(), postType, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrInvalidPostType) {
			httputil.WriteBadRequest(w, "Post type must be blog, event or news")
			return
		}
		log.Printf("[PostHandler] List failed: %v", err)
		httputil.WriteInternalError(w, "Failed to load posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Get handles GET /api/posts/{postID}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, comments, err := h.postService.Get(r.Context(), postID, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[PostHandler] Get failed: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to load post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, postDetailResponse{Post: post, Comments: comments})
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writePostValidationError(w, err, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// Update handles PUT /api/posts/{postID}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), actorID, middleware.GetIsAdminFromContext(r.Context()), postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only edit your own posts")
		default:
			h.writePostValidationError(w, err, "Failed to update post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{postID}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	err = h.postService.Delete(r.Context(), actorID, middleware.GetIsAdminFromContext(r.Context()), postID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only delete your own posts")
		default:
			log.Printf("[PostHandler] Delete failed: post=%d err=%v", postID, err)
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// Like handles POST /api/posts/{postID}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	result, err := h.postService.Like(r.Context(), postID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteConflictWithCode(w, model.CodeAlreadyLiked, "Already liked this post")
		default:
			log.Printf("[PostHandler] Like failed: post=%d err=%v", postID, err)
			httputil.WriteInternalError(w, "Failed to like post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Unlike handles DELETE /api/posts/{postID}/like
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	result, err := h.postService.Unlike(r.Context(), postID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteBadRequest(w, "You have not liked this post")
		default:
			log.Printf("[PostHandler] Unlike failed: post=%d err=%v", postID, err)
			httputil.WriteInternalError(w, "Failed to unlike post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Comments handles GET /api/posts/{postID}/comments
func (h *PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	comments, err := h.postService.Comments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[PostHandler] Comments failed: post=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to load comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/posts/{postID}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "postID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.postService.AddComment(r.Context(), postID, actorID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment is too long")
		default:
			log.Printf("[PostHandler] AddComment failed: post=%d err=%v", postID, err)
			httputil.WriteInternalError(w, "Failed to post comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/posts/comments/{commentID}
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	err = h.postService.DeleteComment(r.Context(), actorID, middleware.GetIsAdminFromContext(r.Context()), commentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You cannot delete this comment")
		default:
			log.Printf("[PostHandler] DeleteComment failed: comment=%d err=%v", commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// previewRequest is the body for the markdown preview endpoint.
type previewRequest struct {
	Text string `json:"text"`
}

// Preview handles POST /api/posts/preview. Renders the submitted markdown
// with the same pipeline the detail endpoint uses, so the editor preview
// matches the published page exactly.
func (h *PostHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	httputil.WriteHTML(w, http.StatusOK, markdown.Render(req.Text))
}

func (h *PostHandler) writePostValidationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrTitleRequired):
		httputil.WriteBadRequest(w, "Title is required")
	case errors.Is(err, model.ErrTitleTooLong):
		httputil.WriteBadRequest(w, "Title is too long")
	case errors.Is(err, model.ErrContentTooLong):
		httputil.WriteBadRequest(w, "Content is too long")
	case errors.Is(err, model.ErrInvalidPostType):
		httputil.WriteBadRequest(w, "Post type must be blog, event or news")
	default:
		log.Printf("[PostHandler] %s: %v", fallback, err)
		httputil.WriteInternalError(w, fallback)
	}
}
