package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/models"
	"postboard/internal/query"
	"postboard/internal/utils"
)

// postsQuery declares the searchable and sortable fields of the post list.
// Search is limited to the title on purpose; content stays out of the
// predicate set.
var postsQuery = query.Definition{
	SearchColumns: []string{"p.title"},
	SortFields: map[string]string{
		"id":         "p.id",
		"title":      "p.title",
		"content":    "p.content",
		"published":  "p.published",
		"created_at": "p.created_at",
		"updated_at": "p.updated_at",
	},
	DefaultSort: "p.id",
}

const postWithVotesSelect = `SELECT p.id, p.title, p.content, p.published, p.owner_id, p.created_at, p.updated_at,
       COUNT(v.post_id) AS votes
  FROM posts p
  LEFT JOIN votes v ON v.post_id = p.id`

// PostsHandler manages post-related endpoints
type PostsHandler struct {
	db     database.Pool
	config *config.Config
	logger *zap.Logger
}

// NewPostsHandler creates a new PostsHandler
func NewPostsHandler(db database.Pool, cfg *config.Config, logger *zap.Logger) *PostsHandler {
	return &PostsHandler{db: db, config: cfg, logger: logger}
}

// Posts dispatches by HTTP method for /api/v1/posts/
func (h *PostsHandler) Posts(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/posts"), "/")
	switch r.Method {
	case http.MethodGet:
		if rest != "" {
			h.PostDetail(w, r, rest)
			return
		}
		h.ListPosts(w, r)
	case http.MethodPost:
		h.CreatePost(w, r)
	case http.MethodPut:
		h.UpdatePost(w, r, rest)
	case http.MethodDelete:
		h.DeletePost(w, r, rest)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListPosts handles GET /api/v1/posts/ with search, sort and pagination
// @Summary List posts
// @Description List posts with their vote counts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param search query string false "case-insensitive title substring"
// @Param sort_by query string false "comma-separated fields, '-' prefix for descending"
// @Param offset query int false "offset"
// @Param limit query int false "items per page"
// @Success 200 {array} dto.PostWithVotes
// @Header 200 {string} Total-Count "total rows"
// @Header 200 {string} Total-Count-Filtered "rows matching search"
// @Header 200 {string} Pagination-Pages "ceil(total/limit)"
// @Failure 400 {object} dto.ErrorResponse "Invalid sort field"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/posts/ [get]
func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	p := query.ParseParams(r.URL.Query(), 10)

	orderBy, err := postsQuery.OrderByClause(p.SortBy)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid sort field")
		return
	}
	where, args := postsQuery.SearchClause(p.Search)

	var total int
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		internalError(w, h.logger, "list posts: total count failed", err)
		return
	}
	filtered := total
	if where != "" {
		if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&filtered); err != nil {
			internalError(w, h.logger, "list posts: filtered count failed", err)
			return
		}
	}

	rows, err := h.db.Query(r.Context(),
		postWithVotesSelect+where+" GROUP BY p.id ORDER BY "+orderBy+query.LimitOffsetClause(p), args...)
	if err != nil {
		internalError(w, h.logger, "list posts: query failed", err)
		return
	}
	defer rows.Close()

	posts := make([]dto.PostWithVotes, 0, p.Limit)
	for rows.Next() {
		var post models.Post
		var votes int64
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Published,
			&post.OwnerID, &post.CreatedAt, &post.UpdatedAt, &votes); err != nil {
			internalError(w, h.logger, "list posts: scan failed", err)
			return
		}
		posts = append(posts, dto.PostWithVotes{Post: toPostResponse(post), Votes: votes})
	}
	if err := rows.Err(); err != nil {
		internalError(w, h.logger, "list posts: rows failed", err)
		return
	}

	query.SetPaginationHeaders(w, total, filtered, p.Limit)
	utils.WriteJSONResponse(w, http.StatusOK, posts)
}

// CreatePost handles POST /api/v1/posts/
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreatePostRequest true "Post payload"
// @Success 201 {object} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/posts/ [post]
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req dto.CreatePostRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Content == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "title and content are required")
		return
	}
	published := true
	if req.Published != nil {
		published = *req.Published
	}

	var post models.Post
	err := h.db.QueryRow(r.Context(),
		`INSERT INTO posts (title, content, published, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, content, published, owner_id, created_at, updated_at`,
		req.Title, req.Content, published, userID).Scan(
		&post.ID, &post.Title, &post.Content, &post.Published,
		&post.OwnerID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		internalError(w, h.logger, "create post: insert failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, toPostResponse(post))
}

// PostDetail handles GET /api/v1/posts/{id}
// @Summary Get post by id
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.PostWithVotes
// @Failure 400 {object} dto.ErrorResponse "Invalid post id"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /api/v1/posts/{id} [get]
func (h *PostsHandler) PostDetail(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parsePostID(w, idStr)
	if !ok {
		return
	}

	var post models.Post
	var votes int64
	err := h.db.QueryRow(r.Context(),
		postWithVotesSelect+" WHERE p.id = $1 GROUP BY p.id", id).Scan(
		&post.ID, &post.Title, &post.Content, &post.Published,
		&post.OwnerID, &post.CreatedAt, &post.UpdatedAt, &votes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Post with id %d not found", id))
			return
		}
		internalError(w, h.logger, "get post: lookup failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.PostWithVotes{Post: toPostResponse(post), Votes: votes})
}

// UpdatePost handles PUT /api/v1/posts/{id}
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param payload body dto.CreatePostRequest true "Post payload"
// @Success 200 {object} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/posts/{id} [put]
func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parsePostID(w, idStr)
	if !ok {
		return
	}
	if !h.checkOwnership(w, r, id) {
		return
	}

	var req dto.CreatePostRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Content == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "title and content are required")
		return
	}
	published := true
	if req.Published != nil {
		published = *req.Published
	}

	var post models.Post
	err := h.db.QueryRow(r.Context(),
		`UPDATE posts SET title = $1, content = $2, published = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING id, title, content, published, owner_id, created_at, updated_at`,
		req.Title, req.Content, published, id).Scan(
		&post.ID, &post.Title, &post.Content, &post.Published,
		&post.OwnerID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		internalError(w, h.logger, "update post: update failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toPostResponse(post))
}

// DeletePost handles DELETE /api/v1/posts/{id}
// @Summary Delete post
// @Tags Posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204 "Post deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid post id"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/posts/{id} [delete]
func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parsePostID(w, idStr)
	if !ok {
		return
	}
	if !h.checkOwnership(w, r, id) {
		return
	}

	if _, err := h.db.Exec(r.Context(), "DELETE FROM posts WHERE id = $1", id); err != nil {
		internalError(w, h.logger, "delete post: delete failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkOwnership verifies the post exists and belongs to the caller, writing
// the 401/404/403 response itself when it does not.
func (h *PostsHandler) checkOwnership(w http.ResponseWriter, r *http.Request, id int64) bool {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return false
	}

	var ownerID int64
	err := h.db.QueryRow(r.Context(), "SELECT owner_id FROM posts WHERE id = $1", id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Post with id %d does not exist", id))
			return false
		}
		internalError(w, h.logger, "post ownership check failed", err)
		return false
	}
	if ownerID != userID {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Not authorized to perform requested action")
		return false
	}
	return true
}

func parsePostID(w http.ResponseWriter, idStr string) (int64, bool) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "post id must be an integer")
		return 0, false
	}
	return id, true
}

func toPostResponse(post models.Post) dto.PostResponse {
	return dto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Published: post.Published,
		OwnerID:   post.OwnerID,
		CreatedAt: utils.FormatTimestamp(post.CreatedAt),
		UpdatedAt: utils.FormatTimestamp(post.UpdatedAt),
	}
}
