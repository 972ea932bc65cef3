package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/models"
	"postboard/internal/query"
	"postboard/internal/utils"
)

// usersQuery declares the searchable and sortable fields of the user list.
var usersQuery = query.Definition{
	SearchColumns: []string{"email"},
	SortFields: map[string]string{
		"id":         "id",
		"email":      "email",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort: "id",
}

// UsersHandler manages user-related endpoints
type UsersHandler struct {
	db     database.Pool
	config *config.Config
	logger *zap.Logger
}

// NewUsersHandler creates a new UsersHandler
func NewUsersHandler(db database.Pool, cfg *config.Config, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{db: db, config: cfg, logger: logger}
}

// Users dispatches authenticated requests under /api/v1/users/
func (h *UsersHandler) Users(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/users"), "/")
	switch {
	case r.Method == http.MethodGet && rest == "":
		h.ListUsers(w, r)
	case r.Method == http.MethodGet && rest == "me":
		h.Me(w, r)
	case r.Method == http.MethodGet:
		h.UserDetail(w, r, rest)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CreateUser handles POST /api/v1/users/
// @Summary Create user
// @Description Sign up with email and password
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "User payload"
// @Success 201 {object} dto.UserResponse "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/users/ [post]
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.CreateUserRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	var existingID int64
	err := h.db.QueryRow(r.Context(),
		"SELECT id FROM users WHERE email = $1", req.Email).Scan(&existingID)
	if err == nil {
		utils.WriteErrorResponse(w, http.StatusConflict, "This username already exists!")
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		internalError(w, h.logger, "create user: existence check failed", err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(w, h.logger, "create user: password hashing failed", err)
		return
	}

	var user models.User
	err = h.db.QueryRow(r.Context(),
		`INSERT INTO users (email, password) VALUES ($1, $2)
		 RETURNING id, email, created_at, updated_at`,
		req.Email, string(hashedPassword)).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		internalError(w, h.logger, "create user: insert failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, toUserResponse(user))
}

// ListUsers handles GET /api/v1/users/ with search, sort and pagination
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param search query string false "case-insensitive email substring"
// @Param sort_by query string false "comma-separated fields, '-' prefix for descending"
// @Param offset query int false "offset"
// @Param limit query int false "items per page"
// @Success 200 {array} dto.UserResponse
// @Header 200 {string} Total-Count "total rows"
// @Header 200 {string} Total-Count-Filtered "rows matching search"
// @Header 200 {string} Pagination-Pages "ceil(total/limit)"
// @Failure 400 {object} dto.ErrorResponse "Invalid sort field"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/users/ [get]
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := query.ParseParams(r.URL.Query(), 10)

	orderBy, err := usersQuery.OrderByClause(p.SortBy)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid sort field")
		return
	}
	where, args := usersQuery.SearchClause(p.Search)

	var total int
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		internalError(w, h.logger, "list users: total count failed", err)
		return
	}
	filtered := total
	if where != "" {
		if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM users"+where, args...).Scan(&filtered); err != nil {
			internalError(w, h.logger, "list users: filtered count failed", err)
			return
		}
	}

	rows, err := h.db.Query(r.Context(),
		"SELECT id, email, created_at, updated_at FROM users"+where+
			" ORDER BY "+orderBy+query.LimitOffsetClause(p), args...)
	if err != nil {
		internalError(w, h.logger, "list users: query failed", err)
		return
	}
	defer rows.Close()

	users := make([]dto.UserResponse, 0, p.Limit)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			internalError(w, h.logger, "list users: scan failed", err)
			return
		}
		users = append(users, toUserResponse(user))
	}
	if err := rows.Err(); err != nil {
		internalError(w, h.logger, "list users: rows failed", err)
		return
	}

	query.SetPaginationHeaders(w, total, filtered, p.Limit)
	utils.WriteJSONResponse(w, http.StatusOK, users)
}

// Me handles GET /api/v1/users/me
// @Summary Get current user info
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/v1/users/me [get]
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	h.writeUserByID(w, r, userID, "User not found")
}

// UserDetail handles GET /api/v1/users/{id}
// @Summary Get user by id
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/v1/users/{id} [get]
func (h *UsersHandler) UserDetail(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "user id must be an integer")
		return
	}

	h.writeUserByID(w, r, id, fmt.Sprintf("User with: %d does not exists", id))
}

func (h *UsersHandler) writeUserByID(w http.ResponseWriter, r *http.Request, id int64, notFound string) {
	var user models.User
	err := h.db.QueryRow(r.Context(),
		"SELECT id, email, created_at, updated_at FROM users WHERE id = $1",
		id).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusNotFound, notFound)
			return
		}
		internalError(w, h.logger, "get user: lookup failed", err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: utils.FormatTimestamp(user.CreatedAt),
		UpdatedAt: utils.FormatTimestamp(user.UpdatedAt),
	}
}
