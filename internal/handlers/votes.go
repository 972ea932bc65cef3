package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/dto"
	"postboard/internal/utils"
)

// VotesHandler manages the voting endpoint
type VotesHandler struct {
	db     database.Pool
	config *config.Config
	logger *zap.Logger
}

// NewVotesHandler creates a new VotesHandler
func NewVotesHandler(db database.Pool, cfg *config.Config, logger *zap.Logger) *VotesHandler {
	return &VotesHandler{db: db, config: cfg, logger: logger}
}

// VotePost handles POST /api/v1/votes/
// @Summary Vote a post
// @Description Cast (dir=1) or withdraw (dir=0) an upvote on a post
// @Tags Votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.VoteRequest true "Vote payload"
// @Success 201 {object} dto.MessageResponse "Vote created"
// @Success 204 "Vote deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post or vote not found"
// @Failure 409 {object} dto.ErrorResponse "Post already voted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/votes/ [post]
func (h *VotesHandler) VotePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req dto.VoteRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if req.Dir != 0 && req.Dir != 1 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "dir must be 0 or 1")
		return
	}

	var postID int64
	err := h.db.QueryRow(r.Context(),
		"SELECT id FROM posts WHERE id = $1", req.PostID).Scan(&postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Post not found")
			return
		}
		internalError(w, h.logger, "vote: post lookup failed", err)
		return
	}

	var voted bool
	err = h.db.QueryRow(r.Context(),
		"SELECT EXISTS(SELECT 1 FROM votes WHERE user_id = $1 AND post_id = $2)",
		userID, req.PostID).Scan(&voted)
	if err != nil {
		internalError(w, h.logger, "vote: vote lookup failed", err)
		return
	}

	if req.Dir == 1 {
		if voted {
			utils.WriteErrorResponse(w, http.StatusConflict, "Post already voted by user")
			return
		}
		if _, err := h.db.Exec(r.Context(),
			"INSERT INTO votes (user_id, post_id) VALUES ($1, $2)",
			userID, req.PostID); err != nil {
			internalError(w, h.logger, "vote: insert failed", err)
			return
		}
		utils.WriteJSONResponse(w, http.StatusCreated, dto.MessageResponse{Message: "Successfully added vote"})
		return
	}

	if !voted {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Vote does not exist")
		return
	}
	if _, err := h.db.Exec(r.Context(),
		"DELETE FROM votes WHERE user_id = $1 AND post_id = $2",
		userID, req.PostID); err != nil {
		internalError(w, h.logger, "vote: delete failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
