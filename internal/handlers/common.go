package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"postboard/internal/utils"
)

// internalError logs the underlying cause and answers with a generic body.
// Store error text never reaches the client.
func internalError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
}
