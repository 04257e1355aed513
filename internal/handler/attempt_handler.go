package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shailesh1606/TestMocker/internal/model"
	"github.com/shailesh1606/TestMocker/internal/repository"
	"github.com/shailesh1606/TestMocker/internal/response"
)

// AttemptHandler exposes the persisted attempt history.
type AttemptHandler struct {
	repo *repository.AttemptRepository
	log  zerolog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(repo *repository.AttemptRepository, log zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		repo: repo,
		log:  log.With().Str("component", "attempt_handler").Logger(),
	}
}

// ListAttempts godoc
// GET /api/v1/attempts?page=&per_page=
// Returns attempt records across all past sessions, newest first.
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	attempts, total, err := h.repo.ListRecent(c.Request.Context(), page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("List attempts failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": attempts}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	})
}

// GetAttempt godoc
// GET /api/v1/attempts/:attempt_id
// Returns the per-question records of one attempt.
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	attempts, err := h.repo.ListByAttemptID(c.Request.Context(), attemptID)
	if err != nil {
		h.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Get attempt failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if len(attempts) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// DeleteAttempt godoc
// DELETE /api/v1/attempts/:attempt_id
// Removes all records of one attempt.
func (h *AttemptHandler) DeleteAttempt(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	deleted, err := h.repo.ClearByAttemptID(c.Request.Context(), attemptID)
	if err != nil {
		h.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Delete attempt failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if deleted == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}
