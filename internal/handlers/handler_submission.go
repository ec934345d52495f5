package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	portssvc "github.com/taxfolio/self_assessment_app/internal/core/ports/services"
	"github.com/taxfolio/self_assessment_app/internal/dto"
	"github.com/taxfolio/self_assessment_app/internal/middleware"
)

// submissionHandler handles HTTP requests for annual submission sagas.
type submissionHandler struct {
	submissionService portssvc.SubmissionSvcFacade
}

// newSubmissionHandler creates a new submissionHandler.
func newSubmissionHandler(ss portssvc.SubmissionSvcFacade) *submissionHandler {
	return &submissionHandler{
		submissionService: ss,
	}
}

// RegisterSubmissionRoutes registers the submission saga endpoints.
func RegisterSubmissionRoutes(rg *gin.RouterGroup, submissionService portssvc.SubmissionSvcFacade) {
	h := newSubmissionHandler(submissionService)

	submissions := rg.Group("/submissions")
	{
		submissions.POST("", h.startSubmission)
		submissions.GET("/:utr", h.listSubmissions)
		submissions.GET("/:utr/:taxYear", h.getSubmission)
		submissions.POST("/:utr/:taxYear/advance", h.advanceSubmission)
		submissions.POST("/:utr/:taxYear/retry", h.retrySubmission)
	}
}

// bindIdentity parses the UTR and tax year path parameters.
func bindIdentity(c *gin.Context) (string, domain.TaxYear, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	utr := c.Param("utr")
	if len(utr) != 10 {
		logger.Warn("Invalid UTR in path")
		c.JSON(http.StatusBadRequest, gin.H{"error": "UTR must be 10 digits"})
		return "", domain.TaxYear{}, false
	}
	taxYear, err := domain.ParseTaxYear(c.Param("taxYear"))
	if err != nil {
		logger.Warn("Invalid tax year in path", slog.String("tax_year", c.Param("taxYear")))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", domain.TaxYear{}, false
	}
	return utr, taxYear, true
}

// respondSubmission maps service results and errors to HTTP responses. The
// saga may be non-nil alongside a retryable error, in which case the caller
// still gets the persisted state.
func respondSubmission(c *gin.Context, saga *domain.SubmissionSaga, err error, okStatus int) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrUnavailable):
			// The step failed but the saga survived; report both.
			resp := gin.H{"error": "Tax authority unavailable, submission will resume on retry"}
			if saga != nil {
				resp["submission"] = dto.ToSubmissionResponse(saga)
			}
			c.JSON(http.StatusServiceUnavailable, resp)
		default:
			logger.Error("Submission operation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Submission operation failed"})
		}
		return
	}
	c.JSON(okStatus, dto.ToSubmissionResponse(saga))
}

// startSubmission godoc
// @Summary Start or resume an annual submission
// @Description Creates the submission workflow for the (UTR, tax year) pair if absent, then drives it as far as the tax authority allows. Safe to call repeatedly.
// @Tags submissions
// @Accept  json
// @Produce  json
// @Param   submission body dto.StartSubmissionRequest true "Submission identity"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Tax authority unavailable"
// @Security BearerAuth
// @Router /submissions [post]
func (h *submissionHandler) startSubmission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StartSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartSubmission", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	taxYear, err := domain.ParseTaxYear(req.TaxYear)
	if err != nil {
		logger.Warn("Invalid tax year", slog.String("tax_year", req.TaxYear))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Received request to start submission", slog.String("tax_year", taxYear.String()))

	saga, err := h.submissionService.StartOrResumeSubmission(c.Request.Context(), req.UTR, taxYear)
	respondSubmission(c, saga, err, http.StatusOK)
}

// getSubmission godoc
// @Summary Get a submission's state
// @Description Returns the saga state, breakdown snapshot, confirmation reference and last recorded error
// @Tags submissions
// @Produce  json
// @Param   utr path string true "Unique Taxpayer Reference (10 digits)"
// @Param   taxYear path string true "Tax year, e.g. 2024-25"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 404 {object} map[string]string "Submission not found"
// @Security BearerAuth
// @Router /submissions/{utr}/{taxYear} [get]
func (h *submissionHandler) getSubmission(c *gin.Context) {
	utr, taxYear, ok := bindIdentity(c)
	if !ok {
		return
	}

	saga, err := h.submissionService.GetSubmission(c.Request.Context(), utr, taxYear)
	respondSubmission(c, saga, err, http.StatusOK)
}

// listSubmissions godoc
// @Summary List a taxpayer's submissions
// @Description Returns the taxpayer's submission workflows, newest tax year first
// @Tags submissions
// @Produce  json
// @Param   utr path string true "Unique Taxpayer Reference (10 digits)"
// @Param   limit query int false "Page size (max 20)"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListSubmissionsResponse
// @Security BearerAuth
// @Router /submissions/{utr} [get]
func (h *submissionHandler) listSubmissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	utr := c.Param("utr")
	if len(utr) != 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "UTR must be 10 digits"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sagas, err := h.submissionService.ListSubmissions(c.Request.Context(), utr, limit, offset)
	if err != nil {
		logger.Error("Failed to list submissions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list submissions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListSubmissionsResponse(sagas))
}

// advanceSubmission godoc
// @Summary Advance a submission by one step
// @Description Performs exactly one transition out of the saga's current state, with at most one call to the tax authority
// @Tags submissions
// @Produce  json
// @Param   utr path string true "Unique Taxpayer Reference (10 digits)"
// @Param   taxYear path string true "Tax year, e.g. 2024-25"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 404 {object} map[string]string "Submission not found"
// @Failure 409 {object} map[string]string "Submission already completed or failed"
// @Failure 503 {object} map[string]string "Tax authority unavailable"
// @Security BearerAuth
// @Router /submissions/{utr}/{taxYear}/advance [post]
func (h *submissionHandler) advanceSubmission(c *gin.Context) {
	utr, taxYear, ok := bindIdentity(c)
	if !ok {
		return
	}

	saga, err := h.submissionService.AdvanceSubmission(c.Request.Context(), utr, taxYear)
	respondSubmission(c, saga, err, http.StatusOK)
}

// retrySubmission godoc
// @Summary Retry a failed submission
// @Description Moves a FAILED saga back to the state it fell from and re-attempts that transition
// @Tags submissions
// @Produce  json
// @Param   utr path string true "Unique Taxpayer Reference (10 digits)"
// @Param   taxYear path string true "Tax year, e.g. 2024-25"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 404 {object} map[string]string "Submission not found"
// @Failure 409 {object} map[string]string "Submission is not in a failed state"
// @Failure 503 {object} map[string]string "Tax authority unavailable"
// @Security BearerAuth
// @Router /submissions/{utr}/{taxYear}/retry [post]
func (h *submissionHandler) retrySubmission(c *gin.Context) {
	utr, taxYear, ok := bindIdentity(c)
	if !ok {
		return
	}

	saga, err := h.submissionService.RetrySubmission(c.Request.Context(), utr, taxYear)
	respondSubmission(c, saga, err, http.StatusOK)
}
