package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	portssvc "github.com/taxfolio/self_assessment_app/internal/core/ports/services"
	"github.com/taxfolio/self_assessment_app/internal/dto"
	"github.com/taxfolio/self_assessment_app/internal/middleware"
)

// liabilityHandler handles HTTP requests for liability calculations.
type liabilityHandler struct {
	liabilityService portssvc.LiabilitySvcFacade
}

// newLiabilityHandler creates a new liabilityHandler.
func newLiabilityHandler(ls portssvc.LiabilitySvcFacade) *liabilityHandler {
	return &liabilityHandler{
		liabilityService: ls,
	}
}

// RegisterLiabilityRoutes registers the calculation endpoints.
func RegisterLiabilityRoutes(rg *gin.RouterGroup, liabilityService portssvc.LiabilitySvcFacade) {
	h := newLiabilityHandler(liabilityService)

	liabilities := rg.Group("/liabilities")
	{
		liabilities.POST("/calculate", h.calculateLiability)
	}

	poa := rg.Group("/payments-on-account")
	{
		poa.POST("/evaluate", h.evaluateAdvancePayment)
		poa.POST("/balancing", h.balancingPayment)
	}
}

// calculateLiability godoc
// @Summary Calculate a full tax liability
// @Description Computes income tax, Class 4 and Class 2 National Insurance for one profit figure and tax year
// @Tags liabilities
// @Accept  json
// @Produce  json
// @Param   calculation body dto.CalculateLiabilityRequest true "Calculation input"
// @Success 200 {object} dto.LiabilityBreakdownResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Calculation failed"
// @Security BearerAuth
// @Router /liabilities/calculate [post]
func (h *liabilityHandler) calculateLiability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CalculateLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateLiability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	taxYear, err := domain.ParseTaxYear(req.TaxYear)
	if err != nil {
		logger.Warn("Invalid tax year", slog.String("tax_year", req.TaxYear))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Received request to calculate liability", slog.String("tax_year", taxYear.String()))

	breakdown, err := h.liabilityService.CalculateLiability(c.Request.Context(), req.Profit, taxYear, req.DateOfBirth, req.VoluntaryClass2)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error calculating liability", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to calculate liability", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate liability"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLiabilityBreakdownResponse(&breakdown))
}

// evaluateAdvancePayment godoc
// @Summary Evaluate payments on account
// @Description Decides whether advance payments are required for the next year and schedules the two instalments
// @Tags liabilities
// @Accept  json
// @Produce  json
// @Param   evaluation body dto.AdvancePaymentRequest true "Evaluation input"
// @Success 200 {object} dto.AdvancePaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Evaluation failed"
// @Security BearerAuth
// @Router /payments-on-account/evaluate [post]
func (h *liabilityHandler) evaluateAdvancePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdvancePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EvaluateAdvancePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	taxYear, err := domain.ParseTaxYear(req.TaxYear)
	if err != nil {
		logger.Warn("Invalid tax year", slog.String("tax_year", req.TaxYear))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := h.liabilityService.EvaluateAdvancePayment(c.Request.Context(), req.PreviousLiability, req.IsFirstYear, req.WithheldPercent, taxYear)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error evaluating advance payment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to evaluate advance payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate advance payment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAdvancePaymentResponse(decision))
}

// balancingPayment godoc
// @Summary Compute the balancing payment
// @Description Offsets payments on account against the current year's liability; a negative balance is a refund
// @Tags liabilities
// @Accept  json
// @Produce  json
// @Param   balancing body dto.BalancingPaymentRequest true "Balancing input"
// @Success 200 {object} dto.BalancingPaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /payments-on-account/balancing [post]
func (h *liabilityHandler) balancingPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BalancingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BalancingPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balance := h.liabilityService.BalancingPayment(c.Request.Context(), req.CurrentLiability, req.InstalmentsPaid)

	c.JSON(http.StatusOK, dto.BalancingPaymentResponse{
		Balance: balance,
		Refund:  balance.IsNegative(),
	})
}
