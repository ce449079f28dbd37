package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/middleware"
	"github.com/hauskasse/backend/internal/models"
)

func (s *Server) handleCalculateRatios(c *gin.Context) {
	ratios, err := s.splits.CalculateRatios(c.Request.Context(), middleware.GetHouseholdID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratios": ratios})
}

func (s *Server) handleGetSplitSettings(c *gin.Context) {
	settings, err := s.settings.GetSplitSettings(c.Request.Context(), middleware.GetHouseholdID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	Method string                     `json:"method" binding:"required"`
	Ratios map[string]decimal.Decimal `json:"ratios"`
}

func (s *Server) handleUpdateSplitSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := s.settings.UpdateSplitSettings(
		c.Request.Context(), middleware.GetHouseholdID(c),
		models.SplitMethod(req.Method), req.Ratios,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type createExpenseRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  string          `json:"category_id"`
	Date        int64           `json:"date"`
}

func (s *Server) handleCreateSharedExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expense amount must be positive"})
		return
	}

	tx := &models.Transaction{
		HouseholdID:  middleware.GetHouseholdID(c),
		PaidByUserID: middleware.GetUserID(c),
		Description:  req.Description,
		Amount:       req.Amount,
		CategoryID:   req.CategoryID,
		Date:         req.Date,
	}
	splits, err := s.splits.CreateSharedExpense(c.Request.Context(), tx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx, "splits": splits})
}

func (s *Server) handleDeleteSharedExpense(c *gin.Context) {
	if err := s.splits.DeleteSharedExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSplitsForTransaction(c *gin.Context) {
	splits, err := s.splits.GetSplitsForTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"splits": splits})
}

func (s *Server) handleGetUnpaidSplits(c *gin.Context) {
	splits, err := s.splits.GetUnpaidSplitsForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"splits": splits})
}

func (s *Server) handleGetSplitsOwedToUser(c *gin.Context) {
	splits, err := s.splits.GetUnpaidSplitsOwedToUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"splits": splits})
}

func (s *Server) handleMarkSplitPaid(c *gin.Context) {
	if err := s.splits.MarkSplitAsPaid(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDebtBalance(c *gin.Context) {
	balance, err := s.debts.CalculateDebtBalance(
		c.Request.Context(), middleware.GetUserID(c), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (s *Server) handleDirectionSummary(c *gin.Context) {
	summary, err := s.debts.UnsettledExpensesByDirection(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type recordIncomeRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	RecordedAt int64           `json:"recorded_at"`
}

func (s *Server) handleRecordIncome(c *gin.Context) {
	var req recordIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "income amount must be positive"})
		return
	}
	if req.RecordedAt == 0 {
		req.RecordedAt = time.Now().Unix()
	}

	if err := s.store.RecordIncome(c.Request.Context(), middleware.GetUserID(c), req.Amount, req.RecordedAt); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
