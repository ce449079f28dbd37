package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/middleware"
	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/service"
)

type createSettlementRequest struct {
	ReceiverID        string          `json:"receiver_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	PayerAccountID    string          `json:"payer_account_id" binding:"required"`
	ReceiverAccountID string          `json:"receiver_account_id" binding:"required"`
	PaymentMethod     string          `json:"payment_method"`
	CategoryID        string          `json:"category_id"`
	SelectedSplitIDs  []string        `json:"selected_split_ids"`
}

func (s *Server) handleCreateSettlement(c *gin.Context) {
	var req createSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.settlements.CreateSettlement(c.Request.Context(), service.CreateSettlementParams{
		HouseholdID:       middleware.GetHouseholdID(c),
		PayerID:           middleware.GetUserID(c),
		ReceiverID:        req.ReceiverID,
		Amount:            req.Amount,
		PayerAccountID:    req.PayerAccountID,
		ReceiverAccountID: req.ReceiverAccountID,
		PaymentMethod:     req.PaymentMethod,
		CategoryID:        req.CategoryID,
		SelectedSplitIDs:  req.SelectedSplitIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.CountSettlement()
	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleListSettlements(c *gin.Context) {
	settlements, err := s.store.ListSettlementsForHousehold(c.Request.Context(), middleware.GetHouseholdID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}

func (s *Server) handleGetSettlement(c *gin.Context) {
	settlement, err := s.store.GetSettlement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

type createAccountRequest struct {
	Name     string          `json:"name" binding:"required"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency" binding:"required"`
}

func (s *Server) handleCreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := &models.Account{
		OwnerID:  middleware.GetUserID(c),
		Name:     req.Name,
		Balance:  req.Balance,
		Currency: req.Currency,
	}
	if err := s.store.CreateAccount(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (s *Server) handleGetAccount(c *gin.Context) {
	account, err := s.store.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if account.OwnerID != middleware.GetUserID(c) {
		respondError(c, service.ErrAccountOwnership)
		return
	}
	c.JSON(http.StatusOK, account)
}
