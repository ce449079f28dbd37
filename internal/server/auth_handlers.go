package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hauskasse/backend/internal/models"
)

type registerRequest struct {
	HouseholdID string `json:"household_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token  string         `json:"token"`
	Member memberResponse `json:"member"`
}

type memberResponse struct {
	ID          string `json:"id"`
	HouseholdID string `json:"household_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

func newMemberResponse(m *models.Member) memberResponse {
	return memberResponse{
		ID:          m.ID,
		HouseholdID: m.HouseholdID,
		Name:        m.Name,
		Email:       m.Email,
		Role:        string(m.Role),
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.RoleMember
	if req.Role == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}

	member, token, err := s.auth.Register(c.Request.Context(), req.HouseholdID, req.Name, req.Email, req.Password, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{Token: token, Member: newMemberResponse(member)})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, Member: newMemberResponse(member)})
}
