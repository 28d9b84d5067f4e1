package handler

import (
	"time"

	appcouple "github.com/coupleledger/backend/internal/application/couple"
	"github.com/coupleledger/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler issues access tokens for couple members. Identity lives
// outside this service; the caller presents the couple and user IDs it
// obtained from the identity provider, and we verify the membership
// before signing a token for that tenant.
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	couples    *appcouple.CoupleService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtService *auth.JWTService, couples *appcouple.CoupleService) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		couples:    couples,
	}
}

// TokenRequest represents a request for an access token
type TokenRequest struct {
	CoupleID uuid.UUID `json:"couple_id" binding:"required"`
	UserID   uuid.UUID `json:"user_id" binding:"required"`
}

// TokenResponse represents an issued access token
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IssueToken handles POST /auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cpl, err := h.couples.Get(c.Request.Context(), req.CoupleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if req.UserID != cpl.UserAID && req.UserID != cpl.UserBID {
		h.Forbidden(c, "User does not belong to this couple")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(req.CoupleID, req.UserID)
	if err != nil {
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/token", h.IssueToken)
	}
}
