package handler

import (
	appcouple "github.com/coupleledger/backend/internal/application/couple"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CoupleHandler handles couple profile and quota API endpoints
type CoupleHandler struct {
	BaseHandler
	service *appcouple.CoupleService
}

// NewCoupleHandler creates a new CoupleHandler
func NewCoupleHandler(service *appcouple.CoupleService) *CoupleHandler {
	return &CoupleHandler{service: service}
}

// Create handles POST /couples. This is the onboarding endpoint: the
// couple created here becomes the tenant every other call is scoped to.
func (h *CoupleHandler) Create(c *gin.Context) {
	var input appcouple.CreateCoupleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /couples/me
func (h *CoupleHandler) Get(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), coupleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateAllowance handles PUT /couples/me/allowance
func (h *CoupleHandler) UpdateAllowance(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	var input appcouple.UpdateAllowanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateAllowance(c.Request.Context(), coupleID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdatePolicies handles PUT /couples/me/policies
func (h *CoupleHandler) UpdatePolicies(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	var input appcouple.UpdatePoliciesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdatePolicies(c.Request.Context(), coupleID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetQuota handles GET /couples/me/quota. It returns the requesting
// member's own free-spending quota.
func (h *CoupleHandler) GetQuota(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}
	userID, err := getUserID(c)
	if err != nil || userID == uuid.Nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), coupleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	switch userID {
	case resp.UserAID:
		h.Success(c, resp.QuotaA)
	case resp.UserBID:
		h.Success(c, resp.QuotaB)
	default:
		h.Forbidden(c, "User does not belong to this couple")
	}
}

// RegisterRoutes registers all couple routes
func (h *CoupleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	couples := rg.Group("/couples")
	{
		couples.POST("", h.Create)
		couples.GET("/me", h.Get)
		couples.PUT("/me/allowance", h.UpdateAllowance)
		couples.PUT("/me/policies", h.UpdatePolicies)
		couples.GET("/me/quota", h.GetQuota)
	}
}
