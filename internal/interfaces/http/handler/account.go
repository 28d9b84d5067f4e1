package handler

import (
	appledger "github.com/coupleledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles account API endpoints
type AccountHandler struct {
	BaseHandler
	service *appledger.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service *appledger.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Personal bool   `json:"personal"`
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
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

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), coupleID, userID, appledger.CreateAccountInput{
		Name:     req.Name,
		Personal: req.Personal,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	accounts, err := h.service.List(c.Request.Context(), coupleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, accounts)
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, "INVALID_ID", "Invalid account ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), coupleID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.List)
		accounts.POST("", h.Create)
		accounts.GET("/:id", h.Get)
	}
}
