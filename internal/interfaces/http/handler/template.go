package handler

import (
	apprecurrence "github.com/coupleledger/backend/internal/application/recurrence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TemplateHandler handles recurring transaction template API endpoints
type TemplateHandler struct {
	BaseHandler
	service *apprecurrence.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(service *apprecurrence.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// Create handles POST /recurring-templates
func (h *TemplateHandler) Create(c *gin.Context) {
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

	var input apprecurrence.CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), coupleID, userID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /recurring-templates
func (h *TemplateHandler) List(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	templates, err := h.service.List(c.Request.Context(), coupleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, templates)
}

// Get handles GET /recurring-templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, "INVALID_ID", "Invalid template ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), coupleID, templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate handles POST /recurring-templates/:id/deactivate. Already
// generated transactions are left untouched.
func (h *TemplateHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

// Reactivate handles POST /recurring-templates/:id/reactivate
func (h *TemplateHandler) Reactivate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *TemplateHandler) setActive(c *gin.Context, active bool) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, "INVALID_ID", "Invalid template ID")
		return
	}

	var resp *apprecurrence.TemplateResponse
	if active {
		resp, err = h.service.Reactivate(c.Request.Context(), coupleID, templateID)
	} else {
		resp, err = h.service.Deactivate(c.Request.Context(), coupleID, templateID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all recurring template routes
func (h *TemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/recurring-templates")
	{
		templates.GET("", h.List)
		templates.POST("", h.Create)
		templates.GET("/:id", h.Get)
		templates.POST("/:id/deactivate", h.Deactivate)
		templates.POST("/:id/reactivate", h.Reactivate)
	}
}
