package handler

import (
	"time"

	appledger "github.com/coupleledger/backend/internal/application/ledger"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles ledger transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	transactions *appledger.TransactionService
	installments *appledger.InstallmentService
	updates      *appledger.UpdateScopeService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactions *appledger.TransactionService,
	installments *appledger.InstallmentService,
	updates *appledger.UpdateScopeService,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		installments: installments,
		updates:      updates,
	}
}

// RegisterTransactionRequest represents a request to register a transaction
type RegisterTransactionRequest struct {
	AccountID       uuid.UUID `json:"account_id" binding:"required"`
	Type            string    `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount          float64   `json:"amount" binding:"required,gt=0"`
	IsFreeSpending  bool      `json:"is_free_spending"`
	IsCoupleExpense bool      `json:"is_couple_expense"`
	Visibility      string    `json:"visibility" binding:"omitempty,oneof=SHARED PRIVATE"`
	Category        *string   `json:"category"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transaction_date"`
}

// CreateInstallmentRequest represents a request to split a purchase into
// a group of monthly installments
type CreateInstallmentRequest struct {
	AccountID         uuid.UUID `json:"account_id" binding:"required"`
	Type              string    `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	TotalAmount       float64   `json:"total_amount" binding:"required,gt=0"`
	TotalInstallments int       `json:"total_installments" binding:"required,min=2"`
	FirstDate         time.Time `json:"first_date" binding:"required"`
	IsCoupleExpense   bool      `json:"is_couple_expense"`
	Visibility        string    `json:"visibility" binding:"omitempty,oneof=SHARED PRIVATE"`
	Category          *string   `json:"category"`
	Description       string    `json:"description"`
}

// UpdateTransactionRequest represents a scoped partial update. Scope states
// the caller's intent when the transaction belongs to an installment group
// or a recurring template.
type UpdateTransactionRequest struct {
	Scope           string     `json:"scope" binding:"required,oneof=THIS_ONLY THIS_AND_FUTURE ALL"`
	Amount          *float64   `json:"amount" binding:"omitempty,gt=0"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	IsCoupleExpense *bool      `json:"is_couple_expense"`
	Visibility      *string    `json:"visibility" binding:"omitempty,oneof=SHARED PRIVATE"`
	TransactionDate *time.Time `json:"transaction_date"`
}

// TransactionListFilter represents filter parameters for the transaction list
type TransactionListFilter struct {
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Type      string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	PaidBy    string `form:"paid_by" binding:"omitempty,uuid"`
	FromDate  string `form:"from_date"`
	ToDate    string `form:"to_date"`
	Page      int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// Register handles POST /transactions
func (h *TransactionHandler) Register(c *gin.Context) {
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

	var req RegisterTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	input := appledger.RegisterTransactionInput{
		TenantID:        coupleID,
		UserID:          userID,
		AccountID:       req.AccountID,
		Type:            ledger.TransactionType(req.Type),
		Amount:          decimal.NewFromFloat(req.Amount),
		IsFreeSpending:  req.IsFreeSpending,
		IsCoupleExpense: req.IsCoupleExpense,
		Visibility:      ledger.Visibility(req.Visibility),
		Category:        req.Category,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
	}

	tx, err := h.transactions.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tx)
}

// CreateInstallments handles POST /transactions/installments
func (h *TransactionHandler) CreateInstallments(c *gin.Context) {
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

	var req CreateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	txType := ledger.TransactionTypeExpense
	if req.Type != "" {
		txType = ledger.TransactionType(req.Type)
	}

	input := appledger.CreateInstallmentInput{
		TenantID:          coupleID,
		UserID:            userID,
		AccountID:         req.AccountID,
		Type:              txType,
		TotalAmount:       decimal.NewFromFloat(req.TotalAmount),
		TotalInstallments: req.TotalInstallments,
		FirstDate:         req.FirstDate,
		IsCoupleExpense:   req.IsCoupleExpense,
		Visibility:        ledger.Visibility(req.Visibility),
		Category:          req.Category,
		Description:       req.Description,
	}

	group, err := h.installments.CreateInstallmentTransaction(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, group)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	var filter TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	domainFilter := ledger.TransactionFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.AccountID != "" {
		id, _ := uuid.Parse(filter.AccountID)
		domainFilter.AccountID = &id
	}
	if filter.Type != "" {
		t := ledger.TransactionType(filter.Type)
		domainFilter.Type = &t
	}
	if filter.PaidBy != "" {
		id, _ := uuid.Parse(filter.PaidBy)
		domainFilter.PaidByID = &id
	}
	if filter.FromDate != "" {
		if t, err := time.Parse("2006-01-02", filter.FromDate); err == nil {
			domainFilter.DateFrom = &t
		}
	}
	if filter.ToDate != "" {
		if t, err := time.Parse("2006-01-02", filter.ToDate); err == nil {
			domainFilter.DateTo = &t
		}
	}

	txs, total, err := h.transactions.List(c.Request.Context(), coupleID, domainFilter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, "INVALID_ID", "Invalid transaction ID")
		return
	}

	tx, err := h.transactions.GetByID(c.Request.Context(), coupleID, txID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// Update handles PATCH /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, "INVALID_ID", "Invalid transaction ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	updates := appledger.TransactionUpdates{
		Description:     req.Description,
		Category:        req.Category,
		IsCoupleExpense: req.IsCoupleExpense,
		TransactionDate: req.TransactionDate,
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		updates.Amount = &amount
	}
	if req.Visibility != nil {
		v := ledger.Visibility(*req.Visibility)
		updates.Visibility = &v
	}

	result, err := h.updates.UpdateWithScope(
		c.Request.Context(),
		coupleID,
		txID,
		appledger.UpdateScope(req.Scope),
		updates,
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete handles DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	coupleID, err := getCoupleID(c)
	if err != nil || coupleID == uuid.Nil {
		h.Unauthorized(c, "Invalid couple")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, "INVALID_ID", "Invalid transaction ID")
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), coupleID, txID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.List)
		transactions.POST("", h.Register)
		transactions.POST("/installments", h.CreateInstallments)
		transactions.GET("/:id", h.Get)
		transactions.PATCH("/:id", h.Update)
		transactions.DELETE("/:id", h.Delete)
	}
}
