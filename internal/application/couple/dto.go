package couple

import (
	"time"

	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCoupleInput is the input for creating a couple
type CreateCoupleInput struct {
	UserAID  uuid.UUID `json:"user_a_id" binding:"required"`
	UserBID  uuid.UUID `json:"user_b_id" binding:"required"`
	ResetDay int       `json:"reset_day" binding:"required,min=1,max=31"`
}

// UpdateAllowanceInput is the input for changing a member's monthly allowance
type UpdateAllowanceInput struct {
	UserID     uuid.UUID       `json:"user_id" binding:"required"`
	NewMonthly decimal.Decimal `json:"new_monthly" binding:"required"`
}

// UpdatePoliciesInput is the input for toggling couple-level policies
type UpdatePoliciesInput struct {
	AllowPrivateTransactions bool `json:"allow_private_transactions"`
	AllowPersonalAccounts    bool `json:"allow_personal_accounts"`
}

// QuotaResponse is the response form of a member's free-spending quota
type QuotaResponse struct {
	Monthly   decimal.Decimal `json:"monthly"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CoupleResponse is the response form of a couple
type CoupleResponse struct {
	ID                       uuid.UUID     `json:"id"`
	UserAID                  uuid.UUID     `json:"user_a_id"`
	UserBID                  uuid.UUID     `json:"user_b_id"`
	QuotaA                   QuotaResponse `json:"quota_a"`
	QuotaB                   QuotaResponse `json:"quota_b"`
	ResetDay                 int           `json:"reset_day"`
	AllowPrivateTransactions bool          `json:"allow_private_transactions"`
	AllowPersonalAccounts    bool          `json:"allow_personal_accounts"`
	CreatedAt                time.Time     `json:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at"`
}

// ToCoupleResponse converts a domain couple to its response form
func ToCoupleResponse(c *couple.Couple) CoupleResponse {
	return CoupleResponse{
		ID:                       c.ID,
		UserAID:                  c.UserAID,
		UserBID:                  c.UserBID,
		QuotaA:                   QuotaResponse{Monthly: c.QuotaA.Monthly, Remaining: c.QuotaA.Remaining},
		QuotaB:                   QuotaResponse{Monthly: c.QuotaB.Monthly, Remaining: c.QuotaB.Remaining},
		ResetDay:                 c.ResetDay,
		AllowPrivateTransactions: c.AllowPrivateTransactions,
		AllowPersonalAccounts:    c.AllowPersonalAccounts,
		CreatedAt:                c.CreatedAt,
		UpdatedAt:                c.UpdatedAt,
	}
}
