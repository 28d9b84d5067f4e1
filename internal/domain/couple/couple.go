package couple

import (
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserSlot identifies which of the two members of a couple a value belongs to
type UserSlot string

const (
	UserSlotA UserSlot = "A"
	UserSlotB UserSlot = "B"
)

// Couple-specific domain errors
var (
	ErrCoupleNotFound  = shared.NewDomainError("COUPLE_NOT_FOUND", "Couple not found")
	ErrUserNotInCouple = shared.NewDomainError("USER_NOT_IN_COUPLE", "User does not belong to this couple")
)

// FreeSpendingQuota is one member's monthly discretionary budget.
// Remaining may transiently exceed Monthly after an allowance increase;
// it is never forced below zero.
type FreeSpendingQuota struct {
	Monthly   decimal.Decimal
	Remaining decimal.Decimal
}

// Couple is the tenant root: exactly two users sharing accounts and
// transactions. It holds both members' free-spending quotas and the
// tenant-level policy flags.
type Couple struct {
	shared.BaseEntity
	UserAID  uuid.UUID
	UserBID  uuid.UUID
	QuotaA   FreeSpendingQuota
	QuotaB   FreeSpendingQuota
	ResetDay int // day of month (1-31) on which remaining resets to monthly

	AllowPrivateTransactions bool
	AllowPersonalAccounts    bool
}

// NewCouple creates a couple for the given pair of users
func NewCouple(userAID, userBID uuid.UUID, resetDay int) (*Couple, error) {
	if userAID == uuid.Nil || userBID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Both user IDs are required")
	}
	if userAID == userBID {
		return nil, shared.NewDomainError("INVALID_USER", "A couple requires two distinct users")
	}
	if resetDay < 1 || resetDay > 31 {
		return nil, shared.NewDomainError("INVALID_RESET_DAY", "Reset day must be between 1 and 31")
	}

	return &Couple{
		BaseEntity:               shared.NewBaseEntity(),
		UserAID:                  userAID,
		UserBID:                  userBID,
		QuotaA:                   FreeSpendingQuota{Monthly: decimal.Zero, Remaining: decimal.Zero},
		QuotaB:                   FreeSpendingQuota{Monthly: decimal.Zero, Remaining: decimal.Zero},
		ResetDay:                 resetDay,
		AllowPrivateTransactions: true,
		AllowPersonalAccounts:    true,
	}, nil
}

// SlotForUser classifies a user ID against the couple's two members
func (c *Couple) SlotForUser(userID uuid.UUID) (UserSlot, error) {
	switch userID {
	case c.UserAID:
		return UserSlotA, nil
	case c.UserBID:
		return UserSlotB, nil
	default:
		return "", ErrUserNotInCouple
	}
}

// Quota returns the quota pair for a slot
func (c *Couple) Quota(slot UserSlot) FreeSpendingQuota {
	if slot == UserSlotB {
		return c.QuotaB
	}
	return c.QuotaA
}

func (c *Couple) quotaRef(slot UserSlot) *FreeSpendingQuota {
	if slot == UserSlotB {
		return &c.QuotaB
	}
	return &c.QuotaA
}

// Remaining returns the remaining free-spending budget for a user
func (c *Couple) Remaining(userID uuid.UUID) (decimal.Decimal, error) {
	slot, err := c.SlotForUser(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Quota(slot).Remaining, nil
}

// SetMonthlyAllowance changes a member's monthly free-spending allowance.
// The remaining budget moves by the same delta so an increase is usable
// immediately; it is clamped at zero so already-spent amounts are never
// forgiven into a negative remaining.
func (c *Couple) SetMonthlyAllowance(slot UserSlot, newMonthly decimal.Decimal) error {
	if newMonthly.IsNegative() {
		return shared.NewDomainError("INVALID_ALLOWANCE", "Monthly allowance cannot be negative")
	}

	q := c.quotaRef(slot)
	delta := newMonthly.Sub(q.Monthly)
	newRemaining := q.Remaining.Add(delta)
	if newRemaining.IsNegative() {
		newRemaining = decimal.Zero
	}
	q.Monthly = newMonthly
	q.Remaining = newRemaining
	return nil
}

// ResetMonthlyQuotas restores both members' remaining budgets to their
// monthly allowances. Invoked once per period on the couple's reset day.
func (c *Couple) ResetMonthlyQuotas() {
	c.QuotaA.Remaining = c.QuotaA.Monthly
	c.QuotaB.Remaining = c.QuotaB.Monthly
}

// SetPolicies updates the tenant-level feature policies
func (c *Couple) SetPolicies(allowPrivate, allowPersonal bool) {
	c.AllowPrivateTransactions = allowPrivate
	c.AllowPersonalAccounts = allowPersonal
}
