package couple

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines persistence operations for the Couple tenant root.
// Quota decrements are expressed as a single conditional update so two
// concurrent registrations for the same user cannot both pass a
// read-then-check of the remaining budget.
type Repository interface {
	Create(ctx context.Context, c *Couple) error
	FindByID(ctx context.Context, id uuid.UUID) (*Couple, error)
	Save(ctx context.Context, c *Couple) error
	// FindByResetDay returns couples whose quota reset day matches the given
	// day of month. Used by the daily scheduled reset.
	FindByResetDay(ctx context.Context, day int) ([]*Couple, error)

	// TryDecrementFreeSpending atomically decrements a member's remaining
	// free-spending budget, guarded by remaining >= amount. It reports false,
	// without error, when the guard fails.
	TryDecrementFreeSpending(ctx context.Context, coupleID uuid.UUID, slot UserSlot, amount decimal.Decimal) (bool, error)
	// RestoreFreeSpending adds the amount back to a member's remaining budget
	// (the inverse of TryDecrementFreeSpending, used when deleting an expense).
	RestoreFreeSpending(ctx context.Context, coupleID uuid.UUID, slot UserSlot, amount decimal.Decimal) error
}
