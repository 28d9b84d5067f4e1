package couple

import (
	"context"
	"time"

	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CoupleService manages the couple profile: membership, free-spending
// allowances, policies, and the monthly quota reset.
type CoupleService struct {
	repo   couple.Repository
	logger *zap.Logger
}

// NewCoupleService creates a new CoupleService
func NewCoupleService(repo couple.Repository, logger *zap.Logger) *CoupleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoupleService{repo: repo, logger: logger}
}

// Create registers a new couple. The couple's ID doubles as the tenant ID
// for everything the couple owns.
func (s *CoupleService) Create(ctx context.Context, input CreateCoupleInput) (*CoupleResponse, error) {
	cpl, err := couple.NewCouple(input.UserAID, input.UserBID, input.ResetDay)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cpl); err != nil {
		return nil, err
	}
	response := ToCoupleResponse(cpl)
	return &response, nil
}

// Get returns the couple profile for a tenant
func (s *CoupleService) Get(ctx context.Context, tenantID uuid.UUID) (*CoupleResponse, error) {
	cpl, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToCoupleResponse(cpl)
	return &response, nil
}

// UpdateAllowance changes one member's monthly free-spending allowance
// mid-cycle. The remaining budget moves by the same delta as the monthly
// amount and is clamped at zero; it is never reset to the new monthly value.
func (s *CoupleService) UpdateAllowance(ctx context.Context, tenantID uuid.UUID, input UpdateAllowanceInput) (*CoupleResponse, error) {
	cpl, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	slot, err := cpl.SlotForUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if err := cpl.SetMonthlyAllowance(slot, input.NewMonthly); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cpl); err != nil {
		return nil, err
	}

	s.logger.Info("free-spending allowance updated",
		zap.String("couple_id", cpl.ID.String()),
		zap.String("slot", string(slot)),
		zap.String("new_monthly", input.NewMonthly.String()),
	)

	response := ToCoupleResponse(cpl)
	return &response, nil
}

// UpdatePolicies toggles couple-level policies
func (s *CoupleService) UpdatePolicies(ctx context.Context, tenantID uuid.UUID, input UpdatePoliciesInput) (*CoupleResponse, error) {
	cpl, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cpl.SetPolicies(input.AllowPrivateTransactions, input.AllowPersonalAccounts)
	if err := s.repo.Save(ctx, cpl); err != nil {
		return nil, err
	}
	response := ToCoupleResponse(cpl)
	return &response, nil
}

// ResetQuotasForDate restores both members' remaining budgets to their
// monthly allowances for every couple whose reset day falls on the given
// date. On the last day of a short month, reset days past the month's end
// are treated as due as well. Returns the number of couples reset.
func (s *CoupleService) ResetQuotasForDate(ctx context.Context, currentDate time.Time) (int, error) {
	days := []int{currentDate.Day()}
	if lastDay := lastDayOfMonth(currentDate); currentDate.Day() == lastDay {
		for d := lastDay + 1; d <= 31; d++ {
			days = append(days, d)
		}
	}

	reset := 0
	for _, day := range days {
		couples, err := s.repo.FindByResetDay(ctx, day)
		if err != nil {
			return reset, err
		}
		for _, cpl := range couples {
			cpl.ResetMonthlyQuotas()
			if err := s.repo.Save(ctx, cpl); err != nil {
				s.logger.Error("failed to reset free-spending quotas",
					zap.String("couple_id", cpl.ID.String()),
					zap.Error(err),
				)
				continue
			}
			reset++
		}
	}

	if reset > 0 {
		s.logger.Info("monthly free-spending quotas reset",
			zap.Int("couples", reset),
			zap.Time("date", currentDate),
		)
	}
	return reset, nil
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
