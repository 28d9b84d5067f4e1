package recurrence

import (
	"context"

	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateService manages recurring transaction templates. Generation of the
// due occurrences is the Engine's job; this service only maintains the
// templates themselves.
type TemplateService struct {
	templates recurrence.TemplateRepository
	couples   couple.Repository
	logger    *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templates recurrence.TemplateRepository, couples couple.Repository, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templates: templates, couples: couples, logger: logger}
}

// Create sets up a recurring transaction for the acting user. A private
// template is subject to the same tenant policy as a private transaction;
// every row it generates would be private.
func (s *TemplateService) Create(ctx context.Context, tenantID, userID uuid.UUID, input CreateTemplateInput) (*TemplateResponse, error) {
	if visibilityOrDefault(input.Visibility) == ledger.VisibilityPrivate {
		cpl, err := s.couples.FindByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if !cpl.AllowPrivateTransactions {
			return nil, shared.ErrPolicyViolation
		}
	}

	template, err := recurrence.NewTemplate(
		tenantID,
		input.AccountID,
		userID,
		ledger.TransactionType(input.Type),
		input.Amount,
		recurrence.Frequency(input.Frequency),
		input.Interval,
		input.StartDate,
	)
	if err != nil {
		return nil, err
	}
	if input.EndDate != nil {
		if _, err := template.WithEndDate(*input.EndDate); err != nil {
			return nil, err
		}
	}
	if input.IsFreeSpending {
		if _, err := template.WithFreeSpending(); err != nil {
			return nil, err
		}
	}
	if _, err := template.WithVisibility(visibilityOrDefault(input.Visibility)); err != nil {
		return nil, err
	}
	if input.IsCoupleExpense {
		template.WithCoupleExpense()
	}
	if input.Category != nil {
		template.WithCategory(*input.Category)
	}
	template.WithDescription(input.Description)

	if err := s.templates.Create(ctx, template); err != nil {
		return nil, err
	}

	s.logger.Info("recurring template created",
		zap.String("template_id", template.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("frequency", string(template.Frequency)),
	)

	response := ToTemplateResponse(template)
	return &response, nil
}

// GetByID returns one of the tenant's templates
func (s *TemplateService) GetByID(ctx context.Context, tenantID, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templates.FindByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	response := ToTemplateResponse(template)
	return &response, nil
}

// List returns all of the tenant's templates
func (s *TemplateService) List(ctx context.Context, tenantID uuid.UUID) ([]TemplateResponse, error) {
	templates, err := s.templates.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		responses[i] = ToTemplateResponse(t)
	}
	return responses, nil
}

// Deactivate stops future generation for a template. Already generated
// transactions are untouched.
func (s *TemplateService) Deactivate(ctx context.Context, tenantID, templateID uuid.UUID) (*TemplateResponse, error) {
	return s.setActive(ctx, tenantID, templateID, false)
}

// Reactivate resumes generation for a previously deactivated template
func (s *TemplateService) Reactivate(ctx context.Context, tenantID, templateID uuid.UUID) (*TemplateResponse, error) {
	return s.setActive(ctx, tenantID, templateID, true)
}

func (s *TemplateService) setActive(ctx context.Context, tenantID, templateID uuid.UUID, active bool) (*TemplateResponse, error) {
	template, err := s.templates.FindByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if active {
		template.Reactivate()
	} else {
		template.Deactivate()
	}
	if err := s.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	response := ToTemplateResponse(template)
	return &response, nil
}
