package recurrence

import (
	"context"
	"time"

	appledger "github.com/coupleledger/backend/internal/application/ledger"
	"github.com/coupleledger/backend/internal/domain/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxOccurrencesPerRun bounds the catch-up loop for a single template so a
// template with a stale next occurrence cannot stall the whole batch.
const maxOccurrencesPerRun = 366

// FailedTemplate records a template the engine could not process
type FailedTemplate struct {
	TemplateID uuid.UUID `json:"template_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Error      string    `json:"error"`
}

// RunReport summarizes one engine run
type RunReport struct {
	GeneratedCount     int              `json:"generated_count"`
	TemplatesProcessed int              `json:"templates_processed"`
	FailedTemplates    []FailedTemplate `json:"failed_templates"`
}

// Engine materializes due recurring templates into transactions. Each
// template is processed in its own atomic scope so one couple's broken
// template never blocks another couple's recurring transactions. The engine
// is schedule-agnostic; a scheduler (or a manual call) drives RunOnce.
type Engine struct {
	templates recurrence.TemplateRepository
	scope     appledger.TransactionScope
	logger    *zap.Logger
}

// NewEngine creates a new recurrence Engine
func NewEngine(templates recurrence.TemplateRepository, scope appledger.TransactionScope, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{templates: templates, scope: scope, logger: logger}
}

// RunOnce deactivates ended templates, then generates one transaction per
// due occurrence of every active template, advancing each template's next
// occurrence past currentDate. Because the advancement steps from the last
// scheduled point rather than from wall-clock time, missed runs catch up
// deterministically and a re-run on the same date generates nothing new.
func (e *Engine) RunOnce(ctx context.Context, currentDate time.Time) (*RunReport, error) {
	report := &RunReport{FailedTemplates: []FailedTemplate{}}

	expired, err := e.templates.FindExpired(ctx, currentDate)
	if err != nil {
		return nil, err
	}
	for _, template := range expired {
		template.Deactivate()
		if err := e.templates.Save(ctx, template); err != nil {
			report.FailedTemplates = append(report.FailedTemplates, FailedTemplate{
				TemplateID: template.ID,
				TenantID:   template.TenantID,
				Error:      err.Error(),
			})
			continue
		}
		e.logger.Info("recurring template deactivated",
			zap.String("template_id", template.ID.String()),
			zap.String("tenant_id", template.TenantID.String()),
		)
	}

	due, err := e.templates.FindDue(ctx, currentDate)
	if err != nil {
		return nil, err
	}

	for _, template := range due {
		report.TemplatesProcessed++
		generated, err := e.processTemplate(ctx, template, currentDate)
		report.GeneratedCount += generated
		if err != nil {
			e.logger.Error("recurring template processing failed",
				zap.String("template_id", template.ID.String()),
				zap.String("tenant_id", template.TenantID.String()),
				zap.Error(err),
			)
			report.FailedTemplates = append(report.FailedTemplates, FailedTemplate{
				TemplateID: template.ID,
				TenantID:   template.TenantID,
				Error:      err.Error(),
			})
		}
	}

	e.logger.Info("recurrence run complete",
		zap.Time("date", currentDate),
		zap.Int("templates_processed", report.TemplatesProcessed),
		zap.Int("generated", report.GeneratedCount),
		zap.Int("failed", len(report.FailedTemplates)),
	)
	return report, nil
}

// processTemplate generates every due occurrence of one template inside a
// single atomic scope: transaction rows, balance adjustments, quota
// decrements, and the advanced next occurrence commit or roll back together.
func (e *Engine) processTemplate(ctx context.Context, template *recurrence.Template, currentDate time.Time) (int, error) {
	generated := 0
	err := e.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		for i := 0; template.IsDue(currentDate) && i < maxOccurrencesPerRun; i++ {
			tx, err := template.Stamp()
			if err != nil {
				return err
			}
			if tx.AffectsFreeSpending() {
				consumed, err := e.decrementQuota(ctx, repos, template, tx.Amount)
				if err != nil {
					return err
				}
				if consumed {
					tx.MarkQuotaConsumed()
				}
			}
			if err := repos.Transactions().Create(ctx, tx); err != nil {
				return err
			}
			if err := repos.Accounts().AdjustBalance(ctx, template.TenantID, tx.AccountID, tx.SignedAmount()); err != nil {
				return err
			}
			template.Advance()
			generated++
		}
		return repos.Templates().Save(ctx, template)
	})
	if err != nil {
		return 0, err
	}
	return generated, nil
}

// decrementQuota draws the generated expense against the payer's
// free-spending budget and reports whether the draw happened. A scheduled
// obligation is never blocked by an exhausted budget; when the remaining
// amount does not cover the expense the budget is left as is, the
// shortfall is logged, and the generated row is not marked as having
// consumed anything.
func (e *Engine) decrementQuota(
	ctx context.Context,
	repos appledger.TransactionalRepositories,
	template *recurrence.Template,
	amount decimal.Decimal,
) (bool, error) {
	cpl, err := repos.Couples().FindByID(ctx, template.TenantID)
	if err != nil {
		return false, err
	}
	slot, err := cpl.SlotForUser(template.PaidByID)
	if err != nil {
		return false, err
	}
	ok, err := repos.Couples().TryDecrementFreeSpending(ctx, cpl.ID, slot, amount)
	if err != nil {
		return false, err
	}
	if !ok {
		e.logger.Warn("free-spending budget exhausted for recurring expense",
			zap.String("template_id", template.ID.String()),
			zap.String("tenant_id", template.TenantID.String()),
			zap.String("amount", amount.String()),
		)
	}
	return ok, nil
}
