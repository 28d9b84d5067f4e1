package recurrence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TemplateRepository defines persistence operations for recurring
// transaction templates. FindDue crosses tenants because the daily job
// materializes occurrences for every couple; all other operations are
// tenant-scoped.
type TemplateRepository interface {
	Create(ctx context.Context, template *Template) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Template, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]*Template, error)
	Save(ctx context.Context, template *Template) error

	// FindDue returns active templates with next_occurrence <= currentDate
	// and no end date before currentDate, across all tenants.
	FindDue(ctx context.Context, currentDate time.Time) ([]*Template, error)
	// FindExpired returns active templates whose end date has passed, so the
	// engine can deactivate them.
	FindExpired(ctx context.Context, currentDate time.Time) ([]*Template, error)
}
