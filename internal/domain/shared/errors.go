package shared

// DomainError represents a domain-level error with a stable code.
// The HTTP boundary translates codes into statuses and localized messages;
// the domain only produces the code and enough context for that translation.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrInvalidInput covers malformed identifiers and out-of-range values
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrInvalidConfiguration covers rejected setup values (installments < 2,
	// non-positive amounts, end date before start date, interval < 1)
	ErrInvalidConfiguration = NewDomainError("INVALID_CONFIGURATION", "Invalid configuration")
	// ErrPolicyViolation is raised when a tenant's settings disallow the operation
	ErrPolicyViolation = NewDomainError("POLICY_VIOLATION", "Operation not allowed by tenant settings")
	// ErrTenantContextNotSet is a programming error: a tenant-scoped call was made
	// before the request context was initialized
	ErrTenantContextNotSet = NewDomainError("TENANT_CONTEXT_NOT_SET", "Tenant context not initialized")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
