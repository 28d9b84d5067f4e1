package ledger

import (
	"fmt"

	"github.com/coupleledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InstallmentInfo is the immutable linkage of one installment within a group:
// a shared group ID, the member's position and the group size.
type InstallmentInfo struct {
	GroupID           uuid.UUID
	CurrentNumber     int
	TotalInstallments int
}

// NewInstallmentInfo creates an installment info after validating its invariants
func NewInstallmentInfo(groupID uuid.UUID, currentNumber, totalInstallments int) (InstallmentInfo, error) {
	if groupID == uuid.Nil {
		return InstallmentInfo{}, shared.NewDomainError("INVALID_INSTALLMENT_GROUP", "Installment group ID cannot be empty")
	}
	if totalInstallments < 2 {
		return InstallmentInfo{}, shared.NewDomainError("INVALID_CONFIGURATION", "An installment group requires at least 2 installments")
	}
	if currentNumber < 1 || currentNumber > totalInstallments {
		return InstallmentInfo{}, shared.NewDomainError("INVALID_CONFIGURATION", "Installment number must be between 1 and the group size")
	}
	return InstallmentInfo{
		GroupID:           groupID,
		CurrentNumber:     currentNumber,
		TotalInstallments: totalInstallments,
	}, nil
}

// NewInstallmentGroup starts a new group with a fresh group ID, positioned at
// the first installment
func NewInstallmentGroup(totalInstallments int) (InstallmentInfo, error) {
	return NewInstallmentInfo(uuid.New(), 1, totalInstallments)
}

// Next returns the following installment in the group, or nil at the last one
func (i InstallmentInfo) Next() *InstallmentInfo {
	if i.IsLast() {
		return nil
	}
	next := InstallmentInfo{
		GroupID:           i.GroupID,
		CurrentNumber:     i.CurrentNumber + 1,
		TotalInstallments: i.TotalInstallments,
	}
	return &next
}

// IsLast reports whether this is the final installment of the group
func (i InstallmentInfo) IsLast() bool {
	return i.CurrentNumber == i.TotalInstallments
}

// Label renders the "k/count" suffix appended to installment descriptions
func (i InstallmentInfo) Label() string {
	return fmt.Sprintf("%d/%d", i.CurrentNumber, i.TotalInstallments)
}
