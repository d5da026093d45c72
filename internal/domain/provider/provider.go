package provider

import (
	"time"

	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Provider represents a vendor in the operations console.
// It is the aggregate root for all sub-resource collections: every material,
// purchase order, payment, document and activity record is partitioned by
// the provider id and cross-provider references are forbidden.
type Provider struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TaxID        string          `json:"taxId"`
	ContactName  string          `json:"contactName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	PaymentTerms int             `json:"paymentTerms"` // Days until payment due
	CreditLimit  decimal.Decimal `json:"creditLimit"`
	Currency     string          `json:"currency"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Validate checks the provider profile invariants
func (p *Provider) Validate() error {
	if p.ID == "" {
		return shared.NewDomainError("INVALID_PROVIDER", "Provider id cannot be empty")
	}
	if p.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Provider name cannot be empty")
	}
	if len(p.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Provider name cannot exceed 200 characters")
	}
	if p.PaymentTerms < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	if p.CreditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	return nil
}

// IsActive returns true if the provider is active
func (p *Provider) IsActive() bool {
	return p.Active
}
