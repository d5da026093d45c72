package provider

import (
	"time"

	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Material represents a catalog line item owned by exactly one provider
type Material struct {
	ID         shared.Identity `json:"id"`
	ProviderID string          `json:"providerId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Unit       string          `json:"unit"`
	Stock      decimal.Decimal `json:"stock"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// NewMaterial creates a provisional material carrying a pending identity.
// The record is fully formed so the view can render it before the remote
// store confirms it.
func NewMaterial(providerID, name, unit string, unitPrice, stock decimal.Decimal) (*Material, error) {
	if providerID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider id cannot be empty")
	}
	if err := validateMaterialName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if stock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	now := time.Now()
	return &Material{
		ID:         shared.NewPendingIdentity(),
		ProviderID: providerID,
		Name:       name,
		UnitPrice:  unitPrice,
		Unit:       unit,
		Stock:      stock,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Identity returns the record identity
func (m *Material) Identity() shared.Identity {
	return m.ID
}

// Update updates the material's editable fields
func (m *Material) Update(name, unit string, unitPrice, stock decimal.Decimal, active bool) error {
	if err := validateMaterialName(name); err != nil {
		return err
	}
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if stock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	m.Name = name
	m.Unit = unit
	m.UnitPrice = unitPrice
	m.Stock = stock
	m.Active = active
	m.UpdatedAt = time.Now()

	return nil
}

// IsActive returns true if the material is active
func (m *Material) IsActive() bool {
	return m.Active
}

func validateMaterialName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot exceed 200 characters")
	}
	return nil
}
