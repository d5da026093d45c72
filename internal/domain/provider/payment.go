package provider

import (
	"time"

	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true once the payment is completed or cancelled
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCash, PaymentMethodCard:
		return true
	}
	return false
}

// Payment represents money paid to a provider, optionally against a purchase
// order. The order reference is a soft link: it may dangle if the order was
// deleted, and that is tolerated rather than rejected.
type Payment struct {
	ID          shared.Identity `json:"id"`
	ProviderID  string          `json:"providerId"`
	OrderID     string          `json:"orderId,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Status      PaymentStatus   `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
	PaymentDate time.Time       `json:"paymentDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewPayment creates a provisional payment with a pending identity
func NewPayment(providerID, orderID string, amount decimal.Decimal, method PaymentMethod, paymentDate time.Time) (*Payment, error) {
	if providerID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider id cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	now := time.Now()
	return &Payment{
		ID:          shared.NewPendingIdentity(),
		ProviderID:  providerID,
		OrderID:     orderID,
		Amount:      amount,
		Method:      method,
		Status:      PaymentStatusPending,
		PaymentDate: paymentDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Identity returns the record identity
func (p *Payment) Identity() shared.Identity {
	return p.ID
}

// Complete marks the payment as completed
func (p *Payment) Complete() error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Payment is already finalized")
	}
	p.Status = PaymentStatusCompleted
	p.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the payment as cancelled
func (p *Payment) Cancel() error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Payment is already finalized")
	}
	p.Status = PaymentStatusCancelled
	p.UpdatedAt = time.Now()
	return nil
}

// IsCompleted returns true if the payment is completed
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// HasOrderReference returns true if the payment is linked to a purchase order
func (p *Payment) HasOrderReference() bool {
	return p.OrderID != ""
}

// AddAttachment appends a file reference to the payment
func (p *Payment) AddAttachment(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_ATTACHMENT", "Attachment name cannot be empty")
	}
	p.Attachments = append(p.Attachments, name)
	p.UpdatedAt = time.Now()
	return nil
}
