package provider

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a purchase order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSent, OrderStatusAccepted, OrderStatusRejected,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are monotonic; rejected, cancelled and delivered are terminal,
// and cancellation is allowed from any pre-delivered state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusSent || target == OrderStatusCancelled
	case OrderStatusSent:
		return target == OrderStatusAccepted || target == OrderStatusRejected || target == OrderStatusCancelled
	case OrderStatusAccepted:
		return target == OrderStatusInTransit || target == OrderStatusCancelled
	case OrderStatusInTransit:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusRejected, OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// IsTerminal returns true for statuses that accept no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRejected || s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PostsToLedger returns true if orders in this status appear on the account
// statement. Draft, rejected and cancelled orders never post.
func (s OrderStatus) PostsToLedger() bool {
	switch s {
	case OrderStatusSent, OrderStatusAccepted, OrderStatusInTransit, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderItem represents a line item in a purchase order
type OrderItem struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"materialId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"` // Quantity * UnitPrice
}

// NewOrderItem creates a new order line item
func NewOrderItem(materialID, description string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		ID:          uuid.NewString(),
		MaterialID:  materialID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice),
	}, nil
}

// StatusChange carries the optional metadata of a status transition
type StatusChange struct {
	Status               OrderStatus `json:"status"`
	AcceptedDeliveryDate *time.Time  `json:"acceptedDeliveryDate,omitempty"`
	Reason               string      `json:"reason,omitempty"`
}

// PurchaseOrder represents an order placed with a provider. Subtotal, tax and
// total are always recomputed from the current items, never stored stale.
type PurchaseOrder struct {
	ID                   shared.Identity `json:"id"`
	ProviderID           string          `json:"providerId"`
	OrderNumber          string          `json:"orderNumber"`
	Items                []OrderItem     `json:"items"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	TaxRate              decimal.Decimal `json:"taxRate"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	Status               OrderStatus     `json:"status"`
	Notes                string          `json:"notes"`
	ExpectedDeliveryDate *time.Time      `json:"expectedDeliveryDate,omitempty"`
	DeliveredAt          *time.Time      `json:"deliveredAt,omitempty"`
	StatusReason         string          `json:"statusReason,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// NewPurchaseOrder creates a provisional draft order with a pending identity
func NewPurchaseOrder(providerID, orderNumber string, taxRate decimal.Decimal, items []OrderItem) (*PurchaseOrder, error) {
	if providerID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider id cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	now := time.Now()
	order := &PurchaseOrder{
		ID:          shared.NewPendingIdentity(),
		ProviderID:  providerID,
		OrderNumber: orderNumber,
		Items:       items,
		TaxRate:     taxRate,
		Status:      OrderStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	order.RecalculateTotals()

	return order, nil
}

// Identity returns the record identity
func (o *PurchaseOrder) Identity() shared.Identity {
	return o.ID
}

// RecalculateTotals recomputes subtotal, tax and total from the current items
func (o *PurchaseOrder) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(o.TaxRate).Round(2)
	o.Total = o.Subtotal.Add(o.Tax)
}

// ReplaceItems replaces the order items and recomputes totals.
// Only allowed in draft status.
func (o *PurchaseOrder) ReplaceItems(items []OrderItem) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items of a non-draft order")
	}
	if len(items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}

	o.Items = items
	o.RecalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// ChangeStatus applies a lifecycle transition, enforcing the transition table
func (o *PurchaseOrder) ChangeStatus(change StatusChange) error {
	if !change.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", change.Status))
	}
	if !o.Status.CanTransitionTo(change.Status) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, change.Status))
	}
	if (change.Status == OrderStatusRejected || change.Status == OrderStatusCancelled) && change.Reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A reason is required to reject or cancel an order")
	}

	now := time.Now()
	o.Status = change.Status
	o.StatusReason = change.Reason
	if change.AcceptedDeliveryDate != nil {
		o.ExpectedDeliveryDate = change.AcceptedDeliveryDate
	}
	if change.Status == OrderStatusDelivered {
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now

	return nil
}

// IsDelivered returns true if the order has been delivered
func (o *PurchaseOrder) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// DeliveredOnTime reports whether a delivered order arrived on or before its
// expected delivery date. Orders without an expected date count as on time.
func (o *PurchaseOrder) DeliveredOnTime() bool {
	if !o.IsDelivered() || o.DeliveredAt == nil {
		return false
	}
	if o.ExpectedDeliveryDate == nil {
		return true
	}
	return !o.DeliveredAt.After(*o.ExpectedDeliveryDate)
}

// LeadTime returns the duration between creation and delivery, or zero when
// the order has not been delivered
func (o *PurchaseOrder) LeadTime() time.Duration {
	if o.DeliveredAt == nil {
		return 0
	}
	return o.DeliveredAt.Sub(o.CreatedAt)
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}
