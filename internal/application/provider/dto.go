package provider

import (
	"time"

	"github.com/opsconsole/backend/internal/domain/provider"
	"github.com/shopspring/decimal"
)

// CreateMaterialInput carries a material creation intent
type CreateMaterialInput struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     decimal.Decimal `json:"stock"`
}

// UpdateMaterialInput carries a material edit intent
type UpdateMaterialInput struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     decimal.Decimal `json:"stock"`
	Active    bool            `json:"active"`
}

// OrderItemInput is one line of an order creation or edit intent
type OrderItemInput struct {
	MaterialID  string          `json:"materialId"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateOrderInput carries an order creation intent
type CreateOrderInput struct {
	OrderNumber          string           `json:"orderNumber"`
	TaxRate              decimal.Decimal  `json:"taxRate"`
	Notes                string           `json:"notes"`
	ExpectedDeliveryDate *time.Time       `json:"expectedDeliveryDate,omitempty"`
	Items                []OrderItemInput `json:"items"`
}

// UpdateOrderInput carries an order edit intent; nil fields are left unchanged
type UpdateOrderInput struct {
	Notes *string          `json:"notes,omitempty"`
	Items []OrderItemInput `json:"items,omitempty"`
}

// CreatePaymentInput carries a payment creation intent
type CreatePaymentInput struct {
	OrderID     string                 `json:"orderId,omitempty"`
	Amount      decimal.Decimal        `json:"amount"`
	Method      provider.PaymentMethod `json:"method"`
	Reference   string                 `json:"reference,omitempty"`
	Attachments []string               `json:"attachments,omitempty"`
	PaymentDate time.Time              `json:"paymentDate"`
}

// UpdatePaymentInput carries a payment edit intent; nil fields are left
// unchanged. Status may only move along the payment lifecycle.
type UpdatePaymentInput struct {
	Amount    *decimal.Decimal        `json:"amount,omitempty"`
	Method    *provider.PaymentMethod `json:"method,omitempty"`
	Reference *string                 `json:"reference,omitempty"`
	Status    *provider.PaymentStatus `json:"status,omitempty"`
}

// CreateDocumentInput carries a document upload intent
type CreateDocumentInput struct {
	Name string                `json:"name"`
	Type provider.DocumentType `json:"type"`
	URL  string                `json:"url,omitempty"`
}

// UpdateRatingInput carries a rating update intent
type UpdateRatingInput struct {
	Quality       decimal.Decimal `json:"quality"`
	Delivery      decimal.Decimal `json:"delivery"`
	Price         decimal.Decimal `json:"price"`
	Communication decimal.Decimal `json:"communication"`
	Comments      string          `json:"comments,omitempty"`
}
