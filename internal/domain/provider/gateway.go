package provider

import "context"

// Gateway is the remote resource gateway: the CRUD boundary to the backend
// that owns all provider sub-resources. Every method is potentially slow and
// potentially failing; none is assumed synchronous. Creates and updates
// return the confirmed entity as the server stored it.
type Gateway interface {
	GetProvider(ctx context.Context, providerID string) (*Provider, error)

	ListMaterials(ctx context.Context, providerID string) ([]*Material, error)
	CreateMaterial(ctx context.Context, providerID string, material *Material) (*Material, error)
	UpdateMaterial(ctx context.Context, providerID, materialID string, material *Material) (*Material, error)
	DeleteMaterial(ctx context.Context, providerID, materialID string) error

	ListPurchaseOrders(ctx context.Context, providerID string) ([]*PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, providerID string, order *PurchaseOrder) (*PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, providerID, orderID string, order *PurchaseOrder) (*PurchaseOrder, error)
	UpdatePurchaseOrderStatus(ctx context.Context, providerID, orderID string, change StatusChange) (*PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, providerID, orderID string) error

	ListPayments(ctx context.Context, providerID string) ([]*Payment, error)
	CreatePayment(ctx context.Context, providerID string, payment *Payment) (*Payment, error)
	UpdatePayment(ctx context.Context, providerID, paymentID string, payment *Payment) (*Payment, error)
	DeletePayment(ctx context.Context, providerID, paymentID string) error

	ListActivities(ctx context.Context, providerID string, filter ActivityFilter) (*ActivityPage, error)

	ListDocuments(ctx context.Context, providerID string) ([]*Document, error)
	CreateDocument(ctx context.Context, providerID string, document *Document) (*Document, error)
	DeleteDocument(ctx context.Context, providerID, documentID string) error

	GetRating(ctx context.Context, providerID string) (*Rating, error)
	UpdateRating(ctx context.Context, providerID string, rating *Rating) (*Rating, error)
}
