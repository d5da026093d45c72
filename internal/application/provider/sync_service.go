package provider

import (
	"context"
	"sync"

	"github.com/opsconsole/backend/internal/domain/provider"
	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SyncService coordinates the reconciliation store and the remote gateway.
// Creates are optimistic: a provisional record with a pending identity is
// inserted before the gateway round trip and reconciled afterwards. Edits and
// deletes are pessimistic: the store is only touched after the gateway has
// confirmed, so a failure leaves nothing to undo.
type SyncService struct {
	gateway    provider.Gateway
	store      *Store
	activities *ActivitySynchronizer
	logger     *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(gateway provider.Gateway, store *Store, activities *ActivitySynchronizer, logger *zap.Logger) *SyncService {
	return &SyncService{
		gateway:    gateway,
		store:      store,
		activities: activities,
		logger:     logger,
	}
}

// Open loads the provider profile and fetches every sub-resource collection
// in parallel. A failed collection fetch degrades that collection to empty
// instead of blocking the others; only a missing profile fails the open.
func (s *SyncService) Open(ctx context.Context, providerID string) (*provider.Provider, error) {
	profile, err := s.gateway.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	partition := s.store.Open(providerID)
	partition.SetProfile(profile)

	var wg sync.WaitGroup
	load := func(collection string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.Warn("initial collection load failed",
					zap.String("provider_id", providerID),
					zap.String("collection", collection),
					zap.Error(err))
			}
		}()
	}

	load("materials", func() error {
		items, err := s.gateway.ListMaterials(ctx, providerID)
		if err != nil {
			return err
		}
		partition.Materials().Reset(items)
		return nil
	})
	load("orders", func() error {
		items, err := s.gateway.ListPurchaseOrders(ctx, providerID)
		if err != nil {
			return err
		}
		partition.Orders().Reset(items)
		return nil
	})
	load("payments", func() error {
		items, err := s.gateway.ListPayments(ctx, providerID)
		if err != nil {
			return err
		}
		partition.Payments().Reset(items)
		return nil
	})
	load("documents", func() error {
		items, err := s.gateway.ListDocuments(ctx, providerID)
		if err != nil {
			return err
		}
		partition.Documents().Reset(items)
		return nil
	})
	load("activities", func() error {
		return s.activities.RefreshNow(ctx, providerID)
	})
	load("rating", func() error {
		rating, err := s.gateway.GetRating(ctx, providerID)
		if err != nil {
			return err
		}
		partition.SetRating(rating)
		return nil
	})

	wg.Wait()
	return profile, nil
}

// Close discards all cached collections for the provider
func (s *SyncService) Close(providerID string) {
	s.store.Close(providerID)
}

// Drain waits for in-flight activity refreshes, used on shutdown
func (s *SyncService) Drain() {
	s.activities.Wait()
}

func (s *SyncService) partition(providerID string) (*Partition, error) {
	partition, ok := s.store.Get(providerID)
	if !ok {
		return nil, shared.ErrProviderNotOpen
	}
	return partition, nil
}

// Profile returns the cached provider profile
func (s *SyncService) Profile(providerID string) (*provider.Provider, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}
	return partition.Profile(), nil
}

// ---------------------------------------------------------------------------
// Materials
// ---------------------------------------------------------------------------

// Materials returns a snapshot of the material collection
func (s *SyncService) Materials(providerID string) ([]*provider.Material, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}
	return partition.Materials().Snapshot(), nil
}

// CreateMaterial applies the create optimistically, then reconciles it with
// the gateway response: confirm on success, rollback before surfacing the
// failure so the view never observes a temp record whose call has failed.
func (s *SyncService) CreateMaterial(ctx context.Context, providerID string, input CreateMaterialInput) (*provider.Material, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	material, err := provider.NewMaterial(providerID, input.Name, input.Unit, input.UnitPrice, input.Stock)
	if err != nil {
		return nil, err
	}

	tempID, err := partition.Materials().ApplyOptimistic(material)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.CreateMaterial(ctx, providerID, material)
	if err != nil {
		partition.Materials().Rollback(tempID)
		return nil, err
	}

	partition.Materials().Confirm(tempID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// UpdateMaterial edits a material pessimistically: the gateway call goes
// first and the store is only touched on success
func (s *SyncService) UpdateMaterial(ctx context.Context, providerID, materialID string, input UpdateMaterialInput) (*provider.Material, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	current, ok := partition.Materials().GetConfirmed(materialID)
	if !ok {
		return nil, shared.ErrNotFound
	}

	updated := *current
	if err := updated.Update(input.Name, input.Unit, input.UnitPrice, input.Stock, input.Active); err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.UpdateMaterial(ctx, providerID, materialID, &updated)
	if err != nil {
		return nil, err
	}

	partition.Materials().Replace(materialID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// DeleteMaterial removes a material pessimistically
func (s *SyncService) DeleteMaterial(ctx context.Context, providerID, materialID string) error {
	partition, err := s.partition(providerID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeleteMaterial(ctx, providerID, materialID); err != nil {
		return err
	}

	partition.Materials().Remove(materialID)
	s.activities.Refresh(providerID)

	return nil
}

// ---------------------------------------------------------------------------
// Purchase orders
// ---------------------------------------------------------------------------

// Orders returns a snapshot of the purchase order collection
func (s *SyncService) Orders(providerID string) ([]*provider.PurchaseOrder, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}
	return partition.Orders().Snapshot(), nil
}

// CreateOrder applies an optimistic order create
func (s *SyncService) CreateOrder(ctx context.Context, providerID string, input CreateOrderInput) (*provider.PurchaseOrder, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	items := make([]provider.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		item, err := provider.NewOrderItem(in.MaterialID, in.Description, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	order, err := provider.NewPurchaseOrder(providerID, input.OrderNumber, input.TaxRate, items)
	if err != nil {
		return nil, err
	}
	order.Notes = input.Notes
	order.ExpectedDeliveryDate = input.ExpectedDeliveryDate

	tempID, err := partition.Orders().ApplyOptimistic(order)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.CreatePurchaseOrder(ctx, providerID, order)
	if err != nil {
		partition.Orders().Rollback(tempID)
		return nil, err
	}

	partition.Orders().Confirm(tempID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// UpdateOrder edits a draft order pessimistically
func (s *SyncService) UpdateOrder(ctx context.Context, providerID, orderID string, input UpdateOrderInput) (*provider.PurchaseOrder, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	current, ok := partition.Orders().GetConfirmed(orderID)
	if !ok {
		return nil, shared.ErrNotFound
	}

	updated := cloneOrder(current)
	if input.Items != nil {
		items := make([]provider.OrderItem, 0, len(input.Items))
		for _, in := range input.Items {
			item, err := provider.NewOrderItem(in.MaterialID, in.Description, in.Quantity, in.UnitPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
		if err := updated.ReplaceItems(items); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		updated.Notes = *input.Notes
	}

	confirmed, err := s.gateway.UpdatePurchaseOrder(ctx, providerID, orderID, updated)
	if err != nil {
		return nil, err
	}

	partition.Orders().Replace(orderID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// UpdateOrderStatus applies a lifecycle transition pessimistically. The
// transition table is enforced against the cached order before the gateway
// is called, so an illegal transition never leaves the client.
func (s *SyncService) UpdateOrderStatus(ctx context.Context, providerID, orderID string, change provider.StatusChange) (*provider.PurchaseOrder, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	current, ok := partition.Orders().GetConfirmed(orderID)
	if !ok {
		return nil, shared.ErrNotFound
	}

	staged := cloneOrder(current)
	if err := staged.ChangeStatus(change); err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.UpdatePurchaseOrderStatus(ctx, providerID, orderID, change)
	if err != nil {
		return nil, err
	}

	partition.Orders().Replace(orderID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// DeleteOrder removes an order pessimistically
func (s *SyncService) DeleteOrder(ctx context.Context, providerID, orderID string) error {
	partition, err := s.partition(providerID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeletePurchaseOrder(ctx, providerID, orderID); err != nil {
		return err
	}

	partition.Orders().Remove(orderID)
	s.activities.Refresh(providerID)

	return nil
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// Payments returns a snapshot of the payment collection
func (s *SyncService) Payments(providerID string) ([]*provider.Payment, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}
	return partition.Payments().Snapshot(), nil
}

// CreatePayment applies an optimistic payment create. The order reference is
// soft-checked at confirmation time: a reference to an order absent from the
// partition is tolerated and logged, not rejected, since the order may have
// been deleted elsewhere.
func (s *SyncService) CreatePayment(ctx context.Context, providerID string, input CreatePaymentInput) (*provider.Payment, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	payment, err := provider.NewPayment(providerID, input.OrderID, input.Amount, input.Method, input.PaymentDate)
	if err != nil {
		return nil, err
	}
	payment.Reference = input.Reference
	for _, name := range input.Attachments {
		if err := payment.AddAttachment(name); err != nil {
			return nil, err
		}
	}

	tempID, err := partition.Payments().ApplyOptimistic(payment)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.CreatePayment(ctx, providerID, payment)
	if err != nil {
		partition.Payments().Rollback(tempID)
		return nil, err
	}

	if confirmed.HasOrderReference() {
		if _, ok := partition.Orders().GetConfirmed(confirmed.OrderID); !ok {
			s.logger.Warn("payment references an order absent from the local view",
				zap.String("provider_id", providerID),
				zap.String("payment_id", confirmed.ID.String()),
				zap.String("order_id", confirmed.OrderID))
		}
	}

	partition.Payments().Confirm(tempID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// UpdatePayment edits a payment pessimistically. Status changes move through
// the payment lifecycle, so finalized payments reject further edits.
func (s *SyncService) UpdatePayment(ctx context.Context, providerID, paymentID string, input UpdatePaymentInput) (*provider.Payment, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	current, ok := partition.Payments().GetConfirmed(paymentID)
	if !ok {
		return nil, shared.ErrNotFound
	}

	updated := clonePayment(current)
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
		}
		updated.Amount = *input.Amount
	}
	if input.Method != nil {
		if !input.Method.IsValid() {
			return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
		}
		updated.Method = *input.Method
	}
	if input.Reference != nil {
		updated.Reference = *input.Reference
	}
	if input.Status != nil {
		switch *input.Status {
		case provider.PaymentStatusCompleted:
			if err := updated.Complete(); err != nil {
				return nil, err
			}
		case provider.PaymentStatusCancelled:
			if err := updated.Cancel(); err != nil {
				return nil, err
			}
		case provider.PaymentStatusPending:
			if updated.Status != provider.PaymentStatusPending {
				return nil, shared.NewDomainError("INVALID_STATE", "Payment cannot return to pending")
			}
		default:
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown payment status")
		}
	}

	confirmed, err := s.gateway.UpdatePayment(ctx, providerID, paymentID, updated)
	if err != nil {
		return nil, err
	}

	partition.Payments().Replace(paymentID, confirmed)
	s.activities.Refresh(providerID)

	return confirmed, nil
}

// DeletePayment removes a payment pessimistically
func (s *SyncService) DeletePayment(ctx context.Context, providerID, paymentID string) error {
	partition, err := s.partition(providerID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeletePayment(ctx, providerID, paymentID); err != nil {
		return err
	}

	partition.Payments().Remove(paymentID)
	s.activities.Refresh(providerID)

	return nil
}

// ---------------------------------------------------------------------------
// Activities, documents, rating
// ---------------------------------------------------------------------------

// Activities returns the cached feed, filtered. The feed is eventually
// consistent with confirmed mutations: a stale read between confirmation and
// refresh is expected and tolerated.
func (s *SyncService) Activities(providerID string, filter provider.ActivityFilter) ([]provider.ActivityRecord, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	all := partition.Activities()
	out := make([]provider.ActivityRecord, 0, len(all))
	for _, record := range all {
		if filter.Matches(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Documents returns a snapshot of the document collection
func (s *SyncService) Documents(providerID string) ([]*provider.Document, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}
	return partition.Documents().Snapshot(), nil
}

// UploadDocument applies an optimistic document create. Document mutations
// do not produce audit entries, so no feed refresh is triggered.
func (s *SyncService) UploadDocument(ctx context.Context, providerID string, input CreateDocumentInput) (*provider.Document, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	document, err := provider.NewDocument(providerID, input.Name, input.Type)
	if err != nil {
		return nil, err
	}
	document.URL = input.URL

	tempID, err := partition.Documents().ApplyOptimistic(document)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.CreateDocument(ctx, providerID, document)
	if err != nil {
		partition.Documents().Rollback(tempID)
		return nil, err
	}

	partition.Documents().Confirm(tempID, confirmed)
	return confirmed, nil
}

// DeleteDocument removes a document pessimistically
func (s *SyncService) DeleteDocument(ctx context.Context, providerID, documentID string) error {
	partition, err := s.partition(providerID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeleteDocument(ctx, providerID, documentID); err != nil {
		return err
	}

	partition.Documents().Remove(documentID)
	return nil
}

// Rating returns the cached rating
func (s *SyncService) Rating(providerID string) (*provider.Rating, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}
	return partition.Rating(), nil
}

// UpdateRating updates the provider rating pessimistically
func (s *SyncService) UpdateRating(ctx context.Context, providerID string, input UpdateRatingInput) (*provider.Rating, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return nil, err
	}

	rating, err := provider.NewRating(providerID, input.Quality, input.Delivery, input.Price, input.Communication, input.Comments)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.gateway.UpdateRating(ctx, providerID, rating)
	if err != nil {
		return nil, err
	}

	partition.SetRating(confirmed)
	return confirmed, nil
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

// Statement computes the running-balance account statement from the current
// store snapshot. It recomputes on every call; nothing is cached.
func (s *SyncService) Statement(providerID string, period provider.Period) (provider.LedgerView, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return provider.LedgerView{}, err
	}
	return provider.ProjectLedger(partition.Orders().Snapshot(), partition.Payments().Snapshot(), period), nil
}

// KPIs computes the performance metrics from the current store snapshot
func (s *SyncService) KPIs(providerID string, period provider.Period) (provider.KPIView, error) {
	partition, err := s.partition(providerID)
	if err != nil {
		return provider.KPIView{}, err
	}
	return provider.AggregateKPIs(partition.Orders().Snapshot(), partition.Payments().Snapshot(), partition.Materials().Snapshot(), period), nil
}

func cloneOrder(o *provider.PurchaseOrder) *provider.PurchaseOrder {
	clone := *o
	clone.Items = append([]provider.OrderItem(nil), o.Items...)
	return &clone
}

func clonePayment(p *provider.Payment) *provider.Payment {
	clone := *p
	clone.Attachments = append([]string(nil), p.Attachments...)
	return &clone
}
