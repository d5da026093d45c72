package provider

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsconsole/backend/internal/domain/shared"
)

func postedIdentity(id string) shared.Identity {
	return shared.ConfirmedIdentity(id)
}

// Fixture builders with pinned identities and timestamps so projections are
// checked against exact values.
func ledgerOrder(id, number string, status OrderStatus, total int64, createdAt time.Time) *PurchaseOrder {
	order := &PurchaseOrder{
		ID:          postedIdentity(id),
		ProviderID:  "prov-1",
		OrderNumber: number,
		Status:      status,
		Total:       decimal.NewFromInt(total),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	return order
}

func ledgerPayment(id, reference string, status PaymentStatus, amount int64, paymentDate time.Time) *Payment {
	return &Payment{
		ID:          postedIdentity(id),
		ProviderID:  "prov-1",
		Amount:      decimal.NewFromInt(amount),
		Method:      PaymentMethodTransfer,
		Status:      status,
		Reference:   reference,
		PaymentDate: paymentDate,
		CreatedAt:   paymentDate,
		UpdatedAt:   paymentDate,
	}
}

func TestProjectLedger_RunningBalance(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// A delivered order of 1000 followed by a completed payment of 400
	orders := []*PurchaseOrder{
		ledgerOrder("o-1", "PO-001", OrderStatusDelivered, 1000, base),
	}
	payments := []*Payment{
		ledgerPayment("p-1", "wire 77", PaymentStatusCompleted, 400, base.Add(48*time.Hour)),
	}

	view := ProjectLedger(orders, payments, AllTime(base.Add(30*24*time.Hour)))

	require.Len(t, view.Entries, 2)
	assert.Equal(t, LedgerEntryOrder, view.Entries[0].Kind)
	assert.True(t, view.Entries[0].Balance.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, LedgerEntryPayment, view.Entries[1].Kind)
	assert.True(t, view.Entries[1].Amount.Equal(decimal.NewFromInt(-400)))
	assert.True(t, view.Entries[1].Balance.Equal(decimal.NewFromInt(600)))

	assert.True(t, view.TotalOrdered.Equal(decimal.NewFromInt(1000)))
	assert.True(t, view.TotalPaid.Equal(decimal.NewFromInt(400)))
	assert.True(t, view.FinalBalance.Equal(decimal.NewFromInt(600)))
}

func TestProjectLedger_ExcludesNonPostingStatuses(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []*PurchaseOrder{
		ledgerOrder("o-1", "PO-001", OrderStatusDraft, 100, base),
		ledgerOrder("o-2", "PO-002", OrderStatusSent, 200, base.Add(time.Hour)),
		ledgerOrder("o-3", "PO-003", OrderStatusRejected, 300, base.Add(2*time.Hour)),
		ledgerOrder("o-4", "PO-004", OrderStatusCancelled, 400, base.Add(3*time.Hour)),
		ledgerOrder("o-5", "PO-005", OrderStatusDelivered, 500, base.Add(4*time.Hour)),
	}
	payments := []*Payment{
		ledgerPayment("p-1", "pending", PaymentStatusPending, 50, base.Add(5*time.Hour)),
		ledgerPayment("p-2", "cancelled", PaymentStatusCancelled, 60, base.Add(6*time.Hour)),
		ledgerPayment("p-3", "done", PaymentStatusCompleted, 70, base.Add(7*time.Hour)),
	}

	view := ProjectLedger(orders, payments, AllTime(base.Add(24*time.Hour)))

	require.Len(t, view.Entries, 3)
	assert.Equal(t, "PO-002", view.Entries[0].Description)
	assert.Equal(t, "PO-005", view.Entries[1].Description)
	assert.Equal(t, "done", view.Entries[2].Description)
	assert.True(t, view.TotalOrdered.Equal(decimal.NewFromInt(700)))
	assert.True(t, view.TotalPaid.Equal(decimal.NewFromInt(70)))
	assert.True(t, view.FinalBalance.Equal(decimal.NewFromInt(630)))
}

// A cancelled order must vanish from the statement even when a completed
// payment still references it; the balance then reflects an overpayment.
func TestProjectLedger_CancelledOrderWithCompletedPayment(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []*PurchaseOrder{
		ledgerOrder("o-1", "PO-001", OrderStatusCancelled, 1000, base),
	}
	payment := ledgerPayment("p-1", "deposit", PaymentStatusCompleted, 400, base.Add(time.Hour))
	payment.OrderID = "o-1"

	view := ProjectLedger(orders, []*Payment{payment}, AllTime(base.Add(24*time.Hour)))

	require.Len(t, view.Entries, 1)
	assert.Equal(t, LedgerEntryPayment, view.Entries[0].Kind)
	assert.True(t, view.FinalBalance.Equal(decimal.NewFromInt(-400)))
}

func TestProjectLedger_TimestampTieOrdersBeforePayments(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []*PurchaseOrder{
		ledgerOrder("o-1", "PO-001", OrderStatusSent, 100, ts),
	}
	payments := []*Payment{
		ledgerPayment("p-1", "same instant", PaymentStatusCompleted, 100, ts),
	}

	view := ProjectLedger(orders, payments, AllTime(ts.Add(time.Hour)))

	require.Len(t, view.Entries, 2)
	assert.Equal(t, LedgerEntryOrder, view.Entries[0].Kind)
	assert.Equal(t, LedgerEntryPayment, view.Entries[1].Kind)
	assert.True(t, view.Entries[1].Balance.IsZero())
}

// The projection is a pure function of the snapshot: feeding the same records
// in a different slice order must produce an identical statement.
func TestProjectLedger_InputOrderIndependence(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []*PurchaseOrder{
		ledgerOrder("o-1", "PO-001", OrderStatusDelivered, 300, base),
		ledgerOrder("o-2", "PO-002", OrderStatusSent, 200, base.Add(2*time.Hour)),
		ledgerOrder("o-3", "PO-003", OrderStatusAccepted, 150, base),
	}
	payments := []*Payment{
		ledgerPayment("p-1", "a", PaymentStatusCompleted, 100, base.Add(time.Hour)),
		ledgerPayment("p-2", "b", PaymentStatusCompleted, 50, base.Add(3*time.Hour)),
	}
	period := AllTime(base.Add(24 * time.Hour))

	forward := ProjectLedger(orders, payments, period)

	reversedOrders := []*PurchaseOrder{orders[2], orders[1], orders[0]}
	reversedPayments := []*Payment{payments[1], payments[0]}
	backward := ProjectLedger(reversedOrders, reversedPayments, period)

	require.Equal(t, len(forward.Entries), len(backward.Entries))
	for i := range forward.Entries {
		assert.Equal(t, forward.Entries[i].SourceID, backward.Entries[i].SourceID)
		assert.True(t, forward.Entries[i].Balance.Equal(backward.Entries[i].Balance))
	}
	assert.True(t, forward.FinalBalance.Equal(backward.FinalBalance))
}

func TestProjectLedger_FinalBalanceIdentity(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []*PurchaseOrder{
		ledgerOrder("o-1", "PO-001", OrderStatusSent, 123, base),
		ledgerOrder("o-2", "PO-002", OrderStatusInTransit, 456, base.Add(time.Hour)),
		ledgerOrder("o-3", "PO-003", OrderStatusDraft, 999, base.Add(2*time.Hour)),
	}
	payments := []*Payment{
		ledgerPayment("p-1", "x", PaymentStatusCompleted, 100, base.Add(90*time.Minute)),
		ledgerPayment("p-2", "y", PaymentStatusPending, 500, base.Add(2*time.Hour)),
	}

	view := ProjectLedger(orders, payments, AllTime(base.Add(24*time.Hour)))

	assert.True(t, view.FinalBalance.Equal(view.TotalOrdered.Sub(view.TotalPaid)))
	if len(view.Entries) > 0 {
		assert.True(t, view.FinalBalance.Equal(view.Entries[len(view.Entries)-1].Balance))
	}
}

func TestProjectLedger_PeriodFiltering(t *testing.T) {
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	orders := []*PurchaseOrder{
		ledgerOrder("o-old", "PO-OLD", OrderStatusDelivered, 100, asOf.Add(-60*24*time.Hour)),
		ledgerOrder("o-new", "PO-NEW", OrderStatusDelivered, 200, asOf.Add(-5*24*time.Hour)),
	}

	view := ProjectLedger(orders, nil, LastNDays(30, asOf))

	require.Len(t, view.Entries, 1)
	assert.Equal(t, "PO-NEW", view.Entries[0].Description)
	assert.True(t, view.FinalBalance.Equal(decimal.NewFromInt(200)))
}

func TestProjectLedger_EmptySnapshot(t *testing.T) {
	view := ProjectLedger(nil, nil, AllTime(time.Now()))

	assert.Empty(t, view.Entries)
	assert.True(t, view.FinalBalance.IsZero())
	assert.True(t, view.TotalOrdered.IsZero())
	assert.True(t, view.TotalPaid.IsZero())
}
