package provider

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryKind discriminates statement lines by source
type LedgerEntryKind string

const (
	LedgerEntryOrder   LedgerEntryKind = "order"
	LedgerEntryPayment LedgerEntryKind = "payment"
)

// LedgerEntry is one chronological line of the account statement. Amount is
// signed: order totals post positive (owed to the provider), completed
// payments post negative. Balance is the running balance after the entry.
type LedgerEntry struct {
	Kind        LedgerEntryKind `json:"kind"`
	SourceID    string          `json:"sourceId"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerView is the account statement derived from a store snapshot
type LedgerView struct {
	Entries      []LedgerEntry   `json:"entries"`
	TotalOrdered decimal.Decimal `json:"totalOrdered"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	FinalBalance decimal.Decimal `json:"finalBalance"` // Positive = owed to provider
}

// ProjectLedger computes the running-balance account statement from the given
// snapshot. It is a pure function: inputs are never mutated, no state is
// cached, and identical inputs produce identical output regardless of the
// order of the input slices.
//
// Orders post when their status is sent, accepted, in_transit or delivered;
// draft, rejected and cancelled orders never appear. Payments post when
// completed. Events are sorted ascending by timestamp, with orders before
// payments on equal timestamps.
func ProjectLedger(orders []*PurchaseOrder, payments []*Payment, period Period) LedgerView {
	entries := make([]LedgerEntry, 0, len(orders)+len(payments))
	totalOrdered := decimal.Zero
	totalPaid := decimal.Zero

	for _, o := range orders {
		if !o.Status.PostsToLedger() || !period.Contains(o.CreatedAt) {
			continue
		}
		entries = append(entries, LedgerEntry{
			Kind:        LedgerEntryOrder,
			SourceID:    o.ID.String(),
			Description: o.OrderNumber,
			Timestamp:   o.CreatedAt,
			Amount:      o.Total,
		})
		totalOrdered = totalOrdered.Add(o.Total)
	}
	for _, p := range payments {
		if !p.IsCompleted() || !period.Contains(p.PaymentDate) {
			continue
		}
		entries = append(entries, LedgerEntry{
			Kind:        LedgerEntryPayment,
			SourceID:    p.ID.String(),
			Description: p.Reference,
			Timestamp:   p.PaymentDate,
			Amount:      p.Amount.Neg(),
		})
		totalPaid = totalPaid.Add(p.Amount)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Kind != b.Kind {
			return a.Kind == LedgerEntryOrder
		}
		return a.SourceID < b.SourceID
	})

	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Amount)
		entries[i].Balance = balance
	}

	return LedgerView{
		Entries:      entries,
		TotalOrdered: totalOrdered,
		TotalPaid:    totalPaid,
		FinalBalance: totalOrdered.Sub(totalPaid),
	}
}
