package provider

import (
	"github.com/shopspring/decimal"
)

// KPIView holds the performance and compliance metrics derived from a store
// snapshot. Every ratio is zero-guarded: an empty snapshot yields defined
// zero values, never NaN, because the KPI panel renders unconditionally.
type KPIView struct {
	TotalSpend          decimal.Decimal     `json:"totalSpend"`
	TotalOrdered        decimal.Decimal     `json:"totalOrdered"`
	OutstandingBalance  decimal.Decimal     `json:"outstandingBalance"`
	OrderCounts         map[OrderStatus]int `json:"orderCounts"`
	TotalOrders         int                 `json:"totalOrders"`
	CompletionRate      decimal.Decimal     `json:"completionRate"` // delivered / total
	AverageOrderValue   decimal.Decimal     `json:"averageOrderValue"`
	AverageLeadTimeDays decimal.Decimal     `json:"averageLeadTimeDays"` // Delivered orders only
	OnTimeDeliveryRate  decimal.Decimal     `json:"onTimeDeliveryRate"`  // Delivered orders only
	ActiveMaterials     int                 `json:"activeMaterials"`
	DaysSinceLastOrder  *int                `json:"daysSinceLastOrder"` // nil when no orders exist
}

// AggregateKPIs computes the KPI view from the given snapshot. Like the
// ledger projection it is pure: inputs are never mutated and identical
// inputs produce identical output.
func AggregateKPIs(orders []*PurchaseOrder, payments []*Payment, materials []*Material, period Period) KPIView {
	view := KPIView{
		TotalSpend:          decimal.Zero,
		TotalOrdered:        decimal.Zero,
		OutstandingBalance:  decimal.Zero,
		OrderCounts:         make(map[OrderStatus]int),
		CompletionRate:      decimal.Zero,
		AverageOrderValue:   decimal.Zero,
		AverageLeadTimeDays: decimal.Zero,
		OnTimeDeliveryRate:  decimal.Zero,
	}

	var (
		delivered     int
		onTime        int
		leadTimeHours decimal.Decimal
		lastOrderAt   *PurchaseOrder
	)

	for _, o := range orders {
		if !period.Contains(o.CreatedAt) {
			continue
		}
		view.OrderCounts[o.Status]++
		view.TotalOrders++
		if o.Status.PostsToLedger() {
			view.TotalOrdered = view.TotalOrdered.Add(o.Total)
		}
		if o.IsDelivered() {
			delivered++
			if o.DeliveredOnTime() {
				onTime++
			}
			leadTimeHours = leadTimeHours.Add(decimal.NewFromFloat(o.LeadTime().Hours()))
		}
		if lastOrderAt == nil || o.CreatedAt.After(lastOrderAt.CreatedAt) {
			lastOrderAt = o
		}
	}

	for _, p := range payments {
		if !p.IsCompleted() || !period.Contains(p.PaymentDate) {
			continue
		}
		view.TotalSpend = view.TotalSpend.Add(p.Amount)
	}

	for _, m := range materials {
		if m.IsActive() {
			view.ActiveMaterials++
		}
	}

	view.OutstandingBalance = view.TotalOrdered.Sub(view.TotalSpend)

	if view.TotalOrders > 0 {
		view.CompletionRate = decimal.NewFromInt(int64(delivered)).
			Div(decimal.NewFromInt(int64(view.TotalOrders))).Round(4)
		view.AverageOrderValue = view.TotalOrdered.
			Div(decimal.NewFromInt(int64(view.TotalOrders))).Round(2)
	}
	if delivered > 0 {
		view.AverageLeadTimeDays = leadTimeHours.
			Div(decimal.NewFromInt(int64(delivered))).
			Div(decimal.NewFromInt(24)).Round(2)
		view.OnTimeDeliveryRate = decimal.NewFromInt(int64(onTime)).
			Div(decimal.NewFromInt(int64(delivered))).Round(4)
	}
	if lastOrderAt != nil {
		days := int(period.AsOf().Sub(lastOrderAt.CreatedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		view.DaysSinceLastOrder = &days
	}

	return view
}
