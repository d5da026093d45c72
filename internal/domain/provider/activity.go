package provider

import "time"

// ActivityType classifies audit feed entries by the mutation that produced them
type ActivityType string

const (
	ActivityMaterialCreated    ActivityType = "material_created"
	ActivityMaterialUpdated    ActivityType = "material_updated"
	ActivityMaterialDeleted    ActivityType = "material_deleted"
	ActivityOrderCreated       ActivityType = "order_created"
	ActivityOrderUpdated       ActivityType = "order_updated"
	ActivityOrderStatusChanged ActivityType = "order_status_changed"
	ActivityOrderDeleted       ActivityType = "order_deleted"
	ActivityPaymentCreated     ActivityType = "payment_created"
	ActivityPaymentUpdated     ActivityType = "payment_updated"
	ActivityPaymentDeleted     ActivityType = "payment_deleted"
	ActivityRatingUpdated      ActivityType = "rating_updated"
)

// ActivityRecord is an immutable, server-generated audit entry. The client
// never creates one directly; the cached feed is only ever replaced wholesale
// after a refresh.
type ActivityRecord struct {
	ID          string       `json:"id"`
	ProviderID  string       `json:"providerId"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Actor       string       `json:"actor"`
	Timestamp   time.Time    `json:"timestamp"`
}

// ActivityFilter narrows an activity feed read
type ActivityFilter struct {
	Types []ActivityType `json:"types,omitempty"`
	From  *time.Time     `json:"from,omitempty"`
	To    *time.Time     `json:"to,omitempty"`
}

// Matches reports whether the record passes the filter
func (f ActivityFilter) Matches(r ActivityRecord) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if r.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && r.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && r.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// ActivityPage is a feed read result
type ActivityPage struct {
	Activities []ActivityRecord `json:"activities"`
	Total      int              `json:"total"`
}
