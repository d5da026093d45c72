package provider

import (
	"sync"

	"github.com/opsconsole/backend/internal/domain/provider"
	"github.com/opsconsole/backend/internal/domain/shared"
)

// Resource is any sub-resource record addressable by identity
type Resource interface {
	Identity() shared.Identity
}

// Collection holds one sub-resource type for one provider. The view reads it
// synchronously while mutations resolve asynchronously: creates are applied
// optimistically under a pending identity and later reconciled (confirmed or
// rolled back), edits and deletes are applied only after confirmation.
type Collection[R Resource] struct {
	mu    sync.RWMutex
	items []R
}

// Snapshot returns a copy of the current records
func (c *Collection[R]) Snapshot() []R {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]R, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records
func (c *Collection[R]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the record with the given identity
func (c *Collection[R]) Get(id shared.Identity) (R, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Identity().Equal(id) {
			return item, true
		}
	}
	var zero R
	return zero, false
}

// GetConfirmed returns the record with the given server-issued id
func (c *Collection[R]) GetConfirmed(id string) (R, bool) {
	return c.Get(shared.ConfirmedIdentity(id))
}

// Reset replaces the whole collection, used by the initial load
func (c *Collection[R]) Reset(records []R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]R, len(records))
	copy(c.items, records)
}

// ApplyOptimistic inserts a provisional record at the front of the collection
// and returns its pending identity. The record must carry a pending identity;
// confirmed records go through Reset or Replace.
func (c *Collection[R]) ApplyOptimistic(record R) (shared.Identity, error) {
	id := record.Identity()
	if !id.IsPending() {
		return shared.Identity{}, shared.NewDomainError("NOT_PENDING", "Optimistic records must carry a pending identity")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]R{record}, c.items...)
	return id, nil
}

// Confirm replaces the record addressed by tempID with the confirmed record,
// in place. If no such record exists (a concurrent rollback already removed
// it) this is a no-op; it never fails.
func (c *Collection[R]) Confirm(tempID shared.Identity, confirmed R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.Identity().Equal(tempID) {
			c.items[i] = confirmed
			return
		}
	}
}

// Rollback removes the record addressed by tempID. No-op if absent.
func (c *Collection[R]) Rollback(tempID shared.Identity) {
	c.remove(tempID)
}

// Replace swaps the record with the given confirmed id for the updated one.
// Used by pessimistic update flows after gateway confirmation. No-op if the
// record is no longer present.
func (c *Collection[R]) Replace(id string, updated R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := shared.ConfirmedIdentity(id)
	for i, item := range c.items {
		if item.Identity().Equal(target) {
			c.items[i] = updated
			return
		}
	}
}

// Remove deletes the record with the given confirmed id. Used by pessimistic
// delete flows after gateway confirmation. No-op if absent.
func (c *Collection[R]) Remove(id string) {
	c.remove(shared.ConfirmedIdentity(id))
}

func (c *Collection[R]) remove(id shared.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.Identity().Equal(id) {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return
		}
	}
}

// Partition holds every cached sub-resource collection for one open provider
// view. Collections start empty, are populated by the initial load and are
// discarded when the view closes. Mutations against different partitions
// never interact.
type Partition struct {
	providerID string

	materials Collection[*provider.Material]
	orders    Collection[*provider.PurchaseOrder]
	payments  Collection[*provider.Payment]
	documents Collection[*provider.Document]

	mu         sync.RWMutex
	profile    *provider.Provider
	activities []provider.ActivityRecord
	rating     *provider.Rating
}

// ProviderID returns the partition key
func (p *Partition) ProviderID() string {
	return p.providerID
}

// Materials returns the material collection
func (p *Partition) Materials() *Collection[*provider.Material] {
	return &p.materials
}

// Orders returns the purchase order collection
func (p *Partition) Orders() *Collection[*provider.PurchaseOrder] {
	return &p.orders
}

// Payments returns the payment collection
func (p *Partition) Payments() *Collection[*provider.Payment] {
	return &p.payments
}

// Documents returns the document collection
func (p *Partition) Documents() *Collection[*provider.Document] {
	return &p.documents
}

// Profile returns the cached provider profile
func (p *Partition) Profile() *provider.Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.profile
}

// SetProfile caches the provider profile
func (p *Partition) SetProfile(profile *provider.Provider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = profile
}

// Activities returns a copy of the cached activity feed
func (p *Partition) Activities() []provider.ActivityRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]provider.ActivityRecord, len(p.activities))
	copy(out, p.activities)
	return out
}

// ReplaceActivities swaps the cached feed wholesale. The feed is
// non-authoritative audit data; it is never merged incrementally.
func (p *Partition) ReplaceActivities(records []provider.ActivityRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activities = make([]provider.ActivityRecord, len(records))
	copy(p.activities, records)
}

// Rating returns the cached rating, which may be nil before the first load
func (p *Partition) Rating() *provider.Rating {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rating
}

// SetRating caches the rating
func (p *Partition) SetRating(r *provider.Rating) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rating = r
}

// Store is the reconciliation store: per-provider partitions of cached
// sub-resource collections. It is the sole mutable shared structure of the
// sync engine; the ledger projection and KPI aggregation only ever read
// snapshots taken from it.
type Store struct {
	mu         sync.RWMutex
	partitions map[string]*Partition
}

// NewStore creates an empty reconciliation store
func NewStore() *Store {
	return &Store{partitions: make(map[string]*Partition)}
}

// Open returns the partition for the provider, creating an empty one if the
// provider view was not open yet
func (s *Store) Open(providerID string) *Partition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[providerID]; ok {
		return p
	}
	p := &Partition{providerID: providerID}
	s.partitions[providerID] = p
	return p
}

// Get returns the partition for the provider if its view is open
func (s *Store) Get(providerID string) (*Partition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.partitions[providerID]
	return p, ok
}

// Close discards the partition for the provider. Cached collections are not
// persisted anywhere; the remote store remains the sole source of truth.
func (s *Store) Close(providerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, providerID)
}
