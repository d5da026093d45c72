package shared

import (
	"encoding/json"

	"github.com/google/uuid"
)

// IdentityKind discriminates between server-issued and locally generated identities
type IdentityKind string

const (
	IdentityConfirmed IdentityKind = "confirmed" // Issued by the remote store
	IdentityPending   IdentityKind = "pending"   // Locally generated, awaiting confirmation
)

// Identity is the identity of a sub-resource record. A record is either
// confirmed (it carries the id the server issued) or pending (it carries a
// locally generated placeholder that will be reconciled away on confirmation
// or rollback). Matching is by kind and value, never by string prefix.
type Identity struct {
	Kind  IdentityKind `json:"kind"`
	Value string       `json:"value"`
}

// NewPendingIdentity generates a temporary identity for an optimistic record.
// The value space (UUID) is disjoint from any identity the server issues.
func NewPendingIdentity() Identity {
	return Identity{Kind: IdentityPending, Value: uuid.NewString()}
}

// ConfirmedIdentity wraps a server-issued id
func ConfirmedIdentity(id string) Identity {
	return Identity{Kind: IdentityConfirmed, Value: id}
}

// IsPending returns true for locally generated identities
func (i Identity) IsPending() bool {
	return i.Kind == IdentityPending
}

// IsConfirmed returns true for server-issued identities
func (i Identity) IsConfirmed() bool {
	return i.Kind == IdentityConfirmed
}

// IsZero returns true if the identity is unset
func (i Identity) IsZero() bool {
	return i.Kind == "" && i.Value == ""
}

// Equal compares two identities by kind and value
func (i Identity) Equal(other Identity) bool {
	return i.Kind == other.Kind && i.Value == other.Value
}

// String returns the raw identity value
func (i Identity) String() string {
	return i.Value
}

// MarshalJSON renders the identity as its raw value; the kind is an internal
// reconciliation concern and pending records are never sent to the server.
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Value)
}

// UnmarshalJSON decodes a server payload id. Anything arriving over the wire
// is by definition server-issued, so the identity is confirmed.
func (i *Identity) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*i = ConfirmedIdentity(value)
	return nil
}
