package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Kinds(t *testing.T) {
	pending := NewPendingIdentity()
	assert.True(t, pending.IsPending())
	assert.False(t, pending.IsConfirmed())
	assert.NotEmpty(t, pending.String())

	confirmed := ConfirmedIdentity("m-42")
	assert.True(t, confirmed.IsConfirmed())
	assert.False(t, confirmed.IsPending())
	assert.Equal(t, "m-42", confirmed.String())

	var zero Identity
	assert.True(t, zero.IsZero())
	assert.False(t, pending.IsZero())
}

func TestIdentity_Equal(t *testing.T) {
	// Same value under different kinds must not collide
	pending := Identity{Kind: IdentityPending, Value: "x"}
	confirmed := ConfirmedIdentity("x")

	assert.False(t, pending.Equal(confirmed))
	assert.True(t, confirmed.Equal(ConfirmedIdentity("x")))
	assert.False(t, confirmed.Equal(ConfirmedIdentity("y")))
}

func TestIdentity_JSON(t *testing.T) {
	// Marshals to the bare value
	data, err := json.Marshal(ConfirmedIdentity("m-42"))
	require.NoError(t, err)
	assert.JSONEq(t, `"m-42"`, string(data))

	// Unmarshals as confirmed: wire identities are server-issued
	var id Identity
	require.NoError(t, json.Unmarshal([]byte(`"o-7"`), &id))
	assert.True(t, id.IsConfirmed())
	assert.Equal(t, "o-7", id.Value)
}
