package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsconsole/backend/internal/domain/provider"
	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/opsconsole/backend/internal/infrastructure/config"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*RestGateway, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw, err := NewRestGateway(config.GatewayConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		APIKey:  "test-key",
	}, zap.NewNop())
	require.NoError(t, err)
	return gw, server
}

func TestNewRestGateway_RequiresBaseURL(t *testing.T) {
	_, err := NewRestGateway(config.GatewayConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestRestGateway_GetProvider(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/providers/prov-1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "prov-1",
			"name":   "Acme Quarries",
			"active": true,
		})
	})

	profile, err := gw.GetProvider(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Quarries", profile.Name)
	assert.True(t, profile.Active)
}

func TestRestGateway_CreateMaterial(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/providers/prov-1/materials", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var sent map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		assert.Equal(t, "Granite", sent["name"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "m-42",
			"name": "Granite",
			"unit": "m3",
		})
	})

	material := &provider.Material{
		ID:   shared.NewPendingIdentity(),
		Name: "Granite",
		Unit: "m3",
	}
	confirmed, err := gw.CreateMaterial(context.Background(), "prov-1", material)
	require.NoError(t, err)

	// A wire id is by definition server-issued
	assert.True(t, confirmed.ID.IsConfirmed())
	assert.Equal(t, "m-42", confirmed.ID.String())
}

func TestRestGateway_UpdatePurchaseOrderStatus(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/providers/prov-1/purchase-orders/o-7/status", r.URL.Path)

		var change provider.StatusChange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&change))
		assert.Equal(t, provider.OrderStatusSent, change.Status)

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "o-7",
			"status": "sent",
		})
	})

	order, err := gw.UpdatePurchaseOrderStatus(context.Background(), "prov-1", "o-7", provider.StatusChange{
		Status: provider.OrderStatusSent,
	})
	require.NoError(t, err)
	assert.Equal(t, provider.OrderStatusSent, order.Status)
}

func TestRestGateway_ListActivities_QueryEncoding(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.ElementsMatch(t, []string{"order_created", "payment_created"}, query["type"])
		assert.Equal(t, from.Format(time.RFC3339), query.Get("from"))

		json.NewEncoder(w).Encode(provider.ActivityPage{
			Activities: []provider.ActivityRecord{{ID: "a-1"}},
			Total:      1,
		})
	})

	page, err := gw.ListActivities(context.Background(), "prov-1", provider.ActivityFilter{
		Types: []provider.ActivityType{provider.ActivityOrderCreated, provider.ActivityPaymentCreated},
		From:  &from,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestRestGateway_DeleteMaterial(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/providers/prov-1/materials/m-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, gw.DeleteMaterial(context.Background(), "prov-1", "m-1"))
}

func TestRestGateway_FailureMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"not found", http.StatusNotFound, "", "NOT_FOUND"},
		{"not found with message", http.StatusNotFound, `{"code":"NOT_FOUND","message":"no such material"}`, "NOT_FOUND"},
		{"conflict", http.StatusConflict, "", "ALREADY_EXISTS"},
		{"server error", http.StatusInternalServerError, "boom", "GATEWAY_UNAVAILABLE"},
		{"bad gateway", http.StatusBadGateway, "", "GATEWAY_UNAVAILABLE"},
		{"validation failure passes code through", http.StatusUnprocessableEntity, `{"code":"INVALID_STATE","message":"order is terminal"}`, "INVALID_STATE"},
		{"anonymous rejection", http.StatusBadRequest, "", "GATEWAY_REJECTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := gw.GetProvider(context.Background(), "prov-1")
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestRestGateway_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // Connection refused from here on

	gw, err := NewRestGateway(config.GatewayConfig{BaseURL: server.URL}, zap.NewNop())
	require.NoError(t, err)

	_, err = gw.GetProvider(context.Background(), "prov-1")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "GATEWAY_UNAVAILABLE", domainErr.Code)
}
