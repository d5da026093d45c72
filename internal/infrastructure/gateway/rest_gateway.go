package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opsconsole/backend/internal/domain/provider"
	"github.com/opsconsole/backend/internal/domain/shared"
	"github.com/opsconsole/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the gateway (10MB)
const maxResponseSize = 10 * 1024 * 1024

// RestGateway implements the provider.Gateway contract against the remote
// REST backend that owns all provider sub-resources. Transport failures are
// mapped to DomainError codes so callers never see raw HTTP errors.
type RestGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRestGateway creates a gateway client from configuration
func NewRestGateway(cfg config.GatewayConfig, logger *zap.Logger) (*RestGateway, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, shared.NewDomainError("INVALID_CONFIG", "Gateway base URL cannot be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RestGateway{
		baseURL: base,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// errorBody is the error envelope the backend returns on failure
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do performs one round trip, encoding body as JSON when present and
// decoding the response into out when non-nil
func (g *RestGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return shared.NewDomainError("ENCODING_FAILED", err.Error())
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return shared.NewDomainError("INVALID_REQUEST", err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return shared.NewDomainError("GATEWAY_UNAVAILABLE", err.Error())
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return shared.NewDomainError("GATEWAY_UNAVAILABLE", err.Error())
	}

	if resp.StatusCode >= 400 {
		return g.mapFailure(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return shared.NewDomainError("DECODING_FAILED", err.Error())
	}
	return nil
}

// mapFailure converts an HTTP failure into a structured domain failure,
// preferring the code and message the backend supplied
func (g *RestGateway) mapFailure(status int, payload []byte) error {
	var body errorBody
	_ = json.Unmarshal(payload, &body)

	switch {
	case status == http.StatusNotFound:
		if body.Message != "" {
			return shared.NewDomainError("NOT_FOUND", body.Message)
		}
		return shared.ErrNotFound
	case status == http.StatusConflict:
		if body.Message != "" {
			return shared.NewDomainError("ALREADY_EXISTS", body.Message)
		}
		return shared.ErrAlreadyExists
	case status >= 500:
		return shared.ErrGatewayUnavailable
	default:
		code := body.Code
		if code == "" {
			code = "GATEWAY_REJECTED"
		}
		message := body.Message
		if message == "" {
			message = fmt.Sprintf("Gateway rejected the request with status %d", status)
		}
		return shared.NewDomainError(code, message)
	}
}

func providerPath(providerID string, parts ...string) string {
	segments := append([]string{"", "providers", url.PathEscape(providerID)}, parts...)
	return strings.Join(segments, "/")
}

// GetProvider fetches the provider profile
func (g *RestGateway) GetProvider(ctx context.Context, providerID string) (*provider.Provider, error) {
	var out provider.Provider
	if err := g.do(ctx, http.MethodGet, providerPath(providerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMaterials fetches the material collection
func (g *RestGateway) ListMaterials(ctx context.Context, providerID string) ([]*provider.Material, error) {
	var out []*provider.Material
	if err := g.do(ctx, http.MethodGet, providerPath(providerID, "materials"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMaterial persists a new material and returns the confirmed entity
func (g *RestGateway) CreateMaterial(ctx context.Context, providerID string, material *provider.Material) (*provider.Material, error) {
	var out provider.Material
	if err := g.do(ctx, http.MethodPost, providerPath(providerID, "materials"), material, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMaterial persists a material edit and returns the confirmed entity
func (g *RestGateway) UpdateMaterial(ctx context.Context, providerID, materialID string, material *provider.Material) (*provider.Material, error) {
	var out provider.Material
	if err := g.do(ctx, http.MethodPut, providerPath(providerID, "materials", url.PathEscape(materialID)), material, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMaterial removes a material
func (g *RestGateway) DeleteMaterial(ctx context.Context, providerID, materialID string) error {
	return g.do(ctx, http.MethodDelete, providerPath(providerID, "materials", url.PathEscape(materialID)), nil, nil)
}

// ListPurchaseOrders fetches the purchase order collection
func (g *RestGateway) ListPurchaseOrders(ctx context.Context, providerID string) ([]*provider.PurchaseOrder, error) {
	var out []*provider.PurchaseOrder
	if err := g.do(ctx, http.MethodGet, providerPath(providerID, "purchase-orders"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePurchaseOrder persists a new order and returns the confirmed entity
func (g *RestGateway) CreatePurchaseOrder(ctx context.Context, providerID string, order *provider.PurchaseOrder) (*provider.PurchaseOrder, error) {
	var out provider.PurchaseOrder
	if err := g.do(ctx, http.MethodPost, providerPath(providerID, "purchase-orders"), order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePurchaseOrder persists an order edit and returns the confirmed entity
func (g *RestGateway) UpdatePurchaseOrder(ctx context.Context, providerID, orderID string, order *provider.PurchaseOrder) (*provider.PurchaseOrder, error) {
	var out provider.PurchaseOrder
	if err := g.do(ctx, http.MethodPut, providerPath(providerID, "purchase-orders", url.PathEscape(orderID)), order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePurchaseOrderStatus applies a lifecycle transition server-side
func (g *RestGateway) UpdatePurchaseOrderStatus(ctx context.Context, providerID, orderID string, change provider.StatusChange) (*provider.PurchaseOrder, error) {
	var out provider.PurchaseOrder
	if err := g.do(ctx, http.MethodPatch, providerPath(providerID, "purchase-orders", url.PathEscape(orderID), "status"), change, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePurchaseOrder removes an order
func (g *RestGateway) DeletePurchaseOrder(ctx context.Context, providerID, orderID string) error {
	return g.do(ctx, http.MethodDelete, providerPath(providerID, "purchase-orders", url.PathEscape(orderID)), nil, nil)
}

// ListPayments fetches the payment collection
func (g *RestGateway) ListPayments(ctx context.Context, providerID string) ([]*provider.Payment, error) {
	var out []*provider.Payment
	if err := g.do(ctx, http.MethodGet, providerPath(providerID, "payments"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePayment persists a new payment and returns the confirmed entity
func (g *RestGateway) CreatePayment(ctx context.Context, providerID string, payment *provider.Payment) (*provider.Payment, error) {
	var out provider.Payment
	if err := g.do(ctx, http.MethodPost, providerPath(providerID, "payments"), payment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePayment persists a payment edit and returns the confirmed entity
func (g *RestGateway) UpdatePayment(ctx context.Context, providerID, paymentID string, payment *provider.Payment) (*provider.Payment, error) {
	var out provider.Payment
	if err := g.do(ctx, http.MethodPut, providerPath(providerID, "payments", url.PathEscape(paymentID)), payment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePayment removes a payment
func (g *RestGateway) DeletePayment(ctx context.Context, providerID, paymentID string) error {
	return g.do(ctx, http.MethodDelete, providerPath(providerID, "payments", url.PathEscape(paymentID)), nil, nil)
}

// ListActivities fetches the audit feed, optionally filtered
func (g *RestGateway) ListActivities(ctx context.Context, providerID string, filter provider.ActivityFilter) (*provider.ActivityPage, error) {
	query := url.Values{}
	for _, t := range filter.Types {
		query.Add("type", string(t))
	}
	if filter.From != nil {
		query.Set("from", filter.From.Format(time.RFC3339))
	}
	if filter.To != nil {
		query.Set("to", filter.To.Format(time.RFC3339))
	}

	path := providerPath(providerID, "activities")
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out provider.ActivityPage
	if err := g.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocuments fetches the document collection
func (g *RestGateway) ListDocuments(ctx context.Context, providerID string) ([]*provider.Document, error) {
	var out []*provider.Document
	if err := g.do(ctx, http.MethodGet, providerPath(providerID, "documents"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDocument persists a new document reference and returns the confirmed entity
func (g *RestGateway) CreateDocument(ctx context.Context, providerID string, document *provider.Document) (*provider.Document, error) {
	var out provider.Document
	if err := g.do(ctx, http.MethodPost, providerPath(providerID, "documents"), document, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a document reference
func (g *RestGateway) DeleteDocument(ctx context.Context, providerID, documentID string) error {
	return g.do(ctx, http.MethodDelete, providerPath(providerID, "documents", url.PathEscape(documentID)), nil, nil)
}

// GetRating fetches the provider rating
func (g *RestGateway) GetRating(ctx context.Context, providerID string) (*provider.Rating, error) {
	var out provider.Rating
	if err := g.do(ctx, http.MethodGet, providerPath(providerID, "rating"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRating persists a rating update and returns the confirmed value
func (g *RestGateway) UpdateRating(ctx context.Context, providerID string, rating *provider.Rating) (*provider.Rating, error) {
	var out provider.Rating
	if err := g.do(ctx, http.MethodPut, providerPath(providerID, "rating"), rating, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
