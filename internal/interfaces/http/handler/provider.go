package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	providerapp "github.com/opsconsole/backend/internal/application/provider"
	"github.com/opsconsole/backend/internal/domain/provider"
)

// ProviderHandler exposes the provider ledger sync engine over HTTP
type ProviderHandler struct {
	BaseHandler
	syncService *providerapp.SyncService
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(syncService *providerapp.SyncService) *ProviderHandler {
	return &ProviderHandler{syncService: syncService}
}

// RegisterRoutes registers all provider routes on the API group
func (h *ProviderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	providers := rg.Group("/providers/:providerId")
	{
		providers.POST("/open", h.Open)
		providers.POST("/close", h.Close)
		providers.GET("", h.Profile)

		providers.GET("/materials", h.ListMaterials)
		providers.POST("/materials", h.CreateMaterial)
		providers.PUT("/materials/:materialId", h.UpdateMaterial)
		providers.DELETE("/materials/:materialId", h.DeleteMaterial)

		providers.GET("/purchase-orders", h.ListOrders)
		providers.POST("/purchase-orders", h.CreateOrder)
		providers.PUT("/purchase-orders/:orderId", h.UpdateOrder)
		providers.PATCH("/purchase-orders/:orderId/status", h.UpdateOrderStatus)
		providers.DELETE("/purchase-orders/:orderId", h.DeleteOrder)

		providers.GET("/payments", h.ListPayments)
		providers.POST("/payments", h.CreatePayment)
		providers.PUT("/payments/:paymentId", h.UpdatePayment)
		providers.DELETE("/payments/:paymentId", h.DeletePayment)

		providers.GET("/activities", h.ListActivities)

		providers.GET("/documents", h.ListDocuments)
		providers.POST("/documents", h.UploadDocument)
		providers.DELETE("/documents/:documentId", h.DeleteDocument)

		providers.GET("/rating", h.GetRating)
		providers.PUT("/rating", h.UpdateRating)

		providers.GET("/statement", h.Statement)
		providers.GET("/kpis", h.KPIs)
	}
}

// parsePeriod reads the period query parameter: "all" (default) or a number
// of days, e.g. "30" for the last 30 days
func parsePeriod(c *gin.Context) (provider.Period, bool) {
	raw := c.DefaultQuery("period", "all")
	now := time.Now()
	if raw == "all" {
		return provider.AllTime(now), true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return provider.Period{}, false
	}
	return provider.LastNDays(days, now), true
}

// Open loads the provider view into the store
func (h *ProviderHandler) Open(c *gin.Context) {
	profile, err := h.syncService.Open(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Close discards the provider view
func (h *ProviderHandler) Close(c *gin.Context) {
	h.syncService.Close(c.Param("providerId"))
	h.NoContent(c)
}

// Profile returns the cached provider profile
func (h *ProviderHandler) Profile(c *gin.Context) {
	profile, err := h.syncService.Profile(c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ---------------------------------------------------------------------------
// Materials
// ---------------------------------------------------------------------------

// CreateMaterialRequest represents a request to create a material
type CreateMaterialRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Unit      string          `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Stock     decimal.Decimal `json:"stock"`
}

// UpdateMaterialRequest represents a request to update a material
type UpdateMaterialRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Unit      string          `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Stock     decimal.Decimal `json:"stock"`
	Active    bool            `json:"active"`
}

// ListMaterials returns the material snapshot
func (h *ProviderHandler) ListMaterials(c *gin.Context) {
	materials, err := h.syncService.Materials(c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, materials)
}

// CreateMaterial creates a material through the optimistic protocol
func (h *ProviderHandler) CreateMaterial(c *gin.Context) {
	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	material, err := h.syncService.CreateMaterial(c.Request.Context(), c.Param("providerId"), providerapp.CreateMaterialInput{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, material)
}

// UpdateMaterial edits a material
func (h *ProviderHandler) UpdateMaterial(c *gin.Context) {
	var req UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	material, err := h.syncService.UpdateMaterial(c.Request.Context(), c.Param("providerId"), c.Param("materialId"), providerapp.UpdateMaterialInput{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
		Active:    req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// DeleteMaterial removes a material
func (h *ProviderHandler) DeleteMaterial(c *gin.Context) {
	if err := h.syncService.DeleteMaterial(c.Request.Context(), c.Param("providerId"), c.Param("materialId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ---------------------------------------------------------------------------
// Purchase orders
// ---------------------------------------------------------------------------

// OrderItemRequest is one line of an order request
type OrderItemRequest struct {
	MaterialID  string          `json:"materialId"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	OrderNumber          string             `json:"orderNumber" binding:"required,min=1,max=50"`
	TaxRate              decimal.Decimal    `json:"taxRate"`
	Notes                string             `json:"notes" binding:"max=2000"`
	ExpectedDeliveryDate *time.Time         `json:"expectedDeliveryDate,omitempty"`
	Items                []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents a request to edit a draft purchase order
type UpdateOrderRequest struct {
	Notes *string            `json:"notes,omitempty" binding:"omitempty,max=2000"`
	Items []OrderItemRequest `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

// UpdateOrderStatusRequest represents a lifecycle transition request
type UpdateOrderStatusRequest struct {
	Status               string     `json:"status" binding:"required,orderstatus"`
	AcceptedDeliveryDate *time.Time `json:"acceptedDeliveryDate,omitempty"`
	Reason               string     `json:"reason,omitempty" binding:"max=500"`
}

func toOrderItemInputs(items []OrderItemRequest) []providerapp.OrderItemInput {
	out := make([]providerapp.OrderItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, providerapp.OrderItemInput{
			MaterialID:  item.MaterialID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out
}

// ListOrders returns the purchase order snapshot
func (h *ProviderHandler) ListOrders(c *gin.Context) {
	orders, err := h.syncService.Orders(c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// CreateOrder creates a purchase order through the optimistic protocol
func (h *ProviderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.syncService.CreateOrder(c.Request.Context(), c.Param("providerId"), providerapp.CreateOrderInput{
		OrderNumber:          req.OrderNumber,
		TaxRate:              req.TaxRate,
		Notes:                req.Notes,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Items:                toOrderItemInputs(req.Items),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// UpdateOrder edits a draft purchase order
func (h *ProviderHandler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := providerapp.UpdateOrderInput{Notes: req.Notes}
	if req.Items != nil {
		input.Items = toOrderItemInputs(req.Items)
	}

	order, err := h.syncService.UpdateOrder(c.Request.Context(), c.Param("providerId"), c.Param("orderId"), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateOrderStatus applies a lifecycle transition
func (h *ProviderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.syncService.UpdateOrderStatus(c.Request.Context(), c.Param("providerId"), c.Param("orderId"), provider.StatusChange{
		Status:               provider.OrderStatus(req.Status),
		AcceptedDeliveryDate: req.AcceptedDeliveryDate,
		Reason:               req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// DeleteOrder removes a purchase order
func (h *ProviderHandler) DeleteOrder(c *gin.Context) {
	if err := h.syncService.DeleteOrder(c.Request.Context(), c.Param("providerId"), c.Param("orderId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// CreatePaymentRequest represents a request to create a payment
type CreatePaymentRequest struct {
	OrderID     string          `json:"orderId,omitempty"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=transfer check cash card"`
	Reference   string          `json:"reference,omitempty" binding:"max=100"`
	Attachments []string        `json:"attachments,omitempty"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
}

// UpdatePaymentRequest represents a request to edit a payment
type UpdatePaymentRequest struct {
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Method    *string          `json:"method,omitempty" binding:"omitempty,oneof=transfer check cash card"`
	Reference *string          `json:"reference,omitempty" binding:"omitempty,max=100"`
	Status    *string          `json:"status,omitempty" binding:"omitempty,oneof=pending completed cancelled"`
}

// ListPayments returns the payment snapshot
func (h *ProviderHandler) ListPayments(c *gin.Context) {
	payments, err := h.syncService.Payments(c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// CreatePayment creates a payment through the optimistic protocol
func (h *ProviderHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := providerapp.CreatePaymentInput{
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		Method:      provider.PaymentMethod(req.Method),
		Reference:   req.Reference,
		Attachments: req.Attachments,
	}
	if req.PaymentDate != nil {
		input.PaymentDate = *req.PaymentDate
	}

	payment, err := h.syncService.CreatePayment(c.Request.Context(), c.Param("providerId"), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// UpdatePayment edits a payment
func (h *ProviderHandler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := providerapp.UpdatePaymentInput{
		Amount:    req.Amount,
		Reference: req.Reference,
	}
	if req.Method != nil {
		method := provider.PaymentMethod(*req.Method)
		input.Method = &method
	}
	if req.Status != nil {
		status := provider.PaymentStatus(*req.Status)
		input.Status = &status
	}

	payment, err := h.syncService.UpdatePayment(c.Request.Context(), c.Param("providerId"), c.Param("paymentId"), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// DeletePayment removes a payment
func (h *ProviderHandler) DeletePayment(c *gin.Context) {
	if err := h.syncService.DeletePayment(c.Request.Context(), c.Param("providerId"), c.Param("paymentId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ---------------------------------------------------------------------------
// Activities, documents, rating
// ---------------------------------------------------------------------------

// ListActivities returns the cached audit feed, filtered by query parameters
func (h *ProviderHandler) ListActivities(c *gin.Context) {
	filter := provider.ActivityFilter{}
	for _, t := range c.QueryArray("type") {
		filter.Types = append(filter.Types, provider.ActivityType(t))
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "from must be RFC3339")
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "to must be RFC3339")
			return
		}
		filter.To = &to
	}

	activities, err := h.syncService.Activities(c.Param("providerId"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, provider.ActivityPage{Activities: activities, Total: len(activities)})
}

// UploadDocumentRequest represents a request to register a document
type UploadDocumentRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Type string `json:"type" binding:"required,oneof=contract invoice certificate other"`
	URL  string `json:"url,omitempty" binding:"omitempty,url"`
}

// ListDocuments returns the document snapshot
func (h *ProviderHandler) ListDocuments(c *gin.Context) {
	documents, err := h.syncService.Documents(c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, documents)
}

// UploadDocument registers a document through the optimistic protocol
func (h *ProviderHandler) UploadDocument(c *gin.Context) {
	var req UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.syncService.UploadDocument(c.Request.Context(), c.Param("providerId"), providerapp.CreateDocumentInput{
		Name: req.Name,
		Type: provider.DocumentType(req.Type),
		URL:  req.URL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, document)
}

// DeleteDocument removes a document
func (h *ProviderHandler) DeleteDocument(c *gin.Context) {
	if err := h.syncService.DeleteDocument(c.Request.Context(), c.Param("providerId"), c.Param("documentId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateRatingRequest represents a request to update the provider rating
type UpdateRatingRequest struct {
	Quality       decimal.Decimal `json:"quality" binding:"required"`
	Delivery      decimal.Decimal `json:"delivery" binding:"required"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Communication decimal.Decimal `json:"communication" binding:"required"`
	Comments      string          `json:"comments,omitempty" binding:"max=2000"`
}

// GetRating returns the cached rating
func (h *ProviderHandler) GetRating(c *gin.Context) {
	rating, err := h.syncService.Rating(c.Param("providerId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rating)
}

// UpdateRating updates the provider rating
func (h *ProviderHandler) UpdateRating(c *gin.Context) {
	var req UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rating, err := h.syncService.UpdateRating(c.Request.Context(), c.Param("providerId"), providerapp.UpdateRatingInput{
		Quality:       req.Quality,
		Delivery:      req.Delivery,
		Price:         req.Price,
		Communication: req.Communication,
		Comments:      req.Comments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rating)
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

// Statement returns the running-balance account statement
func (h *ProviderHandler) Statement(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		h.BadRequest(c, "period must be \"all\" or a number of days")
		return
	}

	view, err := h.syncService.Statement(c.Param("providerId"), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// KPIs returns the provider performance metrics
func (h *ProviderHandler) KPIs(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		h.BadRequest(c, "period must be \"all\" or a number of days")
		return
	}

	view, err := h.syncService.KPIs(c.Param("providerId"), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
