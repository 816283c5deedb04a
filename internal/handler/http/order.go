package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/PetShopGo/internal/service"
	"github.com/pawmart/PetShopGo/pkg/httputil"
	"github.com/pawmart/PetShopGo/pkg/validator"
)

// OrderHandler handles HTTP requests for checkout and order history.
type OrderHandler struct {
	orders *service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(orders *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// --- Request DTOs ---

// PlaceOrderRequest is the JSON request body for checkout.
type PlaceOrderRequest struct {
	SessionID    string `json:"session_id" validate:"required,min=1,max=200"`
	CustomerName string `json:"customer_name" validate:"required,min=1,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Address      string `json:"address" validate:"required,min=1,max=500"`
}

// --- Handlers ---

// PlaceOrder handles POST /api/v1/orders
// @Summary Place an order from the session's cart
// @Description Creates an order with prices frozen at checkout, decrements
// stock per line, and empties the cart.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body PlaceOrderRequest true "Checkout details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), &service.PlaceOrderInput{
		SessionID:    req.SessionID,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Address:      req.Address,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// GetOrder handles GET /api/v1/order/{id}
// @Summary Get one order with its items
// @Tags orders
// @Produce json
// @Param id path string true "Order UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/order/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders/{sessionId}
// @Summary List a session's orders, newest first
// @Tags orders
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/orders/{sessionId} [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "session id is required"},
		})
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}
