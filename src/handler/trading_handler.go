package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"bluetrade/src/model"
	"bluetrade/src/repository"
)

// TradingAPI is the slice of the order engine the HTTP layer consumes.
type TradingAPI interface {
	PlaceOrderByType(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceNormalOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceGTDOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceStopOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceStopLimitOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceTrailingStopOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceTrailingStopLimitOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceOCOOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	PlaceStopLossTakeProfitOrder(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID, userID uint) error
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetOpenOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetOrdersByStatus(ctx context.Context, userID uint, status model.OrderStatus) ([]model.Order, error)
	GetOrdersByType(ctx context.Context, userID uint, orderType model.OrderType) ([]model.Order, error)
	GetOrdersByStatusAndType(ctx context.Context, userID uint, status model.OrderStatus, orderType model.OrderType) ([]model.Order, error)
	GetOrderByID(ctx context.Context, orderID, userID uint) (*model.Order, error)
	GetTradings(ctx context.Context, filter repository.TradingFilter) ([]model.Trading, error)
}

// TradingHandler exposes the order engine under /api/trading.
type TradingHandler struct {
	trading TradingAPI
}

func NewTradingHandler(trading TradingAPI) *TradingHandler {
	return &TradingHandler{trading: trading}
}

// RegisterRoutes mounts the trading surface on the router.
func (h *TradingHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/trading", func(r chi.Router) {
		r.Post("/orders", h.PlaceOrder)

		r.Post("/orders/normal", h.placeTyped(h.trading.PlaceNormalOrder))
		r.Post("/orders/gtd", h.placeTyped(h.trading.PlaceGTDOrder))
		r.Post("/orders/stop", h.placeTyped(h.trading.PlaceStopOrder))
		r.Post("/orders/stop-limit", h.placeTyped(h.trading.PlaceStopLimitOrder))
		r.Post("/orders/trailing-stop", h.placeTyped(h.trading.PlaceTrailingStopOrder))
		r.Post("/orders/trailing-stop-limit", h.placeTyped(h.trading.PlaceTrailingStopLimitOrder))
		r.Post("/orders/oco", h.placeTyped(h.trading.PlaceOCOOrder))
		r.Post("/orders/stop-loss-take-profit", h.placeTyped(h.trading.PlaceStopLossTakeProfitOrder))

		r.Get("/orders", h.GetUserOrders)
		r.Get("/orders/open", h.GetOpenOrders)
		r.Get("/orders/{orderID}", h.GetOrderByID)
		r.Get("/orders/status/{status}", h.GetOrdersByStatus)
		r.Get("/orders/type/{type}", h.GetOrdersByType)
		r.Get("/orders/status/{status}/type/{type}", h.GetOrdersByStatusAndType)
		r.Post("/orders/{orderID}/cancel", h.CancelOrder)

		r.Get("/tradings", h.GetTradings)
		r.Get("/tradings/symbol/{symbol}", h.GetTradingsBySymbol)
		r.Get("/tradings/type/{orderType}", h.GetTradingsByType)
		r.Get("/tradings/status/{status}", h.GetTradingsByStatus)
	})
}

// parseUserID reads the mandatory userId query parameter.
func parseUserID(r *http.Request) (uint, bool) {
	raw := r.URL.Query().Get("userId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func decodeOrder(r *http.Request) (*model.Order, error) {
	var order model.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PlaceOrder dispatches by the orderType field in the body, defaulting to
// NORMAL when absent.
func (h *TradingHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		http.Error(w, "invalid userId", http.StatusBadRequest)
		return
	}

	order, err := decodeOrder(r)
	if err != nil {
		logger.WithError(err).Warn("Invalid order payload")
		http.Error(w, "Invalid order payload", http.StatusBadRequest)
		return
	}

	if order.OrderType != "" {
		parsed, err := model.ParseOrderType(string(order.OrderType))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		order.OrderType = parsed
	}

	placed, err := h.trading.PlaceOrderByType(r.Context(), order, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placed)
}

type placeFunc func(ctx context.Context, order *model.Order, userID uint) (*model.Order, error)

// placeTyped builds the handler for one explicit per-type entry point.
func (h *TradingHandler) placeTyped(place placeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseUserID(r)
		if !ok {
			http.Error(w, "invalid userId", http.StatusBadRequest)
			return
		}

		order, err := decodeOrder(r)
		if err != nil {
			logger.WithError(err).Warn("Invalid order payload")
			http.Error(w, "Invalid order payload", http.StatusBadRequest)
			return
		}

		placed, err := place(r.Context(), order, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, placed)
	}
}

func (h *TradingHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		http.Error(w, "invalid userId", http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid orderId", http.StatusBadRequest)
		return
	}

	if err := h.trading.CancelOrder(r.Context(), uint(orderID), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TradingHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, func(ctx context.Context, userID uint) ([]model.Order, error) {
		return h.trading.GetUserOrders(ctx, userID)
	})
}

func (h *TradingHandler) GetOpenOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, func(ctx context.Context, userID uint) ([]model.Order, error) {
		return h.trading.GetOpenOrders(ctx, userID)
	})
}

func (h *TradingHandler) GetOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseOrderStatus(chi.URLParam(r, "status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.listOrders(w, r, func(ctx context.Context, userID uint) ([]model.Order, error) {
		return h.trading.GetOrdersByStatus(ctx, userID, status)
	})
}

func (h *TradingHandler) GetOrdersByType(w http.ResponseWriter, r *http.Request) {
	orderType, err := model.ParseOrderType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.listOrders(w, r, func(ctx context.Context, userID uint) ([]model.Order, error) {
		return h.trading.GetOrdersByType(ctx, userID, orderType)
	})
}

func (h *TradingHandler) GetOrdersByStatusAndType(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseOrderStatus(chi.URLParam(r, "status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	orderType, err := model.ParseOrderType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.listOrders(w, r, func(ctx context.Context, userID uint) ([]model.Order, error) {
		return h.trading.GetOrdersByStatusAndType(ctx, userID, status, orderType)
	})
}

func (h *TradingHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		http.Error(w, "invalid userId", http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid orderId", http.StatusBadRequest)
		return
	}

	order, err := h.trading.GetOrderByID(r.Context(), uint(orderID), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *TradingHandler) listOrders(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID uint) ([]model.Order, error)) {
	userID, ok := parseUserID(r)
	if !ok {
		http.Error(w, "invalid userId", http.StatusBadRequest)
		return
	}

	orders, err := list(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *TradingHandler) GetTradings(w http.ResponseWriter, r *http.Request) {
	h.listTradings(w, r, repository.TradingFilter{
		AccountID: r.URL.Query().Get("accountId"),
	})
}

func (h *TradingHandler) GetTradingsBySymbol(w http.ResponseWriter, r *http.Request) {
	h.listTradings(w, r, repository.TradingFilter{
		AccountID: r.URL.Query().Get("accountId"),
		Symbol:    chi.URLParam(r, "symbol"),
	})
}

func (h *TradingHandler) GetTradingsByType(w http.ResponseWriter, r *http.Request) {
	orderType, err := model.ParseOrderType(chi.URLParam(r, "orderType"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.listTradings(w, r, repository.TradingFilter{
		AccountID: r.URL.Query().Get("accountId"),
		OrderType: string(orderType),
	})
}

func (h *TradingHandler) GetTradingsByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseOrderStatus(chi.URLParam(r, "status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.listTradings(w, r, repository.TradingFilter{
		AccountID: r.URL.Query().Get("accountId"),
		Status:    string(status),
	})
}

func (h *TradingHandler) listTradings(w http.ResponseWriter, r *http.Request, filter repository.TradingFilter) {
	records, err := h.trading.GetTradings(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
