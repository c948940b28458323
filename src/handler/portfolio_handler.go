package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bluetrade/src/auth"
	"bluetrade/src/model"
)

// PortfolioAPI is the slice of the portfolio service the HTTP layer consumes.
type PortfolioAPI interface {
	GetPositions(ctx context.Context, userID uint) ([]model.UserStock, error)
	BuyStock(ctx context.Context, userID uint, symbol string, quantity int) (*model.UserStock, error)
	SellStock(ctx context.Context, userID uint, symbol string, quantity int) (*model.UserStock, error)
}

type PortfolioHandler struct {
	portfolio PortfolioAPI
}

func NewPortfolioHandler(portfolio PortfolioAPI) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

func (h *PortfolioHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/portfolio", func(r chi.Router) {
		r.Get("/", h.GetPositions)
		r.Post("/buy", h.trade(h.portfolio.BuyStock))
		r.Post("/sell", h.trade(h.portfolio.SellStock))
	})
}

type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int    `json:"quantity"`
}

func (h *PortfolioHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	positions, err := h.portfolio.GetPositions(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

func (h *PortfolioHandler) trade(exec func(ctx context.Context, userID uint, symbol string, quantity int) (*model.UserStock, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload tradeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		position, err := exec(r.Context(), user.ID, payload.Symbol, payload.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if position == nil {
			// Fully sold out.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, position)
	}
}
