package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bluetrade/src/model"
	"bluetrade/src/service"
)

// StockAPI is the slice of the stock lookup service the HTTP layer consumes.
type StockAPI interface {
	GetStockBySymbol(ctx context.Context, symbol string) (*model.Stock, error)
	SearchStock(ctx context.Context, keywords string) (*model.Stock, error)
	TopTraded(ctx context.Context, limit int) ([]model.Stock, error)
	TopGainers(ctx context.Context, limit int) ([]model.Stock, error)
	TopLosers(ctx context.Context, limit int) ([]model.Stock, error)
	GetMarketIndices(ctx context.Context) ([]model.MarketIndex, error)
	GetMarketIndexByCode(ctx context.Context, code string) (*model.MarketIndex, error)
	GetMarketOverview(ctx context.Context, limit int) (*service.MarketOverview, error)
}

type StockHandler struct {
	stocks StockAPI
}

func NewStockHandler(stocks StockAPI) *StockHandler {
	return &StockHandler{stocks: stocks}
}

func (h *StockHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stocks", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/top-traded", h.ranked(h.stocks.TopTraded))
		r.Get("/top-gainers", h.ranked(h.stocks.TopGainers))
		r.Get("/top-losers", h.ranked(h.stocks.TopLosers))
		r.Get("/market-overview", h.MarketOverview)
		r.Get("/market-indices", h.MarketIndices)
		r.Get("/market-indices/{code}", h.MarketIndexByCode)
		r.Get("/{symbol}", h.GetBySymbol)
	})
}

func (h *StockHandler) MarketOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stocks.GetMarketOverview(r.Context(), 10)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *StockHandler) MarketIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := h.stocks.GetMarketIndices(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, indices)
}

func (h *StockHandler) MarketIndexByCode(w http.ResponseWriter, r *http.Request) {
	index, err := h.stocks.GetMarketIndexByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, index)
}

func (h *StockHandler) GetBySymbol(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stocks.GetStockBySymbol(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stock)
}

func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query().Get("q")
	if keywords == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}

	stock, err := h.stocks.SearchStock(r.Context(), keywords)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stock)
}

func (h *StockHandler) ranked(list func(ctx context.Context, limit int) ([]model.Stock, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		stocks, err := list(r.Context(), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, stocks)
	}
}
