package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bluetrade/src/auth"
	"bluetrade/src/model"
)

// WatchlistAPI is the slice of the watchlist service the HTTP layer consumes.
type WatchlistAPI interface {
	CreateWatchlist(ctx context.Context, userID uint, name string) (*model.Watchlist, error)
	GetUserWatchlists(ctx context.Context, userID uint) ([]model.Watchlist, error)
	GetWatchlist(ctx context.Context, id, userID uint) (*model.Watchlist, error)
	DeleteWatchlist(ctx context.Context, id, userID uint) error
	AddSymbol(ctx context.Context, id, userID uint, symbol string) (*model.Watchlist, error)
	RemoveSymbol(ctx context.Context, id, userID uint, symbol string) error
}

type WatchlistHandler struct {
	watchlists WatchlistAPI
}

func NewWatchlistHandler(watchlists WatchlistAPI) *WatchlistHandler {
	return &WatchlistHandler{watchlists: watchlists}
}

func (h *WatchlistHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/watchlists", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{watchlistID}", h.Get)
		r.Delete("/{watchlistID}", h.Delete)
		r.Post("/{watchlistID}/symbols", h.AddSymbol)
		r.Delete("/{watchlistID}/symbols/{symbol}", h.RemoveSymbol)
	})
}

func watchlistID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "watchlistID"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	watchlists, err := h.watchlists.GetUserWatchlists(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, watchlists)
}

func (h *WatchlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	watchlist, err := h.watchlists.CreateWatchlist(r.Context(), user.ID, payload.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, watchlist)
}

func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := watchlistID(r)
	if !ok {
		http.Error(w, "invalid watchlist id", http.StatusBadRequest)
		return
	}

	watchlist, err := h.watchlists.GetWatchlist(r.Context(), id, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, watchlist)
}

func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := watchlistID(r)
	if !ok {
		http.Error(w, "invalid watchlist id", http.StatusBadRequest)
		return
	}

	if err := h.watchlists.DeleteWatchlist(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) AddSymbol(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := watchlistID(r)
	if !ok {
		http.Error(w, "invalid watchlist id", http.StatusBadRequest)
		return
	}

	var payload struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	watchlist, err := h.watchlists.AddSymbol(r.Context(), id, user.ID, payload.Symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, watchlist)
}

func (h *WatchlistHandler) RemoveSymbol(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := watchlistID(r)
	if !ok {
		http.Error(w, "invalid watchlist id", http.StatusBadRequest)
		return
	}

	if err := h.watchlists.RemoveSymbol(r.Context(), id, user.ID, chi.URLParam(r, "symbol")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
