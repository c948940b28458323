package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"bluetrade/src/model"
	"bluetrade/src/service"
)

// AuthAPI is the slice of the auth service the HTTP layer consumes.
type AuthAPI interface {
	Register(ctx context.Context, user *model.User, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type AuthHandler struct {
	authn AuthAPI
}

func NewAuthHandler(authn AuthAPI) *AuthHandler {
	return &AuthHandler{authn: authn}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		logger.WithError(err).Warn("Invalid register payload")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	user := &model.User{
		FullName: payload.FullName,
		Email:    payload.Email,
		Mobile:   payload.Mobile,
	}

	created, err := h.authn.Register(r.Context(), user, payload.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	user, token, err := h.authn.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		// Bad credentials surface as 401, not 403, at this endpoint. Anything
		// else (database failures) keeps its usual mapping.
		var forbiddenErr *service.ForbiddenError
		if errors.As(err, &forbiddenErr) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
