package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"bluetrade/src/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// writeServiceError translates the service error taxonomy into HTTP statuses:
// validation and insufficient funds are 400, ownership is 403, missing is
// 404, anything else is a 500 with a generic body.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		notFoundErr   *service.NotFoundError
		forbiddenErr  *service.ForbiddenError
		validationErr *service.ValidationError
		fundsErr      *service.InsufficientFundsError
	)

	switch {
	case errors.As(err, &notFoundErr):
		http.Error(w, notFoundErr.Message, http.StatusNotFound)
	case errors.As(err, &forbiddenErr):
		http.Error(w, forbiddenErr.Message, http.StatusForbidden)
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Message, http.StatusBadRequest)
	case errors.As(err, &fundsErr):
		http.Error(w, fundsErr.Message, http.StatusBadRequest)
	default:
		logger.WithError(err).Error("Unhandled service error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
