package handler

import (
	"errors"
	"net/http"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/model"
)

type errorResponse struct {
	Error string         `json:"error"`
	Code  apierrors.Code `json:"code"`
}

// handleError translates service errors to transport responses in one place.
// Unclassified errors never leak their message to the client.
func handleError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		respondJSON(w, apiErr.HTTPStatus, errorResponse{Error: apiErr.Message, Code: apiErr.Code})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Code: apierrors.CodeNotFound})
		return
	}

	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong", Code: apierrors.CodeInternal})
}
