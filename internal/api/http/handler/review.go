package handler

import (
	"net/http"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/service"
)

// Review exposes item reviews. Listing is public, creation requires a
// bearer token.
type Review struct {
	reviews        *service.Review
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewReview creates a new Review handler instance.
func NewReview(reviews *service.Review, contextManager model.ContextManager, logger *logger.Logger) *Review {
	return &Review{
		reviews:        reviews,
		contextManager: contextManager,
		logger:         logger,
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Review) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := h.contextManager.UserEmail(r.Context())
	if !ok {
		handleError(w, apierrors.NewUnauthenticated("missing authorization token"))
		return
	}

	id, err := itemID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		handleError(w, apierrors.NewValidation("rating must be between 1 and 5"))
		return
	}

	review, err := h.reviews.Create(r.Context(), email, id, service.ReviewParams{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

func (h *Review) List(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	reviews, err := h.reviews.ListByItem(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}
