package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/service"
)

const maxItemImageSize = 10 << 20

// Item exposes listing CRUD. Reads are public, mutations require a bearer
// token and ownership.
type Item struct {
	items          *service.Item
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewItem creates a new Item handler instance.
func NewItem(items *service.Item, contextManager model.ContextManager, logger *logger.Logger) *Item {
	return &Item{
		items:          items,
		contextManager: contextManager,
		logger:         logger,
	}
}

type itemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

func validateItem(req itemRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apierrors.NewValidation("title is required")
	}
	if req.PriceCents < 0 {
		return apierrors.NewValidation("price must not be negative")
	}
	return nil
}

// Create accepts either a JSON body or a multipart form with an optional
// image part.
func (h *Item) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := h.contextManager.UserEmail(r.Context())
	if !ok {
		handleError(w, apierrors.NewUnauthenticated("missing authorization token"))
		return
	}

	var req itemRequest
	var image *service.ItemImage

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxItemImageSize); err != nil {
			handleError(w, apierrors.NewValidation("invalid multipart form"))
			return
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		if price := r.FormValue("price_cents"); price != "" {
			parsed, err := strconv.ParseInt(price, 10, 64)
			if err != nil {
				handleError(w, apierrors.NewValidation("invalid price"))
				return
			}
			req.PriceCents = parsed
		}
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			contentType := header.Header.Get("Content-Type")
			if !strings.HasPrefix(contentType, "image/") {
				handleError(w, apierrors.NewValidation("image must be an image file"))
				return
			}
			image = &service.ItemImage{Reader: file, Size: header.Size, ContentType: contentType}
		}
	} else {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, apierrors.NewValidation("invalid request body"))
			return
		}
	}

	if err := validateItem(req); err != nil {
		handleError(w, err)
		return
	}

	item, err := h.items.Create(r.Context(), email, service.ItemParams{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	}, image)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *Item) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Item) Get(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Item) Update(w http.ResponseWriter, r *http.Request) {
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

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, apierrors.NewValidation("invalid request body"))
		return
	}
	if err := validateItem(req); err != nil {
		handleError(w, err)
		return
	}

	item, err := h.items.Update(r.Context(), email, id, service.ItemParams{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Item) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.items.Delete(r.Context(), email, id); err != nil {
		handleError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "item deleted")
}

func itemID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apierrors.NewValidation("invalid item id")
	}
	return id, nil
}
