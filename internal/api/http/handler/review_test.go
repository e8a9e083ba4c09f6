package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kindnet/kindnet-server/internal/api/http/httpctx"
	"github.com/kindnet/kindnet-server/internal/mocks"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/service"
	"github.com/kindnet/kindnet-server/internal/testutil"
)

func newReviewFixture(t *testing.T) (*Review, *mocks.ReviewStore, *mocks.ItemStore) {
	t.Helper()
	reviews := &mocks.ReviewStore{}
	items := &mocks.ItemStore{}
	svc := service.NewReview(reviews, items, testutil.MakeNoopLogger())
	return NewReview(svc, httpctx.NewManager(), testutil.MakeNoopLogger()), reviews, items
}

func TestReview_CreateHandler(t *testing.T) {
	t.Parallel()
	h, reviews, items := newReviewFixture(t)

	id := uuid.New()
	items.On("GetByID", mock.Anything, id).Return(model.Item{ID: id, OwnerEmail: "seller@example.com"}, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(model.Review{ID: uuid.New(), Rating: 4}, nil)

	req := httptest.NewRequest(http.MethodPost, "/items/"+id.String()+"/reviews", strings.NewReader(`{"rating":4,"comment":"good"}`))
	req = req.WithContext(httpctx.NewManager().SetUserEmail(req.Context(), "buyer@example.com"))
	req = withURLParam(req, "id", id.String())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReview_CreateHandler_RatingOutOfRange(t *testing.T) {
	t.Parallel()
	h, reviews, _ := newReviewFixture(t)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/items/"+id.String()+"/reviews", strings.NewReader(`{"rating":6}`))
	req = req.WithContext(httpctx.NewManager().SetUserEmail(req.Context(), "buyer@example.com"))
	req = withURLParam(req, "id", id.String())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReview_CreateHandler_OwnItem(t *testing.T) {
	t.Parallel()
	h, _, items := newReviewFixture(t)

	id := uuid.New()
	items.On("GetByID", mock.Anything, id).Return(model.Item{ID: id, OwnerEmail: "seller@example.com"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/items/"+id.String()+"/reviews", strings.NewReader(`{"rating":5}`))
	req = req.WithContext(httpctx.NewManager().SetUserEmail(req.Context(), "seller@example.com"))
	req = withURLParam(req, "id", id.String())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot review your own item")
}

func TestReview_ListHandler(t *testing.T) {
	t.Parallel()
	h, reviews, items := newReviewFixture(t)

	id := uuid.New()
	items.On("GetByID", mock.Anything, id).Return(model.Item{ID: id}, nil)
	reviews.On("ListByItem", mock.Anything, id).Return([]model.Review{{Rating: 5}}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/items/"+id.String()+"/reviews", nil), "id", id.String())
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
