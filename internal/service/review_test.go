package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/mocks"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/testutil"
)

func newReviewService(t *testing.T) (*Review, *mocks.ReviewStore, *mocks.ItemStore) {
	t.Helper()
	reviews := &mocks.ReviewStore{}
	items := &mocks.ItemStore{}
	return NewReview(reviews, items, testutil.MakeNoopLogger()), reviews, items
}

func TestReview_Create(t *testing.T) {
	svc, reviews, items := newReviewService(t)

	itemID := uuid.New()
	items.On("GetByID", mock.Anything, itemID).Return(model.Item{ID: itemID, OwnerEmail: "seller@example.com"}, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.ItemID == itemID && r.ReviewerEmail == "buyer@example.com" && r.Rating == 4
	})).Return(model.Review{ID: uuid.New(), Rating: 4}, nil)

	saved, err := svc.Create(context.Background(), "Buyer@Example.com", itemID, ReviewParams{Rating: 4, Comment: "good"})
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Rating)
}

func TestReview_Create_OwnItemRejected(t *testing.T) {
	svc, reviews, items := newReviewService(t)

	itemID := uuid.New()
	items.On("GetByID", mock.Anything, itemID).Return(model.Item{ID: itemID, OwnerEmail: "seller@example.com"}, nil)

	_, err := svc.Create(context.Background(), "seller@example.com", itemID, ReviewParams{Rating: 5})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeValidation, apiErr.Code)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReview_Create_UnknownItem(t *testing.T) {
	svc, _, items := newReviewService(t)

	itemID := uuid.New()
	items.On("GetByID", mock.Anything, itemID).Return(model.Item{}, model.ErrNotFound)

	_, err := svc.Create(context.Background(), "buyer@example.com", itemID, ReviewParams{Rating: 3})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeNotFound, apiErr.Code)
}

func TestReview_ListByItem(t *testing.T) {
	svc, reviews, items := newReviewService(t)

	itemID := uuid.New()
	items.On("GetByID", mock.Anything, itemID).Return(model.Item{ID: itemID}, nil)
	reviews.On("ListByItem", mock.Anything, itemID).Return([]model.Review{{Rating: 5}, {Rating: 2}}, nil)

	list, err := svc.ListByItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
