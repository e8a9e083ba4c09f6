package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/mocks"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/testutil"
)

func newUserService(t *testing.T) (*User, *mocks.UserStore, *mocks.ObjectStorage) {
	t.Helper()
	users := &mocks.UserStore{}
	storage := &mocks.ObjectStorage{}
	return NewUser(users, storage, testutil.MakeNoopLogger()), users, storage
}

func TestUser_Profile(t *testing.T) {
	svc, users, _ := newUserService(t)

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		Email:        "ada@example.com",
		PasswordHash: "hashed",
		FirstName:    "Ada",
	}, nil)

	public, err := svc.Profile(context.Background(), "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", public.Email)
	assert.Equal(t, "Ada", public.FirstName)
}

func TestUser_Profile_NotFound(t *testing.T) {
	svc, users, _ := newUserService(t)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(model.User{}, model.ErrNotFound)

	_, err := svc.Profile(context.Background(), "ghost@example.com")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeNotFound, apiErr.Code)
}

func TestUser_SetAvatar_ReplacesPrevious(t *testing.T) {
	svc, users, storage := newUserService(t)

	oldKey := "avatars/old"
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		Email:     "ada@example.com",
		AvatarKey: &oldKey,
	}, nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "avatars/")
	}), mock.Anything, int64(42), "image/png").Return("http://cdn/avatars/new", nil)
	users.On("SetAvatar", mock.Anything, "ada@example.com", mock.Anything, mock.Anything).Return(nil)
	storage.On("Delete", mock.Anything, oldKey).Return(nil)

	public, err := svc.SetAvatar(context.Background(), "ada@example.com", strings.NewReader("png"), 42, "image/png")
	require.NoError(t, err)
	require.NotNil(t, public.AvatarURL)
	assert.Equal(t, "http://cdn/avatars/new", *public.AvatarURL)
	storage.AssertExpectations(t)
}

func TestUser_SetAvatar_DeleteFailureIsNotFatal(t *testing.T) {
	svc, users, storage := newUserService(t)

	oldKey := "avatars/old"
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		Email:     "ada@example.com",
		AvatarKey: &oldKey,
	}, nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("http://cdn/avatars/new", nil)
	users.On("SetAvatar", mock.Anything, "ada@example.com", mock.Anything, mock.Anything).Return(nil)
	storage.On("Delete", mock.Anything, oldKey).Return(assert.AnError)

	_, err := svc.SetAvatar(context.Background(), "ada@example.com", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
}

func TestUser_DeleteAvatar(t *testing.T) {
	svc, users, storage := newUserService(t)

	key := "avatars/current"
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		Email:     "ada@example.com",
		AvatarKey: &key,
	}, nil)
	users.On("SetAvatar", mock.Anything, "ada@example.com", (*string)(nil), (*string)(nil)).Return(nil)
	storage.On("Exists", mock.Anything, key).Return(true, nil)
	storage.On("Delete", mock.Anything, key).Return(nil)

	err := svc.DeleteAvatar(context.Background(), "ada@example.com")
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestUser_DeleteAvatar_ObjectAlreadyGone(t *testing.T) {
	svc, users, storage := newUserService(t)

	key := "avatars/stale"
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		Email:     "ada@example.com",
		AvatarKey: &key,
	}, nil)
	users.On("SetAvatar", mock.Anything, "ada@example.com", (*string)(nil), (*string)(nil)).Return(nil)
	storage.On("Exists", mock.Anything, key).Return(false, nil)

	err := svc.DeleteAvatar(context.Background(), "ada@example.com")
	require.NoError(t, err)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUser_DeleteAvatar_NoAvatar(t *testing.T) {
	svc, users, storage := newUserService(t)

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{Email: "ada@example.com"}, nil)

	err := svc.DeleteAvatar(context.Background(), "ada@example.com")
	require.NoError(t, err)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
