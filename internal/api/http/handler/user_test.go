package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kindnet/kindnet-server/internal/api/http/httpctx"
	"github.com/kindnet/kindnet-server/internal/mocks"
	"github.com/kindnet/kindnet-server/internal/model"
	"github.com/kindnet/kindnet-server/internal/service"
	"github.com/kindnet/kindnet-server/internal/testutil"
)

func newUserFixture(t *testing.T) (*User, *mocks.UserStore, *mocks.ObjectStorage) {
	t.Helper()
	users := &mocks.UserStore{}
	storage := &mocks.ObjectStorage{}
	svc := service.NewUser(users, storage, testutil.MakeNoopLogger())
	return NewUser(svc, httpctx.NewManager(), testutil.MakeNoopLogger()), users, storage
}

func authedRequest(t *testing.T, method, target string, body *bytes.Buffer) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := httpctx.NewManager().SetUserEmail(req.Context(), "ada@example.com")
	return req.WithContext(ctx)
}

func TestUser_Me(t *testing.T) {
	t.Parallel()
	h, users, _ := newUserFixture(t)

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{
		Email:        "ada@example.com",
		PasswordHash: "hashed",
		FirstName:    "Ada",
	}, nil)

	rec := httptest.NewRecorder()
	h.Me(rec, authedRequest(t, http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")
	assert.NotContains(t, rec.Body.String(), "hashed")
}

func TestUser_Me_Unauthenticated(t *testing.T) {
	t.Parallel()
	h, _, _ := newUserFixture(t)

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func avatarForm(t *testing.T, field, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="avatar.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUser_UploadAvatar(t *testing.T) {
	t.Parallel()
	h, users, storage := newUserFixture(t)

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{Email: "ada@example.com"}, nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").Return("http://cdn/avatars/x", nil)
	users.On("SetAvatar", mock.Anything, "ada@example.com", mock.Anything, mock.Anything).Return(nil)

	body, contentType := avatarForm(t, "avatar", "image/png", []byte("pngbytes"))
	req := authedRequest(t, http.MethodPost, "/users/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadAvatar(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http://cdn/avatars/x")
}

func TestUser_UploadAvatar_NotAnImage(t *testing.T) {
	t.Parallel()
	h, _, storage := newUserFixture(t)

	body, contentType := avatarForm(t, "avatar", "application/pdf", []byte("pdfbytes"))
	req := authedRequest(t, http.MethodPost, "/users/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadAvatar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_UploadAvatar_MissingFile(t *testing.T) {
	t.Parallel()
	h, _, _ := newUserFixture(t)

	body, contentType := avatarForm(t, "wrong_field", "image/png", []byte("pngbytes"))
	req := authedRequest(t, http.MethodPost, "/users/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadAvatar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUser_DeleteAvatar(t *testing.T) {
	t.Parallel()
	h, users, storage := newUserFixture(t)

	key := "avatars/x"
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{Email: "ada@example.com", AvatarKey: &key}, nil)
	users.On("SetAvatar", mock.Anything, "ada@example.com", (*string)(nil), (*string)(nil)).Return(nil)
	storage.On("Exists", mock.Anything, key).Return(true, nil)
	storage.On("Delete", mock.Anything, key).Return(nil)

	rec := httptest.NewRecorder()
	h.DeleteAvatar(rec, authedRequest(t, http.MethodDelete, "/users/me/avatar", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
