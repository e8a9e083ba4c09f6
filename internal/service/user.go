package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/kindnet/kindnet-server/internal/apierrors"
	"github.com/kindnet/kindnet-server/internal/logger"
	"github.com/kindnet/kindnet-server/internal/model"
)

// User serves profile reads and avatar management.
type User struct {
	users   model.UserStore
	storage model.ObjectStorage
	logger  *logger.Logger
}

func NewUser(users model.UserStore, storage model.ObjectStorage, logger *logger.Logger) *User {
	return &User{
		users:   users,
		storage: storage,
		logger:  logger,
	}
}

// Profile returns the user's public representation.
func (u *User) Profile(ctx context.Context, emailAddr string) (model.Public, error) {
	user, err := u.users.GetByEmail(ctx, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Public{}, apierrors.NewNotFound("user not found")
		}
		u.logger.Error("User service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user.Public(), nil
}

// SetAvatar stores a new avatar image and removes the previous object, if
// any. The new object is written before the old one is deleted so a failed
// upload never leaves the user without an avatar.
func (u *User) SetAvatar(ctx context.Context, emailAddr string, reader io.Reader, size int64, contentType string) (model.Public, error) {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := u.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Public{}, apierrors.NewNotFound("user not found")
		}
		u.logger.Error("User service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	key := "avatars/" + uuid.NewString()
	avatarURL, err := u.storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		u.logger.Error("User service: failed to upload avatar",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := u.users.SetAvatar(ctx, emailAddr, &avatarURL, &key); err != nil {
		u.logger.Error("User service: failed to save avatar reference",
			"email", emailAddr,
			"error", err.Error())
		return model.Public{}, fmt.Errorf("failed to save avatar reference: %w", err)
	}

	if user.AvatarKey != nil {
		if err := u.storage.Delete(ctx, *user.AvatarKey); err != nil {
			// stale object, safe to leave behind
			u.logger.Error("User service: failed to delete previous avatar",
				"email", emailAddr,
				"key", *user.AvatarKey,
				"error", err.Error())
		}
	}

	user.AvatarURL = &avatarURL
	user.AvatarKey = &key

	u.logger.Info("User service: avatar updated",
		"email", emailAddr,
		"key", key)

	return user.Public(), nil
}

// DeleteAvatar removes the stored avatar object and clears the reference.
func (u *User) DeleteAvatar(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := u.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewNotFound("user not found")
		}
		u.logger.Error("User service: failed to get user by email",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.AvatarKey == nil {
		return nil
	}

	if err := u.users.SetAvatar(ctx, emailAddr, nil, nil); err != nil {
		u.logger.Error("User service: failed to clear avatar reference",
			"email", emailAddr,
			"error", err.Error())
		return fmt.Errorf("failed to clear avatar reference: %w", err)
	}

	exists, err := u.storage.Exists(ctx, *user.AvatarKey)
	if err != nil {
		u.logger.Error("User service: failed to check avatar object",
			"email", emailAddr,
			"key", *user.AvatarKey,
			"error", err.Error())
	}
	if exists {
		if err := u.storage.Delete(ctx, *user.AvatarKey); err != nil {
			u.logger.Error("User service: failed to delete avatar object",
				"email", emailAddr,
				"key", *user.AvatarKey,
				"error", err.Error())
		}
	}

	u.logger.Info("User service: avatar deleted",
		"email", emailAddr)
	return nil
}
