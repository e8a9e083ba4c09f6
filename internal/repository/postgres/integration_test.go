//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kindnet/kindnet-server/internal/model"
	repo "github.com/kindnet/kindnet-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "kindnet_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/kindnet_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(email string) model.User {
	return model.User{
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PhoneNumber:  "+15550001111",
		ZipCode:      "94105",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	t.Run("create_and_get", func(t *testing.T) {
		u := newUser("ada@example.com")
		saved, err := ur.Create(ctx, u)
		require.NoError(t, err)
		require.Equal(t, u.Email, saved.Email)
		require.False(t, saved.IsVerified)

		got, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.FirstName, got.FirstName)

		_, err = ur.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("verify_email_one_shot", func(t *testing.T) {
		u := newUser("verify@example.com")
		token := "tok-" + uuid.NewString()
		u.VerificationToken = &token
		expires := time.Now().Add(24 * time.Hour)
		u.VerificationExpires = &expires
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		ok, err := ur.VerifyEmail(ctx, u.Email, "wrong-token", time.Now())
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = ur.VerifyEmail(ctx, u.Email, token, time.Now())
		require.NoError(t, err)
		require.True(t, ok)

		// same token a second time
		ok, err = ur.VerifyEmail(ctx, u.Email, token, time.Now())
		require.NoError(t, err)
		require.False(t, ok)

		got, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.True(t, got.IsVerified)
		require.Nil(t, got.VerificationToken)
	})

	t.Run("verify_email_expired", func(t *testing.T) {
		u := newUser("expired@example.com")
		token := "tok-" + uuid.NewString()
		u.VerificationToken = &token
		expires := time.Now().Add(-time.Minute)
		u.VerificationExpires = &expires
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		ok, err := ur.VerifyEmail(ctx, u.Email, token, time.Now())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("failed_login_threshold", func(t *testing.T) {
		u := newUser("lockout@example.com")
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		for i := 1; i < 5; i++ {
			attempts, lockedUntil, err := ur.RecordFailedLogin(ctx, u.Email, 5, 30*time.Minute)
			require.NoError(t, err)
			require.Equal(t, i, attempts)
			require.Nil(t, lockedUntil)
		}

		attempts, lockedUntil, err := ur.RecordFailedLogin(ctx, u.Email, 5, 30*time.Minute)
		require.NoError(t, err)
		require.Equal(t, 5, attempts)
		require.NotNil(t, lockedUntil)
		require.True(t, lockedUntil.After(time.Now()))

		got, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.True(t, got.Locked(time.Now()))

		require.NoError(t, ur.ResetLoginFailures(ctx, u.Email))
		got, err = ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Zero(t, got.FailedLoginAttempts)
		require.Nil(t, got.LockedUntil)
	})

	t.Run("link_google", func(t *testing.T) {
		u := newUser("google@example.com")
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		avatar := "https://example.com/photo.jpg"
		require.NoError(t, ur.LinkGoogleID(ctx, u.Email, "google-sub-1", &avatar))

		got, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.True(t, got.IsVerified)
		require.NotNil(t, got.GoogleID)
		require.Equal(t, "google-sub-1", *got.GoogleID)
		require.NotNil(t, got.AvatarURL)

		require.ErrorIs(t, ur.LinkGoogleID(ctx, "nobody@example.com", "sub", nil), model.ErrNotFound)
	})

	t.Run("update_password", func(t *testing.T) {
		u := newUser("password@example.com")
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		require.NoError(t, ur.UpdatePassword(ctx, u.Email, "$2a$10$newhash"))
		got, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, "$2a$10$newhash", got.PasswordHash)

		require.ErrorIs(t, ur.UpdatePassword(ctx, "nobody@example.com", "x"), model.ErrNotFound)
	})
}

func TestPasswordResetTokenRepository_ReplaceConsume(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	tr := repo.NewPasswordResetTokenRepository(conn)

	u := newUser("reset@example.com")
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	first := model.PasswordResetToken{
		Email:     u.Email,
		TokenHash: "hash-one",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, tr.Replace(ctx, first))

	// a second request invalidates the first token
	second := first
	second.TokenHash = "hash-two"
	require.NoError(t, tr.Replace(ctx, second))

	_, err = tr.Consume(ctx, "hash-one", time.Now())
	require.ErrorIs(t, err, model.ErrNotFound)

	// lookups leave the row in place
	email, err := tr.Lookup(ctx, "hash-two", time.Now())
	require.NoError(t, err)
	require.Equal(t, u.Email, email)
	email, err = tr.Lookup(ctx, "hash-two", time.Now())
	require.NoError(t, err)
	require.Equal(t, u.Email, email)

	email, err = tr.Consume(ctx, "hash-two", time.Now())
	require.NoError(t, err)
	require.Equal(t, u.Email, email)

	// consumed tokens are gone
	_, err = tr.Consume(ctx, "hash-two", time.Now())
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPasswordResetTokenRepository_Expired(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	tr := repo.NewPasswordResetTokenRepository(conn)

	u := newUser("reset-expired@example.com")
	_, err = ur.Create(ctx, u)
	require.NoError(t, err)

	tok := model.PasswordResetToken{
		Email:     u.Email,
		TokenHash: "hash-expired",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tr.Replace(ctx, tok))

	_, err = tr.Lookup(ctx, "hash-expired", time.Now())
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = tr.Consume(ctx, "hash-expired", time.Now())
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestItemAndReviewRepositories(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	ir := repo.NewItemRepository(conn)
	rr := repo.NewReviewRepository(conn)

	owner := newUser("seller@example.com")
	_, err = ur.Create(ctx, owner)
	require.NoError(t, err)

	item := model.Item{
		ID:          uuid.New(),
		OwnerEmail:  owner.Email,
		Title:       "Vintage lamp",
		Description: "Works fine",
		PriceCents:  2500,
	}
	saved, err := ir.Create(ctx, item)
	require.NoError(t, err)
	require.Equal(t, item.ID, saved.ID)

	saved.Title = "Vintage lamp (restored)"
	updated, err := ir.Update(ctx, saved)
	require.NoError(t, err)
	require.Equal(t, "Vintage lamp (restored)", updated.Title)

	list, err := ir.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(list), 1)

	review := model.Review{
		ID:            uuid.New(),
		ItemID:        item.ID,
		ReviewerEmail: owner.Email,
		Rating:        5,
		Comment:       "Great seller",
	}
	_, err = rr.Create(ctx, review)
	require.NoError(t, err)

	reviews, err := rr.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Rating)

	require.NoError(t, ir.Delete(ctx, item.ID))
	_, err = ir.GetByID(ctx, item.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}
