package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"sweet-shop/internal/database"
	"sweet-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := model.User{
		ID:           7,
		Email:        "a@b.co",
		PasswordHash: "hash",
		Name:         "Ann",
		Role:         model.RoleUser,
		CreatedAt:    now,
	}

	t.Run("GetByEmail matches case-insensitively", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
				require.Contains(t, sql, "lower(email) = lower($1)")
				require.Equal(t, []any{"a@b.co"}, args)
				return &fakeRow{user: &sample}
			},
		}
		got, err := GetUserByEmail(context.Background(), db, "a@b.co")
		require.NoError(t, err)
		require.Equal(t, model.RoleUser, got.Role)
	})

	t.Run("GetByEmail err", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeRow{scanErr: errors.New("boom")}
			},
		}
		_, err := GetUserByEmail(context.Background(), db, "a@b.co")
		require.Error(t, err)
	})

	t.Run("Create defaults role", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, model.RoleUser, args[3])
				return &fakeRow{user: &sample}
			},
		}
		u, err := CreateUser(context.Background(), db, &model.User{Email: "a@b.co", PasswordHash: "hash", Name: "Ann"})
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
		require.Equal(t, now, u.CreatedAt)
	})

	t.Run("Create keeps admin role", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, model.RoleAdmin, args[3])
				return &fakeRow{user: &sample}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{Email: "root@b.co", Role: model.RoleAdmin})
		require.NoError(t, err)
	})

	t.Run("Create err", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeRow{scanErr: errors.New("dup")}
			},
		}
		_, err := CreateUser(context.Background(), db, &model.User{Email: "a@b.co"})
		require.Error(t, err)
	})
}
