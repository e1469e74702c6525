package authsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/sanohind/vecos-backend/model"
	"github.com/sanohind/vecos-backend/util/hash"
)

type userRepoMock struct {
	createFn  func(ctx context.Context, u *model.User) error
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	byIDFn    func(ctx context.Context, id int64) (*model.User, error)
}

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error {
	return m.createFn(ctx, u)
}
func (m *userRepoMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}
func (m *userRepoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	return m.byIDFn(ctx, id)
}

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	req := model.RegisterReq{
		Name:       "Budi",
		Email:      "  Budi@Example.com ",
		Department: "Logistics",
		Password:   "rahasia1",
	}

	t.Run("success normalizes email and defaults role", func(t *testing.T) {
		repo := &userRepoMock{
			createFn: func(_ context.Context, u *model.User) error {
				u.ID = 42
				return nil
			},
		}
		svc := New(repo, testSecret)

		u, token, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, int64(42), u.ID)
		require.Equal(t, "budi@example.com", u.Email)
		require.Equal(t, "user", u.Role)
		require.True(t, hash.Check(u.PasswordHash, "rahasia1"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &userRepoMock{
			createFn: func(_ context.Context, _ *model.User) error {
				return &pgconn.PgError{
					Code:           pgerrcode.UniqueViolation,
					ConstraintName: "users_email_key",
				}
			},
		}
		svc := New(repo, testSecret)

		_, _, err := svc.Register(context.Background(), req)
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	hashed, err := hash.HashPassword("rahasia1")
	require.NoError(t, err)
	stored := &model.User{ID: 42, Email: "budi@example.com", Role: "user", PasswordHash: hashed}

	t.Run("success", func(t *testing.T) {
		repo := &userRepoMock{
			byEmailFn: func(_ context.Context, email string) (*model.User, error) {
				require.Equal(t, "budi@example.com", email)
				return stored, nil
			},
		}
		svc := New(repo, testSecret)

		u, token, err := svc.Login(context.Background(), model.LoginReq{Email: "budi@example.com", Password: "rahasia1"})
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, int64(42), u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &userRepoMock{
			byEmailFn: func(_ context.Context, _ string) (*model.User, error) { return stored, nil },
		}
		svc := New(repo, testSecret)

		_, _, err := svc.Login(context.Background(), model.LoginReq{Email: "budi@example.com", Password: "salah"})
		require.ErrorIs(t, err, ErrInvalidCreds)
	})

	t.Run("unknown email maps to invalid creds", func(t *testing.T) {
		repo := &userRepoMock{
			byEmailFn: func(_ context.Context, _ string) (*model.User, error) { return nil, pgx.ErrNoRows },
		}
		svc := New(repo, testSecret)

		_, _, err := svc.Login(context.Background(), model.LoginReq{Email: "ghost@example.com", Password: "x"})
		require.ErrorIs(t, err, ErrInvalidCreds)
	})
}

func TestMe(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &userRepoMock{
			byIDFn: func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Name: "Budi"}, nil
			},
		}
		svc := New(repo, testSecret)

		u, err := svc.Me(context.Background(), 42)
		require.NoError(t, err)
		require.Equal(t, "Budi", u.Name)
	})

	t.Run("missing row", func(t *testing.T) {
		repo := &userRepoMock{
			byIDFn: func(_ context.Context, _ int64) (*model.User, error) { return nil, pgx.ErrNoRows },
		}
		svc := New(repo, testSecret)

		_, err := svc.Me(context.Background(), 42)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		repo := &userRepoMock{
			byIDFn: func(_ context.Context, _ int64) (*model.User, error) { return nil, boom },
		}
		svc := New(repo, testSecret)

		_, err := svc.Me(context.Background(), 42)
		require.ErrorIs(t, err, boom)
	})
}
