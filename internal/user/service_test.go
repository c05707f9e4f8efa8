package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, email, password, role string) (User, error) {
	args := m.Called(ctx, email, password, role)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", mock.Anything, "a@b.com", mock.AnythingOfType("string"), "USER").
			Return(User{ID: 1, Email: "a@b.com", Role: RoleUser}, nil)

		svc := NewService(repo)
		token, u, err := svc.Register(context.Background(), "a@b.com", "s3cret")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, uint(1), u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", mock.Anything, "a@b.com", mock.AnythingOfType("string"), "USER").
			Return(User{}, errors.New(`duplicate key value violates unique constraint "users_email_key"`))

		svc := NewService(repo)
		_, _, err := svc.Register(context.Background(), "a@b.com", "s3cret")

		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "a@b.com").
			Return(User{ID: 1, Email: "a@b.com", Password: hash, Role: RoleUser}, nil)

		svc := NewService(repo)
		token, u, err := svc.Login(context.Background(), "a@b.com", "s3cret")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, uint(1), u.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "a@b.com").
			Return(User{ID: 1, Password: hash}, nil)

		svc := NewService(repo)
		_, _, err := svc.Login(context.Background(), "a@b.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "ghost@b.com").
			Return(User{}, errors.New("sql: no rows in result set"))

		svc := NewService(repo)
		_, _, err := svc.Login(context.Background(), "ghost@b.com", "s3cret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
