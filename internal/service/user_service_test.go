package service

import (
	"context"
	"errors"
	"testing"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Name: "user1", Password: "testpass123"}},
		{"missing name", RegisterInput{Email: "user1@test.com", Password: "testpass123"}},
		{"missing password", RegisterInput{Email: "user1@test.com", Name: "user1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assertAppErrorCode(t, err, models.CodeInvalidArgument)
		})
	}
}

func TestUserService_Register_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "not-an-email",
		Name:     "user1",
		Password: "testpass123",
	})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1, Email: "user1@test.com"}, nil
	}
	created := false
	repo.createFn = func(_ context.Context, _ *models.User) error {
		created = true
		return nil
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user1@test.com",
		Name:     "another",
		Password: "testpass123",
	})
	assertAppErrorCode(t, err, models.CodeConflict)
	assert.False(t, created, "no record should be persisted on duplicate email")
}

func TestUserService_Register_Success(t *testing.T) {
	t.Parallel()

	var persisted *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		persisted = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user1@TEST.com",
		Name:     "user1",
		Password: "testpass123",
	})
	require.NoError(t, err)
	require.NotNil(t, persisted)

	// Domain part of the email is normalized to lowercase
	assert.Equal(t, "user1@test.com", user.Email)
	// Avatar defaults to empty string, never null
	assert.Equal(t, "", user.AvatarURL)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)

	// The stored hash verifies against the original plaintext, not vice versa
	assert.NotEqual(t, "testpass123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("testpass123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("wrongpass")))
}

func TestUserService_CreateSuperuser(t *testing.T) {
	t.Parallel()

	var final *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		return nil
	}
	repo.updateFn = func(_ context.Context, u *models.User) error {
		final = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.CreateSuperuser(context.Background(), RegisterInput{
		Email:    "admin@test.com",
		Name:     "admin",
		Password: "adminpass",
	})
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsActive)
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	known := &models.User{ID: 1, Email: "user1@test.com", Password: string(hashed), IsActive: true}

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == "user1@test.com" {
			u := *known
			return &u, nil
		}
		return nil, nil
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "user1@test.com", "testpass123")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := svc.Authenticate(ctx, "nobody@test.com", "testpass123")
		_, errWrong := svc.Authenticate(ctx, "user1@test.com", "wrongpass")
		assertAppErrorCode(t, errUnknown, models.CodeUnauthorized)
		assertAppErrorCode(t, errWrong, models.CodeUnauthorized)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := *known
		inactive.IsActive = false
		repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
			return &inactive, nil
		}
		_, err := svc.Authenticate(ctx, "user1@test.com", "testpass123")
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})
}

func TestUserService_UpdateProfile_OwnerOnly(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		ActorID: 2,
		UserID:  1,
		Name:    "hijacked",
	})
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestUserService_UpdateProfile_Success(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Name: "user1", AvatarURL: "old.png"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo)

	avatar := "new.png"
	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		ActorID:   1,
		UserID:    1,
		Name:      "renamed",
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "renamed", user.Name)
	assert.Equal(t, "new.png", user.AvatarURL)
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Parallel()

	t.Run("owner may delete", func(t *testing.T) {
		deleted := uint(0)
		repo := noopUserRepo()
		repo.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewUserService(repo)

		require.NoError(t, svc.DeleteAccount(context.Background(), 1, 1))
		assert.Equal(t, uint(1), deleted)
	})

	t.Run("non-owner without staff flag is forbidden", func(t *testing.T) {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsStaff: false}, nil
		}
		svc := NewUserService(repo)

		err := svc.DeleteAccount(context.Background(), 2, 1)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("staff may delete other accounts", func(t *testing.T) {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsStaff: true}, nil
		}
		svc := NewUserService(repo)

		require.NoError(t, svc.DeleteAccount(context.Background(), 2, 1))
	})
}
