// Package service contains the business rules of the application.
package service

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService owns user identity: registration, credential verification and
// account lifecycle.
type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email     string
	Name      string
	Password  string
	AvatarURL string
}

// UpdateProfileInput carries an owner-restricted profile mutation.
type UpdateProfileInput struct {
	ActorID   uint
	UserID    uint
	Name      string
	AvatarURL *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates the input, hashes the password and persists a new user.
// AvatarURL defaults to the empty string when omitted; it is never null.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" {
		return nil, models.NewInvalidArgumentError("Email is required")
	}
	if in.Name == "" {
		return nil, models.NewInvalidArgumentError("Name is required")
	}
	if in.Password == "" {
		return nil, models.NewInvalidArgumentError("Password is required")
	}

	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewInvalidArgumentError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:     email,
		Name:      in.Name,
		Password:  string(hashed),
		AvatarURL: in.AvatarURL,
		IsActive:  true,
	}

	// The pre-check races with concurrent signups; the unique index on email
	// is the authority and surfaces as CONFLICT here.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser registers a user with staff and superuser flags set.
func (s *UserService) CreateSuperuser(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the matching user. An
// unknown email, a wrong password and a deactivated account all produce the
// same generic failure.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfile mutates a user's own profile. Only the owner may do so.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.ActorID != in.UserID {
		return nil, models.NewForbiddenError("You may only update your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return nil, models.NewInvalidArgumentError(err.Error())
		}
		user.Name = in.Name
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes an account; the owner or a staff member may perform
// it. The repository cascades to authored posts, their transitive replies and
// all like memberships.
func (s *UserService) DeleteAccount(ctx context.Context, actorID, targetID uint) error {
	if actorID != targetID {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.IsStaff {
			return models.NewForbiddenError("You may only delete your own account")
		}
	}
	return s.userRepo.Delete(ctx, targetID)
}
