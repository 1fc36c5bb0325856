package service

import (
	"context"

	"autonation/internal/cache"
	"autonation/internal/identity"
	"autonation/internal/models"
	"autonation/internal/repository"
	"autonation/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	subjects *cache.SubjectCache
}

type UpdateProfileInput struct {
	SubjectID string
	FirstName *string
	LastName  *string
	Email     *string
}

// NewUserService wires the user repository and the subject cache. A nil
// cache resolves every subject against the database.
func NewUserService(userRepo repository.UserRepository, subjects *cache.SubjectCache) *UserService {
	return &UserService{userRepo: userRepo, subjects: subjects}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetOrCreateProfile returns the user for the token's subject, creating it
// from the token claims on first access.
func (s *UserService) GetOrCreateProfile(ctx context.Context, claims identity.Claims) (*models.User, error) {
	user, err := s.userRepo.GetBySubject(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !models.IsNotFound(err) {
		return nil, err
	}

	user, err = s.userRepo.CreateIfMissing(ctx, &models.User{
		ClerkID:   claims.Subject,
		Email:     claims.Email,
		FirstName: optional(claims.FirstName),
		LastName:  optional(claims.LastName),
	})
	if err != nil {
		return nil, err
	}
	// A mapping cached before this row existed would point at a deleted user.
	s.subjects.Forget(ctx, claims.Subject)
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	var update repository.ProfileUpdate

	if in.Email != nil {
		email, err := validation.NormalizeEmail(*in.Email)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		update.Email = &email
	}
	if in.FirstName != nil {
		first, err := validation.NamePart("firstName", *in.FirstName)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		update.FirstName = &first
	}
	if in.LastName != nil {
		last, err := validation.NamePart("lastName", *in.LastName)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		update.LastName = &last
	}

	return s.userRepo.UpdateProfile(ctx, in.SubjectID, update)
}

func (s *UserService) GetFullProfile(ctx context.Context, subjectID string) (*models.User, error) {
	return s.userRepo.GetFullBySubject(ctx, subjectID)
}

// ResolveUserID maps a subject id to the internal user id.
func (s *UserService) ResolveUserID(ctx context.Context, subjectID string) (string, error) {
	return s.subjects.Resolve(ctx, subjectID, func(ctx context.Context) (string, error) {
		return s.userRepo.GetIDBySubject(ctx, subjectID)
	})
}
