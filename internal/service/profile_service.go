package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pawhaven/internal/cache"
	apperrors "pawhaven/internal/errors"
	"pawhaven/internal/model"
	"pawhaven/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// UpdateProfileInput carries the mutable, non-security-relevant profile
// fields. Nil pointers mean "leave unchanged".
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	Address         *string
	Bio             *string
	AvatarURL       *string
	LivingSituation *string
	Department      *string
}

// ProfileService exposes account reads and profile mutation for the
// display/update collaborators. Everything it returns is redacted.
type ProfileService interface {
	GetAccount(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error)
	UpdateProfile(ctx context.Context, role model.Role, id uuid.UUID, input UpdateProfileInput) (*model.Account, error)
	ListByStatus(ctx context.Context, role model.Role, statuses []string) ([]model.Account, error)
}

type profileService struct {
	accounts repository.AccountRepository
	cache    *cache.Client
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(accounts repository.AccountRepository, cache *cache.Client) ProfileService {
	return &profileService{accounts: accounts, cache: cache}
}

func (s *profileService) cacheKey(role model.Role, id uuid.UUID) string {
	return fmt.Sprintf("account:%s:%s", role, id.String())
}

// GetAccount retrieves an account by role and id with read-through caching.
// Only the redacted form is ever cached.
func (s *profileService) GetAccount(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(role, id)); data != nil {
		var cached model.Account
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	account, err := s.accounts.FindByID(ctx, role, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	redacted := account.Redacted()
	if payload, err := json.Marshal(redacted); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(role, id), payload, profileCacheTTL)
	}
	return redacted, nil
}

// UpdateProfile applies a partial profile update and invalidates the cache.
func (s *profileService) UpdateProfile(ctx context.Context, role model.Role, id uuid.UUID, input UpdateProfileInput) (*model.Account, error) {
	updates := map[string]interface{}{}
	setIf(updates, "first_name", input.FirstName)
	setIf(updates, "last_name", input.LastName)
	setIf(updates, "phone", input.Phone)
	setIf(updates, "address", input.Address)
	setIf(updates, "bio", input.Bio)
	setIf(updates, "avatar_url", input.AvatarURL)
	setIf(updates, "living_situation", input.LivingSituation)
	setIf(updates, "department", input.Department)

	account, err := s.accounts.UpdateProfile(ctx, role, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(role, id))
	return account.Redacted(), nil
}

// ListByStatus lists accounts in the given statuses, redacted.
func (s *profileService) ListByStatus(ctx context.Context, role model.Role, statuses []string) ([]model.Account, error) {
	accounts, err := s.accounts.ListByStatus(ctx, role, statuses)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	redacted := make([]model.Account, 0, len(accounts))
	for i := range accounts {
		redacted = append(redacted, *accounts[i].Redacted())
	}
	return redacted, nil
}

func setIf(updates map[string]interface{}, col string, val *string) {
	if val != nil {
		updates[col] = *val
	}
}
