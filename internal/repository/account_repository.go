package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "pawhaven/internal/errors"
	"pawhaven/internal/model"
)

// AccountRepository defines credential persistence operations. A single
// implementation serves all three role tables; the role parameter selects
// the table.
type AccountRepository interface {
	Create(ctx context.Context, role model.Role, account *model.Account) error
	FindByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error)
	FindByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error)
	UpdatePasswordHash(ctx context.Context, role model.Role, id uuid.UUID, newHash string) error
	UpdateProfile(ctx context.Context, role model.Role, id uuid.UUID, updates map[string]interface{}) (*model.Account, error)
	ListByStatus(ctx context.Context, role model.Role, statuses []string) ([]model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository builds a GORM-backed repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) table(ctx context.Context, role model.Role) *gorm.DB {
	return r.db.WithContext(ctx).Table(role.TableName())
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
// Uniqueness is enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new account. The per-table unique index on email is the
// authoritative duplicate guard; a constraint violation surfaces as
// ErrDuplicateEmail regardless of any earlier existence check.
func (r *accountRepository) Create(ctx context.Context, role model.Role, account *model.Account) error {
	account.Email = NormalizeEmail(account.Email)
	if err := r.table(ctx, role).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByEmail looks up an account by normalized email within one role table.
func (r *accountRepository) FindByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error) {
	var account model.Account
	err := r.table(ctx, role).Where("email = ?", NormalizeEmail(email)).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByID looks up an account by id within one role table.
func (r *accountRepository) FindByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	err := r.table(ctx, role).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdatePasswordHash replaces the stored password hash and nothing else.
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, role model.Role, id uuid.UUID, newHash string) error {
	res := r.table(ctx, role).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": newHash,
		"updated_at":    time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// profileColumns are the only columns UpdateProfile may touch. Credentials
// and lifecycle fields go through their dedicated operations.
var profileColumns = map[string]bool{
	"first_name":       true,
	"last_name":        true,
	"phone":            true,
	"address":          true,
	"bio":              true,
	"avatar_url":       true,
	"living_situation": true,
	"department":       true,
}

// UpdateProfile applies a partial update of profile fields and returns the
// refreshed record.
func (r *accountRepository) UpdateProfile(ctx context.Context, role model.Role, id uuid.UUID, updates map[string]interface{}) (*model.Account, error) {
	filtered := make(map[string]interface{}, len(updates)+1)
	for col, val := range updates {
		if profileColumns[col] {
			filtered[col] = val
		}
	}
	if len(filtered) > 0 {
		filtered["updated_at"] = time.Now()
		res := r.table(ctx, role).Where("id = ?", id).Updates(filtered)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, role, id)
}

// ListByStatus returns accounts in the given lifecycle statuses, most
// recently created first.
func (r *accountRepository) ListByStatus(ctx context.Context, role model.Role, statuses []string) ([]model.Account, error) {
	var accounts []model.Account
	q := r.table(ctx, role)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
