package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pawhaven/internal/auth"
	apperrors "pawhaven/internal/errors"
	"pawhaven/internal/model"
	"pawhaven/internal/notify"
	"pawhaven/internal/repository"
)

// RegisterInput carries everything a registration form submits. Role-specific
// fields are ignored for roles they do not apply to.
type RegisterInput struct {
	Email    string
	Password string

	FirstName string
	LastName  string
	Phone     string
	Address   string
	Bio       string
	AvatarURL string

	// Adopter
	LivingSituation string
	PetExperience   []string

	// Volunteer
	Availability []string
	Activities   []string

	// Staff
	Department string
	Position   string

	// Consent keys granted on the form, e.g. "agreed_terms".
	Consents []string
}

// AuthService orchestrates registration, login and password reset across the
// three role tables.
type AuthService interface {
	Register(ctx context.Context, role model.Role, input RegisterInput) (*model.Account, error)
	Login(ctx context.Context, role model.Role, email, password string) (*model.Account, string, error)
	RequestPasswordReset(ctx context.Context, email, baseURL string) (token, link string, err error)
	PerformPasswordReset(ctx context.Context, token, newPassword string) error
}

type authService struct {
	accounts   repository.AccountRepository
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenService
	resetStore auth.ResetTokenStore
	notifier   notify.Notifier
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	accounts repository.AccountRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	resetStore auth.ResetTokenStore,
	notifier notify.Notifier,
) AuthService {
	return &authService{
		accounts:   accounts,
		hasher:     hasher,
		tokens:     tokens,
		resetStore: resetStore,
		notifier:   notifier,
	}
}

// Register creates a new account in the role's table. No session is
// established; the caller logs in separately.
func (s *authService) Register(ctx context.Context, role model.Role, input RegisterInput) (*model.Account, error) {
	email := repository.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperrors.ErrMissingFields
	}

	// Friendly pre-check; the unique index behind Create is the real guard
	// against the concurrent-registration race.
	existing, err := s.accounts.FindByEmail(ctx, role, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Email:           email,
		PasswordHash:    hash,
		Role:            roleLabel(role, input.Position),
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Phone:           input.Phone,
		Address:         input.Address,
		Bio:             input.Bio,
		AvatarURL:       input.AvatarURL,
		Status:          role.DefaultStatus(),
		LivingSituation: input.LivingSituation,
		PetExperience:   input.PetExperience,
		Availability:    input.Availability,
		Activities:      input.Activities,
		Department:      input.Department,
		Consents:        model.BuildConsents(input.Consents),
	}
	if role == model.RoleVolunteer {
		account.BackgroundCheckStatus = model.StatusPending
	}

	if err := s.accounts.Create(ctx, role, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account.Redacted(), nil
}

// Login authenticates against one role table and issues a session token.
// The role is authoritative: valid credentials submitted against the wrong
// role fail exactly like a wrong password.
func (s *authService) Login(ctx context.Context, role model.Role, email, password string) (*model.Account, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, role, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("find account: %w", err)
	}

	// Always run the hash comparison, against a dummy digest on a lookup
	// miss, so timing does not reveal whether the email exists.
	digest := ""
	if account != nil {
		digest = account.PasswordHash
	}
	match := s.hasher.Verify(password, digest)
	if account == nil || !match {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSession(account.ID, role)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	return account.Redacted(), token, nil
}

// RequestPasswordReset searches the role tables in priority order for the
// email, issues a reset token for the first match and hands the link to the
// notifier. Unknown emails are reported as such, unlike login.
func (s *authService) RequestPasswordReset(ctx context.Context, email, baseURL string) (string, string, error) {
	if repository.NormalizeEmail(email) == "" {
		return "", "", apperrors.ErrMissingFields
	}

	var account *model.Account
	var role model.Role
	for _, r := range model.ResetLookupOrder {
		found, err := s.accounts.FindByEmail(ctx, r, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return "", "", fmt.Errorf("find account: %w", err)
		}
		account, role = found, r
		break
	}
	if account == nil {
		return "", "", apperrors.ErrAccountNotFound
	}

	token, _, err := s.tokens.IssueReset(account.ID, role)
	if err != nil {
		return "", "", fmt.Errorf("issue reset token: %w", err)
	}

	link := strings.TrimRight(baseURL, "/") + "/reset-password?token=" + token
	if err := s.notifier.SendPasswordReset(ctx, account.Email, link); err != nil {
		return "", "", fmt.Errorf("send reset link: %w", err)
	}

	return token, link, nil
}

// PerformPasswordReset verifies a reset token and replaces the account's
// password hash. Nothing else on the account is touched. The token's jti is
// marked consumed so it cannot be replayed within its validity window.
func (s *authService) PerformPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperrors.ErrMissingFields
	}

	claims, err := s.tokens.Verify(token, auth.PurposeReset)
	if err != nil {
		return apperrors.ErrInvalidResetToken
	}

	if used, _ := s.resetStore.IsUsed(ctx, claims.ID); used {
		return apperrors.ErrInvalidResetToken
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return apperrors.ErrInvalidResetToken
	}

	account, err := s.accounts.FindByID(ctx, claims.Role, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePasswordHash(ctx, claims.Role, account.ID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("update password hash: %w", err)
	}

	if claims.ExpiresAt != nil {
		_ = s.resetStore.MarkUsed(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	}

	return nil
}

// roleLabel picks the role string stored on the record. Staff accounts carry
// their refined position; everyone else carries the base role.
func roleLabel(role model.Role, position string) string {
	if role != model.RoleStaff {
		return string(role)
	}
	switch position {
	case model.StaffPositionAdmin, model.StaffPositionManager, model.StaffPositionCoordinator:
		return position
	default:
		return model.StaffPositionStaff
	}
}
