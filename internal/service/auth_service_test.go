package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pawhaven/internal/auth"
	apperrors "pawhaven/internal/errors"
	"pawhaven/internal/model"
	"pawhaven/internal/repository"
)

// memoryRepo is an in-memory AccountRepository with the same contract as the
// GORM implementation: per-role tables, unique normalized emails,
// gorm.ErrRecordNotFound on misses.
type memoryRepo struct {
	mu     sync.Mutex
	tables map[model.Role]map[string]*model.Account
}

func newMemoryRepo() *memoryRepo {
	tables := make(map[model.Role]map[string]*model.Account)
	for _, role := range model.ResetLookupOrder {
		tables[role] = make(map[string]*model.Account)
	}
	return &memoryRepo{tables: tables}
}

func (r *memoryRepo) Create(_ context.Context, role model.Role, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := repository.NormalizeEmail(account.Email)
	if _, exists := r.tables[role][email]; exists {
		return apperrors.ErrDuplicateEmail
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.Email = email
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := *account
	r.tables[role][email] = &stored
	return nil
}

func (r *memoryRepo) FindByEmail(_ context.Context, role model.Role, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.tables[role][repository.NormalizeEmail(email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *account
	return &found, nil
}

func (r *memoryRepo) FindByID(_ context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.tables[role] {
		if account.ID == id {
			found := *account
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) UpdatePasswordHash(_ context.Context, role model.Role, id uuid.UUID, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.tables[role] {
		if account.ID == id {
			account.PasswordHash = newHash
			account.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memoryRepo) UpdateProfile(ctx context.Context, role model.Role, id uuid.UUID, updates map[string]interface{}) (*model.Account, error) {
	r.mu.Lock()
	for _, account := range r.tables[role] {
		if account.ID == id {
			if v, ok := updates["first_name"].(string); ok {
				account.FirstName = v
			}
			if v, ok := updates["bio"].(string); ok {
				account.Bio = v
			}
			account.UpdatedAt = time.Now()
			r.mu.Unlock()
			return r.FindByID(ctx, role, id)
		}
	}
	r.mu.Unlock()
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) ListByStatus(_ context.Context, role model.Role, statuses []string) ([]model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Account
	for _, account := range r.tables[role] {
		for _, status := range statuses {
			if account.Status == status {
				out = append(out, *account)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) delete(role model.Role, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables[role], repository.NormalizeEmail(email))
}

func (r *memoryRepo) count(role model.Role) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables[role])
}

// memoryResetStore marks jtis in a map.
type memoryResetStore struct {
	mu   sync.Mutex
	used map[string]bool
}

func newMemoryResetStore() *memoryResetStore {
	return &memoryResetStore{used: make(map[string]bool)}
}

func (s *memoryResetStore) MarkUsed(_ context.Context, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[jti] = true
	return nil
}

func (s *memoryResetStore) IsUsed(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used[jti], nil
}

// recordingNotifier captures the last reset link it was asked to deliver.
type recordingNotifier struct {
	email string
	link  string
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	n.email = email
	n.link = link
	return nil
}

type authFixture struct {
	svc      AuthService
	repo     *memoryRepo
	tokens   *auth.TokenService
	notifier *recordingNotifier
	reset    *memoryResetStore
}

func newAuthFixture(t *testing.T, sessionTTL, resetTTL time.Duration) *authFixture {
	t.Helper()
	repo := newMemoryRepo()
	hasher, err := auth.NewPasswordHasher()
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("test-secret", sessionTTL, resetTTL)
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	reset := newMemoryResetStore()
	return &authFixture{
		svc:      NewAuthService(repo, hasher, tokens, reset, notifier),
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		reset:    reset,
	}
}

func adopterInput(email, password string) RegisterInput {
	return RegisterInput{
		Email:           email,
		Password:        password,
		FirstName:       "Maria",
		LastName:        "Santos",
		Phone:           "+63-912-555-0101",
		LivingSituation: "own_house",
		Consents:        []string{"agreed_terms", "wants_updates"},
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		f := newAuthFixture(t, time.Hour, time.Hour)

		account, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("Test@Example.COM", "password123"))
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, "test@example.com", account.Email)
		assert.Empty(t, account.PasswordHash)
		assert.Equal(t, "adopter", account.Role)
		assert.Equal(t, model.StatusActive, account.Status)
		require.Len(t, account.Consents, 2)
		assert.Equal(t, "Terms of Service and Privacy Policy", account.Consents[0].Type)
		assert.True(t, account.Consents[0].Granted)
		assert.False(t, account.Consents[0].GrantedAt.IsZero())

		// The stored record keeps the hash, and it is not the plaintext.
		stored, err := f.repo.FindByEmail(ctx, model.RoleAdopter, "test@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "password123", stored.PasswordHash)
	})

	t.Run("duplicate email in same role", func(t *testing.T) {
		f := newAuthFixture(t, time.Hour, time.Hour)

		_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("dup@example.com", "password123"))
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, model.RoleAdopter, adopterInput("dup@example.com", "different"))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		assert.Equal(t, 1, f.repo.count(model.RoleAdopter))
	})

	t.Run("same email across roles is allowed", func(t *testing.T) {
		f := newAuthFixture(t, time.Hour, time.Hour)

		_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("both@example.com", "password123"))
		require.NoError(t, err)
		_, err = f.svc.Register(ctx, model.RoleVolunteer, adopterInput("both@example.com", "password123"))
		require.NoError(t, err)
	})

	t.Run("volunteer defaults", func(t *testing.T) {
		f := newAuthFixture(t, time.Hour, time.Hour)

		account, err := f.svc.Register(ctx, model.RoleVolunteer, RegisterInput{
			Email:        "vol@example.com",
			Password:     "password123",
			FirstName:    "Jose",
			LastName:     "Reyes",
			Availability: []string{"Weekend"},
			Consents:     []string{"consent_background_check"},
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, account.Status)
		assert.Equal(t, model.StatusPending, account.BackgroundCheckStatus)
	})

	t.Run("staff position refines role", func(t *testing.T) {
		f := newAuthFixture(t, time.Hour, time.Hour)

		account, err := f.svc.Register(ctx, model.RoleStaff, RegisterInput{
			Email:     "mgr@example.com",
			Password:  "password123",
			FirstName: "Ana",
			LastName:  "Cruz",
			Position:  model.StaffPositionManager,
		})
		require.NoError(t, err)
		assert.Equal(t, "manager", account.Role)

		account, err = f.svc.Register(ctx, model.RoleStaff, RegisterInput{
			Email:     "plain@example.com",
			Password:  "password123",
			FirstName: "Ben",
			LastName:  "Lim",
		})
		require.NoError(t, err)
		assert.Equal(t, "staff", account.Role)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newAuthFixture(t, time.Hour, time.Hour)

		_, err := f.svc.Register(ctx, model.RoleAdopter, RegisterInput{Email: "", Password: "password123"})
		assert.ErrorIs(t, err, apperrors.ErrMissingFields)
		_, err = f.svc.Register(ctx, model.RoleAdopter, RegisterInput{Email: "a@example.com", Password: ""})
		assert.ErrorIs(t, err, apperrors.ErrMissingFields)
	})
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	created, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)

	account, token, err := f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "p1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, created.ID, account.ID)
	assert.Empty(t, account.PasswordHash)

	claims, err := f.tokens.Verify(token, auth.PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), claims.AccountID)
	assert.Equal(t, model.RoleAdopter, claims.Role)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)

	_, _, wrongPassword := f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "nope")
	_, _, unknownEmail := f.svc.Login(ctx, model.RoleAdopter, "ghost@x.com", "p1")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthService_LoginRoleIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)

	// Valid pair, wrong table.
	_, _, err = f.svc.Login(ctx, model.RoleStaff, "a@x.com", "p1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "p1")
	assert.NoError(t, err)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)

	token, link, err := f.svc.RequestPasswordReset(ctx, "a@x.com", "http://localhost:5500")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:5500/reset-password?token="))
	assert.Contains(t, link, token)
	assert.Equal(t, "a@x.com", f.notifier.email)
	assert.Equal(t, link, f.notifier.link)

	require.NoError(t, f.svc.PerformPasswordReset(ctx, token, "p2"))

	_, _, err = f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "p1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "p2")
	assert.NoError(t, err)

	// The jti is consumed; replaying the same token is rejected.
	err = f.svc.PerformPasswordReset(ctx, token, "p3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
	_, _, err = f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "p2")
	assert.NoError(t, err)
}

func TestAuthService_RequestResetUnknownEmail(t *testing.T) {
	f := newAuthFixture(t, time.Hour, time.Hour)

	_, _, err := f.svc.RequestPasswordReset(context.Background(), "ghost@x.com", "http://localhost:5500")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAuthService_RequestResetPriorityOrder(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	// Same email as volunteer and staff; no adopter account. The volunteer
	// table wins because lookup order is adopter, volunteer, staff.
	_, err := f.svc.Register(ctx, model.RoleVolunteer, adopterInput("shared@x.com", "p1"))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, model.RoleStaff, adopterInput("shared@x.com", "p2"))
	require.NoError(t, err)

	token, _, err := f.svc.RequestPasswordReset(ctx, "shared@x.com", "http://localhost:5500")
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token, auth.PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, claims.Role)
}

func TestAuthService_PerformResetExpiredToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, -time.Minute)

	_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)

	token, _, err := f.svc.RequestPasswordReset(ctx, "a@x.com", "http://localhost:5500")
	require.NoError(t, err)

	err = f.svc.PerformPasswordReset(ctx, token, "p2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestAuthService_PerformResetGarbageToken(t *testing.T) {
	f := newAuthFixture(t, time.Hour, time.Hour)

	err := f.svc.PerformPasswordReset(context.Background(), "not-a-token", "p2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	err = f.svc.PerformPasswordReset(context.Background(), "", "p2")
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}

func TestAuthService_PerformResetDeletedAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)

	token, _, err := f.svc.RequestPasswordReset(ctx, "a@x.com", "http://localhost:5500")
	require.NoError(t, err)

	// Account removed between issuance and use.
	f.repo.delete(model.RoleAdopter, "a@x.com")

	err = f.svc.PerformPasswordReset(ctx, token, "p2")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAuthService_SessionTokenRejectedForReset(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Hour, time.Hour)

	_, err := f.svc.Register(ctx, model.RoleAdopter, adopterInput("a@x.com", "p1"))
	require.NoError(t, err)
	_, session, err := f.svc.Login(ctx, model.RoleAdopter, "a@x.com", "p1")
	require.NoError(t, err)

	// A login token must not authorize a password change.
	err = f.svc.PerformPasswordReset(ctx, session, "p2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}
