package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"pawhaven/internal/model"
)

// TokenPurpose tags what a token authorizes. A session token is never
// accepted where a reset token is expected, and vice versa.
type TokenPurpose string

const (
	PurposeSession TokenPurpose = "session"
	PurposeReset   TokenPurpose = "password_reset"
)

var (
	// ErrTokenExpired is returned when a token's validity window has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed, tampered or wrong-purpose tokens.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims represents JWT claims carried by session and reset tokens.
type Claims struct {
	AccountID string       `json:"account_id"`
	Role      model.Role   `json:"role"`
	Purpose   TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed, expiring tokens. It is the
// only component that holds the signing secret.
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewTokenService creates a token service. The secret comes from
// configuration; an empty secret is a programming error caught at startup.
func NewTokenService(secret string, sessionTTL, resetTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret must not be empty")
	}
	return &TokenService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}, nil
}

// IssueSession generates a session token proving a successful login.
func (s *TokenService) IssueSession(accountID uuid.UUID, role model.Role) (string, error) {
	return s.issue(accountID, role, PurposeSession, s.sessionTTL)
}

// IssueReset generates a reset token authorizing one password change. The
// jti is returned so callers can mark the token consumed.
func (s *TokenService) IssueReset(accountID uuid.UUID, role model.Role) (token string, jti string, err error) {
	jti = uuid.NewString()
	token, err = s.issueWithID(accountID, role, PurposeReset, s.resetTTL, jti)
	return token, jti, err
}

func (s *TokenService) issue(accountID uuid.UUID, role model.Role, purpose TokenPurpose, ttl time.Duration) (string, error) {
	return s.issueWithID(accountID, role, purpose, ttl, uuid.NewString())
}

func (s *TokenService) issueWithID(accountID uuid.UUID, role model.Role, purpose TokenPurpose, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: accountID.String(),
		Role:      role,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns its claims. Expiry and every other
// failure are distinguished for callers that want different logging, though
// the flows collapse both into one user-visible failure.
func (s *TokenService) Verify(tokenString string, purpose TokenPurpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
