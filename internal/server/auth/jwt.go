// Package auth issues and checks the ledger's bearer credentials: short-lived
// single-use operation tokens, longer-lived session tokens and TOTP codes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "typ" claim.
const (
	TypeOperation = "operation"
	TypeSession   = "session"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the registered claims plus the token type. Subject holds the
// account ID and ID (jti) makes every operation token unique.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

// Issued describes a freshly signed token.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret       []byte
	operationTTL time.Duration
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewIssuer(secret []byte, operationTTL, sessionTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, operationTTL: operationTTL, sessionTTL: sessionTTL, now: time.Now}
}

func (i *Issuer) OperationTTL() time.Duration { return i.operationTTL }

func (i *Issuer) IssueOperation(accountID string) (*Issued, error) {
	return i.issue(accountID, TypeOperation, i.operationTTL)
}

func (i *Issuer) IssueSession(accountID string) (*Issued, error) {
	return i.issue(accountID, TypeSession, i.sessionTTL)
}

func (i *Issuer) issue(accountID, typ string, ttl time.Duration) (*Issued, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Issued{Token: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse verifies signature, expiry and type. Expired tokens yield
// ErrTokenExpired; anything else that fails yields ErrInvalidToken.
func (i *Issuer) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Type != wantType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
