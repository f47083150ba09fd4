package jwt

import (
	"docmanager/internal/models"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	uuid "github.com/satori/go.uuid"
)

const MinSecretLen = 32

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	jwtlib.RegisteredClaims
}

// Issuer signs and verifies HS256 identity tokens for one issuer and audience.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	clock    func() time.Time
}

func NewIssuer(secret string, issuer string, audience string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLen)
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("jwt issuer and audience are required")
	}

	return &Issuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		clock:    time.Now,
	}, nil
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Generate returns the signed token and its claims. The claims ID is unique per token.
func (i *Issuer) Generate(user *models.User) (string, *Claims, error) {
	now := i.clock()

	claims := &Claims{
		Email: user.Email,
		Role:  user.Role.String(),
		Name:  user.Name,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewV4().String(),
			Issuer:    i.issuer,
			Audience:  jwtlib.ClaimStrings{i.audience},
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}

	return token, claims, nil
}

func (i *Issuer) Parse(token string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if t.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	},
		jwtlib.WithIssuer(i.issuer),
		jwtlib.WithAudience(i.audience),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(i.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
