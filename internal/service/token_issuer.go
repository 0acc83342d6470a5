package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-role-auth/internal/config"
	"go-role-auth/internal/model"
	"go-role-auth/pkg/apierror"
)

// TokenLifetime is fixed; callers cannot ask for a different expiry.
const TokenLifetime = 7 * 24 * time.Hour

// TokenClaims is the claim set carried by every issued bearer token.
type TokenClaims struct {
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	NameID string   `json:"nameid"`
	Roles  []string `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

func NewTokenIssuer(setting config.JWTSetting) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(setting.SecretKey),
		issuer:   setting.ValidIssuer,
		audience: setting.ValidAudience,
		leeway:   setting.ClockSkew,
		now:      time.Now,
	}
}

// Issue signs a token for user. The role claim is a snapshot of roles and is
// never refreshed for the lifetime of the token.
func (t *TokenIssuer) Issue(user model.User, roles []string) (string, error) {
	if user.ID == "" {
		return "", errors.New("issue token: user id is empty")
	}

	now := t.now().UTC()
	claimRoles := make([]string, len(roles))
	copy(claimRoles, roles)

	claims := TokenClaims{
		Email:  user.Email,
		Name:   user.FullName,
		NameID: user.ID,
		Roles:  claimRoles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Validate accepts only HS256 tokens signed with the configured secret whose
// issuer and audience match and whose expiry, allowing for clock skew, has
// not passed. Every failure collapses into the same unauthorized error.
func (t *TokenIssuer) Validate(tokenString string) (*model.AuthClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(t.leeway),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, invalidToken()
	}

	userID := claims.Subject
	if userID == "" {
		userID = claims.NameID
	}
	if userID == "" {
		return nil, invalidToken()
	}

	return &model.AuthClaims{
		UserID:    userID,
		Email:     claims.Email,
		FullName:  claims.Name,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func invalidToken() error {
	return apierror.Unauthorized(model.ErrInvalidToken.Error())
}
