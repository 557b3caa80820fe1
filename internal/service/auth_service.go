package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/practicum-admin-api/internal/models"
	appErrors "github.com/noah-isme/practicum-admin-api/pkg/errors"
)

// AuthConfig holds the token verification settings shared with the identity provider.
type AuthConfig struct {
	Secret      string
	Issuer      string
	AdminEmails []string
}

// AuthService verifies access tokens issued by the external identity provider
// and decides whether the bearer may use the admin console.
type AuthService struct {
	secret []byte
	issuer string
	admins map[string]struct{}
	now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(cfg AuthConfig) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if e := normalizeEmail(email); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AuthService{secret: []byte(cfg.Secret), issuer: cfg.Issuer, admins: admins, now: time.Now}
}

// ValidateToken parses and verifies an HS256 access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	claims.Email = normalizeEmail(claims.Email)
	return claims, nil
}

// IsAdmin reports whether email is on the admin allowlist.
func (s *AuthService) IsAdmin(email string) bool {
	_, ok := s.admins[normalizeEmail(email)]
	return ok
}

// IssueToken signs claims with the shared secret. Used by tests and local tooling.
func (s *AuthService) IssueToken(email string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := &models.AdminClaims{
		Email: normalizeEmail(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   normalizeEmail(email),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
