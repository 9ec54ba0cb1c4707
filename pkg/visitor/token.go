package visitor

import (
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingMethod = jwt.SigningMethodHS256

// Claims is the payload of the visitor cookie.
type Claims struct {
	VisitorID uuid.UUID `json:"vid"`
	jwt.RegisteredClaims
}

// Mint issues a signed token identifying visitorID.
func Mint(cfg config.VisitorConfig, now time.Time, visitorID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("visitor secret is required")
	}
	if cfg.TTL <= 0 {
		return "", fmt.Errorf("visitor ttl must be positive")
	}
	if visitorID == uuid.Nil {
		return "", fmt.Errorf("visitor id is required")
	}

	claims := Claims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   visitorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing visitor token: %w", err)
	}
	return signed, nil
}

// Parse validates the token string and returns its claims.
func Parse(cfg config.VisitorConfig, tokenString string, now time.Time) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("visitor secret is required")
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims.VisitorID == uuid.Nil {
		return nil, fmt.Errorf("visitor token carries no visitor id")
	}
	return claims, nil
}
